package server

import (
	"html/template"
)

// statusPage renders the configuration, the entry count and the latest entries
var statusPage = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="5">
<title>{{.Name}} status</title>
<style>
body { font-family: monospace; margin: 2em; }
table { border-collapse: collapse; }
td, th { padding: 2px 8px; text-align: left; }
.DEBUG { color: #888; } .WARNING { color: #b58900; } .ERROR, .CRITICAL { color: #dc322f; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<h2>Configuration</h2>
<table>
{{- range .Config}}
<tr><th>{{.Key}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
<h2>Recent logs ({{.Count}} buffered)</h2>
<table>
{{- range .Entries}}
<tr class="{{.Level}}"><td>{{.Timestamp.Format "2006-01-02 15:04:05"}}</td><td>{{.Level}}</td><td>{{.Message}}</td></tr>
{{- else}}
<tr><td>No entries yet</td></tr>
{{- end}}
</table>
</body>
</html>
`))
