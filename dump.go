package logsim

import (
	"bytes"

	"github.com/davecgh/go-spew/spew"
)

// dumper renders structures compactly for diagnostics
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true, // Cleaner for logs
	DisableCapacities:       true, // Less noise
	SortKeys:                true, // Consistent map output
}

// Dump renders v with type information, without the trailing newline
func Dump(v any) string {
	var b bytes.Buffer
	dumper.Fdump(&b, v)
	return string(bytes.TrimSpace(b.Bytes()))
}
