// Package formatter renders log records through printf-style templates such as
// "%(asctime)s - %(name)s - %(levelname)s - %(message)s", or as JSON lines.
package formatter

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/logsim/sanitizer"
)

// JSONTemplate selects JSON-lines output instead of a template
const JSONTemplate = "json"

// DefaultTimestampFormat renders %(asctime)s as "2024-01-15 09:30:00,123"
const DefaultTimestampFormat = "2006-01-02 15:04:05,000"

// Record is the data available to a template
type Record struct {
	Time    time.Time
	Name    string
	Level   string
	LevelNo int64
	Message string
}

// field identifies a template placeholder
type field int

const (
	fieldLiteral field = iota
	fieldAsctime
	fieldName
	fieldLevelname
	fieldLevelno
	fieldMessage
	fieldCreated
	fieldMsecs
	fieldProcess
)

var fieldNames = map[string]field{
	"asctime":   fieldAsctime,
	"name":      fieldName,
	"levelname": fieldLevelname,
	"levelno":   fieldLevelno,
	"message":   fieldMessage,
	"created":   fieldCreated,
	"msecs":     fieldMsecs,
	"process":   fieldProcess,
}

// segment is either literal text or a placeholder with its fmt verb
type segment struct {
	field   field
	literal string
	verb    string // e.g. "%-8s", empty for plain "%(x)s"
}

// Formatter manages the buffered formatting of log records.
// A Formatter is not safe for concurrent use.
type Formatter struct {
	sanitizer       *sanitizer.Sanitizer
	timestampFormat string
	template        string
	segments        []segment
	json            bool
	err             error
	buf             []byte
}

// New creates a formatter with the provided sanitizer
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New(sanitizer.HexEncode)
	}
	f := &Formatter{
		sanitizer:       san,
		timestampFormat: DefaultTimestampFormat,
		buf:             make([]byte, 0, 256),
	}
	return f.Template("%(message)s")
}

// Template compiles the record template. The special value "json" selects
// JSON-lines output. A compile failure is reported by Err.
func (f *Formatter) Template(tmpl string) *Formatter {
	f.template = tmpl
	f.err = nil
	if strings.TrimSpace(tmpl) == JSONTemplate {
		f.json = true
		f.segments = nil
		return f
	}
	f.json = false
	f.segments, f.err = compile(tmpl)
	return f
}

// TimestampFormat sets the Go time layout for %(asctime)s and the JSON time field
func (f *Formatter) TimestampFormat(layout string) *Formatter {
	if layout != "" {
		f.timestampFormat = layout
	}
	return f
}

// Err returns the template compile error, if any
func (f *Formatter) Err() error {
	return f.err
}

// Format renders r followed by a newline. The returned slice is reused by the
// next call.
func (f *Formatter) Format(r Record) []byte {
	f.buf = f.buf[:0]
	message := f.sanitizer.Sanitize(r.Message)

	if f.json {
		return f.formatJSON(r, message)
	}

	for _, seg := range f.segments {
		if seg.field == fieldLiteral {
			f.buf = append(f.buf, seg.literal...)
			continue
		}
		f.appendField(seg, r, message)
	}

	f.buf = append(f.buf, '\n')
	return f.buf
}

// appendField renders one placeholder
func (f *Formatter) appendField(seg segment, r Record, message string) {
	var val any
	switch seg.field {
	case fieldAsctime:
		if seg.verb == "" {
			f.buf = r.Time.AppendFormat(f.buf, f.timestampFormat)
			return
		}
		val = r.Time.Format(f.timestampFormat)
	case fieldName:
		val = r.Name
	case fieldLevelname:
		val = r.Level
	case fieldLevelno:
		if seg.verb == "" {
			f.buf = strconv.AppendInt(f.buf, r.LevelNo, 10)
			return
		}
		val = r.LevelNo
	case fieldMessage:
		val = message
	case fieldCreated:
		val = float64(r.Time.UnixNano()) / float64(time.Second)
	case fieldMsecs:
		val = r.Time.Nanosecond() / int(time.Millisecond)
	case fieldProcess:
		val = os.Getpid()
	}

	if seg.verb == "" {
		f.buf = fmt.Append(f.buf, val)
		return
	}
	f.buf = fmt.Appendf(f.buf, seg.verb, val)
}

// formatJSON renders {"time","name","level","message"}
func (f *Formatter) formatJSON(r Record, message string) []byte {
	f.buf = append(f.buf, `{"time":`...)
	f.buf = sanitizer.AppendJSONString(f.buf, r.Time.Format(f.timestampFormat))
	f.buf = append(f.buf, `,"name":`...)
	f.buf = sanitizer.AppendJSONString(f.buf, r.Name)
	f.buf = append(f.buf, `,"level":`...)
	f.buf = sanitizer.AppendJSONString(f.buf, r.Level)
	f.buf = append(f.buf, `,"message":`...)
	f.buf = sanitizer.AppendJSONString(f.buf, message)
	f.buf = append(f.buf, '}', '\n')
	return f.buf
}

// compile parses a template into segments. Placeholders have the form
// %(field)[flags][width][.precision]verb with verb one of s, d, f; "%%" is a
// literal percent sign.
func compile(tmpl string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{field: fieldLiteral, literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		if i+1 < len(tmpl) && tmpl[i+1] == '%' {
			lit.WriteByte('%')
			i++
			continue
		}
		if i+1 >= len(tmpl) || tmpl[i+1] != '(' {
			return nil, fmt.Errorf("formatter: stray '%%' at offset %d in template %q", i, tmpl)
		}

		end := strings.IndexByte(tmpl[i+2:], ')')
		if end < 0 {
			return nil, fmt.Errorf("formatter: unterminated placeholder at offset %d in template %q", i, tmpl)
		}
		name := tmpl[i+2 : i+2+end]
		fld, ok := fieldNames[name]
		if !ok {
			return nil, fmt.Errorf("formatter: unknown placeholder %q", name)
		}

		// flags, width and precision, then the conversion
		j := i + 2 + end + 1
		specStart := j
		for j < len(tmpl) && strings.IndexByte("-+ 0#.0123456789", tmpl[j]) >= 0 {
			j++
		}
		if j >= len(tmpl) || strings.IndexByte("sdf", tmpl[j]) < 0 {
			return nil, fmt.Errorf("formatter: placeholder %q has no conversion (s, d or f)", name)
		}
		spec := tmpl[specStart:j]
		verb := tmpl[j]

		flushLiteral()
		seg := segment{field: fld}
		if spec != "" || verb != 's' {
			seg.verb = "%" + spec + verbFor(fld, verb)
		}
		segs = append(segs, seg)
		i = j
	}
	flushLiteral()

	return segs, nil
}

// verbFor maps a printf conversion to a Go verb valid for the field's value type
func verbFor(fld field, verb byte) string {
	switch verb {
	case 'd':
		switch fld {
		case fieldLevelno, fieldMsecs, fieldProcess:
			return "d"
		}
		return "v"
	case 'f':
		if fld == fieldCreated {
			return "f"
		}
		return "v"
	default:
		return "v"
	}
}
