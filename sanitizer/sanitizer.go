// Package sanitizer neutralises control and non-printable characters in log
// messages before they are written to a terminal or a log file.
package sanitizer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Mode selects how offending runes are transformed
type Mode int

const (
	None      Mode = iota // Pass input through unchanged
	HexEncode             // Replace non-printable runes with "<XXYY>" of their UTF-8 bytes
	Strip                 // Drop control runes
	Escape                // Backslash-escape control runes JSON style
)

// Sanitizer rewrites strings according to its mode.
// A Sanitizer reuses an internal buffer and is not safe for concurrent use.
type Sanitizer struct {
	mode Mode
	buf  []byte
}

// New creates a sanitizer for mode
func New(mode Mode) *Sanitizer {
	return &Sanitizer{mode: mode, buf: make([]byte, 0, 256)}
}

// Mode returns the configured mode
func (s *Sanitizer) Mode() Mode {
	return s.mode
}

// Sanitize applies the mode to data
func (s *Sanitizer) Sanitize(data string) string {
	if s.mode == None || clean(data, s.mode) {
		return data
	}

	s.buf = s.buf[:0]
	for _, r := range data {
		switch s.mode {
		case HexEncode:
			if strconv.IsPrint(r) {
				s.buf = utf8.AppendRune(s.buf, r)
				continue
			}
			var runeBytes [utf8.UTFMax]byte
			n := utf8.EncodeRune(runeBytes[:], r)
			s.buf = append(s.buf, '<')
			s.buf = hex.AppendEncode(s.buf, runeBytes[:n])
			s.buf = append(s.buf, '>')

		case Strip:
			if !unicode.IsControl(r) {
				s.buf = utf8.AppendRune(s.buf, r)
			}

		case Escape:
			if unicode.IsControl(r) {
				s.buf = appendEscaped(s.buf, r)
			} else {
				s.buf = utf8.AppendRune(s.buf, r)
			}
		}
	}
	return string(s.buf)
}

// clean reports whether data needs no rewriting under mode
func clean(data string, mode Mode) bool {
	for _, r := range data {
		switch mode {
		case HexEncode:
			if !strconv.IsPrint(r) {
				return false
			}
		case Strip, Escape:
			if unicode.IsControl(r) {
				return false
			}
		}
	}
	return true
}

// appendEscaped writes the JSON-style escape of a control rune
func appendEscaped(buf []byte, r rune) []byte {
	switch r {
	case '\n':
		return append(buf, '\\', 'n')
	case '\r':
		return append(buf, '\\', 'r')
	case '\t':
		return append(buf, '\\', 't')
	case '\b':
		return append(buf, '\\', 'b')
	case '\f':
		return append(buf, '\\', 'f')
	default:
		return append(buf, fmt.Sprintf("\\u%04x", r)...)
	}
}

// AppendJSONString appends s as a quoted JSON string, escaping quotes,
// backslashes and control characters.
func AppendJSONString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= ' ' && c != '"' && c != '\\' && c != 0x7f {
			start := i
			for i < len(s) && s[i] >= ' ' && s[i] != '"' && s[i] != '\\' && s[i] != 0x7f {
				i++
			}
			buf = append(buf, s[start:i]...)
			continue
		}
		switch c {
		case '\\', '"':
			buf = append(buf, '\\', c)
		default:
			buf = appendEscaped(buf, rune(c))
		}
		i++
	}
	return append(buf, '"')
}
