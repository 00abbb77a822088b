package logsim

import (
	"strconv"
	"strings"
)

// Level is the severity of a log entry. Only the named constants are valid.
type Level int64

// Log level constants, ranked by numeric severity
const (
	LevelDebug    Level = -4
	LevelInfo     Level = 0
	LevelWarning  Level = 4
	LevelError    Level = 8
	LevelCritical Level = 12
)

// Levels lists every valid level in ascending severity
var Levels = []Level{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical}

// String returns the canonical upper-case name
func (lv Level) String() string {
	switch lv {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "LEVEL(" + strconv.FormatInt(int64(lv), 10) + ")"
	}
}

// Valid reports whether lv is one of the named levels
func (lv Level) Valid() bool {
	switch lv {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical:
		return true
	}
	return false
}

// Enabled reports whether a record at level passes the threshold lv
func (lv Level) Enabled(level Level) bool {
	return level >= lv
}

// MarshalText implements encoding.TextMarshaler
func (lv Level) MarshalText() ([]byte, error) {
	if !lv.Valid() {
		return nil, fmtErrorf("cannot marshal invalid level %d", int64(lv))
	}
	return []byte(lv.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (lv *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*lv = parsed
	return nil
}

// ParseLevel converts a level name or numeric rank to a Level.
// Names are case-insensitive, "warn" is accepted for WARNING.
func ParseLevel(levelStr string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	switch s {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil && Level(n).Valid() {
		return Level(n), nil
	}

	return 0, fmtErrorf("%w: invalid level '%s' (use DEBUG, INFO, WARNING, ERROR, CRITICAL)",
		ErrConfiguration, levelStr)
}
