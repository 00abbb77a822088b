package logsim

import (
	"encoding/json"
	"time"
)

// EntryTimeLayout is the ISO-8601 layout of Entry timestamps in JSON
const EntryTimeLayout = "2006-01-02T15:04:05.000000"

// Entry is a single emitted log record. Entries are values and never mutated after creation.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
}

// NewEntry stamps a record with the current time
func NewEntry(level Level, message string) Entry {
	return Entry{Timestamp: time.Now(), Level: level, Message: message}
}

// entryJSON is the wire form of Entry
type entryJSON struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// MarshalJSON renders {timestamp, level, message}
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		Timestamp: e.Timestamp.Format(EntryTimeLayout),
		Level:     e.Level.String(),
		Message:   e.Message,
	})
}

// UnmarshalJSON parses the form produced by MarshalJSON
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := time.ParseInLocation(EntryTimeLayout, raw.Timestamp, time.Local)
	if err != nil {
		return fmtErrorf("invalid entry timestamp '%s': %w", raw.Timestamp, err)
	}
	lv, err := ParseLevel(raw.Level)
	if err != nil {
		return err
	}
	*e = Entry{Timestamp: ts, Level: lv, Message: raw.Message}
	return nil
}
