package logsim

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// Logger is the service facade: every entry goes to the recent buffer and to
// the sink. It owns both and is safe for concurrent use.
type Logger struct {
	cfg    *Config
	sink   *Sink
	recent *RecentBuffer

	appendErrors atomic.Uint64
}

// NewLogger opens the sink for cfg and allocates the recent buffer.
// A nil console writes to the configured console target.
func NewLogger(cfg *Config, console io.Writer) (*Logger, error) {
	if cfg == nil {
		return nil, fmtErrorf("%w: configuration cannot be nil", ErrConfiguration)
	}

	sink, err := NewSink(cfg, console)
	if err != nil {
		return nil, err
	}

	return &Logger{
		cfg:    cfg.Clone(),
		sink:   sink,
		recent: NewRecentBuffer(RecentCapacity),
	}, nil
}

// Log records message at level. The entry is buffered even when the sink filters
// it by level or fails to write it; the sink error is returned.
func (l *Logger) Log(level Level, message string) error {
	if !level.Valid() {
		return fmtErrorf("%w: invalid level %d", ErrConfiguration, int64(level))
	}

	entry := NewEntry(level, message)
	l.recent.Push(entry)

	if err := l.sink.Append(entry); err != nil {
		l.appendErrors.Add(1)
		return err
	}
	return nil
}

// Debug logs a message at debug level.
func (l *Logger) Debug(args ...any) {
	l.logArgs(LevelDebug, args)
}

// Info logs a message at info level.
func (l *Logger) Info(args ...any) {
	l.logArgs(LevelInfo, args)
}

// Warn logs a message at warning level.
func (l *Logger) Warn(args ...any) {
	l.logArgs(LevelWarning, args)
}

// Error logs a message at error level.
func (l *Logger) Error(args ...any) {
	l.logArgs(LevelError, args)
}

// Critical logs a message at critical level.
func (l *Logger) Critical(args ...any) {
	l.logArgs(LevelCritical, args)
}

// logArgs joins args with spaces. Failures are reported on stderr since the
// helpers have no error return.
func (l *Logger) logArgs(level Level, args []any) {
	if err := l.Log(level, joinArgs(args)); err != nil {
		internalLog("failed to log %s record: %v\n", level, err)
	}
}

// joinArgs renders args space-separated
func joinArgs(args []any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}

// Config returns a copy of the configuration the logger was built with
func (l *Logger) Config() *Config {
	return l.cfg.Clone()
}

// Recent returns the recent-entry buffer
func (l *Logger) Recent() *RecentBuffer {
	return l.recent
}

// Sink returns the file sink
func (l *Logger) Sink() *Sink {
	return l.sink
}

// AppendErrors returns the number of entries the sink failed to write
func (l *Logger) AppendErrors() uint64 {
	return l.appendErrors.Load()
}

// Close closes the sink. Entries logged afterwards are buffered only and
// Log returns ErrClosed.
func (l *Logger) Close() error {
	return l.sink.Close()
}
