package logsim

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Error classes. Every error returned by the package wraps one of these.
var (
	// ErrConfiguration marks malformed or out-of-range configuration values
	ErrConfiguration = errors.New("configuration error")
	// ErrFilesystem marks directory, file, rename or write failures of the sink
	ErrFilesystem = errors.New("filesystem error")
	// ErrClosed is returned by a sink that has been closed
	ErrClosed = errors.New("sink closed")
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "logsim: ") {
		format = "logsim: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return errors.Join(err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("%w: invalid format in override string '%s', expected key=value", ErrConfiguration, arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("%w: key cannot be empty in override string '%s'", ErrConfiguration, arg)
	}
	return key, value, nil
}

// internalLog writes diagnostics that cannot go through the sink to stderr
func internalLog(format string, args ...any) {
	if !strings.HasPrefix(format, "logsim: ") {
		format = "logsim: " + format
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
