// Package compat routes the internal diagnostics of fasthttp and gnet into a
// logsim.Logger.
package compat

import (
	"strings"

	"github.com/lixenwraith/logsim"
)

// Logger is the leveled logging surface the adapters write to.
// *logsim.Logger satisfies it.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
}

// DetectLogLevel attempts to detect log level from message content
func DetectLogLevel(msg string) logsim.Level {
	msgLower := strings.ToLower(msg)

	// Check for error indicators
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return logsim.LevelError
	}

	// Check for warning indicators
	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return logsim.LevelWarning
	}

	// Check for debug indicators
	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return logsim.LevelDebug
	}

	return logsim.LevelInfo
}

// logAt dispatches msg to the method matching level
func logAt(logger Logger, level logsim.Level, source, msg string) {
	line := "[" + source + "] " + msg
	switch level {
	case logsim.LevelDebug:
		logger.Debug(line)
	case logsim.LevelWarning:
		logger.Warn(line)
	case logsim.LevelError, logsim.LevelCritical:
		logger.Error(line)
	default:
		logger.Info(line)
	}
}
