package logsim

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"
)

// Emitter produces one synthetic entry per interval until its context is cancelled
type Emitter struct {
	logger   *Logger
	interval time.Duration
	counter  atomic.Uint64
}

// NewEmitter creates an emitter ticking at the logger's configured interval
func NewEmitter(logger *Logger) *Emitter {
	return &Emitter{logger: logger, interval: logger.cfg.Interval()}
}

// Severity picks the level and message for tick n (starting at 1): every 20th
// tick is an ERROR, every other 10th a WARNING, the rest INFO.
func Severity(n uint64) (Level, string) {
	switch {
	case n%20 == 0:
		return LevelError, "Error message example #" + strconv.FormatUint(n/20, 10)
	case n%10 == 0:
		return LevelWarning, "Warning message example #" + strconv.FormatUint(n/10, 10)
	default:
		return LevelInfo, "Logger service is running #" + strconv.FormatUint(n, 10) +
			". This is part of our distributed system!"
	}
}

// Run logs the startup banner, then emits immediately and once per interval.
// It returns nil when ctx is cancelled and the first write error otherwise.
func (e *Emitter) Run(ctx context.Context) error {
	if err := e.banner(); err != nil {
		return err
	}

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		if err := e.Tick(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Tick emits the next entry in the severity pattern
func (e *Emitter) Tick() error {
	level, message := Severity(e.counter.Add(1))
	return e.logger.Log(level, message)
}

// Count returns the number of entries emitted so far
func (e *Emitter) Count() uint64 {
	return e.counter.Load()
}

// banner logs the service start and the effective settings
func (e *Emitter) banner() error {
	cfg := e.logger.cfg
	lines := []string{
		"Starting distributed logger service...",
		"Log level set to: " + cfg.Level.String(),
		fmt.Sprintf("Log frequency: %g seconds", cfg.IntervalS),
		fmt.Sprintf("Max file size: %gMB", cfg.MaxFileSizeMB),
	}
	for _, line := range lines {
		if err := e.logger.Log(LevelInfo, line); err != nil {
			return err
		}
	}
	return nil
}
