package logsim

// Builder provides a fluent API for building service configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build validates and returns the configuration.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}
	return b.cfg.Clone(), nil
}

// Level sets the log level.
func (b *Builder) Level(level Level) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// Name sets the logger name.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// IntervalS sets the emission interval in seconds.
func (b *Builder) IntervalS(seconds float64) *Builder {
	b.cfg.IntervalS = seconds
	return b
}

// LogFormat sets the file record template.
func (b *Builder) LogFormat(format string) *Builder {
	b.cfg.LogFormat = format
	return b
}

// ConsoleFormat sets the console record template.
func (b *Builder) ConsoleFormat(format string) *Builder {
	b.cfg.ConsoleFormat = format
	return b
}

// ConsoleTarget sets the console stream, "stdout" or "stderr".
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// FilePath sets the active log file path.
func (b *Builder) FilePath(path string) *Builder {
	b.cfg.FilePath = path
	return b
}

// MaxFileSizeMB sets the rotation threshold in MB.
func (b *Builder) MaxFileSizeMB(size float64) *Builder {
	b.cfg.MaxFileSizeMB = size
	return b
}

// MaxFileSizeBytes sets the rotation threshold in bytes. Convenience.
func (b *Builder) MaxFileSizeBytes(size int64) *Builder {
	b.cfg.MaxFileSizeMB = float64(size) / sizeMultiplier
	return b
}

// Port sets the HTTP port.
func (b *Builder) Port(port int64) *Builder {
	b.cfg.Port = port
	return b
}

// InspectAddr sets the TCP inspect listener address.
func (b *Builder) InspectAddr(addr string) *Builder {
	b.cfg.InspectAddr = addr
	return b
}

// Example usage:
// cfg, err := logsim.NewBuilder().
//
//	FilePath("/var/log/app/app.log").
//	LevelString("debug").
//	IntervalS(0.5).
//	MaxFileSizeMB(10).
//	Build()
