package logsim

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvBinding ties an environment variable to a configuration key
type EnvBinding struct {
	Env string
	Key string
}

// EnvBindings lists the environment variables read by EnvOverrides
var EnvBindings = []EnvBinding{
	{"LOG_LEVEL", "level"},
	{"LOG_NAME", "name"},
	{"LOG_FREQUENCY", "interval_s"},
	{"LOG_FORMAT", "log_format"},
	{"CONSOLE_FORMAT", "console_format"},
	{"CONSOLE_TARGET", "console_target"},
	{"LOG_FILE_PATH", "file_path"},
	{"MAX_FILE_SIZE_MB", "max_file_size_mb"},
	{"WEB_PORT", "port"},
	{"INSPECT_ADDR", "inspect_addr"},
}

// EnvOverrides converts the set environment variables into "key=value" overrides.
// A nil lookup yields no overrides. An unrecognised LOG_LEVEL falls back to INFO
// with a warning on stderr.
func EnvOverrides(lookup func(string) (string, bool)) []string {
	if lookup == nil {
		return nil
	}
	var overrides []string
	for _, b := range EnvBindings {
		v, ok := lookup(b.Env)
		if !ok {
			continue
		}
		if b.Key == "level" {
			if _, err := ParseLevel(v); err != nil {
				internalLog("unknown %s '%s', using %s\n", b.Env, v, LevelInfo)
				v = LevelInfo.String()
			}
		}
		overrides = append(overrides, b.Key+"="+v)
	}
	return overrides
}

// WithOverrides returns a validated copy of the configuration with string
// key-value overrides applied. Each override should be in the format "key=value".
//
// Example:
//
//	cfg, err := logsim.DefaultConfig().WithOverrides(
//	    "file_path=/var/log/app/app.log",
//	    "level=debug",
//	    "interval_s=0.5",
//	)
func (c *Config) WithOverrides(overrides ...string) (*Config, error) {
	cfg := c.Clone()

	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, combineConfigErrors(errs)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString("logsim: multiple configuration errors:")
	for i, err := range errs {
		errMsg := strings.TrimPrefix(err.Error(), "logsim: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%w: %s", ErrConfiguration, sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Basic settings
	case "level":
		levelVal, err := ParseLevel(value)
		if err != nil {
			return err
		}
		cfg.Level = levelVal
	case "name":
		cfg.Name = value

	// Emission
	case "interval_s":
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmtErrorf("%w: invalid float value for interval_s '%s': %w", ErrConfiguration, value, err)
		}
		cfg.IntervalS = floatVal

	// Formatting
	case "log_format":
		cfg.LogFormat = value
	case "console_format":
		cfg.ConsoleFormat = value
	case "console_target":
		cfg.ConsoleTarget = value
	case "timestamp_format":
		cfg.TimestampFormat = value

	// File output
	case "file_path":
		cfg.FilePath = value
	case "max_file_size_mb":
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmtErrorf("%w: invalid float value for max_file_size_mb '%s': %w", ErrConfiguration, value, err)
		}
		cfg.MaxFileSizeMB = floatVal

	// Inspection surfaces
	case "port":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("%w: invalid integer value for port '%s': %w", ErrConfiguration, value, err)
		}
		cfg.Port = intVal
	case "inspect_addr":
		cfg.InspectAddr = value

	default:
		return fmtErrorf("%w: unknown configuration key '%s'", ErrConfiguration, key)
	}

	return nil
}
