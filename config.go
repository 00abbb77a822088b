package logsim

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"
)

// Config holds all service configuration values
type Config struct {
	// Basic settings
	Level Level  `toml:"level"`
	Name  string `toml:"name"` // Logger name rendered by %(name)s

	// Emission
	IntervalS float64 `toml:"interval_s"` // Seconds between emitted records

	// Formatting
	LogFormat       string `toml:"log_format"`       // Template for file records, or "json"
	ConsoleFormat   string `toml:"console_format"`   // Template for console records, or "json"
	ConsoleTarget   string `toml:"console_target"`   // "stdout" or "stderr"
	TimestampFormat string `toml:"timestamp_format"` // Go layout used by %(asctime)s

	// File output
	FilePath      string  `toml:"file_path"`
	MaxFileSizeMB float64 `toml:"max_file_size_mb"` // Rotation threshold

	// Inspection surfaces
	Port        int64  `toml:"port"`         // HTTP port
	InspectAddr string `toml:"inspect_addr"` // TCP inspect listener, empty disables
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Level: LevelInfo,
	Name:  "DistributedLogger",

	// Emission
	IntervalS: 5.0,

	// Formatting
	LogFormat:       "%(asctime)s - %(name)s - %(levelname)s - %(message)s",
	ConsoleFormat:   "[%(asctime)s] %(levelname)s - %(message)s",
	ConsoleTarget:   "stdout",
	TimestampFormat: "2006-01-02 15:04:05,000",

	// File output
	FilePath:      "./logs/app.log",
	MaxFileSizeMB: 1,

	// Inspection surfaces
	Port:        8080,
	InspectAddr: "",
}

// KeyValue is one entry of the public configuration view
type KeyValue struct {
	Key   string
	Value any
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("logsim.", *cfg); err != nil {
		return nil, fmtErrorf("%w: failed to register config struct: %w", ErrConfiguration, err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("%w: failed to load config from %s: %w", ErrConfiguration, path, err)
	}

	if err := extractConfig(loader, "logsim.", cfg); err != nil {
		return nil, fmtErrorf("%w: failed to extract config values: %w", ErrConfiguration, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfig resolves the service configuration: defaults, then the optional TOML
// file at path, then environment variables read through lookup.
func LoadConfig(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := NewConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	return cfg.WithOverrides(EnvOverrides(lookup)...)
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

var levelType = reflect.TypeOf(Level(0))

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	if field.Type() == levelType {
		switch v := value.(type) {
		case string:
			lv, err := ParseLevel(v)
			if err != nil {
				return err
			}
			field.SetInt(int64(lv))
		case Level:
			field.SetInt(int64(v))
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected level name, got %T", value)
		}
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Float64:
		// TOML writes whole numbers as integers
		switch v := value.(type) {
		case float64:
			field.SetFloat(v)
		case int64:
			field.SetFloat(float64(v))
		case int:
			field.SetFloat(float64(v))
		default:
			return fmt.Errorf("expected float64, got %T", value)
		}

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if !c.Level.Valid() {
		return fmtErrorf("%w: invalid level: %d", ErrConfiguration, int64(c.Level))
	}

	if strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("%w: logger name cannot be empty", ErrConfiguration)
	}

	if !(c.IntervalS > 0) {
		return fmtErrorf("%w: interval_s must be positive: %v", ErrConfiguration, c.IntervalS)
	}

	if c.IntervalS*float64(time.Second) >= math.MaxInt64 {
		return fmtErrorf("%w: interval_s too large: %v", ErrConfiguration, c.IntervalS)
	}

	if c.Interval() < minWaitTime {
		return fmtErrorf("%w: interval_s must be at least %v: %v", ErrConfiguration, minWaitTime.Seconds(), c.IntervalS)
	}

	if strings.TrimSpace(c.LogFormat) == "" || strings.TrimSpace(c.ConsoleFormat) == "" {
		return fmtErrorf("%w: log_format and console_format cannot be empty", ErrConfiguration)
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("%w: invalid console_target: '%s' (use stdout or stderr)", ErrConfiguration, c.ConsoleTarget)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("%w: timestamp_format cannot be empty", ErrConfiguration)
	}

	if strings.TrimSpace(c.FilePath) == "" {
		return fmtErrorf("%w: file_path cannot be empty", ErrConfiguration)
	}

	if !(c.MaxFileSizeMB > 0) || c.MaxFileSizeBytes() <= 0 {
		return fmtErrorf("%w: max_file_size_mb must be positive: %v", ErrConfiguration, c.MaxFileSizeMB)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmtErrorf("%w: port must be between 1 and 65535: %d", ErrConfiguration, c.Port)
	}

	return nil
}

// Validate checks the configuration, returning an ErrConfiguration on failure
func (c *Config) Validate() error {
	return c.validate()
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// Interval returns the emission cadence
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalS * float64(time.Second))
}

// MaxFileSizeBytes returns the rotation threshold in bytes
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB * sizeMultiplier)
}

// Pairs returns the public configuration view in display order
func (c *Config) Pairs() []KeyValue {
	return []KeyValue{
		{"log_level", c.Level.String()},
		{"log_frequency", c.IntervalS},
		{"log_format", c.LogFormat},
		{"console_format", c.ConsoleFormat},
		{"log_file_path", c.FilePath},
		{"max_file_size_mb", c.MaxFileSizeMB},
		{"web_port", c.Port},
	}
}

// ToMap returns the public configuration view as a map
func (c *Config) ToMap() map[string]any {
	pairs := c.Pairs()
	m := make(map[string]any, len(pairs))
	for _, kv := range pairs {
		m[kv.Key] = kv.Value
	}
	return m
}
