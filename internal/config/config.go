package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config represents the application configuration
type Config struct {
	Version int             `json:"version" yaml:"version" toml:"version"`
	Bus     BusSettings     `json:"bus" yaml:"bus" toml:"bus"`
	Log     LogSettings     `json:"log" yaml:"log" toml:"log"`
	Metrics MetricsSettings `json:"metrics" yaml:"metrics" toml:"metrics"`
	Monitor MonitorSettings `json:"monitor" yaml:"monitor" toml:"monitor"`
}

// BusSettings configures the event bus
type BusSettings struct {
	// BridgeToHost re-emits every dispatched event on the host. Deprecated.
	BridgeToHost bool `json:"bridge_to_host" yaml:"bridge_to_host" toml:"bridge_to_host"`
}

// LogSettings configures the structured logger
type LogSettings struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"` // console or json
	File   string `json:"file" yaml:"file" toml:"file"`       // empty means stderr
}

// MetricsSettings configures the metrics endpoint
type MetricsSettings struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"` // empty disables the endpoint
}

// MonitorSettings configures the interactive monitor
type MonitorSettings struct {
	Interval Duration `json:"interval" yaml:"interval" toml:"interval"`
	History  int      `json:"history" yaml:"history" toml:"history"`
}

// Duration is a time.Duration written as a Go duration string in config files.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
		Monitor: MonitorSettings{
			Interval: Duration(250 * time.Millisecond),
			History:  500,
		},
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "eventbridge", "config.toml")
}

// LoadFromPath loads configuration from a specific path. Values missing from
// the file keep their defaults. Supports .toml, .yaml/.yml and .json.
func LoadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("empty config path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes cfg in the format named by ext (".toml", ".yaml", ".json")
func Marshal(cfg *Config, ext string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(ext) {
	case ".toml":
		data, err = toml.Marshal(cfg)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveToPath saves configuration to a specific path, format by extension
func SaveToPath(cfg *Config, path string) error {
	data, err := Marshal(cfg, filepath.Ext(path))
	if err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from EVENTBRIDGE_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("EVENTBRIDGE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("EVENTBRIDGE_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("EVENTBRIDGE_BRIDGE_TO_HOST"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("EVENTBRIDGE_BRIDGE_TO_HOST: %w", err)
		}
		c.Bus.BridgeToHost = b
	}
	return c.Validate()
}

// Validate checks settings that cannot be fixed up silently
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	if c.Monitor.Interval < 0 {
		return fmt.Errorf("monitor interval must not be negative")
	}
	if c.Monitor.History <= 0 {
		return fmt.Errorf("monitor history must be positive")
	}
	return nil
}
