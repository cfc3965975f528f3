package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"greenhouse/host/serial"
)

// Config is the host tool configuration
type Config struct {
	Device            string `toml:"device"`
	Baud              int    `toml:"baud"`
	ReadTimeoutMS     int    `toml:"read_timeout_ms"`
	ResponseTimeoutMS int    `toml:"response_timeout_ms"`
	LogLevel          string `toml:"log_level"`
	HistoryFile       string `toml:"history_file"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	history := ".greenhouse_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, history)
	}

	return &Config{
		Device:            "/dev/ttyACM0",
		Baud:              115200,
		ReadTimeoutMS:     100,
		ResponseTimeoutMS: 1000,
		LogLevel:          "info",
		HistoryFile:       history,
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in config %s: %v", path, undecoded)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later and less clearly
func (c *Config) Validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.ReadTimeoutMS < 0 {
		return fmt.Errorf("read_timeout_ms must not be negative, got %d", c.ReadTimeoutMS)
	}
	if c.ResponseTimeoutMS <= 0 {
		return fmt.Errorf("response_timeout_ms must be positive, got %d", c.ResponseTimeoutMS)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Serial returns the serial port settings
func (c *Config) Serial() *serial.Config {
	cfg := serial.DefaultConfig(c.Device)
	cfg.Baud = c.Baud
	cfg.ReadTimeout = c.ReadTimeoutMS
	return cfg
}

// ResponseTimeout is how long a command waits for its report
func (c *Config) ResponseTimeout() time.Duration {
	return time.Duration(c.ResponseTimeoutMS) * time.Millisecond
}

// Level returns the zerolog level, falling back to info
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
