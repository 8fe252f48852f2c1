// Package config handles tool configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/ffbetool/internal/logger"
)

// Config holds all tool settings.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	CharDB  CharDBConfig  `yaml:"chardb"`
	Logging LoggingConfig `yaml:"logging"`

	// Source is the file the config was read from, empty for defaults only.
	Source string `yaml:"-"`
}

// InputConfig holds the location of the exported unit files.
type InputConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig selects where and what to write.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	Columns      int    `yaml:"columns"`       // 0 = single row
	IncludeEmpty bool   `yaml:"include_empty"` // keep frames without visible pixels
	JSON         bool   `yaml:"json"`
	GIF          bool   `yaml:"gif"`
	APNG         bool   `yaml:"apng"`
}

// RenderConfig holds compositing settings.
type RenderConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// CharDBConfig holds the character database location.
type CharDBConfig struct {
	Path      string        `yaml:"path"`
	RemoteURL string        `yaml:"remote_url"` // used when Path does not exist
	Timeout   time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dir: ".",
		},
		Output: OutputConfig{
			Dir:     ".",
			Columns: 0,
		},
		Render: RenderConfig{
			Workers: 0,
		},
		CharDB: CharDBConfig{
			Path:    "character_data.json",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that the YAML types cannot express.
func (c *Config) Validate() error {
	if c.Output.Columns < 0 {
		return fmt.Errorf("output.columns must not be negative, got %d", c.Output.Columns)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("render.workers must not be negative, got %d", c.Render.Workers)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.CharDB.Timeout < 0 {
		return fmt.Errorf("chardb.timeout must not be negative, got %v", c.CharDB.Timeout)
	}
	return nil
}
