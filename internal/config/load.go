package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = "ffbetool.yaml"

	// EnvPath names a config file when no --config flag is given.
	EnvPath = "FFBETOOL_CONFIG"
)

// Load reads the config with priority defaults < file < overrides. An empty
// path falls back to SearchPaths; finding no file there is not an error.
func Load(path string, ov Overrides) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg.Source = path
	}

	ov.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SearchPaths lists where a config file is looked for, in order.
func SearchPaths() []string {
	var paths []string
	if env := os.Getenv(EnvPath); env != "" {
		paths = append(paths, env)
	}
	paths = append(paths, FileName)
	if dir := ConfigDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.yaml"))
	}
	return paths
}

func findConfigFile() string {
	for _, path := range SearchPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user ffbetool config directory, or "" when the
// platform has none.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "ffbetool")
}

// loadFromFile merges a YAML file into cfg. Unknown keys are rejected so a
// misspelled option does not go unnoticed.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
