package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"heightmap-converter/internal/runstore"
)

const DefaultPath = "heightmap-converter.yaml"

// Config holds the settings read from the YAML configuration file.
type Config struct {
	LogLevel       string   `yaml:"log_level"`
	LogFile        string   `yaml:"log_file,omitempty"`
	HistoryDB      string   `yaml:"history_db,omitempty"`
	DefaultFormats []string `yaml:"default_formats,omitempty"`
	WriteManifest  bool     `yaml:"write_manifest"`
	LoadModules    bool     `yaml:"load_modules"`
	StartupScript  string   `yaml:"startup_script,omitempty"`
}

func Default() Config {
	return Config{
		LogLevel:    "info",
		LoadModules: true,
	}
}

// Load reads the config at path, or returns defaults when the file is missing.
// Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	for _, f := range c.DefaultFormats {
		if strings.TrimSpace(f) == "" {
			return errors.New("default_formats contains an empty entry")
		}
	}
	return nil
}

func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return runstore.WriteBytes(path, data)
}
