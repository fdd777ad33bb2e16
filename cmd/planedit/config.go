package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds persistent editor settings
type Config struct {
	LastDir      string `yaml:"last_dir"`
	Norway       bool   `yaml:"norway"`        // add Norwegian public holidays to the calendar
	HistoryLimit int    `yaml:"history_limit"` // undo levels
	Format       string `yaml:"format"`        // extension for Save As when none is typed
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	return Config{
		LastDir:      cwd,
		HistoryLimit: 50,
		Format:       "yaml",
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planedit.yaml"
	}
	return filepath.Join(home, ".planedit.yaml")
}

// LoadConfig reads the config at path. A missing file yields the defaults;
// unknown or out-of-range values fall back to them.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing %s: %w", path, err)
	}
	def := DefaultConfig()
	if cfg.LastDir == "" {
		cfg.LastDir = def.LastDir
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
	switch cfg.Format {
	case "yaml", "json", "jsonc":
	default:
		cfg.Format = def.Format
	}
	return cfg, nil
}

// SaveConfig writes cfg to path.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	data = append([]byte("# planedit configuration\n"), data...)
	return os.WriteFile(path, data, 0o644)
}
