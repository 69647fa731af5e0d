package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/marcus/editable/internal/workdir"
	"github.com/marcus/editable/pkg/editable"
)

const (
	configFile = "config.json"

	// DefaultDatabase is the store path used when none is configured.
	DefaultDatabase = ".editable/fields.db"
)

// yamlFiles are tried, in order, when no JSON config exists.
var yamlFiles = []string{"config.yaml", "config.yml"}

// Config is the on-disk configuration.
type Config struct {
	// Database is the sqlite file, relative to the base directory.
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
	LogFile  string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	// Fields holds per-field session settings keyed by field name.
	Fields map[string]editable.Config `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field returns the session settings for name, or the zero Config.
func (c *Config) Field(name string) editable.Config {
	if c == nil || c.Fields == nil {
		return editable.Config{}
	}
	return c.Fields[name]
}

// DatabasePath resolves the database path against baseDir.
func (c *Config) DatabasePath(baseDir string) string {
	p := DefaultDatabase
	if c != nil && c.Database != "" {
		p = c.Database
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if c == nil || c.LogLevel == "" {
		return slog.LevelInfo
	}
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Load reads the config from disk. JSON wins over YAML; a missing file
// yields an empty config.
func Load(baseDir string) (*Config, error) {
	dir := workdir.ProjectDir(baseDir)
	cfg, err := LoadFile(filepath.Join(dir, configFile))
	if err == nil || !os.IsNotExist(err) {
		return cfg, err
	}

	for _, name := range yamlFiles {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if err == nil || !os.IsNotExist(err) {
			return cfg, err
		}
	}
	return &Config{}, nil
}

// LoadFile reads a single config file, choosing the format by extension.
// Errors from a missing file satisfy os.IsNotExist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config as JSON. A YAML config next to it stops being
// read, since JSON wins on the next Load.
func Save(baseDir string, cfg *Config) error {
	dir := workdir.ProjectDir(baseDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, configFile), append(data, '\n'), 0644)
}

// UpdateField loads the config, lets fn change the settings of one field
// and saves the result. It returns the field's new settings.
func UpdateField(baseDir, name string, fn func(*editable.Config)) (editable.Config, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return editable.Config{}, err
	}

	fc := cfg.Field(name)
	fn(&fc)
	if cfg.Fields == nil {
		cfg.Fields = make(map[string]editable.Config)
	}
	if fc == (editable.Config{}) {
		delete(cfg.Fields, name)
	} else {
		cfg.Fields[name] = fc
	}
	return fc, Save(baseDir, cfg)
}
