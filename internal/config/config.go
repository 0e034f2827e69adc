// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Autosave storage backends.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
)

// Config holds all configuration values for casewiz.
type Config struct {
	DataDir          string        `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel         string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile          string        `mapstructure:"log_file" yaml:"log_file"`
	AutosaveInterval time.Duration `mapstructure:"autosave_interval" yaml:"autosave_interval"`
	AutosaveStorage  string        `mapstructure:"autosave_storage" yaml:"autosave_storage"`
	MessageTimeout   time.Duration `mapstructure:"message_timeout" yaml:"message_timeout"`
	DraftName        string        `mapstructure:"draft_name" yaml:"draft_name"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() *Config {
	return &Config{
		DataDir:          ".casewiz",
		LogLevel:         "info",
		AutosaveInterval: 30 * time.Second,
		AutosaveStorage:  StorageMemory,
		MessageTimeout:   5 * time.Second,
		DraftName:        "default",
	}
}

// envKeys lists every key bound to a CASEWIZ_ environment variable.
var envKeys = []string{
	"data_dir",
	"log_level",
	"log_file",
	"autosave_interval",
	"autosave_storage",
	"message_timeout",
	"draft_name",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("casewiz")

	def := Default()
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("autosave_interval", def.AutosaveInterval)
	v.SetDefault("autosave_storage", def.AutosaveStorage)
	v.SetDefault("message_timeout", def.MessageTimeout)
	v.SetDefault("draft_name", def.DraftName)

	v.SetEnvPrefix("CASEWIZ")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so Unmarshal sees env-only values
	for _, key := range envKeys {
		if err := v.BindEnv(key, "CASEWIZ_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if globalPath := GlobalPath(); fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	if projectPath := ProjectPath(); fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the wizard cannot run with.
func (c *Config) Validate() error {
	switch c.AutosaveStorage {
	case StorageMemory, StorageFile:
	default:
		return fmt.Errorf("invalid autosave_storage %q (want %q or %q)", c.AutosaveStorage, StorageMemory, StorageFile)
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("autosave_interval must be positive, got %s", c.AutosaveInterval)
	}
	if c.MessageTimeout <= 0 {
		return fmt.Errorf("message_timeout must be positive, got %s", c.MessageTimeout)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/casewiz/casewiz.yml or $XDG_CONFIG_HOME/casewiz/casewiz.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "casewiz", "casewiz.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "casewiz", "casewiz.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "casewiz.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

// fileConfig is the on-disk shape; durations are written as "30s" strings.
type fileConfig struct {
	DataDir          string `yaml:"data_dir"`
	LogLevel         string `yaml:"log_level"`
	LogFile          string `yaml:"log_file"`
	AutosaveInterval string `yaml:"autosave_interval"`
	AutosaveStorage  string `yaml:"autosave_storage"`
	MessageTimeout   string `yaml:"message_timeout"`
	DraftName        string `yaml:"draft_name"`
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(fileConfig{
		DataDir:          cfg.DataDir,
		LogLevel:         cfg.LogLevel,
		LogFile:          cfg.LogFile,
		AutosaveInterval: cfg.AutosaveInterval.String(),
		AutosaveStorage:  cfg.AutosaveStorage,
		MessageTimeout:   cfg.MessageTimeout.String(),
		DraftName:        cfg.DraftName,
	})
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
