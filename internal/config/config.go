// ABOUTME: Healthplus configuration loaded from YAML with environment overrides.
// ABOUTME: Resolves the data directory, logging, calendar, and the storage factory.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tmccoy01/healthplus/internal/calendar"
	"github.com/tmccoy01/healthplus/internal/logging"
	"github.com/tmccoy01/healthplus/internal/storage"
	"gopkg.in/yaml.v3"
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "healthplus.db"

// Config stores healthplus configuration.
type Config struct {
	// DataDir is the directory holding healthplus.db.
	// Supports ~ expansion. Defaults to $XDG_DATA_HOME/healthplus.
	DataDir string `yaml:"data_dir,omitempty"`

	// InMemory keeps all data in a throwaway in-memory database.
	InMemory bool `yaml:"in_memory,omitempty"`

	Log      LogConfig      `yaml:"log,omitempty"`
	Calendar CalendarConfig `yaml:"calendar,omitempty"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	JSON  bool   `yaml:"json,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// CalendarConfig controls day and week bucketing.
type CalendarConfig struct {
	FirstWeekday string `yaml:"first_weekday,omitempty"`
	Timezone     string `yaml:"timezone,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the database file path inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), DBFileName)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the repository described by the config.
func (c *Config) OpenStorage() (storage.Repository, error) {
	if c.InMemory {
		return storage.OpenMemory()
	}
	return storage.Open(c.DBPath())
}

// Logging converts the log section into logger setup parameters.
func (c *Config) Logging() logging.Params {
	return logging.Params{
		Level:      c.Log.Level,
		JSONFormat: c.Log.JSON,
		File:       ExpandPath(c.Log.File),
	}
}

// BuildCalendar returns the calendar used for day and week grouping.
func (c *Config) BuildCalendar() (calendar.Calendar, error) {
	cal, err := calendar.New(c.Calendar.Timezone, c.Calendar.FirstWeekday)
	if err != nil {
		return calendar.Calendar{}, fmt.Errorf("calendar config: %w", err)
	}
	return cal, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthplus", "config.yaml")
}

// Load reads config from the default path, then applies environment overrides.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path. A missing file yields defaults.
// Env vars override file values:
//
//	HEALTHPLUS_DATA_DIR, HEALTHPLUS_IN_MEMORY,
//	HEALTHPLUS_LOG_LEVEL, HEALTHPLUS_LOG_FILE,
//	HEALTHPLUS_FIRST_WEEKDAY, HEALTHPLUS_TIMEZONE
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEALTHPLUS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("HEALTHPLUS_IN_MEMORY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.InMemory = b
		}
	}
	if v := os.Getenv("HEALTHPLUS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HEALTHPLUS_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("HEALTHPLUS_FIRST_WEEKDAY"); v != "" {
		cfg.Calendar.FirstWeekday = v
	}
	if v := os.Getenv("HEALTHPLUS_TIMEZONE"); v != "" {
		cfg.Calendar.Timezone = v
	}
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
