// ABOUTME: Tests for healthplus configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, path expansion, and storage opening.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every override so the host environment cannot leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HEALTHPLUS_DATA_DIR", "HEALTHPLUS_IN_MEMORY",
		"HEALTHPLUS_LOG_LEVEL", "HEALTHPLUS_LOG_FILE",
		"HEALTHPLUS_FIRST_WEEKDAY", "HEALTHPLUS_TIMEZONE",
	} {
		t.Setenv(k, "")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	// GetDataDir with empty DataDir should return storage.DataDir()
	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/healthplus-test"}
	if got := cfg.GetDataDir(); got != "/tmp/healthplus-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/healthplus-test")
	}
	if got := cfg.DBPath(); got != "/tmp/healthplus-test/healthplus.db" {
		t.Errorf("DBPath() = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/healthplus", filepath.Join(home, "data/healthplus")},
		{"data/healthplus", "data/healthplus"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.DataDir != "" || cfg.InMemory || cfg.Log.Level != "" {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		DataDir:  "/tmp/healthplus-data",
		Log:      LogConfig{Level: "debug", JSON: true},
		Calendar: CalendarConfig{FirstWeekday: "sunday", Timezone: "Europe/Berlin"},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.DataDir != "/tmp/healthplus-data" {
		t.Errorf("DataDir mismatch: got %q", loaded.DataDir)
	}
	if loaded.Log.Level != "debug" || !loaded.Log.JSON {
		t.Errorf("Log mismatch: got %+v", loaded.Log)
	}
	if loaded.Calendar != cfg.Calendar {
		t.Errorf("Calendar mismatch: got %+v", loaded.Calendar)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{InMemory: true}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "nonexistent", "healthplus", "config.yaml")); err != nil {
		t.Errorf("Expected config file to be created: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data_dir: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("Expected error for invalid YAML config")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	file := "data_dir: /from/file\nlog:\n  level: warn\ncalendar:\n  first_weekday: monday\n"
	if err := os.WriteFile(path, []byte(file), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HEALTHPLUS_DATA_DIR", "/from/env")
	t.Setenv("HEALTHPLUS_IN_MEMORY", "true")
	t.Setenv("HEALTHPLUS_LOG_LEVEL", "error")
	t.Setenv("HEALTHPLUS_FIRST_WEEKDAY", "sunday")
	t.Setenv("HEALTHPLUS_TIMEZONE", "UTC")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if cfg.DataDir != "/from/env" {
		t.Errorf("DataDir = %q, want env value", cfg.DataDir)
	}
	if !cfg.InMemory {
		t.Error("InMemory should be set from env")
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}

	cal, err := cfg.BuildCalendar()
	if err != nil {
		t.Fatalf("BuildCalendar() failed: %v", err)
	}
	if cal.FirstWeekday != time.Sunday {
		t.Errorf("FirstWeekday = %v, want Sunday", cal.FirstWeekday)
	}
	if cal.Location != time.UTC {
		t.Errorf("Location = %v, want UTC", cal.Location)
	}
}

func TestInvalidInMemoryEnvIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("HEALTHPLUS_IN_MEMORY", "sometimes")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InMemory {
		t.Error("unparseable bool should leave InMemory unset")
	}
}

func TestBuildCalendarInvalid(t *testing.T) {
	cfg := &Config{Calendar: CalendarConfig{FirstWeekday: "someday"}}
	if _, err := cfg.BuildCalendar(); err == nil {
		t.Error("Expected error for unknown weekday")
	}

	cfg = &Config{Calendar: CalendarConfig{Timezone: "Not/AZone"}}
	if _, err := cfg.BuildCalendar(); err == nil {
		t.Error("Expected error for unknown timezone")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "healthplus", "config.yaml")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{DataDir: tmpDir}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer repo.Close()

	if repo.InMemory() {
		t.Error("Expected file-backed repository")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, DBFileName)); os.IsNotExist(err) {
		t.Error("Expected healthplus.db to be created")
	}
}

func TestOpenStorageInMemory(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{DataDir: tmpDir, InMemory: true}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer repo.Close()

	if !repo.InMemory() {
		t.Error("Expected in-memory repository")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, DBFileName)); !os.IsNotExist(err) {
		t.Error("in-memory mode must not create a database file")
	}
}

func TestLoggingParams(t *testing.T) {
	home, _ := os.UserHomeDir()
	cfg := &Config{Log: LogConfig{Level: "debug", JSON: true, File: "~/logs/healthplus"}}

	p := cfg.Logging()
	if p.Level != "debug" || !p.JSONFormat {
		t.Errorf("unexpected params %+v", p)
	}
	if p.File != filepath.Join(home, "logs/healthplus") {
		t.Errorf("File = %q, want expanded path", p.File)
	}
}
