package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Data.TextureDirs) != 1 || cfg.Data.TextureDirs[0] != "data/texture" {
		t.Errorf("expected texture dirs [data/texture], got %v", cfg.Data.TextureDirs)
	}
	if len(cfg.Data.MapDirs) != 1 || cfg.Data.MapDirs[0] != "data/map" {
		t.Errorf("expected map dirs [data/map], got %v", cfg.Data.MapDirs)
	}

	if cfg.Viewer.Scale != 2 {
		t.Errorf("expected viewer scale 2, got %d", cfg.Viewer.Scale)
	}
	if cfg.Stats.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Stats.Workers)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sherman.yaml")

	yamlContent := `
data:
  texture_dirs:
    - /games/roguespear/data/texture
    - mods/texture
  map_dirs:
    - /games/roguespear/data/map

viewer:
  scale: 4

stats:
  workers: 16

logging:
  level: "debug"
  log_file: "sherman.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Data.TextureDirs) != 2 {
		t.Fatalf("expected 2 texture dirs, got %d", len(cfg.Data.TextureDirs))
	}
	if cfg.Data.TextureDirs[1] != "mods/texture" {
		t.Errorf("expected second texture dir 'mods/texture', got %s", cfg.Data.TextureDirs[1])
	}
	if cfg.Data.MapDirs[0] != "/games/roguespear/data/map" {
		t.Errorf("unexpected map dir %s", cfg.Data.MapDirs[0])
	}

	if cfg.Viewer.Scale != 4 {
		t.Errorf("expected viewer scale 4, got %d", cfg.Viewer.Scale)
	}
	if cfg.Stats.Workers != 16 {
		t.Errorf("expected 16 workers, got %d", cfg.Stats.Workers)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "sherman.log" {
		t.Errorf("expected log file 'sherman.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
viewer:
  scale: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/sherman.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	// Nested path, SaveTo must create the parent directory
	configPath := filepath.Join(tmpDir, "nested", "sherman.yaml")

	saved := Default()
	saved.Data.TextureDirs = []string{"/games/roguespear/data/texture"}
	saved.Viewer.Scale = 3
	saved.Stats.Workers = 12
	saved.Logging.Level = "debug"

	if err := saved.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if len(loaded.Data.TextureDirs) != 1 || loaded.Data.TextureDirs[0] != "/games/roguespear/data/texture" {
		t.Errorf("unexpected texture dirs %v", loaded.Data.TextureDirs)
	}
	if loaded.Viewer.Scale != 3 {
		t.Errorf("expected viewer scale 3, got %d", loaded.Viewer.Scale)
	}
	if loaded.Stats.Workers != 12 {
		t.Errorf("expected 12 workers, got %d", loaded.Stats.Workers)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", loaded.Logging.Level)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create sherman.yaml in current directory
	configPath := filepath.Join(tmpDir, "sherman.yaml")
	if err := os.WriteFile(configPath, []byte("viewer:\n  scale: 3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find sherman.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "scale flag",
			setup: func() {
				*flagScale = 6
			},
			verify: func(cfg *Config) {
				if cfg.Viewer.Scale != 6 {
					t.Errorf("expected viewer scale 6, got %d", cfg.Viewer.Scale)
				}
			},
			teardown: func() {
				*flagScale = 0
			},
		},
		{
			name: "workers flag",
			setup: func() {
				*flagWorkers = 2
			},
			verify: func(cfg *Config) {
				if cfg.Stats.Workers != 2 {
					t.Errorf("expected 2 workers, got %d", cfg.Stats.Workers)
				}
			},
			teardown: func() {
				*flagWorkers = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sherman.yaml")

	yamlContent := `
viewer:
  scale: 3
stats:
  workers: 4
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagScale = 5
	defer func() {
		*flagConfig = ""
		*flagScale = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Scale should be from flag (5), not file (3)
	if cfg.Viewer.Scale != 5 {
		t.Errorf("expected scale 5 from flag, got %d", cfg.Viewer.Scale)
	}

	// Workers should be from file (4) since no flag override
	if cfg.Stats.Workers != 4 {
		t.Errorf("expected 4 workers from file, got %d", cfg.Stats.Workers)
	}
}
