// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Stats   StatsConfig   `yaml:"stats"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds game asset locations.
type DataConfig struct {
	// TextureDirs are directories scanned for RSB textures.
	TextureDirs []string `yaml:"texture_dirs"`
	// MapDirs are directories scanned for MAP files.
	MapDirs []string `yaml:"map_dirs"`
}

// ViewerConfig holds texture viewer display settings.
type ViewerConfig struct {
	// Scale is the integer upscale factor for the displayed texture.
	Scale int `yaml:"scale"`
}

// StatsConfig holds settings for the batch asset scanners.
type StatsConfig struct {
	// Workers bounds the number of files decoded concurrently.
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			TextureDirs: []string{"data/texture"},
			MapDirs:     []string{"data/map"},
		},
		Viewer: ViewerConfig{
			Scale: 2,
		},
		Stats: StatsConfig{
			Workers: 8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
