package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagScale   = flag.Int("scale", 0, "Viewer upscale factor")
	flagWorkers = flag.Int("workers", 0, "Concurrent decode workers")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScale > 0 {
		cfg.Viewer.Scale = *flagScale
	}
	if *flagWorkers > 0 {
		cfg.Stats.Workers = *flagWorkers
	}
}
