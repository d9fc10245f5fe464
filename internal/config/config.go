package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries runtime options for prochunter.
type Config struct {
	// SampleInterval separates the two CPU samples of a usage reading.
	SampleInterval time.Duration `yaml:"sample_interval"`
	LogLevel       string        `yaml:"log_level"`
	JSON           bool          `yaml:"json"`
}

func Default() Config {
	return Config{
		SampleInterval: time.Millisecond,
		LogLevel:       "info",
		JSON:           false,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/prochunter/config.yaml or the platform
// equivalent. Empty when no config dir is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "prochunter", "config.yaml")
}

// Load returns defaults overlaid with the YAML file at path and then the
// environment. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = Default().SampleInterval
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = Default().LogLevel
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PROCHUNTER_SAMPLE_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.SampleInterval = parsed
		} else if parsed, err2 := time.ParseDuration(v + "ms"); err2 == nil {
			cfg.SampleInterval = parsed
		}
	}
	if v := os.Getenv("PROCHUNTER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	switch os.Getenv("PROCHUNTER_JSON") {
	case "1", "true":
		cfg.JSON = true
	case "0", "false":
		cfg.JSON = false
	}
}
