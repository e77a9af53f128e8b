package util

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable, e.g. ETHER_SAVE_DIR.
const EnvPrefix = "ETHER"

// Config holds runtime settings. Flags override the environment.
type Config struct {
	SaveDir   string  `envconfig:"SAVE_DIR" default:"saves"`
	Backend   string  `envconfig:"BACKEND" default:"tea"` // tea|tcell
	Theme     string  `envconfig:"THEME" default:"classic"`
	Speed     float64 `envconfig:"SPEED" default:"1"`
	DSN       string  `envconfig:"DSN"` // optional Postgres mirror
	LogLevel  string  `envconfig:"LOG_LEVEL" default:"info"`
	LogFile   string  `envconfig:"LOG_FILE" default:"ether.log"`
	LogFormat string  `envconfig:"LOG_FORMAT" default:"json"`
}

// LoadConfig reads the ETHER_* environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values envconfig cannot.
func (c Config) Validate() error {
	switch c.Backend {
	case "tea", "tcell":
	default:
		return fmt.Errorf("unknown backend %q (want tea or tcell)", c.Backend)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", c.Speed)
	}
	return nil
}
