package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Overrides are process-level settings read before the config file.
type Overrides struct {
	ConfigPath string `env:"FANTASY_CONFIG" envDefault:"configs/config.yaml"`
	Sport      string `env:"FANTASY_SPORT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
