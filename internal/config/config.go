// Package config loads runtime settings for the fantasy runner.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Data provider kinds.
const (
	ProviderJSON   = "json"
	ProviderSQLite = "sqlite"
)

// EnvPrefix is prepended to every viper-bound environment variable,
// e.g. FANTASY_LOGGING_LEVEL.
const EnvPrefix = "FANTASY"

// Config is the root configuration document.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Data    DataConfig    `mapstructure:"data"`
	Sports  SportsConfig  `mapstructure:"sports"`
	Engine  EngineConfig  `mapstructure:"engine"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DataConfig picks where players and game logs come from.
type DataConfig struct {
	Provider string `mapstructure:"provider"`
	Dir      string `mapstructure:"dir"`
	DSN      string `mapstructure:"dsn"`
}

// SportsConfig points at the sport config directory.
type SportsConfig struct {
	Dir     string `mapstructure:"dir"`
	Default string `mapstructure:"default"`
}

// EngineConfig tunes the engine.
type EngineConfig struct {
	// Seed is optional; nil means sessions seed from the clock.
	Seed            *uint32 `mapstructure:"seed"`
	MaxMulligans    int     `mapstructure:"max_mulligans"`
	ProjectionNoise bool    `mapstructure:"projection_noise"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("data.provider", ProviderJSON)
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.dsn", "")
	v.SetDefault("sports.dir", "configs/sports")
	v.SetDefault("sports.default", "soccer")
	v.SetDefault("engine.max_mulligans", 100)
	v.SetDefault("engine.projection_noise", false)
}

// Load reads the YAML file at path, applies defaults and FANTASY_*
// environment overrides, and validates the result. An empty path loads
// defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default exists for the seed, so AutomaticEnv alone would not see it.
	if err := v.BindEnv("engine.seed"); err != nil {
		return nil, fmt.Errorf("bind engine.seed: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the runner depends on.
func (c *Config) Validate() error {
	var problems []error
	switch c.Data.Provider {
	case ProviderJSON:
		if c.Data.Dir == "" {
			problems = append(problems, errors.New("data.dir is required for the json provider"))
		}
	case ProviderSQLite:
		if c.Data.DSN == "" {
			problems = append(problems, errors.New("data.dsn is required for the sqlite provider"))
		}
	default:
		problems = append(problems, fmt.Errorf("data.provider %q is not one of json, sqlite", c.Data.Provider))
	}
	if c.Sports.Dir == "" {
		problems = append(problems, errors.New("sports.dir is required"))
	}
	if c.Engine.MaxMulligans < 0 {
		problems = append(problems, fmt.Errorf("engine.max_mulligans must be >= 0, got %d", c.Engine.MaxMulligans))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(problems...))
	}
	return nil
}
