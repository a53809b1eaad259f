// Package config loads runtime configuration for the combat simulator.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DECKFORGE_COMBAT_SEED.
const EnvPrefix = "DECKFORGE"

// Config is the root configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Combat  CombatConfig  `mapstructure:"combat"`
	Content ContentConfig `mapstructure:"content"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CombatConfig tunes a combat.
type CombatConfig struct {
	Seed          uint64 `mapstructure:"seed"`
	EnergyPerTurn int    `mapstructure:"energy_per_turn"`
	DrawPerTurn   int    `mapstructure:"draw_per_turn"`
	PlayerMaxHP   int    `mapstructure:"player_max_hp"`
	// MaxTurns caps simulated combats; 0 means no cap.
	MaxTurns int `mapstructure:"max_turns"`
}

// ContentConfig locates the content pack.
type ContentConfig struct {
	Path      string `mapstructure:"path"`
	Encounter string `mapstructure:"encounter"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("combat.seed", 1)
	v.SetDefault("combat.energy_per_turn", 3)
	v.SetDefault("combat.draw_per_turn", 5)
	v.SetDefault("combat.player_max_hp", 80)
	v.SetDefault("combat.max_turns", 50)

	v.SetDefault("content.path", "config/content.yaml")
	v.SetDefault("content.encounter", "")
}

// Load reads the YAML file at path, overlays DECKFORGE_* environment
// variables and validates the result. An empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	if c.Combat.EnergyPerTurn <= 0 {
		errs = append(errs, fmt.Errorf("combat.energy_per_turn must be positive"))
	}
	if c.Combat.DrawPerTurn <= 0 {
		errs = append(errs, fmt.Errorf("combat.draw_per_turn must be positive"))
	}
	if c.Combat.PlayerMaxHP <= 0 {
		errs = append(errs, fmt.Errorf("combat.player_max_hp must be positive"))
	}
	if c.Combat.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("combat.max_turns must not be negative"))
	}
	if strings.TrimSpace(c.Content.Path) == "" {
		errs = append(errs, fmt.Errorf("content.path is required"))
	}
	return errors.Join(errs...)
}
