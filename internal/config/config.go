// Package config loads server configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
)

// Config holds all server settings. Every field can be overridden through
// environment variables; command-line flags take precedence over both.
type Config struct {
	// HTTPAddress is the listen address for the API server
	HTTPAddress string `env:"SOLO_RPG_HTTP_ADDRESS" envDefault:":8080"`

	// RedisAddress points at the Redis instance backing persistence. Empty
	// means run with in-memory storage only.
	RedisAddress string `env:"SOLO_RPG_REDIS_ADDRESS"`

	// RedisPassword is the optional Redis AUTH password
	RedisPassword string `env:"SOLO_RPG_REDIS_PASSWORD"`

	// RedisDB selects the Redis logical database
	RedisDB int `env:"SOLO_RPG_REDIS_DB" envDefault:"0"`

	// JokerReshuffleDelay is how long after a joker draw the automatic
	// reshuffle fires
	JokerReshuffleDelay time.Duration `env:"SOLO_RPG_JOKER_RESHUFFLE_DELAY" envDefault:"2s"`

	// HistoryMaxEntries bounds the roll history log
	HistoryMaxEntries int `env:"SOLO_RPG_HISTORY_MAX_ENTRIES" envDefault:"20"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM
	ShutdownTimeout time.Duration `env:"SOLO_RPG_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Validate checks the loaded configuration for nonsense values
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.HTTPAddress == "" {
		vb.RequiredField("HTTPAddress")
	}
	if c.JokerReshuffleDelay < 0 {
		vb.Fieldf("JokerReshuffleDelay", "must not be negative, got %s", c.JokerReshuffleDelay)
	}
	if c.HistoryMaxEntries < 0 {
		vb.Fieldf("HistoryMaxEntries", "must not be negative, got %d", c.HistoryMaxEntries)
	}
	if c.ShutdownTimeout <= 0 {
		vb.Fieldf("ShutdownTimeout", "must be positive, got %s", c.ShutdownTimeout)
	}

	return vb.Build()
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
