// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (GraphQL client, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Roster server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Upstream character API
	GraphQLEndpoint string        `env:"GRAPHQL_ENDPOINT" envDefault:"https://rickandmortyapi.com/graphql"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT"    envDefault:"15s"`

	// Key-Value Cache (Redis). Empty selects the in-process board store.
	RedisURL          string        `env:"REDIS_URL"`
	CharacterCacheTTL time.Duration `env:"CHARACTER_CACHE_TTL" envDefault:"10m"`
	BoardTTL          time.Duration `env:"BOARD_TTL"           envDefault:"24h"`

	// Signing secret for board session tokens
	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("config: FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}

	if cfg.CharacterCacheTTL <= 0 {
		return nil, fmt.Errorf("config: CHARACTER_CACHE_TTL must be positive, got %s", cfg.CharacterCacheTTL)
	}

	if cfg.BoardTTL <= 0 {
		return nil, fmt.Errorf("config: BOARD_TTL must be positive, got %s", cfg.BoardTTL)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// UsesRedis reports whether a Redis URL was configured.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != ""
}

// AllowedOrigins returns the trimmed, non-empty entries of EXTRA_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
