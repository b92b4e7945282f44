// Package config loads the api key file and provides a typed Config used
// across the bot. The file holds every credential the process needs; nothing
// else is read after startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/disgoorg/snowflake/v2"
)

const DefaultPath = "data/apikeys.json"

type Config struct {
	// Discord bot token.
	Discord string `json:"discord"`
	// Postgres DSN, e.g. postgres://james:pw@localhost:5432/discord_testing
	Postgres string `json:"postgres"`
	// Redis address, host:port.
	Redis string `json:"redis"`
	// TMDB api key. Empty disables the tmdb cog.
	TMDB string `json:"tmdb"`
	// User id of the bot owner, for owner-only commands.
	OwnerID snowflake.ID `json:"owner_id"`
	// Extensions that exist but should not be loaded at startup.
	DoNotLoad []string `json:"do_not_load"`
	// Listen address for /metrics. Empty disables the listener.
	MetricsAddr string `json:"metrics_addr"`
}

// Load reads and parses the api key file. Any failure here is meant to be
// fatal before a single network connection is attempted.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Redis == "" {
		cfg.Redis = "localhost:6379"
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Discord == "" {
		return fmt.Errorf("config: missing discord token")
	}
	if c.Postgres == "" {
		return fmt.Errorf("config: missing postgres dsn")
	}
	return nil
}
