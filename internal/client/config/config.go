package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the Spentra CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host:port of the REST backend, no trailing slash.
//   - RequestTimeout: upper bound for a single backend call.
//   - StorePath: SQLite file mirroring the session between runs.
//   - LogLevel / LogFormat: slog level name and "text" or "json".
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	StorePath      string
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 15 * time.Second
	c.StorePath = "spentra/session.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays the JSON
// file, the environment and finally command-line flags. Later sources take
// precedence over earlier ones. Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	args := os.Args[1:]
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
