package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every variable, e.g. SPENTRA_SERVER_BASE_URL.
const envPrefix = "SPENTRA"

type envConfig struct {
	ServerBaseURL  string        `envconfig:"SERVER_BASE_URL"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	StorePath      string        `envconfig:"STORE_PATH"`
	LogLevel       string        `envconfig:"LOG_LEVEL"`
	LogFormat      string        `envconfig:"LOG_FORMAT"`
}

// parseEnv overlays cfg with SPENTRA_* variables that are set. An
// unparsable value (e.g. SPENTRA_REQUEST_TIMEOUT=soon) panics.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := envconfig.Process(envPrefix, &ec); err != nil {
		panic(err)
	}

	if ec.ServerBaseURL != "" {
		cfg.ServerBaseURL = ec.ServerBaseURL
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.StorePath != "" {
		cfg.StorePath = ec.StorePath
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
	if ec.LogFormat != "" {
		cfg.LogFormat = ec.LogFormat
	}
}
