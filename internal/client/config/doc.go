// Package config loads runtime configuration for the Spentra CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed with SPENTRA_ (see parseEnv).
//  4. Command-line flags (see parseFlags), which override everything else.
//
// Supported flags
//
//	-a string   backend base URL, e.g. http://127.0.0.1:8000
//	-t int      request timeout (seconds)
//	-s string   path of the local credential store (SQLite file)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations accept Go duration strings or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8000",
//	  "request_timeout": "15s",
//	  "store_path": "spentra/session.db",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// # Environment
//
//	SPENTRA_SERVER_BASE_URL, SPENTRA_REQUEST_TIMEOUT, SPENTRA_STORE_PATH,
//	SPENTRA_LOG_LEVEL, SPENTRA_LOG_FORMAT
package config
