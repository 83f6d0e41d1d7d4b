// Package config loads runtime configuration for the OnTrack CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST endpoint
//	-d string   path to the local state database
//	-p int      trips per dashboard page
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "15s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8000",
//	  "database_path": "ontrack.db",
//	  "page_size": 10,
//	  "request_timeout": "15s",
//	  "requests_per_second": 10
//	}
//
// Primary API
//
//   - type Config                     — holds the server, storage, and paging settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
