package config

import "time"

// Config holds runtime settings for the OnTrack CLI.
//
// Units: RequestTimeout is a time.Duration (e.g., 15*time.Second).
// RequestsPerSecond bounds outbound API traffic; PageSize is the number of
// trips shown per dashboard page.
type Config struct {
	ServerBaseURL     string
	DatabasePath      string
	PageSize          int
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000"
	c.DatabasePath = "ontrack.db"
	c.PageSize = 10
	c.RequestTimeout = 15 * time.Second
	c.RequestsPerSecond = 10
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
