package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000", c.ServerBaseURL)
	assert.Equal(t, "ontrack.db", c.DatabasePath)
	assert.Equal(t, 10, c.PageSize)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, float64(10), c.RequestsPerSecond)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8000", cfg.ServerBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}
