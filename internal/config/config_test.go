package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "maskarada.sqlite3", cfg.DB)
	assert.InDelta(t, 46.05, cfg.Heart.Lat, 1e-9)
	assert.Equal(t, 50.0, cfg.Heart.Radius)
	assert.Equal(t, "ashes", cfg.Heart.Ashes)
	assert.Equal(t, "@hourly", cfg.Jobs.TokenPurge)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("MASKARADA_ADDR", ":9090")
	t.Setenv("MASKARADA_HEART_RADIUS", "75")
	t.Setenv("MASKARADA_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 75.0, cfg.Heart.Radius)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maskarada.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db: /var/lib/maskarada/ledger.sqlite3
heart:
  lat: 45.5
  lon: 13.7
  focus: altar
`), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/maskarada/ledger.sqlite3", cfg.DB)
	assert.Equal(t, 45.5, cfg.Heart.Lat)
	assert.Equal(t, "altar", cfg.Heart.Focus)
	assert.Equal(t, "ashes", cfg.Heart.Ashes)
}

func TestValidate(t *testing.T) {
	t.Setenv("MASKARADA_HEART_RADIUS", "0")
	t.Setenv("MASKARADA_LOG_LEVEL", "loud")

	_, err := Load(New(), "")
	require.Error(t, err)
	assert.ErrorContains(t, err, "heart.radius")
	assert.ErrorContains(t, err, "log_level")
}
