package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "")
	t.Setenv("UPSTREAM_API_KEY", "")
	t.Setenv("APP_ENV", "")

	path := writeConfig(t, `
upstream:
  base_url: https://prices.example.com/getPriceCalendar
  headers:
    x-rapidapi-host: prices.example.com
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "flights.db", cfg.Database.SQLitePath)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout())
	assert.Equal(t, int64(1), cfg.Search.MaxConcurrent)
	assert.Equal(t, "https://www.skyscanner.co.in/", cfg.Browser.StartURL)
	assert.Equal(t, "prices.example.com", cfg.Upstream.Headers["x-rapidapi-host"])
	assert.Equal(t, "development", cfg.Log.Env)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "http://stub.local/prices")
	t.Setenv("UPSTREAM_API_KEY", "secret")
	t.Setenv("APP_ENV", "production")

	path := writeConfig(t, `
database:
  driver: postgres
  host: localhost
  port: 5432
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://stub.local/prices", cfg.Upstream.BaseURL)
	assert.Equal(t, "secret", cfg.Upstream.Headers["x-rapidapi-key"])
	assert.Equal(t, "production", cfg.Log.Env)
	assert.Contains(t, cfg.Database.DSN(), "port=5432")
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "")
	t.Setenv("UPSTREAM_API_KEY", "")

	testCases := []struct {
		name string
		body string
	}{
		{name: "missing upstream", body: "http:\n  address: :9090\n"},
		{name: "unknown driver", body: "database:\n  driver: mysql\nupstream:\n  base_url: http://x\n"},
		{name: "bad yaml", body: "upstream: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
