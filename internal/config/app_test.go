package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestInit_Defaults(t *testing.T) {
	cfg, err := Init(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.HTTPServer.Port)
	require.Equal(t, int32(10), cfg.DbServer.MaxConns)
	require.Equal(t, 10, cfg.HTTPClient.TimeoutSeconds)
	require.Equal(t, 3600, cfg.Scheduler.JobDurationSec)
	require.Equal(t, int64(10000), cfg.Cache.MaxQuotes)
	require.Equal(t, "info", cfg.Logging.Level)
	require.False(t, cfg.DbServer.Enabled())
	require.False(t, cfg.RateAPI.Enabled())
}

func TestInit_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
http_server:
  port: "9090"
db_server:
  host: localhost
  port: "5432"
  name: fx
rate_api:
  bases: [" usd", "eur "]
scheduler:
  job_duration_sec: 60
logging:
  level: debug
`)
	t.Setenv("DB_USER", "fx_user")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("RATE_API_KEY", "k3y")

	cfg, err := Init(path)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.HTTPServer.Port)
	require.True(t, cfg.DbServer.Enabled())
	require.Equal(t, "user=fx_user password=secret host=localhost port=5432 dbname=fx sslmode=disable", cfg.DbServer.GetConnectionStr())
	require.Equal(t, []string{"USD", "EUR"}, cfg.RateAPI.Bases)
	require.True(t, cfg.RateAPI.Enabled())
	require.Equal(t, "https://v6.exchangerate-api.com/v6/k3y/latest", cfg.RateAPI.LatestURL())
	require.Equal(t, 60, cfg.Scheduler.JobDurationSec)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestInit_BadYAML(t *testing.T) {
	path := writeConfig(t, "http_server: [")
	_, err := Init(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "error reading config file")
}
