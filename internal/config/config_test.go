package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with env overrides", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.json"))
		t.Setenv("BACKEND_URL", "https://api.example.com")
		t.Setenv("DB_PATH", filepath.Join(dir, "data", "frontdesk.db"))
		t.Setenv("PORT", "9090")
		t.Setenv("FRONTDESK_REPLAY_INTERVAL_SECONDS", "30")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.ServerAddress)
		assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Sync.ReplayInterval())
		assert.Equal(t, time.Minute, cfg.Sync.ProbeInterval())
		assert.Equal(t, 5*time.Minute, cfg.Sync.HeartbeatInterval())
		assert.Equal(t, filepath.Join(dir, "data", "frontdesk.device.json"), cfg.BackupPath)
		assert.DirExists(t, filepath.Join(dir, "data"))
	})

	t.Run("yaml file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "frontdesk.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
databasePath: `+filepath.Join(dir, "fd.db")+`
timezone: America/Sao_Paulo
backend:
  baseUrl: https://condo.example.com/api
  apiKey: secret
  timeoutSeconds: 5
photo:
  maxDimension: 640
  quality: 70
`), 0600))
		t.Setenv("CONFIG_PATH", path)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "https://condo.example.com/api", cfg.Backend.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Backend.Timeout())
		assert.Equal(t, 640, cfg.Photo.MaxDimension)
		assert.Equal(t, 120, cfg.Sync.ReplayIntervalSeconds, "unset keys keep defaults")

		loc, err := cfg.Location()
		require.NoError(t, err)
		assert.Equal(t, "America/Sao_Paulo", loc.String())
	})

	t.Run("json file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"databasePath": "`+filepath.Join(dir, "fd.db")+`", "backend": {"baseUrl": "https://b.example.com"}, "device": {"name": "Portaria Norte"}}`), 0600))
		t.Setenv("CONFIG_PATH", path)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "Portaria Norte", cfg.Device.Name)
	})

	t.Run("invalid settings", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.json"))
		t.Setenv("DB_PATH", filepath.Join(dir, "fd.db"))

		_, err := Load()
		assert.ErrorContains(t, err, "baseUrl")

		t.Setenv("BACKEND_URL", "https://api.example.com")
		t.Setenv("FRONTDESK_PROBE_INTERVAL_SECONDS", "0")
		_, err = Load()
		assert.ErrorContains(t, err, "probeIntervalSeconds")
	})
}
