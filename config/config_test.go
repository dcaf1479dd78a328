package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("CONFIG_PATH", path)
	return LoadConfig()
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadFrom(t, `
security:
  jwtSecret: test-secret
`)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "./data", cfg.Storage.File.DataDir)
	assert.Equal(t, "admin", cfg.Security.AdminID)
	assert.Equal(t, "japanese-chat", cfg.Logging.Service)
	assert.Equal(t, "std", cfg.Logging.Backend)

	assert.Equal(t, 2*time.Second, cfg.LogoutGrace())
	assert.Equal(t, 10*time.Second, cfg.RoomDeleteGrace())
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("missing jwt secret", func(t *testing.T) {
		_, err := loadFrom(t, `
http:
  addr: ":3000"
`)
		assert.Error(t, err)
	})

	t.Run("unknown storage backend", func(t *testing.T) {
		_, err := loadFrom(t, `
storage:
  backend: mongo
security:
  jwtSecret: test-secret
`)
		assert.Error(t, err)
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		_, err := loadFrom(t, `
storage:
  backend: postgres
security:
  jwtSecret: test-secret
`)
		assert.Error(t, err)
	})
}

func TestPresenceDurations(t *testing.T) {
	cfg, err := loadFrom(t, `
presence:
  logoutGrace: 750ms
  roomDeleteGrace: 30s
security:
  jwtSecret: test-secret
`)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.LogoutGrace())
	assert.Equal(t, 30*time.Second, cfg.RoomDeleteGrace())

	// junk falls back to the defaults
	cfg, err = loadFrom(t, `
presence:
  logoutGrace: soon
  roomDeleteGrace: "-5s"
security:
  jwtSecret: test-secret
`)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.LogoutGrace())
	assert.Equal(t, 10*time.Second, cfg.RoomDeleteGrace())
}
