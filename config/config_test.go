package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileMeansDemoMode(t *testing.T) {
	cfg := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.False(t, cfg.DB.Configured())
	assert.Equal(t, ":8080", cfg.Server.Port)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
db:
  host: db.internal
  port: 5432
  user: app
  password: secret
  name: prepbuddy
jwt:
  secret: from-file
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", ":9090")

	cfg := LoadFile(path)

	assert.True(t, cfg.DB.Configured())
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "from-env", cfg.JWT.Secret, "env wins over file")
	assert.Equal(t, ":9090", cfg.Server.Port)
}
