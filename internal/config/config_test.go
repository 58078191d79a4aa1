package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsSinYAML(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Rate.Backend)
	assert.Equal(t, 120, cfg.Rate.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateWindow())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_YAMLConOverrideDeEntorno(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
server:
  addr: ":9000"
storage:
  dsn: "postgres://localhost/oasis"
auth:
  jwt_secret: "desde-yaml"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("JWT_SECRET", "desde-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "postgres://localhost/oasis", cfg.Storage.DSN)
	assert.Equal(t, "desde-env", cfg.Auth.JWTSecret, "el entorno pisa al YAML")
}

func TestValidate(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Error(t, cfg.Validate(), "sin DSN ni secret debe fallar")

	cfg.Storage.DSN = "postgres://localhost/oasis"
	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}
