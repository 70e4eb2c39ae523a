package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LINGUASHELF_PROFILE", "")
	t.Setenv("LINGUASHELF_BACKEND_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, "config.json", cfg.RuntimeConfig)
	assert.Equal(t, 2*time.Minute, cfg.ViewCacheTTL)
	assert.Equal(t, "http://localhost:8000", cfg.DevPublicURL)
	assert.Equal(t, int64(25<<20), cfg.MaxFileSize)
	assert.Len(t, cfg.SigningSecret, 32)
}

func TestLoadEnvironmentOverridesProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	profile := `backend_url: http://profile.example:9000
view_cache_ttl: 30s
s3:
  endpoint: minio.local:9000
  access_key: ak
  secret_key: sk
dev:
  workers: 4
`
	require.NoError(t, os.WriteFile(path, []byte(profile), 0o600))
	t.Setenv("LINGUASHELF_PROFILE", path)
	t.Setenv("LINGUASHELF_BACKEND_URL", "http://env.example:7000/")
	t.Setenv("LINGUASHELF_WORKERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env.example:7000", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.ViewCacheTTL)
	assert.Equal(t, "minio.local:9000", cfg.S3Endpoint)
	assert.Equal(t, "ak", cfg.S3AccessKey)
	assert.Equal(t, 4, cfg.ProcessingPool)
}

func TestLoadRejectsBadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("view_cache_ttl: soon\n"), 0o600))
	t.Setenv("LINGUASHELF_PROFILE", path)

	_, err := Load()
	require.Error(t, err)
}
