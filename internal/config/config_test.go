package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.json", `{
  "server": {"bind": "127.0.0.1:9000"},
  "client": {"host": "http://files.local", "timeout": 5},
  "storage": {"driver": "s3", "s3": {"host": "minio:9000", "bucket": "drop", "force_path_style": true}}
}`)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Bind)
	assert.Equal(t, int64(defaultMaxMemory), cfg.Server.MaxMemory)
	assert.Equal(t, "http://files.local", cfg.Client.Host)
	assert.Equal(t, DriverS3, cfg.Storage.Driver)
	assert.Equal(t, "drop", cfg.Storage.S3.Bucket)
	assert.True(t, cfg.Storage.S3.ForcePathStyle)
	assert.Equal(t, "5s", cfg.ClientTimeout().String())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", `
storage:
  driver: gcs
  gcs:
    bucket: uploads
    prefix: drop/
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, DriverGCS, cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.GCS.Bucket)
	assert.Equal(t, "drop/", cfg.Storage.GCS.Prefix)
	assert.Equal(t, defaultBind, cfg.Server.Bind)
	assert.Equal(t, defaultHost, cfg.Client.Host)
}

func TestLoadRejectsInvalidDriver(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.json", `{"storage": {"driver": "ftp"}}`)
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}

func TestLoadRejectsMissingBucket(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.json", `{"storage": {"driver": "s3", "s3": {"host": "minio"}}}`)
	_, err := Load(p)
	require.Error(t, err)
}

func TestLoadFirstSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.json", `{"server": {"bind": ":7000"}}`)

	cfg, err := LoadFirst("", filepath.Join(dir, "missing.json"), p)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Bind)
	assert.Equal(t, DriverLocal, cfg.Storage.Driver)
}

func TestLoadFirstNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFirst(filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultLocalDir, cfg.Storage.Local.Dir)
	assert.Zero(t, cfg.ClientTimeout())
}

func TestGlobal(t *testing.T) {
	SetGlobal(nil)
	assert.Equal(t, defaultHost, Global().Client.Host)

	cfg := Default()
	cfg.Client.Host = "http://other:1"
	SetGlobal(cfg)
	t.Cleanup(func() { SetGlobal(nil) })
	assert.Equal(t, "http://other:1", Global().Client.Host)
}
