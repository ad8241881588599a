package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASTEPASS_DATA_DIR", dir)
	t.Setenv("TASTEPASS_API_URL", "")
	t.Setenv("TASTEPASS_LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, cfg.APIURL)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "session.json"), cfg.SessionPath())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASTEPASS_DATA_DIR", dir)
	t.Setenv("TASTEPASS_API_URL", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("api_url: https://staging.tastepass.app\nlog_level: debug\n"), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://staging.tastepass.app", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASTEPASS_DATA_DIR", dir)
	t.Setenv("TASTEPASS_API_URL", "http://localhost:4000")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("api_url: https://staging.tastepass.app\n"), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000", cfg.APIURL)
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASTEPASS_DATA_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("api_url: [unclosed"), 0600))

	_, err := Load()
	assert.Error(t, err)
}
