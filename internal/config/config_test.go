package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := Load(filepath.Join(tmpDir, "config.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultAuthBaseURL, cfg.AuthBaseURL)
	assert.Equal(t, DefaultRefreshSeconds, cfg.RefreshSeconds)
	assert.Empty(t, cfg.PortfolioID)
}

func TestLoad_Partial(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(path, []byte("portfolio_id: pf-123\n"), 0600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pf-123", cfg.PortfolioID)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultRefreshSeconds, cfg.RefreshSeconds)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(path, []byte("{not yaml"), 0600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	in := &Config{
		APIBaseURL:     "http://localhost:5000",
		AuthBaseURL:    "http://localhost:9099",
		PortfolioID:    "pf-456",
		RefreshSeconds: 10,
	}
	require.NoError(t, Save(path, in))

	// Verify permissions (0600)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	assert.Equal(t, filepath.Join("/tmp/xdg-test", "stockr"), ConfigDir())
}
