package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/claims-ui/config"
)

func TestInitLogger_WritesRotatingFile(t *testing.T) {
	prev := os.Stdout
	t.Cleanup(func() { os.Stdout = prev })
	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() { devNull.Close() })
	os.Stdout = devNull

	path := filepath.Join(t.TempDir(), "claims-ui.log")
	cfg := config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1}
	logger := InitLogger(cfg)
	logger.Debug("hello from the test", "component", "bootstrap")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello from the test"`)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("DISABLE_REDIS", "true")
	t.Setenv("API_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_URL")

	t.Setenv("API_URL", "http://localhost:5001/")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001", cfg.API.BaseURL)
}

func TestParseConfig_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVICE_NAME=Submit a crime form\n"), 0o600))
	t.Setenv("SERVICE_NAME", "")
	require.NoError(t, os.Unsetenv("SERVICE_NAME"))

	cfg, err := ParseConfig()
	require.NoError(t, err)
	assert.Equal(t, "Submit a crime form", cfg.Service.Name)
}
