package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "senbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultTarget, cfg.Target)
	assert.Equal(t, 1280, cfg.WindowWidth)
	assert.Equal(t, 720, cfg.WindowHeight)
	assert.Equal(t, 30, cfg.Timeout)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.RunOnGrid)
	assert.Empty(t, cfg.HubURL)
	assert.Empty(t, cfg.ImplicitWait)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
default_domain: http://www.example.com
hub_url: ws://grid.local:3000/
run_on_grid: true
target: "FF,LATEST,ANY;CH,LATEST,ANY"
window_width: 1000
window_height: 800
timeout: 5
implicit_wait: "4"
headless: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://www.example.com", cfg.DefaultDomain)
	assert.Equal(t, "ws://grid.local:3000/", cfg.HubURL)
	assert.True(t, cfg.RunOnGrid)
	assert.Equal(t, "FF,LATEST,ANY;CH,LATEST,ANY", cfg.Target)
	assert.Equal(t, 1000, cfg.WindowWidth)
	assert.Equal(t, 800, cfg.WindowHeight)
	assert.Equal(t, 5, cfg.Timeout)
	assert.Equal(t, "4", cfg.ImplicitWait)
	assert.False(t, cfg.Headless)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, "target: FF,LATEST,WINDOWS\n"))
	require.NoError(t, err)

	assert.Equal(t, "FF,LATEST,WINDOWS", cfg.Target)
	assert.Equal(t, DefaultWindowWidth, cfg.WindowWidth)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.True(t, cfg.Headless)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "window_width: [not, a, number]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SENBOT_HUB_URL", "http://hub.local:4444")
	t.Setenv("SENBOT_RUN_ON_GRID", "true")
	t.Setenv("SENBOT_IMPLICIT_WAIT", "7")
	t.Setenv("SENBOT_WINDOW_WIDTH", "640")

	cfg := Default()
	cfg.Target = "FF,LATEST,ANY"
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, "http://hub.local:4444", cfg.HubURL)
	assert.True(t, cfg.RunOnGrid)
	assert.Equal(t, "7", cfg.ImplicitWait)
	assert.Equal(t, 640, cfg.WindowWidth)

	// untouched by the environment
	assert.Equal(t, "FF,LATEST,ANY", cfg.Target)
	assert.Equal(t, DefaultWindowHeight, cfg.WindowHeight)
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("SENBOT_TIMEOUT", "soon")

	cfg := Default()
	err := ApplyEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SENBOT_* environment")
}
