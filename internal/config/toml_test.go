package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Timing.UnitMs)
}

func TestLoadConfigTiming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[timing]\nunit-ms = 80\ndash-max = 4.0\nword-gap-max = 21.0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Timing.UnitMs)
	assert.Equal(t, 80, *cfg.Timing.UnitMs)
	require.NotNil(t, cfg.Timing.DashMax)
	assert.InDelta(t, 4.0, *cfg.Timing.DashMax, 1e-9)
	require.NotNil(t, cfg.Timing.WordGapMax)
	assert.InDelta(t, 21.0, *cfg.Timing.WordGapMax, 1e-9)
	assert.Nil(t, cfg.Timing.DotMin)
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[timing]\nunit = 80\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timing.unit")
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestDefaultConfigPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "morze", "config.toml"), DefaultConfigPath())
}
