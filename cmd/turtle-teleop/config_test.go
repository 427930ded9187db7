package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/turtle-teleop/pkg/teleop"
)

func withOptions(t *testing.T, o Options) {
	t.Helper()
	saved := opts
	opts = o
	t.Cleanup(func() { opts = saved })
}

func TestLoadFileConfig_NoOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turtle-teleop.toml")
	require.NoError(t, os.WriteFile(path, []byte("scale_linear = 1.5\nlog_level = \"warn\"\n"), 0644))
	withOptions(t, Options{Config: path, LogLevel: "debug"})
	t.Setenv("TURTLE_SCALE_ANGULAR", "9")

	cfg, err := loadFileConfig()
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.ScaleLinear)
	assert.Equal(t, 2.0, cfg.ScaleAngular)
	assert.Equal(t, "warn", cfg.LogLevel)

	merged, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9.0, merged.ScaleAngular)
	assert.Equal(t, "debug", merged.LogLevel)
}

func TestSessionError(t *testing.T) {
	assert.NoError(t, sessionError(nil))

	readErr := fmt.Errorf("%w: %w", teleop.ErrKeyboardRead, errors.New("input/output error"))
	assert.Contains(t, sessionError(readErr).Error(), "read():")

	rawErr := errors.New("keyboard: get termios: inappropriate ioctl for device")
	got := sessionError(rawErr)
	assert.NotContains(t, got.Error(), "read()")
	assert.Contains(t, got.Error(), "teleoperate:")
	assert.ErrorIs(t, got, rawErr)
}
