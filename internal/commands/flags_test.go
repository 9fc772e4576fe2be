package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	assert.Equal(t, filepath.Join("/xdg/config", "planboard", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/xdg/data", "planboard"), DefaultDataDir())
}

func TestDefaultPaths_FallbackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/planner")

	assert.Equal(t, filepath.Join("/home/planner", ".config", "planboard", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/home/planner", ".local", "share", "planboard"), DefaultDataDir())
}
