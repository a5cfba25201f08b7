package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/jsrevive/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "cjs", c.Format)
	require.Equal(t, "readable", c.Mangle)
	require.True(t, c.Inline)
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jsrevive.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: esm\nminify: true\n"), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "esm", c.Format)
	require.True(t, c.Minify)
	// unspecified fields keep their env/default value.
	require.Equal(t, "readable", c.Mangle)
}

func TestLoadMissingYAMLIsNotAnError(t *testing.T) {
	c, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "cjs", c.Format)
}
