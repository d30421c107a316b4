package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: spi\nsource: fixed\ncategory: hazardous\nmatrix:\n  serpentine: true\nspi:\n  dev: SPI0.0\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "spi", c.Driver)
	assert.Equal(t, "hazardous", c.Category)
	assert.Equal(t, "SPI0.0", c.SPI.Dev)
	assert.True(t, c.Matrix.Serpentine)
	// untouched keys keep their defaults
	assert.Equal(t, 8, c.Matrix.Rows)
	assert.Equal(t, 13, c.Matrix.Cols)
	assert.Equal(t, 5000, c.IntervalMs)
	assert.Equal(t, ":8080", c.Addr)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(err))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: [unterminated"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.Brightness = 0.25
	c.Source = "push"
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("AQM_DRIVER", "spi")
	t.Setenv("AQM_INTERVAL_MS", "250")
	t.Setenv("AQM_BRIGHTNESS", "0.9")
	t.Setenv("AQM_SPI_DEV", "SPI1.0")

	c := Default()
	require.NoError(t, ApplyEnv(c))
	assert.Equal(t, "spi", c.Driver)
	assert.Equal(t, 250, c.IntervalMs)
	assert.Equal(t, 0.9, c.Brightness)
	assert.Equal(t, "SPI1.0", c.SPI.Dev)
	assert.Equal(t, "demo", c.Source)
}

func TestApplyEnvBadNumber(t *testing.T) {
	t.Setenv("AQM_INTERVAL_MS", "soon")
	c := Default()
	err := ApplyEnv(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AQM_INTERVAL_MS")
	assert.Equal(t, 5000, c.IntervalMs)
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AQM_SOURCE=push\nAQM_CATEGORY=good\n"), 0644))
	t.Setenv("AQM_CATEGORY", "moderate") // already set, must win
	t.Setenv("AQM_SOURCE", "")
	os.Unsetenv("AQM_SOURCE")

	require.NoError(t, LoadEnvFile(path))
	t.Cleanup(func() { os.Unsetenv("AQM_SOURCE") })

	c := Default()
	require.NoError(t, ApplyEnv(c))
	assert.Equal(t, "push", c.Source)
	assert.Equal(t, "moderate", c.Category)
}

func TestOverlayKeepsUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("brightness: 0.1\n"), 0644))

	c := Default()
	c.Addr = ":9000" // e.g. from a flag
	require.NoError(t, Overlay(path, c))
	assert.Equal(t, 0.1, c.Brightness)
	assert.Equal(t, ":9000", c.Addr)
}
