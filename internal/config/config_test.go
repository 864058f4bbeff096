package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifi-ar/internal/markers"
	"wifi-ar/pkg/geometry"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	set, err := cfg.RequiredSet()
	require.NoError(t, err)
	assert.Equal(t, markers.DefaultRequiredSet(), set)
	assert.Equal(t, 640, cfg.Overlay.Width)
	assert.Equal(t, 480, cfg.Overlay.Height)
	assert.Equal(t, "q", cfg.Display.QuitKey)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeFile(t, `
camera:
  device: 2
signal:
  platform: linux
  scan_interval: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Camera.Device)
	assert.Equal(t, 30, cfg.Camera.MaxMisses)
	assert.Equal(t, "linux", cfg.Signal.Platform)
	assert.Equal(t, 5*time.Second, cfg.Signal.ScanInterval)
	assert.Equal(t, 10*time.Second, cfg.Signal.Timeout)
	assert.Len(t, cfg.Markers.Required, 4)
}

func TestLoadCustomMarkers(t *testing.T) {
	path := writeFile(t, `
markers:
  required:
    - {id: 1, corner: 2}
    - {id: 2, corner: 3}
    - {id: 3, corner: 0}
    - {id: 4, corner: 1}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	set, err := cfg.RequiredSet()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, set.IDs())
	assert.Equal(t, geometry.BottomRight, set[0].Corner)
	assert.Equal(t, geometry.TopRight, set[3].Corner)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"three markers", "markers:\n  required: [{id: 1}, {id: 2}, {id: 3}]\n", "exactly 4"},
		{"duplicate id", "markers:\n  required: [{id: 1}, {id: 1}, {id: 3}, {id: 4}]\n", "more than once"},
		{"corner range", "markers:\n  required: [{id: 1, corner: 4}, {id: 2}, {id: 3}, {id: 4}]\n", "out of range"},
		{"overlay size", "overlay:\n  width: 0\n", "overlay size"},
		{"quit key", "display:\n  quit_key: esc\n", "quit_key"},
		{"misses", "camera:\n  max_misses: 0\n", "max_misses"},
		{"platform", "signal:\n  platform: plan9\n", "signal.platform"},
		{"syntax", "camera: [\n", "failed to parse"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Camera.Device = 3
	cfg.Mask.DilateIterations = 1
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCompositorOptions(t *testing.T) {
	cfg := Default()
	cfg.Mask.DilateKernel = 5
	opts, err := cfg.CompositorOptions()
	require.NoError(t, err)
	assert.Equal(t, 5, opts.DilateKernel)
	assert.Equal(t, markers.DefaultRequiredSet(), opts.Required)
}
