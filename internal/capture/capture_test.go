package capture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifi-ar/pkg/imageutil"
)

func TestLoadStill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, imageutil.Solid(8, 6, color.RGBA{R: 1, G: 2, B: 3, A: 255})))
	require.NoError(t, f.Close())

	s, err := LoadStill(path)
	require.NoError(t, err)
	defer s.Close()

	a, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), a.Bounds())
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, a.RGBAAt(4, 4))

	// Each call returns an independent copy.
	a.SetRGBA(0, 0, color.RGBA{})
	b, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, b.RGBAAt(0, 0))
}

func TestLoadStillErrors(t *testing.T) {
	_, err := LoadStill(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = LoadStill(bad)
	assert.Error(t, err)
}

func TestSequence(t *testing.T) {
	f := imageutil.Solid(2, 2, color.RGBA{A: 255})
	s := &Sequence{Frames: []*image.RGBA{f, nil}}

	got, err := s.Next()
	require.NoError(t, err)
	assert.Same(t, f, got)

	_, err = s.Next()
	assert.ErrorIs(t, err, ErrNoFrame)

	_, err = s.Next()
	assert.ErrorIs(t, err, ErrNoFrame)
	assert.Contains(t, err.Error(), "exhausted")
}
