package opencv

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifi-ar/internal/homography"
	"wifi-ar/pkg/geometry"
	"wifi-ar/pkg/imageutil"
)

var black = color.RGBA{A: 255}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func TestWarpPerspectiveIdentityReproducesOverlay(t *testing.T) {
	src := gradient(64, 48)

	H, err := homography.Estimate(homography.SourceQuad(64, 48), homography.SourceQuad(64, 48))
	require.NoError(t, err)

	out, err := WarpPerspective(src, H, image.Pt(64, 48))
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestWarpPerspectiveOutsideIsBlack(t *testing.T) {
	src := imageutil.Solid(20, 20, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	// Shift by 30px: the left 30 columns of the output have no source.
	H := geometry.Homography{1, 0, 30, 0, 1, 0, 0, 0, 1}
	out, err := WarpPerspective(src, H, image.Pt(80, 20))
	require.NoError(t, err)

	assert.Equal(t, black, out.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{200, 200, 200, 255}, out.RGBAAt(40, 10))
	assert.Equal(t, black, out.RGBAAt(70, 10))
}

func TestWarpPerspectiveSolidColorInsideQuad(t *testing.T) {
	k := color.RGBA{R: 12, G: 200, B: 99, A: 255}
	src := imageutil.Solid(640, 480, k)

	dst := geometry.Quad{{100, 60}, {500, 90}, {540, 400}, {70, 430}}
	H, err := homography.Estimate(homography.SourceQuad(640, 480), dst)
	require.NoError(t, err)

	out, err := WarpPerspective(src, H, image.Pt(640, 480))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 640, 480), out.Bounds())

	for _, p := range []geometry.Point2D{geometry.Centroid(dst.Points()), {110, 75}, {520, 395}, {80, 420}} {
		assert.Equal(t, k, out.RGBAAt(int(p.X), int(p.Y)), "pixel %v", p)
	}
	assert.Equal(t, black, out.RGBAAt(5, 5))
}

func TestWarpPerspectiveNonInvertible(t *testing.T) {
	_, err := WarpPerspective(gradient(4, 4), geometry.Homography{}, image.Pt(4, 4))
	require.Error(t, err)
	assert.True(t, errors.Is(err, homography.ErrDegenerateHomography))
}

func countOn(m *image.Gray) int {
	var n int
	for _, v := range m.Pix {
		if v == 0xff {
			n++
		}
	}
	return n
}

func TestDilate(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 11, 11))
	m.SetGray(5, 5, color.Gray{Y: 0xff})

	once, err := Dilate(m, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 9, countOn(once))

	twice, err := Dilate(m, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 25, countOn(twice))
	assert.Equal(t, uint8(0xff), twice.GrayAt(3, 7).Y)
	assert.Equal(t, uint8(0), twice.GrayAt(2, 5).Y)

	// Input untouched.
	assert.Equal(t, 1, countOn(m))
}

func TestDilateClipsAtBorder(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 5, 5))
	m.SetGray(0, 0, color.Gray{Y: 0xff})

	out, err := Dilate(m, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, countOn(out))
}

func TestDilateNoop(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 5, 5))
	m.SetGray(2, 2, color.Gray{Y: 0xff})

	for _, tc := range []struct{ kernel, iterations int }{{1, 3}, {3, 0}} {
		out, err := Dilate(m, tc.kernel, tc.iterations)
		require.NoError(t, err)
		assert.Equal(t, 1, countOn(out), "kernel %d iterations %d", tc.kernel, tc.iterations)
	}
}
