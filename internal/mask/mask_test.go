package mask

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifi-ar/pkg/geometry"
	"wifi-ar/pkg/imageutil"
)

func TestBuildFillsQuad(t *testing.T) {
	q := geometry.Quad{{10, 10}, {50, 12}, {48, 40}, {12, 38}}
	m := Build(q, image.Pt(64, 48))

	assert.Equal(t, uint8(On), m.GrayAt(30, 25).Y, "centre")
	assert.Equal(t, uint8(On), m.GrayAt(10, 10).Y, "corner pixel")
	assert.Equal(t, uint8(Off), m.GrayAt(2, 2).Y)
	assert.Equal(t, uint8(Off), m.GrayAt(60, 45).Y)

	for _, v := range m.Pix {
		assert.True(t, v == On || v == Off, "mask must be binary, got %d", v)
	}
}

func TestBuildRectangleArea(t *testing.T) {
	// Corners on pixel centres: the filled block spans x 4..13, y 2..9.
	m := Build(geometry.Quad{{4, 2}, {13, 2}, {13, 9}, {4, 9}}, image.Pt(20, 20))

	var on int
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if m.GrayAt(x, y).Y == On {
				on++
				assert.True(t, x >= 4 && x <= 13 && y >= 2 && y <= 9, "stray pixel at %d,%d", x, y)
			}
		}
	}
	assert.Equal(t, 10*8, on)
}

func TestBlendBoundaries(t *testing.T) {
	frame := imageutil.Solid(4, 1, color.RGBA{10, 20, 30, 255})
	warped := imageutil.Solid(4, 1, color.RGBA{200, 100, 250, 255})
	m := image.NewGray(image.Rect(0, 0, 4, 1))
	m.Pix = []uint8{Off, On, 128, 64}

	out, err := Blend(frame, warped, m)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{10, 20, 30, 255}, out.RGBAAt(0, 0), "mask min passes the frame through")
	assert.Equal(t, color.RGBA{200, 100, 250, 255}, out.RGBAAt(1, 0), "mask max gives the warped pixel")

	// 128/255 of the way from frame to warped.
	a := 128.0 / 255.0
	want := color.RGBA{
		R: uint8(200*a + 10*(1-a) + 0.5),
		G: uint8(100*a + 20*(1-a) + 0.5),
		B: uint8(250*a + 30*(1-a) + 0.5),
		A: 255,
	}
	assert.Equal(t, want, out.RGBAAt(2, 0))

	// Inputs are not modified.
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, frame.RGBAAt(1, 0))
}

func TestBlendSizeMismatch(t *testing.T) {
	frame := imageutil.Solid(4, 4, color.RGBA{A: 255})
	_, err := Blend(frame, imageutil.Solid(3, 4, color.RGBA{}), image.NewGray(image.Rect(0, 0, 4, 4)))
	assert.Error(t, err)

	_, err = Blend(frame, imageutil.Solid(4, 4, color.RGBA{}), image.NewGray(image.Rect(0, 0, 2, 2)))
	assert.Error(t, err)
}

func TestCoverage(t *testing.T) {
	m := Build(geometry.RectQuad(9, 9), image.Pt(20, 20))
	assert.InDelta(t, 100.0/400.0, Coverage(m), 1e-9)
}
