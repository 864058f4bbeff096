package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifi-ar/internal/signal"
	"wifi-ar/pkg/colorutil"
)

func snapshot() signal.Snapshot {
	s := signal.NewSnapshot()
	s.Add(signal.Network{SSID: "HomeNet", Strength: -40, Locked: true})
	s.Add(signal.Network{SSID: "Office", Strength: -85, Locked: true})
	s.Add(signal.Network{SSID: "Cafe", Strength: -70})
	return s
}

func TestRenderSizeAndBackground(t *testing.T) {
	r := NewRenderer(DefaultWidth, DefaultHeight)
	img := r.Render(signal.NewSnapshot())

	require.Equal(t, image.Rect(0, 0, 640, 480), img.Bounds())
	assert.Equal(t, colorutil.Black, img.RGBAAt(600, 470))
	assert.True(t, regionHas(img, image.Rect(0, 0, 120, 40), colorutil.White), "LOCKED header")
	assert.True(t, regionHas(img, image.Rect(320, 0, 480, 40), colorutil.White), "UNLOCKED header")
}

func TestRenderDeterministic(t *testing.T) {
	r := NewRenderer(DefaultWidth, DefaultHeight)
	a := r.Render(snapshot())
	b := r.Render(snapshot())
	assert.Equal(t, a.Pix, b.Pix)
}

func TestRenderColumnsAndColors(t *testing.T) {
	r := NewRenderer(DefaultWidth, DefaultHeight)
	img := r.Render(snapshot())

	// Two locked entries: spacing 240, strongest (HomeNet) on baseline 60.
	assert.True(t, regionHas(img, image.Rect(0, 36, 320, 66), colorutil.SignalColor(-40)))
	assert.True(t, regionHas(img, image.Rect(0, 276, 320, 306), colorutil.SignalColor(-85)))
	// One unlocked entry on the right-hand column.
	assert.True(t, regionHas(img, image.Rect(320, 36, 640, 66), colorutil.SignalColor(-70)))
	assert.False(t, regionHas(img, image.Rect(0, 36, 320, 66), colorutil.SignalColor(-70)))
}

func regionHas(img *image.RGBA, r image.Rectangle, c color.RGBA) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				return true
			}
		}
	}
	return false
}
