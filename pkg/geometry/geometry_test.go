package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomographyInverseRoundTrip(t *testing.T) {
	h := Homography{1.2, 0.1, 30, -0.05, 0.9, 12, 0.0004, 0.0002, 1}

	inv, ok := h.Inverse()
	require.True(t, ok)

	for _, p := range []Point2D{{0, 0}, {640, 0}, {640, 480}, {0, 480}, {123.5, 77.25}} {
		q, ok := h.Apply(p)
		require.True(t, ok)
		back, ok := inv.Apply(q)
		require.True(t, ok)
		assert.InDelta(t, p.X, back.X, 1e-6)
		assert.InDelta(t, p.Y, back.Y, 1e-6)
	}
}

func TestHomographySingular(t *testing.T) {
	_, ok := Homography{}.Inverse()
	assert.False(t, ok)

	_, ok = Homography{1, 2, 3, 2, 4, 6, 0, 0, 1}.Inverse()
	assert.False(t, ok)
}

func TestIdentity(t *testing.T) {
	assert.True(t, IdentityHomography().IsIdentity(1e-12))
	scaled := Homography{2, 0, 0, 0, 2, 0, 0, 0, 2}
	assert.True(t, scaled.IsIdentity(1e-12), "identity up to scale")
	assert.False(t, Homography{1, 0, 1, 0, 1, 0, 0, 0, 1}.IsIdentity(1e-6))
}

func TestHasCollinearTriple(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assert.False(t, HasCollinearTriple(square, 1e-6))

	line := []Point2D{{0, 0}, {5, 0}, {10, 0}, {0, 10}}
	assert.True(t, HasCollinearTriple(line, 1e-6))

	coincident := []Point2D{{0, 0}, {0, 0}, {10, 10}, {0, 10}}
	assert.True(t, HasCollinearTriple(coincident, 1e-6))
}

func TestQuadBounds(t *testing.T) {
	q := Quad{{10.2, 5.5}, {50.9, 4}, {60, 40.1}, {8, 39}}
	assert.Equal(t, image.Rect(8, 4, 60, 41), q.Bounds())
	c := Centroid(q.Points())
	assert.InDelta(t, 32.275, c.X, 1e-9)
	assert.InDelta(t, 22.15, c.Y, 1e-9)
}

func TestIsConvex(t *testing.T) {
	assert.True(t, IsConvex(RectQuad(10, 10).Points()))
	assert.True(t, IsConvex([]Point2D{{0, 10}, {10, 10}, {10, 0}, {0, 0}}), "either winding")
	assert.False(t, IsConvex([]Point2D{{100, 100}, {400, 100}, {200, 200}, {100, 400}}), "concave")
	assert.False(t, IsConvex([]Point2D{{0, 0}, {10, 10}, {10, 0}, {0, 10}}), "bow tie")
	assert.False(t, IsConvex([]Point2D{{0, 0}, {1, 1}}))
}

func TestCornerString(t *testing.T) {
	assert.Equal(t, "TL", TopLeft.String())
	assert.Equal(t, "BL", BottomLeft.String())
	assert.False(t, Corner(4).Valid())
}
