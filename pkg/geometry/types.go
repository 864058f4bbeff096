// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"fmt"
	"image"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X, Y float64
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point2D) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Image rounds the point to the nearest integer pixel.
func (p Point2D) Image() image.Point {
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

func (p Point2D) String() string {
	return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y)
}

// Corner indexes a Quad.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "TL"
	case TopRight:
		return "TR"
	case BottomRight:
		return "BR"
	case BottomLeft:
		return "BL"
	default:
		return fmt.Sprintf("Corner(%d)", int(c))
	}
}

// Valid reports whether c names one of the four quad corners.
func (c Corner) Valid() bool {
	return c >= TopLeft && c <= BottomLeft
}

// Quad is a quadrilateral in TL, TR, BR, BL order.
type Quad [4]Point2D

// RectQuad returns the quad of an axis-aligned w x h rectangle anchored at the origin.
func RectQuad(w, h float64) Quad {
	return Quad{{0, 0}, {w, 0}, {w, h}, {0, h}}
}

// At returns the point at corner c.
func (q Quad) At(c Corner) Point2D {
	return q[c]
}

// Points returns the corners as a slice.
func (q Quad) Points() []Point2D {
	return q[:]
}

// Bounds returns the smallest integer rectangle containing the quad.
func (q Quad) Bounds() image.Rectangle {
	r := BoundingBox(q[:])
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	)
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Homography is a 3x3 projective transform in row-major order.
// [h0 h1 h2]
// [h3 h4 h5]
// [h6 h7 h8]
type Homography [9]float64

// IdentityHomography returns the identity transform.
func IdentityHomography() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply maps a point through the transform. ok is false when the point maps to infinity.
func (h Homography) Apply(p Point2D) (Point2D, bool) {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if w == 0 {
		return Point2D{}, false
	}
	return Point2D{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}, true
}

// Determinant returns the determinant of the 3x3 matrix.
func (h Homography) Determinant() float64 {
	return h[0]*(h[4]*h[8]-h[5]*h[7]) -
		h[1]*(h[3]*h[8]-h[5]*h[6]) +
		h[2]*(h[3]*h[7]-h[4]*h[6])
}

// Inverse returns the inverse transform, if it exists.
func (h Homography) Inverse() (Homography, bool) {
	det := h.Determinant()
	if math.Abs(det) < 1e-12 || math.IsNaN(det) {
		return Homography{}, false
	}

	invDet := 1.0 / det
	inv := Homography{
		(h[4]*h[8] - h[5]*h[7]) * invDet,
		(h[2]*h[7] - h[1]*h[8]) * invDet,
		(h[1]*h[5] - h[2]*h[4]) * invDet,
		(h[5]*h[6] - h[3]*h[8]) * invDet,
		(h[0]*h[8] - h[2]*h[6]) * invDet,
		(h[2]*h[3] - h[0]*h[5]) * invDet,
		(h[3]*h[7] - h[4]*h[6]) * invDet,
		(h[1]*h[6] - h[0]*h[7]) * invDet,
		(h[0]*h[4] - h[1]*h[3]) * invDet,
	}
	return inv.Normalize(), true
}

// Normalize scales the matrix so that h8 == 1. Matrices with h8 == 0 are returned unchanged.
func (h Homography) Normalize() Homography {
	if h[8] == 0 {
		return h
	}
	s := 1.0 / h[8]
	for i := range h {
		h[i] *= s
	}
	return h
}

// IsIdentity reports whether every element is within tol of the identity.
func (h Homography) IsIdentity(tol float64) bool {
	id := IdentityHomography()
	n := h.Normalize()
	for i := range n {
		if math.Abs(n[i]-id[i]) > tol {
			return false
		}
	}
	return true
}
