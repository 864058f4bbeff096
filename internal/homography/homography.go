// Package homography estimates the planar projective transform between the
// overlay image and the tracked target quad.
package homography

import (
	"errors"
	"fmt"
	"math"

	"wifi-ar/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateHomography is returned when the correspondences do not define a
// unique invertible transform onto a convex target, e.g. coincident, collinear
// or concave corners.
var ErrDegenerateHomography = errors.New("degenerate homography")

// minTriangleArea is the smallest area, in square pixels, any three corners may
// span before the quad is treated as collinear.
const minTriangleArea = 1.0

// SourceQuad returns the overlay's own corners: (0,0), (W,0), (W,H), (0,H).
func SourceQuad(width, height int) geometry.Quad {
	return geometry.RectQuad(float64(width), float64(height))
}

// Estimate computes H such that H*src[i] ~ dst[i] for all four corners.
// Both quads must be in TL, TR, BR, BL order.
func Estimate(src, dst geometry.Quad) (geometry.Homography, error) {
	if err := checkQuad("source", src); err != nil {
		return geometry.Homography{}, err
	}
	if err := checkQuad("destination", dst); err != nil {
		return geometry.Homography{}, err
	}
	// The mask fill and the warp only agree on a convex target.
	if !geometry.IsConvex(dst.Points()) {
		return geometry.Homography{}, fmt.Errorf("%w: destination corners %v are not convex", ErrDegenerateHomography, dst)
	}

	// Solve in normalised coordinates (centroid at origin, mean distance
	// sqrt(2)) to keep the system well conditioned at pixel scale.
	Ts, srcN := normalize(src)
	Td, dstN := normalize(dst)

	Hn, err := solveDLT(srcN, dstN)
	if err != nil {
		return geometry.Homography{}, err
	}

	// H = Td^-1 * Hn * Ts
	TdInv, ok := Td.Inverse()
	if !ok {
		return geometry.Homography{}, fmt.Errorf("%w: destination normalisation is singular", ErrDegenerateHomography)
	}
	H := multiply(multiply(TdInv, Hn), Ts).Normalize()

	for _, v := range H {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return geometry.Homography{}, fmt.Errorf("%w: non-finite coefficient", ErrDegenerateHomography)
		}
	}
	if _, ok := H.Inverse(); !ok {
		return geometry.Homography{}, fmt.Errorf("%w: transform is not invertible", ErrDegenerateHomography)
	}

	return H, nil
}

// ReprojectionError returns the mean distance between H*src[i] and dst[i].
func ReprojectionError(H geometry.Homography, src, dst geometry.Quad) float64 {
	var total float64
	for i := range src {
		p, ok := H.Apply(src[i])
		if !ok {
			return math.Inf(1)
		}
		total += p.Distance(dst[i])
	}
	return total / float64(len(src))
}

// solveDLT solves the 8x8 system for h0..h7 with h8 fixed at 1.
//
//	x' = (h0 X + h1 Y + h2) / (h6 X + h7 Y + 1)
//	y' = (h3 X + h4 Y + h5) / (h6 X + h7 Y + 1)
func solveDLT(src, dst geometry.Quad) (geometry.Homography, error) {
	A := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		X, Y := src[i].X, src[i].Y
		x, y := dst[i].X, dst[i].Y
		r := 2 * i

		A.SetRow(r, []float64{X, Y, 1, 0, 0, 0, -X * x, -Y * x})
		b.SetVec(r, x)

		A.SetRow(r+1, []float64{0, 0, 0, X, Y, 1, -X * y, -Y * y})
		b.SetVec(r+1, y)
	}

	var h mat.VecDense
	if err := h.SolveVec(A, b); err != nil {
		return geometry.Homography{}, fmt.Errorf("%w: %v", ErrDegenerateHomography, err)
	}

	return geometry.Homography{
		h.AtVec(0), h.AtVec(1), h.AtVec(2),
		h.AtVec(3), h.AtVec(4), h.AtVec(5),
		h.AtVec(6), h.AtVec(7), 1,
	}, nil
}

// normalize returns the similarity T moving the quad's centroid to the origin
// with mean corner distance sqrt(2), and the transformed quad.
func normalize(q geometry.Quad) (geometry.Homography, geometry.Quad) {
	c := geometry.Centroid(q.Points())
	var mean float64
	for _, p := range q {
		mean += p.Distance(c)
	}
	mean /= float64(len(q))

	s := math.Sqrt2 / mean
	T := geometry.Homography{s, 0, -s * c.X, 0, s, -s * c.Y, 0, 0, 1}

	var out geometry.Quad
	for i, p := range q {
		out[i] = geometry.Point2D{X: s * (p.X - c.X), Y: s * (p.Y - c.Y)}
	}
	return T, out
}

// multiply returns a*b.
func multiply(a, b geometry.Homography) geometry.Homography {
	am := mat.NewDense(3, 3, a[:])
	bm := mat.NewDense(3, 3, b[:])

	var out mat.Dense
	out.Mul(am, bm)

	var h geometry.Homography
	copy(h[:], out.RawMatrix().Data)
	return h
}

func checkQuad(name string, q geometry.Quad) error {
	for i, p := range q {
		if !p.IsFinite() {
			return fmt.Errorf("%w: %s corner %s is not finite", ErrDegenerateHomography, name, geometry.Corner(i))
		}
	}
	if geometry.HasCollinearTriple(q.Points(), minTriangleArea) {
		return fmt.Errorf("%w: %s corners %v are collinear or coincident", ErrDegenerateHomography, name, q)
	}
	return nil
}
