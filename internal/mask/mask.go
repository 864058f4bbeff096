// Package mask builds the region mask for the target quad and blends the
// warped overlay into the camera frame through it.
package mask

import (
	"fmt"
	"image"
	"math"

	"wifi-ar/pkg/geometry"
	"wifi-ar/pkg/imageutil"

	"golang.org/x/image/vector"
)

// On and Off are the binary mask levels.
const (
	On  = 0xff
	Off = 0
)

// Default seam dilation applied to the mask: a 3x3 rectangle, twice.
const (
	DefaultKernel     = 3
	DefaultIterations = 2
)

// Build rasterizes the filled quad into a size.X x size.Y mask. Every pixel the
// anti-aliased edge touches is set fully on, so the mask covers the whole
// warped overlay.
func Build(dst geometry.Quad, size image.Point) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, size.X, size.Y))
	if size.X <= 0 || size.Y <= 0 {
		return m
	}

	// Pixel (x, y) is centred on integer coordinates; the rasterizer treats
	// it as the unit square starting at (x, y).
	z := vector.NewRasterizer(size.X, size.Y)
	z.MoveTo(float32(dst[0].X+0.5), float32(dst[0].Y+0.5))
	for _, p := range dst[1:] {
		z.LineTo(float32(p.X+0.5), float32(p.Y+0.5))
	}
	z.ClosePath()

	coverage := image.NewAlpha(m.Rect)
	z.Draw(coverage, coverage.Bounds(), image.Opaque, image.Point{})

	for i, a := range coverage.Pix {
		if a > 0 {
			m.Pix[i] = On
		}
	}
	return m
}

// Blend composites warped over frame: out = warped*a + frame*(1-a) with
// a = mask/255, computed in float64 and rounded back to 8 bits. The result is
// opaque and has frame's size; the inputs are not modified.
func Blend(frame, warped image.Image, m *image.Gray) (*image.RGBA, error) {
	f := imageutil.ToRGBA(frame)
	w := imageutil.ToRGBA(warped)
	size := imageutil.Size(f.Rect)
	if got := imageutil.Size(w.Rect); got != size {
		return nil, fmt.Errorf("blend: warped size %v does not match frame size %v", got, size)
	}
	if got := imageutil.Size(m.Rect); got != size {
		return nil, fmt.Errorf("blend: mask size %v does not match frame size %v", got, size)
	}

	out := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	for y := 0; y < size.Y; y++ {
		mrow := m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y+y)
		for x := 0; x < size.X; x++ {
			a := float64(m.Pix[mrow+x]) / On
			off := y*out.Stride + x*4
			fo := y*f.Stride + x*4
			wo := y*w.Stride + x*4
			for c := 0; c < 3; c++ {
				v := float64(w.Pix[wo+c])*a + float64(f.Pix[fo+c])*(1-a)
				out.Pix[off+c] = clamp8(v)
			}
			out.Pix[off+3] = 0xff
		}
	}
	return out, nil
}

// Coverage returns the fraction of mask pixels that are on.
func Coverage(m *image.Gray) float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	var on int
	for _, v := range m.Pix {
		if v != Off {
			on++
		}
	}
	return float64(on) / float64(len(m.Pix))
}

func clamp8(v float64) uint8 {
	return uint8(math.Min(255, math.Max(0, math.Round(v))))
}
