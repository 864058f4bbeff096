package opencv

import (
	"fmt"
	"image"
	"image/color"

	"wifi-ar/internal/homography"
	"wifi-ar/pkg/geometry"

	"gocv.io/x/gocv"
)

// WarpPerspective warps src into a new size.X x size.Y image so that a source
// pixel p lands at h*p. Sampling is bilinear; pixels with no source are black.
func WarpPerspective(src *image.RGBA, h geometry.Homography, size image.Point) (*image.RGBA, error) {
	if _, ok := h.Inverse(); !ok {
		return nil, fmt.Errorf("warp: %w: transform is not invertible", homography.ErrDegenerateHomography)
	}
	if size.X <= 0 || size.Y <= 0 || src.Rect.Empty() {
		return image.NewRGBA(image.Rect(0, 0, max(size.X, 0), max(size.Y, 0))), nil
	}

	srcMat := ImageToMat(src)
	defer srcMat.Close()

	hMat := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer hMat.Close()
	for i, v := range h {
		hMat.SetDoubleAt(i/3, i%3, v)
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.WarpPerspectiveWithParams(srcMat, &dst, hMat, size,
		gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{})

	return MatToImage(dst)
}

// Dilate grows the on region of a binary mask with a kernel x kernel
// rectangle, iterations times. A kernel below 2 or no iterations returns an
// unchanged copy.
func Dilate(m *image.Gray, kernel, iterations int) (*image.Gray, error) {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w], m.Pix[m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y+y):])
	}
	if kernel < 2 || iterations < 1 || w == 0 || h == 0 {
		return out, nil
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, out.Pix)
	if err != nil {
		return nil, fmt.Errorf("mask to mat: %w", err)
	}
	defer mat.Close()

	element := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernel, kernel))
	defer element.Close()

	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.DilateWithParams(mat, &dilated, element, image.Pt(-1, -1), iterations, gocv.BorderConstant, color.RGBA{})

	copy(out.Pix, dilated.ToBytes())
	return out, nil
}
