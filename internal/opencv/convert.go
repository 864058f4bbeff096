// Package opencv adapts OpenCV (through gocv) to the frame loop: camera
// capture, ArUco marker detection, display windows and image conversion.
package opencv

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

// ImageToMat converts a Go image to a 3-channel BGR gocv.Mat (parallelized).
// The caller owns the returned Mat and must Close it.
func ImageToMat(img *image.RGBA) gocv.Mat {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Create BGR Mat (OpenCV default)
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)

	stripes(height, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			row := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for x := 0; x < width; x++ {
				p := row + x*4
				mat.SetUCharAt(y, x*3+0, img.Pix[p+2])
				mat.SetUCharAt(y, x*3+1, img.Pix[p+1])
				mat.SetUCharAt(y, x*3+2, img.Pix[p+0])
			}
		}
	})

	return mat
}

// MatToImage converts a BGR or BGRA gocv.Mat to an opaque *image.RGBA (parallelized).
func MatToImage(mat gocv.Mat) (*image.RGBA, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("empty mat")
	}
	channels := mat.Channels()
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}

	h := mat.Rows()
	w := mat.Cols()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := img.Stride

	stripes(h, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			rowOffset := y * stride
			for x := 0; x < w; x++ {
				// OpenCV uses BGR format, write directly to Pix slice
				pixOffset := rowOffset + x*4
				img.Pix[pixOffset+0] = mat.GetUCharAt(y, x*channels+2) // R
				img.Pix[pixOffset+1] = mat.GetUCharAt(y, x*channels+1) // G
				img.Pix[pixOffset+2] = mat.GetUCharAt(y, x*channels+0) // B
				img.Pix[pixOffset+3] = 255                             // A
			}
		}
	})

	return img, nil
}

// stripes splits rows [0, height) into one horizontal stripe per CPU and runs
// fn on each concurrently, returning when all are done.
func stripes(height int, fn func(yStart, yEnd int)) {
	numWorkers := runtime.NumCPU()
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= height {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			fn(yStart, yEnd)
		}(startY, endY)
	}
	wg.Wait()
}
