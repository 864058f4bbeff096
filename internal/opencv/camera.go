package opencv

import (
	"fmt"
	"image"

	"wifi-ar/internal/capture"

	"gocv.io/x/gocv"
)

// Camera reads frames from a local capture device.
type Camera struct {
	device int
	cap    *gocv.VideoCapture
	mat    gocv.Mat
}

var _ capture.Source = (*Camera)(nil)

// OpenCamera opens capture device id.
func OpenCamera(device int) (*Camera, error) {
	vc, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture device %d: %w", device, err)
	}
	return &Camera{device: device, cap: vc, mat: gocv.NewMat()}, nil
}

// Next grabs the next frame. A failed read or an empty frame yields
// capture.ErrNoFrame.
func (c *Camera) Next() (*image.RGBA, error) {
	if ok := c.cap.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, fmt.Errorf("device %d: %w", c.device, capture.ErrNoFrame)
	}
	img, err := MatToImage(c.mat)
	if err != nil {
		return nil, fmt.Errorf("device %d: %w", c.device, err)
	}
	return img, nil
}

// Close releases the device.
func (c *Camera) Close() error {
	c.mat.Close()
	return c.cap.Close()
}
