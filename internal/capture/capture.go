// Package capture provides the video sources the frame loop pulls from.
package capture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"wifi-ar/pkg/imageutil"

	_ "golang.org/x/image/tiff"
)

// ErrNoFrame is returned when the source has no frame for this request.
var ErrNoFrame = errors.New("no frame available")

// Source yields one color frame per call.
type Source interface {
	Next() (*image.RGBA, error)
	Close() error
}

// Still returns the same decoded image on every call; useful for replaying a
// photo of the rig without a camera.
type Still struct {
	img *image.RGBA
}

// LoadStill decodes a PNG, JPEG or TIFF file.
func LoadStill(path string) (*Still, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return NewStill(img), nil
}

// NewStill wraps an already decoded image.
func NewStill(img image.Image) *Still {
	return &Still{img: imageutil.ToRGBA(img)}
}

// Next returns a copy of the image, or ErrNoFrame if there is none.
func (s *Still) Next() (*image.RGBA, error) {
	if s.img == nil {
		return nil, ErrNoFrame
	}
	return imageutil.Clone(s.img), nil
}

// Close implements Source.
func (s *Still) Close() error {
	return nil
}

// Sequence replays a fixed list of frames, then reports ErrNoFrame. A nil
// entry stands for a dropped frame.
type Sequence struct {
	Frames []*image.RGBA
	next   int
}

// Next implements Source.
func (s *Sequence) Next() (*image.RGBA, error) {
	if s.next >= len(s.Frames) {
		return nil, fmt.Errorf("sequence exhausted after %d frames: %w", len(s.Frames), ErrNoFrame)
	}
	f := s.Frames[s.next]
	s.next++
	if f == nil {
		return nil, ErrNoFrame
	}
	return f, nil
}

// Close implements Source.
func (s *Sequence) Close() error {
	return nil
}
