// Package compositor runs the per-frame AR pipeline: it feeds marker
// detections into the corner cache and, once all four target markers have been
// seen, projects the overlay onto the target quad of every frame.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"wifi-ar/internal/homography"
	"wifi-ar/internal/markers"
	"wifi-ar/internal/mask"
	"wifi-ar/internal/opencv"
	"wifi-ar/pkg/geometry"
	"wifi-ar/pkg/imageutil"
)

// State is the compositor's session state.
type State int

const (
	// StateAwaitingMarkers: at least one required marker has never been seen.
	StateAwaitingMarkers State = iota
	// StateCompositing: every required marker has been seen. Cache entries
	// never expire, so this state is final.
	StateCompositing
)

func (s State) String() string {
	switch s {
	case StateAwaitingMarkers:
		return "AWAITING_MARKERS"
	case StateCompositing:
		return "COMPOSITING"
	default:
		return "Unknown"
	}
}

// Outcome says what a frame produced.
type Outcome int

const (
	OutcomeSkip Outcome = iota
	OutcomeComposite
)

func (o Outcome) String() string {
	if o == OutcomeComposite {
		return "Composite"
	}
	return "Skip"
}

// Result is the outcome of one frame. On OutcomeComposite, Frame holds the
// composited image; on OutcomeSkip, Reason explains why and the caller shows
// the raw frame.
type Result struct {
	Outcome     Outcome
	Frame       *image.RGBA
	Reason      error
	Found       int           // distinct marker identities cached so far
	Destination geometry.Quad // target quad used, valid once compositing
	Homography  geometry.Homography
}

// Composited reports whether the frame produced a composite.
func (r Result) Composited() bool {
	return r.Outcome == OutcomeComposite
}

// Display returns the image to show for this frame: the composite, or raw on skip.
func (r Result) Display(raw *image.RGBA) *image.RGBA {
	if r.Composited() {
		return r.Frame
	}
	return raw
}

// Stats counts frame outcomes since the compositor was created.
type Stats struct {
	Frames       int
	Composited   int
	Insufficient int
	Degenerate   int
	Failed       int
}

// Options configures a Compositor.
type Options struct {
	Required         markers.RequiredSet
	DilateKernel     int
	DilateIterations int
	Logger           *log.Logger // nil discards
}

// DefaultOptions returns the rig layout with a 3x3 dilation applied twice.
func DefaultOptions() Options {
	return Options{
		Required:         markers.DefaultRequiredSet(),
		DilateKernel:     mask.DefaultKernel,
		DilateIterations: mask.DefaultIterations,
	}
}

// Compositor holds the cross-frame state: the corner cache and the session state.
// It is driven from a single goroutine.
type Compositor struct {
	cache *markers.Cache
	opts  Options
	log   *log.Logger
	state State
	stats Stats
}

// New creates a Compositor that owns cache for the session.
func New(cache *markers.Cache, opts Options) (*Compositor, error) {
	if cache == nil {
		return nil, errors.New("compositor: nil cache")
	}
	if err := opts.Required.Validate(); err != nil {
		return nil, fmt.Errorf("compositor: required markers: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Compositor{cache: cache, opts: opts, log: logger}, nil
}

// State returns the current session state.
func (c *Compositor) State() State {
	return c.state
}

// Stats returns the outcome counters.
func (c *Compositor) Stats() Stats {
	return c.stats
}

// Process runs one frame. obs are this frame's detections; overlay is this
// frame's rendered overlay. frame and overlay are not modified. Every failure
// is contained in the returned Result; the cache is always left consistent.
func (c *Compositor) Process(frame *image.RGBA, obs []markers.Observation, overlay *image.RGBA) Result {
	c.stats.Frames++
	c.cache.Update(obs)

	quads, err := c.cache.Query(c.opts.Required)
	if err != nil {
		c.stats.Insufficient++
		c.log.Printf("[INFO] %v", err)
		return Result{Outcome: OutcomeSkip, Reason: err, Found: c.cache.Len()}
	}
	if c.state == StateAwaitingMarkers {
		c.log.Printf("[INFO] all %d markers seen; compositing", len(c.opts.Required))
		c.state = StateCompositing
	}

	res := Result{Found: c.cache.Len()}
	res.Destination = c.opts.Required.Destination(quads)

	c.log.Printf("[INFO] constructing augmented reality visualization...")
	out, H, err := c.composite(frame, overlay, res.Destination)
	if err != nil {
		if errors.Is(err, homography.ErrDegenerateHomography) {
			c.stats.Degenerate++
		} else {
			c.stats.Failed++
		}
		c.log.Printf("[WARN] skipping frame: %v", err)
		res.Outcome = OutcomeSkip
		res.Reason = err
		return res
	}

	c.stats.Composited++
	res.Outcome = OutcomeComposite
	res.Frame = out
	res.Homography = H
	return res
}

func (c *Compositor) composite(frame, overlay *image.RGBA, dst geometry.Quad) (*image.RGBA, geometry.Homography, error) {
	ob := overlay.Bounds()
	src := homography.SourceQuad(ob.Dx(), ob.Dy())

	H, err := homography.Estimate(src, dst)
	if err != nil {
		return nil, geometry.Homography{}, err
	}

	size := imageutil.Size(frame.Bounds())
	warped, err := opencv.WarpPerspective(overlay, H, size)
	if err != nil {
		return nil, geometry.Homography{}, err
	}

	m, err := opencv.Dilate(mask.Build(dst, size), c.opts.DilateKernel, c.opts.DilateIterations)
	if err != nil {
		return nil, geometry.Homography{}, err
	}

	out, err := mask.Blend(frame, warped, m)
	if err != nil {
		return nil, geometry.Homography{}, err
	}
	return out, H, nil
}
