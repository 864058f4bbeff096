// Package app drives the per-frame AR loop and publishes session events.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"sync"

	"wifi-ar/internal/capture"
	"wifi-ar/internal/compositor"
	"wifi-ar/internal/markers"
	"wifi-ar/internal/overlay"
	"wifi-ar/internal/signal"
)

// Window names.
const (
	WindowInput  = "Input"
	WindowSource = "Source"
	WindowOutput = "OpenCV AR Output"
)

// DefaultMaxMisses is how many consecutive missing frames end a session.
const DefaultMaxMisses = 30

// Display shows frames and reports key presses.
type Display interface {
	Show(name string, img *image.RGBA)
	// PollKey waits up to delay ms and returns the key pressed, or -1.
	PollKey(delay int) int
}

// Annotator draws detections onto a copy of the input view.
type Annotator func(img *image.RGBA, obs []markers.Observation) *image.RGBA

// EventType identifies session events.
type EventType int

const (
	EventFrameProcessed   EventType = iota // data: compositor.Result
	EventCompositingBegan                  // data: compositor.Result
	EventFrameMissed                       // data: error
	EventStopped                           // data: compositor.Stats
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Options configures a Session.
type Options struct {
	QuitKey    byte
	MaxMisses  int
	ShowInput  bool
	ShowSource bool
	Annotate   Annotator   // nil shows the raw input
	Logger     *log.Logger // nil discards
}

// Session owns the boundaries for one run of the AR loop. Run must be called
// from the goroutine that owns the display.
type Session struct {
	frames     capture.Source
	detector   markers.Detector
	signals    signal.Source
	renderer   *overlay.Renderer
	compositor *compositor.Compositor
	display    Display
	opts       Options
	log        *log.Logger

	mu        sync.RWMutex
	listeners map[EventType][]EventListener

	misses int
}

// NewSession wires the loop together. All collaborators are required.
func NewSession(frames capture.Source, detector markers.Detector, signals signal.Source,
	renderer *overlay.Renderer, comp *compositor.Compositor, display Display, opts Options) (*Session, error) {
	switch {
	case frames == nil:
		return nil, errors.New("session: nil frame source")
	case detector == nil:
		return nil, errors.New("session: nil detector")
	case signals == nil:
		return nil, errors.New("session: nil signal source")
	case renderer == nil:
		return nil, errors.New("session: nil overlay renderer")
	case comp == nil:
		return nil, errors.New("session: nil compositor")
	case display == nil:
		return nil, errors.New("session: nil display")
	}
	if opts.QuitKey == 0 {
		opts.QuitKey = 'q'
	}
	if opts.MaxMisses <= 0 {
		opts.MaxMisses = DefaultMaxMisses
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		frames:     frames,
		detector:   detector,
		signals:    signals,
		renderer:   renderer,
		compositor: comp,
		display:    display,
		opts:       opts,
		log:        logger,
		listeners:  make(map[EventType][]EventListener),
	}, nil
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Run loops until the quit key is pressed, ctx is cancelled, or the source
// stops producing frames. Quitting and cancellation return nil.
func (s *Session) Run(ctx context.Context) error {
	defer func() {
		stats := s.compositor.Stats()
		s.log.Printf("[INFO] session ended: %d frames, %d composited, %d insufficient, %d degenerate, %d failed",
			stats.Frames, stats.Composited, stats.Insufficient, stats.Degenerate, stats.Failed)
		s.Emit(EventStopped, stats)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if _, err := s.Step(ctx); err != nil {
			return err
		}
		if s.quitRequested() {
			s.log.Printf("[INFO] quit requested")
			return nil
		}
	}
}

// Step runs a single iteration: snapshot, render, capture, detect, composite
// and display. A missing frame is counted and returns a zero Result; the error
// is non-nil only once MaxMisses consecutive frames have been missed or the
// source fails outright.
func (s *Session) Step(ctx context.Context) (compositor.Result, error) {
	snap := s.signals.Snapshot(ctx)
	source := s.renderer.Render(snap)

	frame, err := s.frames.Next()
	if err != nil {
		if !errors.Is(err, capture.ErrNoFrame) {
			return compositor.Result{}, fmt.Errorf("capture: %w", err)
		}
		s.misses++
		s.Emit(EventFrameMissed, err)
		if s.misses >= s.opts.MaxMisses {
			return compositor.Result{}, fmt.Errorf("no frame after %d attempts: %w", s.misses, err)
		}
		return compositor.Result{}, nil
	}
	s.misses = 0

	s.log.Printf("[INFO] detecting markers...")
	obs, err := s.detector.Detect(frame)
	if err != nil {
		// Detection failures leave the cache to carry the last known corners.
		s.log.Printf("[WARN] marker detection: %v", err)
		obs = nil
	}

	before := s.compositor.State()
	res := s.compositor.Process(frame, obs, source)
	if !res.Composited() {
		s.log.Printf("[INFO] press any key to continue or %c to quit", s.opts.QuitKey)
	}

	s.show(frame, obs, source, res)

	if before == compositor.StateAwaitingMarkers && s.compositor.State() == compositor.StateCompositing {
		s.Emit(EventCompositingBegan, res)
	}
	s.Emit(EventFrameProcessed, res)
	return res, nil
}

func (s *Session) show(frame *image.RGBA, obs []markers.Observation, source *image.RGBA, res compositor.Result) {
	if s.opts.ShowInput {
		input := frame
		if s.opts.Annotate != nil {
			input = s.opts.Annotate(frame, obs)
		}
		s.display.Show(WindowInput, input)
	}
	if !res.Composited() {
		if !s.opts.ShowInput {
			// Keep a window up so the quit key can be read.
			s.display.Show(WindowOutput, res.Display(frame))
		}
		return
	}
	if s.opts.ShowSource {
		s.display.Show(WindowSource, source)
	}
	s.display.Show(WindowOutput, res.Display(frame))
}

func (s *Session) quitRequested() bool {
	key := s.display.PollKey(1)
	return key >= 0 && byte(key&0xff) == s.opts.QuitKey
}
