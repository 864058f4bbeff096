package opencv

import (
	"image"

	"gocv.io/x/gocv"
)

// Windows shows named images in HighGUI windows, creating each window on first use.
type Windows struct {
	windows map[string]*gocv.Window
	order   []string
}

// NewWindows creates an empty window set.
func NewWindows() *Windows {
	return &Windows{windows: make(map[string]*gocv.Window)}
}

// Show displays img in the window called name.
func (w *Windows) Show(name string, img *image.RGBA) {
	win, ok := w.windows[name]
	if !ok {
		win = gocv.NewWindow(name)
		w.windows[name] = win
		w.order = append(w.order, name)
	}
	mat := ImageToMat(img)
	defer mat.Close()
	win.IMShow(mat)
}

// PollKey pumps the HighGUI event loop for delay milliseconds and returns the
// pressed key, or -1 when none was pressed.
func (w *Windows) PollKey(delay int) int {
	if len(w.order) == 0 {
		return -1
	}
	return w.windows[w.order[0]].WaitKey(delay)
}

// Close destroys every window.
func (w *Windows) Close() error {
	for _, name := range w.order {
		w.windows[name].Close()
	}
	w.windows = make(map[string]*gocv.Window)
	w.order = nil
	return nil
}
