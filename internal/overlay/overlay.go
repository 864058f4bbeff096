// Package overlay renders the Wi-Fi signal board that is projected onto the
// tracked surface.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"wifi-ar/internal/signal"
	"wifi-ar/pkg/colorutil"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default canvas size.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Layout constants, in canvas pixels. Headers sit on a baseline low enough not
// to be clipped; entries start below them.
const (
	headerBaseline = 30
	entryBaseline  = 60
	textScale      = 2
)

// Renderer draws a two-column board: LOCKED networks on the left, UNLOCKED on
// the right, each listed strongest first and colored by strength.
type Renderer struct {
	Width  int
	Height int
	face   font.Face
}

// NewRenderer creates a renderer for a width x height canvas.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height, face: basicfont.Face7x13}
}

// Size returns the canvas size.
func (r *Renderer) Size() image.Point {
	return image.Pt(r.Width, r.Height)
}

// Render draws snap onto a fresh black canvas. The output depends only on snap.
func (r *Renderer) Render(snap signal.Snapshot) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: colorutil.Black}, image.Point{}, draw.Src)

	column := r.Width / 2
	r.drawText(canvas, "LOCKED", 0, headerBaseline, colorutil.White)
	r.drawText(canvas, "UNLOCKED", column, headerBaseline, colorutil.White)

	r.drawColumn(canvas, snap.Sorted(true), 0)
	r.drawColumn(canvas, snap.Sorted(false), column)
	return canvas
}

// drawColumn spreads entries evenly down the canvas height.
func (r *Renderer) drawColumn(canvas *image.RGBA, nets []signal.Network, x int) {
	if len(nets) == 0 {
		return
	}
	spacing := r.Height / len(nets)
	for i, n := range nets {
		r.drawText(canvas, n.SSID, x, spacing*i+entryBaseline, colorutil.SignalColor(n.Strength))
	}
}

// drawText draws s with its baseline-left origin at (x, y), scaled up from the
// bitmap face.
func (r *Renderer) drawText(canvas *image.RGBA, s string, x, y int, c color.RGBA) {
	if s == "" {
		return
	}
	metrics := r.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil()
	width := font.MeasureString(r.face, s).Ceil()
	if width <= 0 || height <= 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(s)

	dst := image.Rect(x, y-ascent*textScale, x+width*textScale, y+(height-ascent)*textScale)
	xdraw.NearestNeighbor.Scale(canvas, dst, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}
