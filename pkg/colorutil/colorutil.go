// Package colorutil provides shared color utilities for the overlay and display views.
package colorutil

import (
	"image/color"
	"math"
)

// Common colors used throughout the application.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// Signal strength reference points, in |dBm|:
//
//	30 perfect, 50 excellent, 60 good, 67 minimum for video,
//	70 light browsing, 80 unstable, 90 unlikely to connect.
const videoThreshold = 67

// SignalColor maps a signal strength in dBm onto a red-green gradient with no
// blue: strong signals are green, the video threshold (-67) is yellow and
// anything towards -90 fades to red.
func SignalColor(dbm float64) color.RGBA {
	p := math.Abs(dbm)
	var r, g float64
	if p < videoThreshold {
		g = 250
		r = (p - 30) * 6
	} else {
		r = 250
		g = 250 - (p-videoThreshold)*10
	}
	return color.RGBA{R: clamp(r), G: clamp(g), B: 0, A: 255}
}

func clamp(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
