package opencv

import (
	"fmt"
	"image"
	"image/color"

	"wifi-ar/internal/markers"
	"wifi-ar/pkg/geometry"

	"gocv.io/x/gocv"
)

// Aruco detects markers from the original ArUco dictionary.
type Aruco struct {
	detector gocv.ArucoDetector
}

var _ markers.Detector = (*Aruco)(nil)

// NewAruco creates a detector for DICT_ARUCO_ORIGINAL with default parameters.
func NewAruco() *Aruco {
	dict := gocv.GetPredefinedDictionary(gocv.ArucoDictArucoOriginal)
	params := gocv.NewArucoDetectorParameters()
	return &Aruco{detector: gocv.NewArucoDetectorWithParams(dict, params)}
}

// Detect implements markers.Detector. ArUco reports corners clockwise from
// the marker's top-left, which is the TL, TR, BR, BL order of a Quad.
func (a *Aruco) Detect(frame *image.RGBA) ([]markers.Observation, error) {
	mat := ImageToMat(frame)
	defer mat.Close()

	corners, ids, _ := a.detector.DetectMarkers(mat)
	if len(corners) != len(ids) {
		return nil, fmt.Errorf("aruco: %d corner sets for %d ids", len(corners), len(ids))
	}

	obs := make([]markers.Observation, 0, len(ids))
	for i, id := range ids {
		if len(corners[i]) != 4 {
			continue
		}
		var q geometry.Quad
		for j, p := range corners[i] {
			q[j] = geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
		}
		obs = append(obs, markers.Observation{ID: id, Corners: q})
	}
	return obs, nil
}

// Close releases the detector.
func (a *Aruco) Close() {
	a.detector.Close()
}

// DrawMarkers outlines the observations on img and labels them with their ids.
func DrawMarkers(img *image.RGBA, obs []markers.Observation, c color.RGBA) *image.RGBA {
	if len(obs) == 0 {
		return img
	}
	mat := ImageToMat(img)
	defer mat.Close()

	corners := make([][]gocv.Point2f, len(obs))
	ids := make([]int, len(obs))
	for i, o := range obs {
		ids[i] = o.ID
		corners[i] = make([]gocv.Point2f, 4)
		for j, p := range o.Corners {
			corners[i][j] = gocv.Point2f{X: float32(p.X), Y: float32(p.Y)}
		}
	}
	// OpenCV draws in BGR.
	gocv.ArucoDrawDetectedMarkers(mat, corners, ids, gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0))

	out, err := MatToImage(mat)
	if err != nil {
		return img
	}
	return out
}
