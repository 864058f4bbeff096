package markers

import (
	"fmt"

	"wifi-ar/pkg/geometry"
)

// RequiredMarker binds a marker identity to one logical corner of the target.
// Corner selects which of the marker's own corners is used as that target
// corner; normally it is the corner nearest the surface.
type RequiredMarker struct {
	ID     int             `yaml:"id"`
	Corner geometry.Corner `yaml:"corner"`
}

// RequiredSet lists the four markers framing the target, in TL, TR, BR, BL order.
type RequiredSet [4]RequiredMarker

// DefaultRequiredSet is the physical rig layout: markers 923, 1001, 241 and
// 1007 sit at the target's TL, TR, BR and BL, and each contributes its own
// corner in the same position.
func DefaultRequiredSet() RequiredSet {
	return RequiredSet{
		{ID: 923, Corner: geometry.TopLeft},
		{ID: 1001, Corner: geometry.TopRight},
		{ID: 241, Corner: geometry.BottomRight},
		{ID: 1007, Corner: geometry.BottomLeft},
	}
}

// Validate checks that identities are distinct and corner indices are in range.
func (s RequiredSet) Validate() error {
	seen := make(map[int]bool, len(s))
	for i, m := range s {
		if seen[m.ID] {
			return fmt.Errorf("marker %d listed more than once", m.ID)
		}
		seen[m.ID] = true
		if !m.Corner.Valid() {
			return fmt.Errorf("marker %d at %s: corner index %d out of range [0,3]", m.ID, geometry.Corner(i), int(m.Corner))
		}
	}
	return nil
}

// IDs returns the identities in required order.
func (s RequiredSet) IDs() []int {
	ids := make([]int, len(s))
	for i, m := range s {
		ids[i] = m.ID
	}
	return ids
}

// Destination builds the target quad from the quads returned by Query: the
// configured corner of the i-th marker becomes the i-th target corner.
func (s RequiredSet) Destination(quads [4]geometry.Quad) geometry.Quad {
	var dst geometry.Quad
	for i, m := range s {
		dst[i] = quads[i].At(m.Corner)
	}
	return dst
}
