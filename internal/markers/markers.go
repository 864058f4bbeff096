// Package markers tracks fiducial marker corners across frames.
//
// A Cache keeps the most recent quad seen for every marker identity. Entries
// never expire, so a marker that drops out of view keeps its last known
// position. A RequiredSet names the four markers that frame the AR target and
// which corner of each one is used as the target's corner.
package markers

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"wifi-ar/pkg/geometry"
)

// Observation is a single detected marker: its identity and its four corners in
// TL, TR, BR, BL order.
type Observation struct {
	ID      int
	Corners geometry.Quad
}

// InsufficientMarkersError is returned by Query when a required marker has
// never been observed. It is an expected per-frame outcome.
type InsufficientMarkersError struct {
	Found   int   // distinct identities in the cache
	Missing []int // required identities not yet seen, in required order
}

func (e *InsufficientMarkersError) Error() string {
	return fmt.Sprintf("could not find 4 corners; found %d (missing %s)", e.Found, formatIDs(e.Missing))
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Cache maps marker identity to its last observed corners. Last write wins.
// A Cache is owned by a single compositor and is not safe for concurrent use.
type Cache struct {
	corners map[int]geometry.Quad
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{corners: make(map[int]geometry.Quad)}
}

// Update stores the corners of every observation, replacing earlier entries for
// the same identity. When a frame contains the same identity twice the later
// observation wins.
func (c *Cache) Update(obs []Observation) {
	for _, o := range obs {
		c.corners[o.ID] = o.Corners
	}
}

// Get returns the cached corners for id.
func (c *Cache) Get(id int) (geometry.Quad, bool) {
	q, ok := c.corners[id]
	return q, ok
}

// Len returns the number of distinct identities ever observed.
func (c *Cache) Len() int {
	return len(c.corners)
}

// IDs returns the cached identities in ascending order.
func (c *Cache) IDs() []int {
	ids := make([]int, 0, len(c.corners))
	for id := range c.corners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Query returns the cached quads of the required markers, in required order.
// It fails with *InsufficientMarkersError until every required marker has been
// seen at least once.
func (c *Cache) Query(req RequiredSet) ([4]geometry.Quad, error) {
	var quads [4]geometry.Quad
	var missing []int
	for i, m := range req {
		q, ok := c.corners[m.ID]
		if !ok {
			missing = append(missing, m.ID)
			continue
		}
		quads[i] = q
	}
	if len(missing) > 0 {
		return [4]geometry.Quad{}, &InsufficientMarkersError{Found: len(c.corners), Missing: missing}
	}
	return quads, nil
}

// Detector finds markers in a frame. Results carry no ordering guarantee.
type Detector interface {
	Detect(frame *image.RGBA) ([]Observation, error)
}
