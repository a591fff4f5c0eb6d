package grid

import (
	"fmt"
	"math"
	"sync"
)

// Vector3 is a point or displacement in 3d world coordinates.
type Vector3 [3]float64

func (v Vector3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v[0], v[1], v[2])
}

// Bounds is an axis-aligned box stored as (xmin, xmax, ymin, ymax, zmin, zmax).
type Bounds [6]float64

// EmptyBounds returns the inverted box with min = +MaxFloat64 and max = -MaxFloat64
// along every axis.  Any Union with a real box yields that box.
func EmptyBounds() Bounds {
	return Bounds{
		math.MaxFloat64, -math.MaxFloat64,
		math.MaxFloat64, -math.MaxFloat64,
		math.MaxFloat64, -math.MaxFloat64,
	}
}

// NewBounds returns the box spanning two corners.
func NewBounds(min, max Vector3) Bounds {
	return Bounds{min[0], max[0], min[1], max[1], min[2], max[2]}
}

// Min returns the minimum corner.
func (b Bounds) Min() Vector3 {
	return Vector3{b[0], b[2], b[4]}
}

// Max returns the maximum corner.
func (b Bounds) Max() Vector3 {
	return Vector3{b[1], b[3], b[5]}
}

// IsEmpty returns true if the box is inverted along any axis.
func (b Bounds) IsEmpty() bool {
	return b[0] > b[1] || b[2] > b[3] || b[4] > b[5]
}

// Union returns the per-axis envelope of the two boxes and whether it differs
// from the receiver.
func (b Bounds) Union(b2 Bounds) (Bounds, bool) {
	var changed bool
	for axis := 0; axis < 3; axis++ {
		if b2[axis*2] < b[axis*2] {
			b[axis*2] = b2[axis*2]
			changed = true
		}
		if b2[axis*2+1] > b[axis*2+1] {
			b[axis*2+1] = b2[axis*2+1]
			changed = true
		}
	}
	return b, changed
}

// Contains returns true if the point lies within the closed box.
func (b Bounds) Contains(p Vector3) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b[axis*2] || p[axis] > b[axis*2+1] {
			return false
		}
	}
	return true
}

func (b Bounds) String() string {
	if b.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%g,%g] x [%g,%g] x [%g,%g]", b[0], b[1], b[2], b[3], b[4], b[5])
}

// Extents accumulates the envelope of boxes added from any number of goroutines.
type Extents struct {
	bounds Bounds
	valid  bool
	mu     sync.Mutex
}

// NewExtents returns extents starting at EmptyBounds().
func NewExtents() *Extents {
	return &Extents{bounds: EmptyBounds(), valid: true}
}

// Adjust widens the extents to include b in concurrency-safe manner.
func (ext *Extents) Adjust(b Bounds) bool {
	ext.mu.Lock()
	defer ext.mu.Unlock()

	if !ext.valid {
		ext.bounds = EmptyBounds()
		ext.valid = true
	}
	var changed bool
	ext.bounds, changed = ext.bounds.Union(b)
	return changed
}

// Bounds returns the current envelope.
func (ext *Extents) Bounds() Bounds {
	ext.mu.Lock()
	defer ext.mu.Unlock()
	if !ext.valid {
		return EmptyBounds()
	}
	return ext.bounds
}

// Set replaces the envelope verbatim.
func (ext *Extents) Set(b Bounds) {
	ext.mu.Lock()
	ext.bounds = b
	ext.valid = true
	ext.mu.Unlock()
}

// Reset returns the envelope to EmptyBounds().
func (ext *Extents) Reset() {
	ext.Set(EmptyBounds())
}
