/*
	Package uniformgrid provides an image data block: points on a regular lattice given by
	an origin, a spacing and the number of points along each axis, with one scalar value
	per point.  Grid satisfies grid.Block so it can be stored in an AMR container.
*/
package uniformgrid

import (
	"fmt"
	"sync"

	"github.com/janelia-flyem/amrgrid/grid"
)

// Grid is a uniform grid block.  Scalar access is safe for concurrent use.
type Grid struct {
	origin  grid.Vector3
	spacing grid.Vector3
	dims    [3]int

	scalars []float64
	mu      sync.RWMutex
}

// MaxPoints is the largest number of points a single grid may hold.
const MaxPoints = 1 << 30

// New returns a grid with all scalars zero.  Spacing must be positive along every axis
// where the grid has more than one point, and the grid may hold at most MaxPoints points.
func New(origin, spacing grid.Vector3, dims [3]int) (*Grid, error) {
	numPoints := 1
	for axis := 0; axis < 3; axis++ {
		if dims[axis] < 0 {
			return nil, fmt.Errorf("negative number of points (%d) along axis %d", dims[axis], axis)
		}
		if dims[axis] > 1 && spacing[axis] <= 0 {
			return nil, fmt.Errorf("spacing along axis %d must be positive, got %g", axis, spacing[axis])
		}
		if dims[axis] == 0 {
			numPoints = 0
		}
	}
	for axis := 0; axis < 3 && numPoints > 0; axis++ {
		if numPoints > MaxPoints/dims[axis] {
			return nil, fmt.Errorf("grid with dims %v exceeds %d points", dims, MaxPoints)
		}
		numPoints *= dims[axis]
	}
	return &Grid{
		origin:  origin,
		spacing: spacing,
		dims:    dims,
		scalars: make([]float64, numPoints),
	}, nil
}

// Origin returns the world coordinate of the first point.
func (g *Grid) Origin() grid.Vector3 {
	return g.origin
}

// Spacing returns the distance between neighboring points along each axis.
func (g *Grid) Spacing() grid.Vector3 {
	return g.spacing
}

// Dims returns the number of points along each axis.
func (g *Grid) Dims() [3]int {
	return g.dims
}

// NumPoints returns the number of points of the grid.
func (g *Grid) NumPoints() int {
	return len(g.scalars)
}

// PointIndex returns the index of the point (i, j, k) in X, then Y, then Z order.
func (g *Grid) PointIndex(i, j, k int) (int, error) {
	if i < 0 || j < 0 || k < 0 || i >= g.dims[0] || j >= g.dims[1] || k >= g.dims[2] {
		return 0, fmt.Errorf("point (%d,%d,%d) outside grid with dims %v", i, j, k, g.dims)
	}
	return i + g.dims[0]*(j+g.dims[1]*k), nil
}

// Scalar returns the value at point index n.
func (g *Grid) Scalar(n int) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if n < 0 || n >= len(g.scalars) {
		return 0, fmt.Errorf("point %d outside grid of %d points", n, len(g.scalars))
	}
	return g.scalars[n], nil
}

// SetScalar sets the value at point index n.
func (g *Grid) SetScalar(n int, value float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n < 0 || n >= len(g.scalars) {
		return fmt.Errorf("point %d outside grid of %d points", n, len(g.scalars))
	}
	g.scalars[n] = value
	return nil
}

// Fill sets every scalar to value.
func (g *Grid) Fill(value float64) {
	g.mu.Lock()
	for n := range g.scalars {
		g.scalars[n] = value
	}
	g.mu.Unlock()
}

// --- grid.Block interface ----

// Bounds returns the box spanned by the points, or the empty sentinel if the grid
// has no points.
func (g *Grid) Bounds() grid.Bounds {
	if g.NumPoints() == 0 {
		return grid.EmptyBounds()
	}
	var b grid.Bounds
	for axis := 0; axis < 3; axis++ {
		b[axis*2] = g.origin[axis]
		b[axis*2+1] = g.origin[axis] + float64(g.dims[axis]-1)*g.spacing[axis]
	}
	return b
}

// GridDescription returns the orientation implied by the point dimensions.
func (g *Grid) GridDescription() grid.Description {
	return grid.DescriptionFromDims(g.dims)
}

// Duplicate returns an independent copy of the grid and its scalars.
func (g *Grid) Duplicate() grid.Block {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return &Grid{
		origin:  g.origin,
		spacing: g.spacing,
		dims:    g.dims,
		scalars: append([]float64(nil), g.scalars...),
	}
}

func (g *Grid) String() string {
	return fmt.Sprintf("uniform grid %dx%dx%d at %s, spacing %s", g.dims[0], g.dims[1], g.dims[2],
		g.origin, g.spacing)
}
