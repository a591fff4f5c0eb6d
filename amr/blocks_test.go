package amr

import (
	"testing"

	"github.com/janelia-flyem/amrgrid/grid"
	"github.com/janelia-flyem/amrgrid/uniformgrid"
)

func newCube(t *testing.T, origin grid.Vector3, n int) *uniformgrid.Grid {
	t.Helper()
	g, err := uniformgrid.New(origin, grid.Vector3{1, 1, 1}, [3]int{n, n, n})
	if err != nil {
		t.Fatalf("unable to create grid: %v", err)
	}
	return g
}

func TestBlocksInsertGet(t *testing.T) {
	r := NewBlocks()
	if !r.IsEmpty() {
		t.Fatalf("new registry should be empty")
	}
	if b, found := r.Get(0); found || b != nil {
		t.Fatalf("expected no block in new registry")
	}
	a := newCube(t, grid.Vector3{}, 2)
	b := newCube(t, grid.Vector3{5, 5, 5}, 2)
	r.Insert(7, a)
	r.Insert(2, b)
	if r.IsEmpty() || r.Len() != 2 {
		t.Fatalf("expected 2 blocks, got %d", r.Len())
	}
	if got, found := r.Get(7); !found || got != a {
		t.Errorf("bad lookup at 7")
	}
	r.Insert(7, b)
	if got, _ := r.Get(7); got != b {
		t.Errorf("insert should overwrite")
	}
	keys := r.Keys()
	if len(keys) != 2 || keys[0] != 2 || keys[1] != 7 {
		t.Errorf("expected ascending keys [2 7], got %v", keys)
	}
	r.Clear()
	if !r.IsEmpty() {
		t.Errorf("expected empty registry after clear")
	}

	var zero Blocks
	zero.Insert(1, a)
	if got, found := zero.Get(1); !found || got != a {
		t.Errorf("zero registry should accept inserts")
	}
}

func TestBlocksCopies(t *testing.T) {
	src := NewBlocks()
	a := newCube(t, grid.Vector3{}, 2)
	src.Insert(0, a)
	src.Insert(3, newCube(t, grid.Vector3{2, 0, 0}, 2))

	shallow := NewBlocks()
	shallow.Insert(9, a)
	shallow.ShallowCopy(src)
	if shallow.Len() != 2 {
		t.Fatalf("shallow copy should replace contents, got %d blocks", shallow.Len())
	}
	if got, _ := shallow.Get(0); got != a {
		t.Errorf("shallow copy should alias blocks")
	}

	composite := NewBlocks()
	composite.CompositeShallowCopy(src)
	if got, _ := composite.Get(3); got == nil {
		t.Errorf("composite shallow copy should keep composite indices")
	}

	deep := NewBlocks()
	deep.DeepCopy(src)
	got, found := deep.Get(0)
	if !found || got == a {
		t.Fatalf("deep copy should duplicate blocks")
	}
	if err := a.SetScalar(0, 5); err != nil {
		t.Fatalf("unable to set scalar: %v", err)
	}
	if v, _ := got.(*uniformgrid.Grid).Scalar(0); v != 0 {
		t.Errorf("deep copy aliased the source block")
	}

	// Copies after the fact are independent of later source insertions.
	src.Insert(5, a)
	if shallow.Len() != 2 || deep.Len() != 2 {
		t.Errorf("copies should not track later insertions into the source")
	}

	src.ShallowCopy(src)
	src.DeepCopy(src)
	if src.Len() != 3 {
		t.Errorf("self copies should be no-ops")
	}
}

func TestBlocksTruncate(t *testing.T) {
	r := NewBlocks()
	for flat := uint32(0); flat < 6; flat++ {
		r.Insert(flat, newCube(t, grid.Vector3{float64(flat), 0, 0}, 2))
	}
	remaining, dropped := r.Truncate(4)
	if dropped != 2 || len(remaining) != 4 || r.Len() != 4 {
		t.Fatalf("expected 4 kept and 2 dropped, got %d and %d", len(remaining), dropped)
	}
	if _, found := r.Get(4); found {
		t.Errorf("block at the limit should be dropped")
	}
	if _, dropped := r.Truncate(4); dropped != 0 {
		t.Errorf("second truncation should drop nothing")
	}
	if _, dropped := r.Truncate(0); dropped != 4 || !r.IsEmpty() {
		t.Errorf("truncating to zero should empty the registry")
	}
}
