package uniformgrid

import (
	"testing"

	"github.com/janelia-flyem/amrgrid/grid"
)

func TestGridBounds(t *testing.T) {
	g, err := New(grid.Vector3{1, 2, 3}, grid.Vector3{0.5, 1, 2}, [3]int{5, 3, 2})
	if err != nil {
		t.Fatalf("unable to create grid: %v", err)
	}
	expected := grid.Bounds{1, 3, 2, 4, 3, 5}
	if b := g.Bounds(); b != expected {
		t.Errorf("expected bounds %v, got %v", expected, b)
	}
	if d := g.GridDescription(); d != grid.XYZGrid {
		t.Errorf("expected 3d volume, got %s", d)
	}
	if g.NumPoints() != 30 {
		t.Errorf("expected 30 points, got %d", g.NumPoints())
	}

	plane, err := New(grid.Vector3{}, grid.Vector3{1, 1, 1}, [3]int{4, 1, 4})
	if err != nil {
		t.Fatalf("unable to create plane: %v", err)
	}
	if d := plane.GridDescription(); d != grid.XZPlane {
		t.Errorf("expected XZ plane, got %s", d)
	}
	if b := plane.Bounds(); b != (grid.Bounds{0, 3, 0, 0, 0, 3}) {
		t.Errorf("bad plane bounds: %v", b)
	}
}

func TestGridValidation(t *testing.T) {
	if _, err := New(grid.Vector3{}, grid.Vector3{1, 0, 1}, [3]int{2, 2, 2}); err == nil {
		t.Errorf("expected error for zero spacing along extended axis")
	}
	if _, err := New(grid.Vector3{}, grid.Vector3{1, 1, 1}, [3]int{2, -1, 2}); err == nil {
		t.Errorf("expected error for negative dims")
	}
	g, err := New(grid.Vector3{}, grid.Vector3{1, 1, 1}, [3]int{0, 2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.Bounds().IsEmpty() || g.GridDescription() != grid.Empty {
		t.Errorf("grid without points should be empty: %s %s", g.Bounds(), g.GridDescription())
	}
}

func TestGridDuplicate(t *testing.T) {
	g, err := New(grid.Vector3{}, grid.Vector3{1, 1, 1}, [3]int{2, 2, 2})
	if err != nil {
		t.Fatalf("unable to create grid: %v", err)
	}
	g.Fill(3)
	n, err := g.PointIndex(1, 1, 1)
	if err != nil || n != 7 {
		t.Fatalf("bad point index %d: %v", n, err)
	}
	dup := g.Duplicate().(*Grid)
	if err := g.SetScalar(n, 42); err != nil {
		t.Fatalf("unable to set scalar: %v", err)
	}
	if v, _ := dup.Scalar(n); v != 3 {
		t.Errorf("duplicate changed with original: got %g", v)
	}
	if v, _ := g.Scalar(n); v != 42 {
		t.Errorf("original not changed: got %g", v)
	}
	if dup.Bounds() != g.Bounds() || dup.Dims() != g.Dims() {
		t.Errorf("duplicate geometry differs")
	}
	if _, err := g.Scalar(8); err == nil {
		t.Errorf("expected out of range error")
	}
	if _, err := g.PointIndex(2, 0, 0); err == nil {
		t.Errorf("expected out of range point index error")
	}
}

func TestGridTooLarge(t *testing.T) {
	huge := 1 << 40
	if _, err := New(grid.Vector3{}, grid.Vector3{1, 1, 1}, [3]int{huge, huge, huge}); err == nil {
		t.Errorf("expected error for dims overflowing the point count")
	}
	if _, err := New(grid.Vector3{}, grid.Vector3{1, 1, 1}, [3]int{1 << 11, 1 << 10, 1 << 10}); err == nil {
		t.Errorf("expected error for grid above %d points", MaxPoints)
	}
	g, err := New(grid.Vector3{}, grid.Vector3{1, 1, 1}, [3]int{huge, 0, huge})
	if err != nil {
		t.Fatalf("grid without points should be accepted: %v", err)
	}
	if g.NumPoints() != 0 || !g.Bounds().IsEmpty() {
		t.Errorf("expected empty grid")
	}
}
