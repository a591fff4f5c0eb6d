package amr

import (
	"errors"
	"testing"

	"github.com/janelia-flyem/amrgrid/grid"
)

func TestIteratorOrder(t *testing.T) {
	c, _ := newTestContainer(3, []uint32{2, 0, 4})
	addrs := [][2]uint32{{2, 3}, {0, 1}, {2, 0}, {0, 0}}
	for _, addr := range addrs {
		if err := c.SetBlock(addr[0], addr[1], newCube(t, grid.Vector3{}, 2)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	expected := []Entry{
		{Level: 0, Index: 0, Flat: 0},
		{Level: 0, Index: 1, Flat: 1},
		{Level: 2, Index: 0, Flat: 2},
		{Level: 2, Index: 3, Flat: 5},
	}
	it := c.NewIterator()
	if it.Len() != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), it.Len())
	}
	for i := 0; !it.IsDone(); i++ {
		e := expected[i]
		if it.CurrentLevel() != e.Level || it.CurrentIndex() != e.Index || it.CurrentFlatIndex() != e.Flat {
			t.Errorf("entry %d: got (%d, %d, %d), expected %+v", i, it.CurrentLevel(), it.CurrentIndex(),
				it.CurrentFlatIndex(), e)
		}
		if c.GetBlockAt(it) != c.GetBlock(e.Level, e.Index) {
			t.Errorf("entry %d: GetBlockAt mismatch", i)
		}
		it.Advance()
	}
	it.Advance()
	if !it.IsDone() {
		t.Errorf("advancing past the end should stay done")
	}
	if _, ok := it.Current(); ok {
		t.Errorf("Current should fail when done")
	}
	if c.GetBlockAt(it) != nil {
		t.Errorf("GetBlockAt should return nil when done")
	}
}

func TestIteratorSnapshot(t *testing.T) {
	c, _ := newTestContainer(1, []uint32{3})
	if err := c.SetBlock(0, 1, newCube(t, grid.Vector3{}, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := c.NewIterator()
	if err := c.SetBlock(0, 0, newCube(t, grid.Vector3{}, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Len() != 1 || it.CurrentIndex() != 1 {
		t.Errorf("iterator should not see blocks set after creation")
	}
	it.Advance()
	it.Restart()
	if it.Len() != 2 || it.IsDone() || it.CurrentIndex() != 0 {
		t.Errorf("restart should see all current blocks")
	}

	empty := New().NewIterator()
	if !empty.IsDone() || empty.Len() != 0 {
		t.Errorf("iterator over container without metadata should be done")
	}
}

func TestSetBlockAt(t *testing.T) {
	c, log := newTestContainer(2, []uint32{1, 1})
	if err := c.SetBlock(1, 0, newCube(t, grid.Vector3{}, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := c.NewIterator()
	replacement := newCube(t, grid.Vector3{3, 3, 3}, 2)
	if err := c.SetBlockAt(it, replacement); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.GetBlock(1, 0) != replacement {
		t.Errorf("SetBlockAt should replace the current block")
	}
	if b := c.GetBounds(); b != (grid.Bounds{0, 4, 0, 4, 0, 4}) {
		t.Errorf("bounds should only grow: %v", b)
	}
	it.Advance()
	if err := c.SetBlockAt(it, replacement); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected invalid address for exhausted iterator, got %v", err)
	}
	if log.count() != 1 {
		t.Errorf("expected one reported error, got %d", log.count())
	}
}
