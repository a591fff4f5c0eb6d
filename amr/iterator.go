package amr

import "github.com/janelia-flyem/amrgrid/grid"

// Entry is a populated block and its address.
type Entry struct {
	Level uint32
	Index uint32
	Flat  uint32
	Block grid.Block
}

// Iterator visits the populated blocks of a Container in ascending composite index
// order, i.e., level-major and then by index within the level.  The blocks visited are
// those present when the iterator was created or last restarted.  Blocks set later
// are not seen until Restart.
type Iterator struct {
	c       *Container
	entries []Entry
	pos     int
}

// NewIterator returns an iterator positioned at the first populated block.
func (c *Container) NewIterator() *Iterator {
	it := &Iterator{c: c}
	it.Restart()
	return it
}

// Restart repositions the iterator at the first block currently populated.
func (it *Iterator) Restart() {
	it.entries = it.c.entries()
	it.pos = 0
}

// IsDone returns true when every block has been visited.
func (it *Iterator) IsDone() bool {
	return it.pos >= len(it.entries)
}

// Advance moves to the next populated block.  It does nothing once done.
func (it *Iterator) Advance() {
	if !it.IsDone() {
		it.pos++
	}
}

// Current returns the entry at the iterator position.  ok is false when done.
func (it *Iterator) Current() (entry Entry, ok bool) {
	if it.IsDone() {
		return Entry{}, false
	}
	return it.entries[it.pos], true
}

// CurrentLevel returns the level of the current block, or 0 when done.
func (it *Iterator) CurrentLevel() uint32 {
	entry, _ := it.Current()
	return entry.Level
}

// CurrentIndex returns the index within its level of the current block, or 0 when done.
func (it *Iterator) CurrentIndex() uint32 {
	entry, _ := it.Current()
	return entry.Index
}

// CurrentFlatIndex returns the composite index of the current block, or 0 when done.
func (it *Iterator) CurrentFlatIndex() uint32 {
	entry, _ := it.Current()
	return entry.Flat
}

// Len returns the number of blocks in this traversal.
func (it *Iterator) Len() int {
	return len(it.entries)
}
