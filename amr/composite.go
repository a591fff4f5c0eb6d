package amr

import (
	"sync"

	"github.com/janelia-flyem/amrgrid/grid"
)

// CompositeDataSet is a data set made of blocks.  The set of implementations is closed:
// *Container, a leveled AMR hierarchy, and *BlockList, an unleveled sequence of blocks.
type CompositeDataSet interface {
	// NumberOfPopulatedBlocks returns the number of blocks actually held.
	NumberOfPopulatedBlocks() int

	// GetBounds returns the envelope of the held blocks.
	GetBounds() grid.Bounds

	// amrContainer returns the AMR hierarchy or nil for other kinds.
	amrContainer() *Container
}

func (c *Container) amrContainer() *Container {
	return c
}

// BlockList is a flat, ordered collection of blocks with no level structure.
type BlockList struct {
	blocks []grid.Block
	mu     sync.RWMutex
}

// NewBlockList returns a list holding references to the given blocks.  Nil blocks are
// skipped.
func NewBlockList(blocks ...grid.Block) *BlockList {
	l := &BlockList{}
	for _, b := range blocks {
		l.Append(b)
	}
	return l
}

// Flatten returns a BlockList referencing the populated blocks of c in composite order.
func (c *Container) Flatten() *BlockList {
	l := &BlockList{}
	for it := c.NewIterator(); !it.IsDone(); it.Advance() {
		entry, _ := it.Current()
		l.Append(entry.Block)
	}
	return l
}

// Append adds a block to the end of the list.
func (l *BlockList) Append(b grid.Block) {
	if b == nil {
		return
	}
	l.mu.Lock()
	l.blocks = append(l.blocks, b)
	l.mu.Unlock()
}

// Block returns the i-th block or nil if out of range.
func (l *BlockList) Block(i int) grid.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.blocks) {
		return nil
	}
	return l.blocks[i]
}

func (l *BlockList) NumberOfPopulatedBlocks() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.blocks)
}

func (l *BlockList) GetBounds() grid.Bounds {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b := grid.EmptyBounds()
	for _, block := range l.blocks {
		b, _ = b.Union(block.Bounds())
	}
	return b
}

func (l *BlockList) amrContainer() *Container {
	return nil
}
