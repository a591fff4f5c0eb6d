package amr

import (
	"sort"
	"sync"

	"github.com/janelia-flyem/amrgrid/grid"
)

// Blocks is a sparse registry of populated blocks keyed by composite index.  It knows
// nothing about levels, so callers are responsible for only using valid indices.
// Absence of an index is the normal state of a block that has not been computed yet.
type Blocks struct {
	blocks map[uint32]grid.Block
	mu     sync.RWMutex
}

// NewBlocks returns an empty registry.
func NewBlocks() *Blocks {
	return &Blocks{blocks: make(map[uint32]grid.Block)}
}

// Insert stores b at the composite index, replacing any previous block.
func (r *Blocks) Insert(flat uint32, b grid.Block) {
	r.mu.Lock()
	if r.blocks == nil {
		r.blocks = make(map[uint32]grid.Block)
	}
	r.blocks[flat] = b
	r.mu.Unlock()
}

// Get returns the block at the composite index and whether one is present.
func (r *Blocks) Get(flat uint32) (grid.Block, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, found := r.blocks[flat]
	return b, found
}

// IsEmpty returns true if no block is present.
func (r *Blocks) IsEmpty() bool {
	return r.Len() == 0
}

// Len returns the number of populated blocks.
func (r *Blocks) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blocks)
}

// Keys returns the populated composite indices in ascending order.
func (r *Blocks) Keys() []uint32 {
	r.mu.RLock()
	keys := make([]uint32, 0, len(r.blocks))
	for flat := range r.blocks {
		keys = append(keys, flat)
	}
	r.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clear drops all blocks.
func (r *Blocks) Clear() {
	r.mu.Lock()
	r.blocks = make(map[uint32]grid.Block)
	r.mu.Unlock()
}

// Truncate drops every block at a composite index of total or more and returns the
// blocks that remain.
func (r *Blocks) Truncate(total uint32) (remaining []grid.Block, dropped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	remaining = make([]grid.Block, 0, len(r.blocks))
	for flat, b := range r.blocks {
		if flat >= total {
			delete(r.blocks, flat)
			dropped++
			continue
		}
		remaining = append(remaining, b)
	}
	return remaining, dropped
}

// ShallowCopy replaces the receiver's contents with references to other's blocks.
// Blocks are not duplicated, so a mutation of a block through either registry is
// visible through the other.
func (r *Blocks) ShallowCopy(other *Blocks) {
	if other == nil || other == r {
		return
	}
	r.replace(other.snapshot())
}

// CompositeShallowCopy is ShallowCopy for registries copied as part of a composite
// structure.  Composite indices are preserved 1:1.
func (r *Blocks) CompositeShallowCopy(other *Blocks) {
	r.ShallowCopy(other)
}

// DeepCopy replaces the receiver's contents with duplicates of other's blocks.
func (r *Blocks) DeepCopy(other *Blocks) {
	if other == nil || other == r {
		return
	}
	src := other.snapshot()
	for flat, b := range src {
		src[flat] = b.Duplicate()
	}
	r.replace(src)
}

// snapshot returns a copy of the index to block map that aliases the blocks.
func (r *Blocks) snapshot() map[uint32]grid.Block {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := make(map[uint32]grid.Block, len(r.blocks))
	for flat, b := range r.blocks {
		m[flat] = b
	}
	return m
}

func (r *Blocks) replace(m map[uint32]grid.Block) {
	r.mu.Lock()
	r.blocks = m
	r.mu.Unlock()
}
