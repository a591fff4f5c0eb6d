package amr

import "github.com/janelia-flyem/amrgrid/grid"

// The copy operations differ in depth.  All of them do nothing when the source is the
// receiver, and none of them hold the source's lock while locking the receiver.

type source struct {
	metadata *Metadata
	blocks   *Blocks
	bounds   grid.Bounds
}

func (c *Container) source() source {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return source{
		metadata: c.metadata,
		blocks:   c.blocks,
		bounds:   c.extents.Bounds(),
	}
}

// CopyStructure shares other's metadata.  The receiver keeps its blocks and bounds,
// except blocks whose composite index lies past the new total, which are dropped
// with the aggregate bounds recomputed from the blocks left.
func (c *Container) CopyStructure(other *Container) {
	if other == nil || other == c {
		return
	}
	src := other.source()

	c.mu.Lock()
	c.setMetadata(src.metadata)
	var total uint32
	if src.metadata != nil {
		total = src.metadata.TotalBlockCount()
	}
	remaining, dropped := c.blocks.Truncate(total)
	if dropped != 0 {
		c.extents.Reset()
		for _, b := range remaining {
			c.extents.Adjust(b.Bounds())
		}
	}
	c.mu.Unlock()
	if dropped != 0 {
		grid.Debugf("Structure copy dropped %d blocks outside %d composite indices\n", dropped, total)
	}
	c.modified()
}

// ShallowCopy shares other's metadata, references other's blocks without duplicating
// them, and copies its aggregate bounds.
func (c *Container) ShallowCopy(other *Container) {
	if other == nil || other == c {
		return
	}
	src := other.source()

	c.mu.Lock()
	c.setMetadata(src.metadata)
	c.blocks.ShallowCopy(src.blocks)
	c.extents.Set(src.bounds)
	c.mu.Unlock()
	c.modified()
}

// RecursiveShallowCopy is the same as ShallowCopy.
//
// Deprecated: use ShallowCopy.
func (c *Container) RecursiveShallowCopy(other *Container) {
	c.ShallowCopy(other)
}

// CompositeShallowCopy is ShallowCopy for a source handled as a generic composite data
// set.  Only an AMR container source is copied.  Any other kind leaves the receiver's
// hierarchy untouched.
func (c *Container) CompositeShallowCopy(src CompositeDataSet) {
	if src == nil {
		return
	}
	other := src.amrContainer()
	if other == c {
		return
	}
	if other == nil {
		grid.Debugf("Composite shallow copy from %T has no AMR hierarchy to copy\n", src)
		c.modified()
		return
	}
	c.ShallowCopy(other)
}

// DeepCopy replaces the receiver with an independent copy of other: its own duplicate
// of other's metadata, duplicates of every block, and other's aggregate bounds.
func (c *Container) DeepCopy(other *Container) {
	if other == nil || other == c {
		return
	}
	src := other.source()
	var m *Metadata
	if src.metadata != nil {
		m = src.metadata.Duplicate()
	}

	c.mu.Lock()
	c.setMetadata(m)
	c.blocks.DeepCopy(src.blocks)
	c.extents.Set(src.bounds)
	c.mu.Unlock()
	c.modified()
}
