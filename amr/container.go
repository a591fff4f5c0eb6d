package amr

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/janelia-flyem/amrgrid/grid"
)

// Container is a hierarchy of uniform grid blocks organized into refinement levels.
// Blocks are addressed by (level, index) pairs, translated through the attached
// Metadata into composite indices of the sparse Blocks registry.
//
// A Container must be created with New.
type Container struct {
	metadata *Metadata
	blocks   *Blocks

	// extents is the envelope of all inserted blocks, the empty sentinel until the
	// first insertion.
	extents grid.Extents

	mtime    uint64
	reporter ErrorReporter

	mu sync.RWMutex
}

// New returns a container without metadata.  Call Initialize before setting blocks.
func New() *Container {
	c := &Container{
		blocks:   NewBlocks(),
		reporter: logReporter,
	}
	c.extents.Reset()
	return c
}

func logReporter(err error) {
	grid.Errorf("%v\n", err)
}

// SetErrorReporter sets the function receiving all validation failures.  Passing nil
// restores the default, which logs through grid.Errorf.
func (c *Container) SetErrorReporter(r ErrorReporter) {
	if r == nil {
		r = logReporter
	}
	c.mu.Lock()
	c.reporter = r
	c.mu.Unlock()
}

// report must be called without holding c.mu so a reporter may call back into c.
func (c *Container) report(err error) {
	c.mu.RLock()
	r := c.reporter
	c.mu.RUnlock()
	r(err)
}

func (c *Container) modified() {
	atomic.AddUint64(&c.mtime, 1)
}

// MTime returns a counter increased by every structural modification.
func (c *Container) MTime() uint64 {
	return atomic.LoadUint64(&c.mtime)
}

// Initialize replaces the metadata with a new Metadata of the given shape, drops all
// blocks and resets the aggregate bounds.  A shape whose total block count does not fit
// the composite index range is reported and leaves the container unchanged.
func (c *Container) Initialize(numLevels uint32, blocksPerLevel []uint32) error {
	m := NewMetadata()
	if err := m.Initialize(numLevels, blocksPerLevel); err != nil {
		c.report(err)
		return err
	}

	c.mu.Lock()
	c.extents.Reset()
	c.setMetadata(m)
	c.blocks.Clear()
	c.mu.Unlock()
	c.modified()
	return nil
}

// Reset is Initialize with zero levels.
func (c *Container) Reset() {
	c.Initialize(0, nil)
}

// Release detaches the metadata and drops all blocks.  The container may be
// initialized again afterwards.
func (c *Container) Release() {
	c.mu.Lock()
	c.setMetadata(nil)
	c.blocks.Clear()
	c.extents.Reset()
	c.mu.Unlock()
	c.modified()
}

// setMetadata requires the write lock.
func (c *Container) setMetadata(m *Metadata) bool {
	if m == c.metadata {
		return false
	}
	if c.metadata != nil {
		c.metadata.release()
	}
	c.metadata = m
	if m != nil {
		m.retain()
	}
	return true
}

// SetMetadata attaches m, which may be shared with other containers, and detaches
// the current metadata.  Passing the already attached metadata does nothing.
func (c *Container) SetMetadata(m *Metadata) {
	c.mu.Lock()
	changed := c.setMetadata(m)
	c.mu.Unlock()
	if changed {
		c.modified()
	}
}

// Metadata returns the attached metadata or nil before Initialize.
func (c *Container) Metadata() *Metadata {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metadata
}

// GetBlock returns the block at (level, idx) or nil if there is none.  An address
// outside the declared shape is reported.
func (c *Container) GetBlock(level, idx uint32) grid.Block {
	c.mu.RLock()
	b, err := c.getBlock(level, idx)
	c.mu.RUnlock()
	if err != nil {
		c.report(err)
	}
	return b
}

func (c *Container) getBlock(level, idx uint32) (grid.Block, error) {
	if c.metadata == nil {
		return nil, fmt.Errorf("%w: cannot get block (%d, %d)", ErrUnsetMetadata, level, idx)
	}
	flat, err := c.metadata.FlatIndex(level, idx)
	if err != nil {
		return nil, err
	}
	b, _ := c.blocks.Get(flat)
	return b, nil
}

// SetBlock stores b at (level, idx).  The first block fixes the grid description
// of the hierarchy if it is still unset, and every later block must match it.  On any
// failure the container is left unchanged.  A nil block is ignored.
//
// SetBlock may be called concurrently for distinct addresses.
func (c *Container) SetBlock(level, idx uint32, b grid.Block) error {
	if b == nil {
		grid.Debugf("Ignoring nil block at (%d, %d)\n", level, idx)
		return ErrNullPayload
	}
	c.mu.RLock()
	err := c.setBlock(level, idx, b)
	c.mu.RUnlock()
	if err != nil {
		c.report(err)
	}
	return err
}

func (c *Container) setBlock(level, idx uint32, b grid.Block) error {
	if c.metadata == nil {
		return fmt.Errorf("%w: cannot set block (%d, %d)", ErrUnsetMetadata, level, idx)
	}
	flat, err := c.metadata.FlatIndex(level, idx)
	if err != nil {
		return err
	}
	d := b.GridDescription()
	if established, ok := c.metadata.adoptGridDescription(d); !ok {
		return fmt.Errorf("%w: block (%d, %d) is %s but hierarchy is %s",
			ErrInconsistentOrientation, level, idx, d, established)
	}
	c.blocks.Insert(flat, b)
	c.extents.Adjust(b.Bounds())
	return nil
}

// GetBounds returns the envelope of all inserted blocks, or the metadata bounds if no
// block has been inserted.
func (c *Container) GetBounds() grid.Bounds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.blocks.IsEmpty() {
		return c.extents.Bounds()
	}
	if c.metadata == nil {
		return grid.EmptyBounds()
	}
	return c.metadata.Bounds()
}

// GetMin returns the minimum corner of GetBounds.
func (c *Container) GetMin() grid.Vector3 {
	return c.GetBounds().Min()
}

// GetMax returns the maximum corner of GetBounds.
func (c *Container) GetMax() grid.Vector3 {
	return c.GetBounds().Max()
}

// GetCompositeIndex returns the composite index of (level, idx).  An invalid address
// is reported and yields 0.
func (c *Container) GetCompositeIndex(level, idx uint32) uint32 {
	c.mu.RLock()
	m := c.metadata
	c.mu.RUnlock()
	if m == nil {
		c.report(fmt.Errorf("%w: no composite index for (%d, %d)", ErrUnsetMetadata, level, idx))
		return 0
	}
	flat, err := m.FlatIndex(level, idx)
	if err != nil {
		c.report(err)
		return 0
	}
	return flat
}

// GetLevelAndIndex returns the address of a composite index.  An index outside
// [0, GetTotalBlockCount()) is reported and ok is false.
func (c *Container) GetLevelAndIndex(flat uint32) (level, idx uint32, ok bool) {
	c.mu.RLock()
	m := c.metadata
	c.mu.RUnlock()
	if m == nil {
		c.report(fmt.Errorf("%w: no address for composite index %d", ErrUnsetMetadata, flat))
		return 0, 0, false
	}
	level, idx, err := m.LevelAndIndex(flat)
	if err != nil {
		c.report(err)
		return 0, 0, false
	}
	return level, idx, true
}

// GetNumberOfLevels returns the number of levels or 0 without metadata.
func (c *Container) GetNumberOfLevels() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.metadata == nil {
		return 0
	}
	return c.metadata.NumberOfLevels()
}

// GetTotalBlockCount returns the number of addressable blocks over all levels.
func (c *Container) GetTotalBlockCount() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.metadata == nil {
		return 0
	}
	return c.metadata.TotalBlockCount()
}

// GetBlockCountAtLevel returns the number of addressable blocks at a level.
func (c *Container) GetBlockCountAtLevel(level uint32) uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.metadata == nil {
		return 0
	}
	return c.metadata.NumberOfBlocks(level)
}

// IsEmpty returns true if no block has been inserted.
func (c *Container) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks.IsEmpty()
}

// NumberOfPopulatedBlocks returns the number of inserted blocks.
func (c *Container) NumberOfPopulatedBlocks() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks.Len()
}

// SetGridDescription sets the description on the attached metadata, if any.
func (c *Container) SetGridDescription(d grid.Description) {
	c.mu.RLock()
	m := c.metadata
	c.mu.RUnlock()
	if m != nil {
		m.SetGridDescription(d)
	}
}

// GetGridDescription returns the description of the hierarchy or grid.Unset
// without metadata.
func (c *Container) GetGridDescription() grid.Description {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.metadata == nil {
		return grid.Unset
	}
	return c.metadata.GridDescription()
}

// entries returns the populated blocks in ascending composite order.
func (c *Container) entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.metadata == nil {
		return nil
	}
	snap := c.blocks.snapshot()
	entries := make([]Entry, 0, len(snap))
	for flat, b := range snap {
		level, idx, err := c.metadata.LevelAndIndex(flat)
		if err != nil {
			grid.Warningf("Skipping block at composite index %d outside the hierarchy: %v\n", flat, err)
			continue
		}
		entries = append(entries, Entry{Level: level, Index: idx, Flat: flat, Block: b})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Flat < entries[j].Flat })
	return entries
}

// GetBlockAt returns the block at the iterator's current address.
func (c *Container) GetBlockAt(it *Iterator) grid.Block {
	if it == nil || it.IsDone() {
		return nil
	}
	return c.GetBlock(it.CurrentLevel(), it.CurrentIndex())
}

// SetBlockAt stores b at the iterator's current address.
func (c *Container) SetBlockAt(it *Iterator, b grid.Block) error {
	if it == nil || it.IsDone() {
		err := fmt.Errorf("%w: iterator has no current block", ErrInvalidAddress)
		c.report(err)
		return err
	}
	return c.SetBlock(it.CurrentLevel(), it.CurrentIndex(), b)
}

func (c *Container) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.metadata == nil {
		return "AMR container without metadata"
	}
	return fmt.Sprintf("AMR container: %s, %d populated", c.metadata, c.blocks.Len())
}
