package amr

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/janelia-flyem/amrgrid/grid"
)

// Metadata describes the level structure of an AMR hierarchy: the number of levels,
// the number of blocks at each level, the grid description shared by all blocks, and
// bounds implied by the structure alone.  A Metadata may be shared by any number of
// containers and is reference counted through their attach and detach.
type Metadata struct {
	id uuid.UUID

	// offsets[level] is the composite index of the first block at level, and
	// offsets[numLevels] is the total number of blocks.
	numLevels      uint32
	blocksPerLevel []uint32
	offsets        []uint32

	description grid.Description
	bounds      grid.Bounds

	refs int32

	mu sync.RWMutex
}

// NewMetadata returns metadata with zero levels.
func NewMetadata() *Metadata {
	m := &Metadata{id: uuid.New()}
	m.Initialize(0, nil)
	return m
}

// Initialize replaces the level structure.  A nil blocksPerLevel gives every level zero
// blocks.  If blocksPerLevel is shorter than numLevels, the missing levels have zero
// blocks, and entries past numLevels are ignored.  The grid description is reset to
// Unset and the bounds to the empty sentinel.
//
// Composite indices are uint32, so a shape with more than math.MaxUint32 blocks in
// total is rejected with an ErrInvalidAddress and the metadata is left unchanged.
func (m *Metadata) Initialize(numLevels uint32, blocksPerLevel []uint32) error {
	counts := make([]uint32, numLevels)
	copy(counts, blocksPerLevel)
	offsets := make([]uint32, numLevels+1)
	var total uint64
	for level, n := range counts {
		total += uint64(n)
		if total > math.MaxUint32 {
			return fmt.Errorf("%w: %d blocks through level %d exceed the %d composite indices",
				ErrInvalidAddress, total, level, uint64(math.MaxUint32))
		}
		offsets[level+1] = uint32(total)
	}

	m.mu.Lock()
	m.numLevels = numLevels
	m.blocksPerLevel = counts
	m.offsets = offsets
	m.description = grid.Unset
	m.bounds = grid.EmptyBounds()
	m.mu.Unlock()
	return nil
}

// ID returns an identifier unique to this metadata instance.
func (m *Metadata) ID() uuid.UUID {
	return m.id
}

// NumberOfLevels returns the number of refinement levels.
func (m *Metadata) NumberOfLevels() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.numLevels
}

// NumberOfBlocks returns the number of blocks at the given level or 0 if there is no
// such level.
func (m *Metadata) NumberOfBlocks(level uint32) uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if level >= m.numLevels {
		return 0
	}
	return m.blocksPerLevel[level]
}

// BlocksPerLevel returns a copy of the per-level block counts.
func (m *Metadata) BlocksPerLevel() []uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]uint32{}, m.blocksPerLevel...)
}

// TotalBlockCount returns the sum of blocks over all levels.
func (m *Metadata) TotalBlockCount() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total()
}

// total requires at least a read lock.  The zero Metadata has no levels.
func (m *Metadata) total() uint32 {
	if len(m.offsets) == 0 {
		return 0
	}
	return m.offsets[m.numLevels]
}

// FlatIndex returns the composite index of the given address.
func (m *Metadata) FlatIndex(level, idx uint32) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flatIndex(level, idx)
}

func (m *Metadata) flatIndex(level, idx uint32) (uint32, error) {
	if level >= m.numLevels || idx >= m.blocksPerLevel[level] {
		e := &AddressError{Level: level, Index: idx, NumLevels: m.numLevels}
		if level < m.numLevels {
			e.NumBlocks = m.blocksPerLevel[level]
		}
		return 0, e
	}
	return m.offsets[level] + idx, nil
}

// LevelAndIndex returns the (level, index) address of a composite index.
func (m *Metadata) LevelAndIndex(flat uint32) (level, idx uint32, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.total()
	if flat >= total {
		err = &AddressError{Flat: flat, IsFlat: true, NumLevels: m.numLevels, NumBlocks: total}
		return
	}
	// First level whose end offset exceeds flat.  Levels with no blocks are skipped
	// since their start and end offsets are equal.
	l := sort.Search(int(m.numLevels), func(i int) bool {
		return m.offsets[i+1] > flat
	})
	level = uint32(l)
	idx = flat - m.offsets[l]
	return
}

// SetGridDescription sets the description without any validation against blocks.
func (m *Metadata) SetGridDescription(d grid.Description) {
	m.mu.Lock()
	m.description = d
	m.mu.Unlock()
}

// GridDescription returns the description shared by all blocks.
func (m *Metadata) GridDescription() grid.Description {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.description
}

// adoptGridDescription sets the description to d if still Unset.  It returns the
// established description and whether d agrees with it.
func (m *Metadata) adoptGridDescription(d grid.Description) (grid.Description, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.description == grid.Unset {
		m.description = d
	}
	return m.description, m.description == d
}

// SetBounds sets the bounds implied by the level structure.
func (m *Metadata) SetBounds(b grid.Bounds) {
	m.mu.Lock()
	m.bounds = b
	m.mu.Unlock()
}

// Bounds returns the bounds implied by the level structure, which is the empty
// sentinel unless set.
func (m *Metadata) Bounds() grid.Bounds {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bounds
}

// Duplicate returns an independent copy with the same shape, description and bounds.
// The copy has its own identity and no references.
func (m *Metadata) Duplicate() *Metadata {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Metadata{
		id:             uuid.New(),
		numLevels:      m.numLevels,
		blocksPerLevel: append([]uint32{}, m.blocksPerLevel...),
		offsets:        append([]uint32{}, m.offsets...),
		description:    m.description,
		bounds:         m.bounds,
	}
}

// Refs returns the number of containers currently attached.
func (m *Metadata) Refs() int32 {
	return atomic.LoadInt32(&m.refs)
}

func (m *Metadata) retain() {
	n := atomic.AddInt32(&m.refs, 1)
	grid.Debugf("Metadata %s attached, now %d references\n", m.id, n)
}

func (m *Metadata) release() {
	n := atomic.AddInt32(&m.refs, -1)
	switch {
	case n == 0:
		grid.Debugf("Metadata %s released by its last container\n", m.id)
	case n < 0:
		grid.Criticalf("Metadata %s released more times than attached (%d)\n", m.id, n)
	default:
		grid.Debugf("Metadata %s detached, now %d references\n", m.id, n)
	}
}

func (m *Metadata) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("%d levels %v, %d blocks, %s", m.numLevels, m.blocksPerLevel,
		m.total(), m.description)
}
