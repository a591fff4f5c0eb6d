package grid

// Block is a uniform grid payload stored in an AMR container.  The container only
// needs its spatial extent and orientation, plus a way to duplicate it for deep copies.
// Two Blocks are the same instance iff they are the same pointer.
type Block interface {
	// Bounds returns the world-space box covered by the block's points.
	Bounds() Bounds

	// GridDescription returns the orientation of the block.
	GridDescription() Description

	// Duplicate returns an independent copy sharing no mutable state with the receiver.
	Duplicate() Block
}
