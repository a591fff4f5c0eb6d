package amr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress is returned when a level or index lies outside the declared shape.
	ErrInvalidAddress = errors.New("invalid block address")

	// ErrNullPayload is returned when a nil block is inserted.  The insertion is a no-op.
	ErrNullPayload = errors.New("nil block payload")

	// ErrInconsistentOrientation is returned when a block's grid description differs
	// from the one already established for the hierarchy.
	ErrInconsistentOrientation = errors.New("inconsistent grid description")

	// ErrUnsetMetadata is returned when level information is needed before Initialize.
	ErrUnsetMetadata = errors.New("level metadata not initialized")
)

// AddressError describes a rejected (level, index) or composite index.
type AddressError struct {
	Level     uint32
	Index     uint32
	Flat      uint32
	IsFlat    bool
	NumLevels uint32
	NumBlocks uint32 // blocks at Level, or total blocks if IsFlat
}

func (e *AddressError) Error() string {
	if e.IsFlat {
		return fmt.Sprintf("%s: composite index %d not in [0, %d)", ErrInvalidAddress, e.Flat, e.NumBlocks)
	}
	if e.Level >= e.NumLevels {
		return fmt.Sprintf("%s: level %d but only %d levels", ErrInvalidAddress, e.Level, e.NumLevels)
	}
	return fmt.Sprintf("%s: index %d at level %d which has %d blocks", ErrInvalidAddress, e.Index, e.Level, e.NumBlocks)
}

// Is allows errors.Is(err, ErrInvalidAddress).
func (e *AddressError) Is(target error) bool {
	return target == ErrInvalidAddress
}

// ErrorReporter receives every validation failure of a Container.
type ErrorReporter func(err error)
