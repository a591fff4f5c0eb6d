/*
	Package amr implements a hierarchical container of uniform grid blocks organized into
	refinement levels.

	A Container composes a shared, reference-counted Metadata that describes how many
	levels exist and how many blocks each level holds, and an exclusively owned Blocks
	registry that holds only the populated blocks keyed by their composite (flat) index.
	Composite indices are assigned level-major:

		flat(level, idx) = blocksPerLevel[0] + ... + blocksPerLevel[level-1] + idx

	Failures such as an out-of-shape address never panic.  They leave the container
	untouched, are returned as errors where the call has an error result, and are passed to
	the container's ErrorReporter, which logs them by default.

	Blocks may be set from many goroutines at once as long as each goroutine writes
	distinct addresses.  A single consumer can then traverse the result with an Iterator.
*/
package amr

import (
	"github.com/blang/semver"

	"github.com/janelia-flyem/amrgrid/grid"
)

// Version is the version of the container semantics implemented by this package.
var Version semver.Version

func init() {
	var err error
	if Version, err = semver.Make("1.1.0"); err != nil {
		grid.Errorf("Unable to make semver in amr: %v\n", err)
	}
}
