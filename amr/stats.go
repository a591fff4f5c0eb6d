package amr

import (
	"fmt"
	"strings"

	"github.com/DmitriyVTitov/size"
	"github.com/dustin/go-humanize"

	"github.com/janelia-flyem/amrgrid/grid"
)

// Stats summarizes the population of a Container.
type Stats struct {
	Levels      uint32
	TotalBlocks uint32
	Populated   int

	// PopulatedPerLevel[level] is the number of blocks set at that level.
	PopulatedPerLevel []int

	// PayloadBytes estimates the memory held by the populated blocks.
	PayloadBytes int

	Description grid.Description
	Bounds      grid.Bounds
}

// Stats computes a summary from a consistent traversal of the container.
func (c *Container) Stats() Stats {
	s := Stats{
		Levels:      c.GetNumberOfLevels(),
		TotalBlocks: c.GetTotalBlockCount(),
		Description: c.GetGridDescription(),
		Bounds:      c.GetBounds(),
	}
	s.PopulatedPerLevel = make([]int, s.Levels)
	payloads := make([]grid.Block, 0, c.NumberOfPopulatedBlocks())
	for it := c.NewIterator(); !it.IsDone(); it.Advance() {
		entry, _ := it.Current()
		if int(entry.Level) < len(s.PopulatedPerLevel) {
			s.PopulatedPerLevel[entry.Level]++
		}
		payloads = append(payloads, entry.Block)
		s.Populated++
	}
	if len(payloads) != 0 {
		s.PayloadBytes = size.Of(payloads)
	}
	return s
}

// Occupancy returns the fraction of addressable blocks that are populated.
func (s Stats) Occupancy() float64 {
	if s.TotalBlocks == 0 {
		return 0
	}
	return float64(s.Populated) / float64(s.TotalBlocks)
}

func (s Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d levels, %s of %s blocks populated (%.1f%%), %s\n",
		s.Levels, humanize.Comma(int64(s.Populated)), humanize.Comma(int64(s.TotalBlocks)),
		100*s.Occupancy(), s.Description)
	for level, n := range s.PopulatedPerLevel {
		fmt.Fprintf(&sb, "  level %d: %s populated\n", level, humanize.Comma(int64(n)))
	}
	fmt.Fprintf(&sb, "bounds %s, payload ~%s", s.Bounds, humanize.Bytes(uint64(s.PayloadBytes)))
	return sb.String()
}
