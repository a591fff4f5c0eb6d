/*
	Package hierarchy describes an AMR hierarchy in a TOML file and builds the
	corresponding amr.Container, populating its blocks with a bounded pool of workers.

	A hierarchy file looks like:

		[logging]
		logfile = "/tmp/amrinfo.log"
		max_log_size = 500 # MB
		max_log_age = 30   # days

		[hierarchy]
		levels = 2
		blocks = [1, 8]
		description = "xyz"  # optional, fixed by the first block otherwise
		workers = 4          # defaults to the number of CPUs
		bounds = [0.0, 1.0, 0.0, 1.0, 0.0, 1.0]

		[[block]]
		level = 0
		index = 0
		origin = [0.0, 0.0, 0.0]
		spacing = [0.25, 0.25, 0.25]
		dims = [5, 5, 5]
		fill = 1.0
*/
package hierarchy

import (
	"fmt"
	"math"

	"github.com/BurntSushi/toml"

	"github.com/janelia-flyem/amrgrid/grid"
	"github.com/janelia-flyem/amrgrid/uniformgrid"
)

// Config is the decoded hierarchy file.
type Config struct {
	Logging   grid.LogConfig
	Hierarchy ShapeConfig
	Block     []BlockConfig
}

// ShapeConfig gives the level structure of the hierarchy.
type ShapeConfig struct {
	Levels      uint32
	Blocks      []uint32
	Description string
	Workers     int

	// Bounds is empty or the box [xmin, xmax, ymin, ymax, zmin, zmax] recorded on the
	// metadata.
	Bounds []float64
}

// BlockConfig is one uniform grid block and its address.
type BlockConfig struct {
	Level   uint32
	Index   uint32
	Origin  [3]float64
	Spacing [3]float64
	Dims    [3]int
	Fill    float64
}

// NewGrid returns the uniform grid described by the block configuration.
func (bc BlockConfig) NewGrid() (*uniformgrid.Grid, error) {
	g, err := uniformgrid.New(grid.Vector3(bc.Origin), grid.Vector3(bc.Spacing), bc.Dims)
	if err != nil {
		return nil, fmt.Errorf("block (%d, %d): %w", bc.Level, bc.Index, err)
	}
	if bc.Fill != 0 {
		g.Fill(bc.Fill)
	}
	return g, nil
}

// LoadConfig decodes and validates a hierarchy TOML file.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("no hierarchy TOML configuration file provided")
	}
	var c Config
	if _, err := toml.DecodeFile(filename, &c); err != nil {
		return nil, fmt.Errorf("could not decode TOML config %q: %v", filename, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("bad hierarchy in %q: %v", filename, err)
	}
	return &c, nil
}

// DecodeConfig decodes and validates a hierarchy given as TOML text.
func DecodeConfig(text string) (*Config, error) {
	var c Config
	if _, err := toml.Decode(text, &c); err != nil {
		return nil, fmt.Errorf("could not decode TOML config: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// GridDescription returns the configured description or grid.Unset if none is given.
func (c *Config) GridDescription() (grid.Description, error) {
	if c.Hierarchy.Description == "" {
		return grid.Unset, nil
	}
	return grid.DescriptionString(c.Hierarchy.Description).Description()
}

// MetadataBounds returns the configured bounds or the empty sentinel.
func (c *Config) MetadataBounds() grid.Bounds {
	if len(c.Hierarchy.Bounds) != 6 {
		return grid.EmptyBounds()
	}
	var b grid.Bounds
	copy(b[:], c.Hierarchy.Bounds)
	return b
}

// Validate checks the level structure and that every block is addressable exactly once.
func (c *Config) Validate() error {
	h := c.Hierarchy
	if uint32(len(h.Blocks)) != h.Levels {
		return fmt.Errorf("%d levels declared but %d block counts given", h.Levels, len(h.Blocks))
	}
	var total uint64
	for _, n := range h.Blocks {
		total += uint64(n)
	}
	if total > math.MaxUint32 {
		return fmt.Errorf("%d blocks in total exceed the %d addressable blocks", total,
			uint64(math.MaxUint32))
	}
	if h.Workers < 0 {
		return fmt.Errorf("number of workers cannot be negative, got %d", h.Workers)
	}
	if _, err := c.GridDescription(); err != nil {
		return err
	}
	switch len(h.Bounds) {
	case 0:
	case 6:
		for axis := 0; axis < 3; axis++ {
			if h.Bounds[axis*2] > h.Bounds[axis*2+1] {
				return fmt.Errorf("bounds along axis %d have min %g > max %g", axis,
					h.Bounds[axis*2], h.Bounds[axis*2+1])
			}
		}
	default:
		return fmt.Errorf("bounds must have 6 values, got %d", len(h.Bounds))
	}

	seen := make(map[[2]uint32]struct{}, len(c.Block))
	for i, bc := range c.Block {
		if bc.Level >= h.Levels {
			return fmt.Errorf("block %d: level %d outside the %d levels", i, bc.Level, h.Levels)
		}
		if bc.Index >= h.Blocks[bc.Level] {
			return fmt.Errorf("block %d: index %d outside the %d blocks of level %d", i, bc.Index,
				h.Blocks[bc.Level], bc.Level)
		}
		addr := [2]uint32{bc.Level, bc.Index}
		if _, found := seen[addr]; found {
			return fmt.Errorf("block %d: address (%d, %d) given more than once", i, bc.Level, bc.Index)
		}
		seen[addr] = struct{}{}
	}
	return nil
}
