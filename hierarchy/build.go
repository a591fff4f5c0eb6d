package hierarchy

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/janelia-flyem/amrgrid/amr"
	"github.com/janelia-flyem/amrgrid/grid"
)

// Result is a built hierarchy.
type Result struct {
	Container *amr.Container

	// Skipped is the number of configured blocks the container rejected, e.g., for
	// an orientation that differs from the hierarchy's.
	Skipped int

	Elapsed time.Duration
}

// Build creates a container with the configured level structure and sets every
// configured block using at most Hierarchy.Workers concurrent goroutines.  Blocks
// rejected by the container are logged and counted in Result.Skipped.  A block that
// cannot be constructed or a cancelled context aborts the build.
func Build(ctx context.Context, cfg *Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no hierarchy configuration given")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	timedLog := grid.NewTimeLog()

	h := cfg.Hierarchy
	c := amr.New()
	if err := c.Initialize(h.Levels, h.Blocks); err != nil {
		return nil, err
	}
	d, _ := cfg.GridDescription()
	if d != grid.Unset {
		c.SetGridDescription(d)
	}
	c.Metadata().SetBounds(cfg.MetadataBounds())

	// Rejections are logged below with their configuration index.
	c.SetErrorReporter(func(error) {})
	defer c.SetErrorReporter(nil)

	workers := h.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var skipped int64
	for i := range cfg.Block {
		if gctx.Err() != nil {
			break
		}
		i, bc := i, cfg.Block[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			block, err := bc.NewGrid()
			if err != nil {
				return err
			}
			if err := c.SetBlock(bc.Level, bc.Index, block); err != nil {
				grid.Warningf("Skipping configured block %d: %v\n", i, err)
				atomic.AddInt64(&skipped, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The group context is always done after Wait, so check the caller's.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &Result{
		Container: c,
		Skipped:   int(skipped),
		Elapsed:   time.Since(start),
	}
	timedLog.Infof("Built %s from %d configured blocks with %d workers, %d skipped",
		c, len(cfg.Block), workers, r.Skipped)
	return r, nil
}
