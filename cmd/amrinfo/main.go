package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/janelia-flyem/amrgrid/amr"
	"github.com/janelia-flyem/amrgrid/grid"
	"github.com/janelia-flyem/amrgrid/hierarchy"
)

var (
	// Display usage if true.
	showHelp = flag.Bool("help", false, "")

	// Run in verbose mode if true.
	runVerbose = flag.Bool("verbose", false, "")

	showVersion = flag.Bool("version", false, "")

	listBlocks = flag.Bool("list", false, "")
	workers    = flag.Int("workers", 0, "")
	timeout    = flag.Duration("timeout", 0, "")
)

const helpMessage = `
amrinfo builds the AMR hierarchy described by a TOML file and reports its structure:
levels, populated blocks per level, grid description, bounds and payload size.

Usage: amrinfo [options] <hierarchy.toml>

	-list           (flag)    List every populated block in traversal order
	-workers        =number   Override the number of workers setting blocks
	-timeout        =duration Abort the build after this long, e.g., "30s"

	-version        (flag)    Show version of the AMR container
	-verbose        (flag)    Run in verbose mode.
	-h, -help       (flag)    Show help message
`

func main() {
	flag.BoolVar(showHelp, "h", false, "Show help message")
	flag.Usage = func() {
		fmt.Printf(helpMessage)
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("amrinfo, AMR container version %s\n", amr.Version)
		os.Exit(0)
	}
	if *showHelp || flag.NArg() != 1 {
		flag.Usage()
		os.Exit(0)
	}
	if *runVerbose {
		grid.SetLogMode(grid.DebugMode)
	}

	cfg, err := hierarchy.LoadConfig(flag.Args()[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	cfg.Logging.SetLogger()
	defer grid.Shutdown()
	if *workers > 0 {
		cfg.Hierarchy.Workers = *workers
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		grid.Shutdown()
		os.Exit(1)
	}
}

func run(cfg *hierarchy.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	r, err := hierarchy.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("unable to build hierarchy: %v", err)
	}
	c := r.Container
	fmt.Printf("Built in %s (%s of %s configured blocks skipped)\n", r.Elapsed.Round(time.Microsecond),
		humanize.Comma(int64(r.Skipped)), humanize.Comma(int64(len(cfg.Block))))
	fmt.Printf("Metadata %s\n", c.Metadata().ID())
	fmt.Println(c.Stats())

	if *listBlocks {
		for it := c.NewIterator(); !it.IsDone(); it.Advance() {
			entry, _ := it.Current()
			fmt.Printf("  [%d] level %d, index %d: %s %s\n", entry.Flat, entry.Level, entry.Index,
				entry.Block, entry.Block.Bounds())
		}
	}
	return nil
}
