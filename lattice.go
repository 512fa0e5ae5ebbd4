package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cfields-hep/lattice/lib"
	"github.com/cfields-hep/lattice/lib/error"
	"github.com/cfields-hep/lattice/lib/layout"
)

func main() {
	// Parse arguments.
	mode, configFile, err := lib.ParseCommandLine()
	if err != nil {
		error.External("%v", err)
	}

	if mode == "help" {
		printHelp()
		return
	}

	cfg, err := lib.ParseConfigFile(configFile)
	if err != nil {
		error.External("%v", err)
	}
	args, err := cfg.Process()
	if err != nil {
		error.External("%v", err)
	}

	if err := lib.SetThreads(args.Threads); err != nil {
		error.External("%v", err)
	}

	log := zap.NewNop()
	if args.Verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			error.External("Could not create a logger: %v", err)
		}
	}
	lib.Init(log)
	defer lib.Destroy()

	// Run the chosen mode.
	switch mode {
	case "check":
		check(args)
	case "info":
		info(args)
	default:
		error.External(
			"You attempted to run lattice in the mode '%s', but the only "+
				"valid modes are 'help', 'check', and 'info'.", mode,
		)
	}
}

// check creates the runtime, which runs the exhaustive layout self-check,
// and reports the result. A precondition problem is the user's to fix; a
// failed self-check is ours.
func check(args *lib.Args) {
	_, err := lib.CreateRuntime(args)
	if errors.Is(err, layout.ErrBroken) {
		error.Internal("%v", err)
	} else if err != nil {
		error.External("%v", err)
	}

	fmt.Printf("The %s layout is consistent over the lattice size %d.\n",
		args.Scheme, args.Extents)
}

// info creates the runtime and prints a human-readable geometry summary.
func info(args *lib.Args) {
	run, err := lib.CreateRuntime(args)
	if errors.Is(err, layout.ErrBroken) {
		error.Internal("%v", err)
	} else if err != nil {
		error.External("%v", err)
	}

	g := run.Layout.Geometry()
	fmt.Printf("Lattice initialized:\n")
	fmt.Printf("  problem size = %d\n", g.Extents())
	fmt.Printf("  layout size = %d\n", g.SubExtents())
	fmt.Printf("  layout scheme = %s\n", run.Layout.Scheme())
	fmt.Printf("  logical machine size = %d\n", g.LogicalSize())
	fmt.Printf("  subgrid size = %d\n", g.SubExtents())
	fmt.Printf("  total number of nodes = %d\n", g.NumNodes())
	fmt.Printf("  total volume = %d\n", g.Volume())
	fmt.Printf("  subgrid volume = %d\n", g.SubVolume())
}

func printHelp() {
	fmt.Println(`lattice computes and verifies lattice site layouts.

Usage:
  $ lattice <mode> <config file>

Modes:
  help   Print this message.
  check  Run the exhaustive coordinate<->index self-check for the
         configured scheme and lattice size.
  info   Run the self-check, then print the geometry summary.

The config file is gcfg-formatted, e.g.:

  [lattice]
  extents = 4 4 4 8
  scheme = cb2

  [run]
  threads = -1
  verbose = true

  [rng]
  seed = 11`)
}
