/*package lib glues the lattice subpackages together: it owns the runtime
init-once flag, walks the layout through its creation sequence (geometry,
self-check, then the default subsets, maps, and RNG), and tears everything
down at the end of a run. Almost all of the heavy lifting is done by lib/'s
subpackages.
*/
package lib

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cfields-hep/lattice/lib/geom"
	"github.com/cfields-hep/lattice/lib/layout"
	"github.com/cfields-hep/lattice/lib/rng"
	"github.com/cfields-hep/lattice/lib/sitemap"
	"github.com/cfields-hep/lattice/lib/subset"
)

var (
	initialized bool
	profile     int
)

// Init marks the runtime as initialized and routes diagnostics to log (pass
// nil for silence). It must be called exactly once, before CreateRuntime.
func Init(log *zap.Logger) {
	initialized = true
	layout.SetLogger(log)
}

// IsInitialized returns true between Init and Destroy.
func IsInitialized() bool { return initialized }

// SetProfileLevel sets the process-wide profiling verbosity.
func SetProfileLevel(level int) { profile = level }

// ProfileLevel returns the process-wide profiling verbosity.
func ProfileLevel() int { return profile }

// Runtime bundles everything CreateRuntime builds: the verified layout plus
// the default subsets, maps, and random state the numerical code starts
// from. It is read-only after creation.
type Runtime struct {
	Layout *layout.Layout
	Sets   *subset.Defaults
	Maps   *sitemap.Defaults
	Rand   *rng.Lattice
}

// CreateRuntime runs the full layout creation sequence for the given
// arguments: geometry validation, indexer construction, the exhaustive
// round-trip self-check, and then the dependent defaults in order (subsets,
// maps, RNG, profile level, I/O grid). Every error it returns is terminal
// for the run; callers are expected to pass it to a fatal reporter.
func CreateRuntime(args *Args) (*Runtime, error) {
	if !IsInitialized() {
		return nil, fmt.Errorf("The lattice runtime is not initialized.")
	}
	if len(args.Extents) != args.Dim {
		return nil, fmt.Errorf("The lattice size %d has %d dimensions, "+
			"but this run is configured for %d.",
			args.Extents, len(args.Extents), args.Dim)
	}

	g, err := geom.New(args.Extents)
	if err != nil {
		return nil, err
	}
	l, err := layout.Create(g, args.Scheme, args.Threads)
	if err != nil {
		return nil, err
	}

	sets, err := subset.InitDefaults(l)
	if err != nil {
		return nil, err
	}
	maps, err := sitemap.InitDefaults(l)
	if err != nil {
		return nil, err
	}
	if err := rng.InitDefault(l, args.Seed); err != nil {
		return nil, err
	}

	SetProfileLevel(args.Profile)

	// The I/O grid is fixed at 1x1x...x1 on a scalar machine; geom set it
	// when the geometry was built, so there is nothing left to default.

	return &Runtime{
		Layout: l,
		Sets:   sets,
		Maps:   maps,
		Rand:   rng.Default(),
	}, nil
}

// Destroy finalizes the runtime. The RNG is the only subsystem that needs
// explicit teardown.
func Destroy() {
	rng.Finalize()
	initialized = false
}
