package layout

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cfields-hep/lattice/lib/geom"
)

// ErrBroken marks a failed self-check: the scheme implementation itself is
// wrong for the requested lattice size. Unlike a precondition error, this is
// a bug, not a configuration problem.
var ErrBroken = errors.New("layout self-check failed")

// Layout binds a geometry to the indexer of one scheme. A Layout returned by
// Create has had its coordinate<->index bijection verified over every site
// and is immutable and safe for concurrent use.
type Layout struct {
	Indexer
	geom *geom.Geometry
}

// Geometry returns the geometry this layout was created over.
func (l *Layout) Geometry() *geom.Geometry { return l.geom }

// Create builds the Layout for a scheme over a geometry and verifies it.
// The verification recomputes the round trip index -> coordinate -> index
// for every site in [0, volume) and fails if any site disagrees; it is split
// across threads worker goroutines (NumCPU if threads <= 0). A failure here
// means the scheme implementation is broken for this lattice size and the
// caller must treat it as unrecoverable.
func Create(g *geom.Geometry, scheme Scheme, threads int) (*Layout, error) {
	idx, err := NewIndexer(g, scheme)
	if err != nil {
		return nil, err
	}
	l := &Layout{idx, g}

	log := Logger()
	log.Info("lattice initialized",
		zap.Stringer("scheme", scheme),
		zap.Ints("problem_size", g.Extents()),
		zap.Ints("layout_size", g.SubExtents()),
		zap.Ints("logical_machine_size", g.LogicalSize()),
		zap.Ints("subgrid_size", g.SubExtents()),
		zap.Int("total_nodes", g.NumNodes()),
		zap.Int("total_volume", g.Volume()),
		zap.Int("subgrid_volume", g.SubVolume()),
	)

	if err := l.check(threads); err != nil {
		return nil, err
	}

	log.Info("finished lattice layout")
	return l, nil
}

// check runs the exhaustive round-trip self-check. Every iteration is
// independent, so the index range is split evenly across workers; the first
// mismatch found wins and stops the group.
func (l *Layout) check(threads int) error {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	vol := l.geom.Volume()
	if threads > vol {
		threads = vol
	}

	var group errgroup.Group
	for t := 0; t < threads; t++ {
		start, end := splitRange(vol, threads, t)
		group.Go(func() error {
			buf := make([]int, l.geom.Dim())
			for i := start; i < end; i++ {
				coord := l.SiteCoords(i, buf)
				if j := l.SiteIndex(coord); i != j {
					return fmt.Errorf(
						"%w: the %s layout functions do not work correctly "+
							"with the lattice size %d: site %d maps to "+
							"coordinate %d, which maps back to site %d.",
						ErrBroken, l.Scheme(), l.geom.Extents(), i, coord, j)
				}
			}
			return nil
		})
	}
	return group.Wait()
}

// splitRange splits n items into p near-equal chunks, with a maximum
// imbalance of one item, and returns the half-open range of chunk t.
func splitRange(n, p, t int) (start, end int) {
	size := n / p
	rem := n % p
	start = t*size + min(t, rem)
	end = start + size
	if t < rem {
		end++
	}
	return start, end
}
