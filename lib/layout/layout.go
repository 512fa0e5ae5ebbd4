/*package layout converts between lattice coordinates and linear site indices.

Four layout schemes are supported: a plain lexicographic ordering, two
red/black checkerboardings (one over all axes, one leaving the last "time"
axis uncheckerboarded), and a 32-style checkerboarding that colors 4x2x...x2
hypercubes. Every scheme induces an exact bijection between the coordinate
space and [0, volume), and Create verifies that bijection over every site
before returning a usable Layout.

Site coordinates always run fastest along axis 0 within a color block. The
conversion functions trust their callers to pass in-range values: they sit on
the hot path of every field access, so range errors are caught once by the
creation-time self-check rather than per call.
*/
package layout

import (
	"fmt"

	"github.com/cfields-hep/lattice/lib/geom"
)

// Scheme identifies a site-ordering scheme. Exactly one scheme is active for
// a given Layout.
type Scheme int

const (
	// Lexicographic orders sites with axis 0 running fastest.
	Lexicographic Scheme = iota
	// Checkerboard2 splits sites into even/odd halves by total parity.
	Checkerboard2
	// Checkerboard3D splits sites by parity over all axes but the last,
	// keeping the time axis local and fastest-running.
	Checkerboard3D
	// Checkerboard32 colors 4x2x...x2 hypercubes into 2^(dim+1) sublattices.
	Checkerboard32
)

// String returns the name used for the scheme in configs and diagnostics.
func (s Scheme) String() string {
	switch s {
	case Lexicographic:
		return "lexicographic"
	case Checkerboard2:
		return "cb2"
	case Checkerboard3D:
		return "cb3d"
	case Checkerboard32:
		return "cb32"
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// ParseScheme converts a scheme name, as used in config files, to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "lexicographic", "lexico":
		return Lexicographic, nil
	case "cb2", "checkerboard2":
		return Checkerboard2, nil
	case "cb3d", "checkerboard3d":
		return Checkerboard3D, nil
	case "cb32", "checkerboard32":
		return Checkerboard32, nil
	}
	return 0, fmt.Errorf("'%s' is not a layout scheme. The valid schemes "+
		"are 'lexicographic', 'cb2', 'cb3d', and 'cb32'.", name)
}

// Indexer converts between lattice coordinates and linear site indices for
// one scheme over one fixed geometry. SiteIndex and SiteCoords are mutual
// inverses over the full volume.
type Indexer interface {
	// Scheme returns the scheme this Indexer implements.
	Scheme() Scheme
	// SiteIndex returns the linear index of the site at coord.
	SiteIndex(coord []int) int
	// SiteCoords returns the coordinate of the site with the given linear
	// index. It writes into buf if buf has sufficient capacity and
	// allocates otherwise, so callers in tight loops can reuse one buffer.
	SiteCoords(index int, buf []int) []int
}

// NewIndexer creates the Indexer for a given scheme over a given geometry.
// It validates the scheme's divisibility preconditions: the checkerboard
// schemes need an even axis-0 extent, and the 32-style scheme needs axis 0
// divisible by 4 and every other axis even.
func NewIndexer(g *geom.Geometry, scheme Scheme) (Indexer, error) {
	ext := g.Extents()
	switch scheme {
	case Lexicographic:
		return &lexIndexer{ext}, nil
	case Checkerboard2, Checkerboard3D:
		if scheme == Checkerboard3D && g.Dim() < 2 {
			return nil, fmt.Errorf(
				"The cb3d scheme needs at least two axes so the time "+
					"axis can be left uncheckerboarded, but the lattice "+
					"size is %d.", ext)
		}
		if ext[0]%2 != 0 {
			return nil, fmt.Errorf(
				"The %s scheme requires an even extent along axis 0, "+
					"but the lattice size is %d.", scheme, ext)
		}
		cbExt := make([]int, len(ext))
		copy(cbExt, ext)
		cbExt[0] >>= 1
		spatialOnly := scheme == Checkerboard3D
		return &cb2Indexer{scheme, cbExt, g.Volume() >> 1, spatialOnly}, nil
	case Checkerboard32:
		if ext[0]%4 != 0 {
			return nil, fmt.Errorf(
				"The cb32 scheme requires the extent along axis 0 to be "+
					"divisible by 4, but the lattice size is %d.", ext)
		}
		for i := 1; i < len(ext); i++ {
			if ext[i]%2 != 0 {
				return nil, fmt.Errorf(
					"The cb32 scheme requires an even extent along axis "+
						"%d, but the lattice size is %d.", i, ext)
			}
		}
		cbExt := make([]int, len(ext))
		cbExt[0] = ext[0] >> 2
		for i := 1; i < len(ext); i++ {
			cbExt[i] = ext[i] >> 1
		}
		return &cb32Indexer{cbExt, g.Volume() >> (g.Dim() + 1)}, nil
	}
	return nil, fmt.Errorf("Unknown layout scheme %d.", int(scheme))
}

// localSite returns the lexicographic index of coord within a box with the
// given extents, axis 0 running fastest.
func localSite(coord, extents []int) int {
	order := 0
	for m := len(extents) - 1; m >= 1; m-- {
		order = extents[m-1] * (coord[m] + order)
	}
	return order + coord[0]
}

// siteCoords is the inverse of localSite. It writes the coordinate of index
// within a box with the given extents into buf, allocating if buf is too
// small.
func siteCoords(index int, extents, buf []int) []int {
	if cap(buf) < len(extents) {
		buf = make([]int, len(extents))
	}
	buf = buf[:len(extents)]
	for i, n := range extents {
		buf[i] = index % n
		index /= n
	}
	return buf
}

// lexIndexer is the plain lexicographic layout. It is the baseline the
// checkerboard schemes are validated against.
type lexIndexer struct {
	extents []int
}

func (l *lexIndexer) Scheme() Scheme { return Lexicographic }

func (l *lexIndexer) SiteIndex(coord []int) int {
	return localSite(coord, l.extents)
}

func (l *lexIndexer) SiteCoords(index int, buf []int) []int {
	return siteCoords(index, l.extents, buf)
}
