/*package subset builds site colorings ("sets") over a verified layout and
exposes the per-color site lists ("subsets") that numerical kernels iterate
over. The default sets mirror the classic checkerboard decompositions: the
trivial all-sites set, red/black parity, spatial red/black with the time
axis left uncolored, and the 2^(dim+1)-color hypercube decomposition.

When a set's coloring matches the layout scheme's own ordering, each subset
is a single contiguous index block; Subset records that so kernels can use a
flat range instead of an indirection table.
*/
package subset

import (
	"fmt"

	"github.com/cfields-hep/lattice/lib/layout"
)

// ColorFunc assigns a color to a lattice coordinate. It must return a value
// in [0, nColors) for every site of the lattice.
type ColorFunc func(coord []int) int

// Set is a complete coloring of the lattice: every site belongs to exactly
// one of its subsets.
type Set struct {
	nColors int
	colors  []int // color of each linear site index
	subsets []Subset
}

// Subset is the collection of sites of one color, in ascending linear-index
// order.
type Subset struct {
	color      int
	sites      []int
	contiguous bool
	start, end int
}

// NewSet colors every site of the lattice with color and groups the sites
// by color. It fails if color steps outside [0, nColors).
func NewSet(l *layout.Layout, nColors int, color ColorFunc) (*Set, error) {
	if nColors <= 0 {
		return nil, fmt.Errorf("A set needs at least one color, got %d.",
			nColors)
	}

	g := l.Geometry()
	s := &Set{
		nColors: nColors,
		colors:  make([]int, g.Volume()),
		subsets: make([]Subset, nColors),
	}

	buf := make([]int, g.Dim())
	for site := 0; site < g.Volume(); site++ {
		coord := l.SiteCoords(site, buf)
		c := color(coord)
		if c < 0 || c >= nColors {
			return nil, fmt.Errorf(
				"The coloring function returned color %d for coordinate "+
					"%d, outside the %d colors of the set.", c, coord, nColors)
		}
		s.colors[site] = c
		s.subsets[c].sites = append(s.subsets[c].sites, site)
	}

	for c := range s.subsets {
		sub := &s.subsets[c]
		sub.color = c
		sub.contiguous = true
		for k := 1; k < len(sub.sites); k++ {
			if sub.sites[k] != sub.sites[k-1]+1 {
				sub.contiguous = false
				break
			}
		}
		if len(sub.sites) > 0 {
			sub.start = sub.sites[0]
			sub.end = sub.sites[len(sub.sites)-1] + 1
		}
	}

	return s, nil
}

// NumSubsets returns the number of colors in the set.
func (s *Set) NumSubsets() int { return s.nColors }

// Subset returns the subset with a given color.
func (s *Set) Subset(color int) *Subset { return &s.subsets[color] }

// Color returns the color of the site with a given linear index.
func (s *Set) Color(site int) int { return s.colors[site] }

// Color returns the color shared by every site of the subset.
func (sub *Subset) Color() int { return sub.color }

// Len returns the number of sites in the subset.
func (sub *Subset) Len() int { return len(sub.sites) }

// Sites returns the subset's linear site indices in ascending order. The
// returned slice is owned by the subset and must not be modified.
func (sub *Subset) Sites() []int { return sub.sites }

// Contiguous reports whether the subset is a single contiguous index block.
func (sub *Subset) Contiguous() bool { return sub.contiguous }

// Range returns the half-open index range covering the subset. It is only
// meaningful when Contiguous() is true.
func (sub *Subset) Range() (start, end int) { return sub.start, sub.end }

// Defaults holds the default sets built by the layout initializer.
type Defaults struct {
	All             *Set
	RedBlack        *Set
	SpatialRedBlack *Set
	Hypercube       *Set
}

// InitDefaults builds the default sets over a verified layout.
func InitDefaults(l *layout.Layout) (*Defaults, error) {
	dim := l.Geometry().Dim()

	all, err := NewSet(l, 1, func(coord []int) int { return 0 })
	if err != nil {
		return nil, err
	}

	rb, err := NewSet(l, 2, ParityColor(dim))
	if err != nil {
		return nil, err
	}

	srb, err := NewSet(l, 2, ParityColor(dim-1))
	if err != nil {
		return nil, err
	}

	hyp, err := NewSet(l, 1<<(dim+1), HypercubeColor(dim))
	if err != nil {
		return nil, err
	}

	return &Defaults{All: all, RedBlack: rb, SpatialRedBlack: srb,
		Hypercube: hyp}, nil
}

// ParityColor returns the red/black coloring over the first nAxes axes.
func ParityColor(nAxes int) ColorFunc {
	return func(coord []int) int {
		sum := 0
		for m := 0; m < nAxes; m++ {
			sum += coord[m]
		}
		return sum & 1
	}
}

// HypercubeColor returns the 2^(dim+1)-color decomposition used by the
// 32-style layout: one bit per axis for the position within a hypercube,
// plus a top bit for the hypercube's own checkerboard parity.
func HypercubeColor(dim int) ColorFunc {
	return func(coord []int) int {
		subl := coord[dim-1] & 1
		for m := dim - 2; m >= 0; m-- {
			subl = (subl << 1) + (coord[m] & 1)
		}
		cb := 0
		for m := 0; m < dim; m++ {
			cb += coord[m] >> 1
		}
		return subl + (cb&1)<<dim
	}
}
