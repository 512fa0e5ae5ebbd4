/*package sitemap materializes site-to-site maps over a verified layout.
The default maps are the periodic nearest-neighbor shifts, one forward and
one backward per axis, stored as flat linear-index tables so stencil kernels
pay one array lookup per neighbor access regardless of the layout scheme.
*/
package sitemap

import (
	"fmt"

	"github.com/cfields-hep/lattice/lib/layout"
)

// Map is a precomputed site-to-site map: table[i] is the linear index of the
// image of site i. Maps are immutable once built.
type Map struct {
	axis  int
	dir   int
	table []int
}

// NewShift builds the nearest-neighbor shift map along an axis. dir must be
// +1 (forward) or -1 (backward); the lattice is periodic, so shifts wrap.
func NewShift(l *layout.Layout, axis, dir int) (*Map, error) {
	g := l.Geometry()
	if axis < 0 || axis >= g.Dim() {
		return nil, fmt.Errorf("Axis %d is outside the %d-dimensional "+
			"lattice.", axis, g.Dim())
	}
	if dir != 1 && dir != -1 {
		return nil, fmt.Errorf("A shift direction must be +1 or -1, got %d.",
			dir)
	}

	extents := g.Extents()
	m := &Map{axis: axis, dir: dir, table: make([]int, g.Volume())}

	buf := make([]int, g.Dim())
	for site := 0; site < g.Volume(); site++ {
		coord := l.SiteCoords(site, buf)
		coord[axis] = (coord[axis] + dir + extents[axis]) % extents[axis]
		m.table[site] = l.SiteIndex(coord)
	}

	return m, nil
}

// Axis returns the axis the map shifts along.
func (m *Map) Axis() int { return m.axis }

// Dir returns the shift direction, +1 or -1.
func (m *Map) Dir() int { return m.dir }

// Neighbor returns the linear index of the image of a site.
func (m *Map) Neighbor(site int) int { return m.table[site] }

// Table returns the full map table, indexed by linear site index. The
// returned slice is owned by the map and must not be modified.
func (m *Map) Table() []int { return m.table }

// Defaults holds the default maps built by the layout initializer: the
// forward and backward nearest-neighbor shifts for every axis.
type Defaults struct {
	Forward  []*Map
	Backward []*Map
}

// InitDefaults builds the default shift maps over a verified layout.
func InitDefaults(l *layout.Layout) (*Defaults, error) {
	dim := l.Geometry().Dim()
	d := &Defaults{
		Forward:  make([]*Map, dim),
		Backward: make([]*Map, dim),
	}

	for axis := 0; axis < dim; axis++ {
		var err error
		if d.Forward[axis], err = NewShift(l, axis, 1); err != nil {
			return nil, err
		}
		if d.Backward[axis], err = NewShift(l, axis, -1); err != nil {
			return nil, err
		}
	}

	return d, nil
}
