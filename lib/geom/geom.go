/*package geom tracks the global geometry of a lattice: the per-axis extents
requested by the user and the volumes, node coordinates, and I/O grid derived
from them. This is the scalar variant, so exactly one node owns the entire
lattice and the node-related accessors are trivial. A Geometry is immutable
once built and is safe for concurrent reads.
*/
package geom

import (
	"fmt"
	"math"
)

// Geometry holds the full problem-grid geometry for a scalar (single node)
// run. Build one with New, then hand it to a layout indexer.
type Geometry struct {
	extents      []int
	volume       int
	subVolume    int
	logicalCoord []int
	logicalSize  []int
	ioGrid       []int
}

// New creates the geometry of a lattice with the given per-axis extents.
// Every extent must be positive and the total volume must fit in an int.
func New(extents []int) (*Geometry, error) {
	if len(extents) == 0 {
		return nil, fmt.Errorf("The lattice size has zero dimensions.")
	}

	vol := 1
	for i, n := range extents {
		if n <= 0 {
			return nil, fmt.Errorf(
				"Axis %d of the lattice has extent %d, but all extents "+
					"must be positive.", i, n)
		}
		if vol > math.MaxInt/n {
			return nil, fmt.Errorf(
				"The total lattice volume overflows an int for the "+
					"extents %d.", extents)
		}
		vol *= n
	}

	d := len(extents)
	g := &Geometry{
		extents:      make([]int, d),
		volume:       vol,
		subVolume:    vol,
		logicalCoord: make([]int, d),
		logicalSize:  make([]int, d),
		ioGrid:       make([]int, d),
	}
	copy(g.extents, extents)
	for i := 0; i < d; i++ {
		// One node owns everything, and the I/O grid is 1x1x...x1.
		g.logicalCoord[i] = 0
		g.logicalSize[i] = 1
		g.ioGrid[i] = 1
	}

	return g, nil
}

// Dim returns the number of axes of the lattice.
func (g *Geometry) Dim() int { return len(g.extents) }

// Volume returns the total lattice volume.
func (g *Geometry) Volume() int { return g.volume }

// SubVolume returns the volume owned by this node. On a scalar machine it
// equals Volume().
func (g *Geometry) SubVolume() int { return g.subVolume }

// Extents returns the per-axis lattice sizes.
func (g *Geometry) Extents() []int {
	out := make([]int, len(g.extents))
	copy(out, g.extents)
	return out
}

// SubExtents returns the per-axis sizes of this node's subgrid. On a scalar
// machine they equal Extents().
func (g *Geometry) SubExtents() []int { return g.Extents() }

// NumNodes returns the number of nodes in the machine grid.
func (g *Geometry) NumNodes() int { return 1 }

// NodeNumber returns the node that owns a given lattice coordinate. Always
// node 0 on a scalar machine.
func (g *Geometry) NodeNumber(coord []int) int { return 0 }

// ThisNode returns the node number of the calling process.
func (g *Geometry) ThisNode() int { return 0 }

// NodeCoord returns the logical coordinate of this node in the machine grid.
func (g *Geometry) NodeCoord() []int {
	out := make([]int, len(g.logicalCoord))
	copy(out, g.logicalCoord)
	return out
}

// LogicalSize returns the logical size of the machine grid.
func (g *Geometry) LogicalSize() []int {
	out := make([]int, len(g.logicalSize))
	copy(out, g.logicalSize)
	return out
}

// IOGrid returns the I/O aggregation grid.
func (g *Geometry) IOGrid() []int {
	out := make([]int, len(g.ioGrid))
	copy(out, g.ioGrid)
	return out
}

// NumIONodes returns the number of nodes in the I/O grid.
func (g *Geometry) NumIONodes() int { return 1 }
