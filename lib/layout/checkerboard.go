package layout

// cb2Indexer implements the two red/black checkerboard layouts. Sites of
// even parity fill the first half of the index range and odd-parity sites
// fill the second half. Storage is folded along axis 0, so within a half
// the halved coordinate is ordered lexicographically. When spatialOnly is
// set, the last axis is excluded from the parity sum (time runs fastest and
// stays local, as for 3D-checkerboarded solvers).
type cb2Indexer struct {
	scheme      Scheme
	cbExtents   []int // extents with axis 0 halved
	halfVolume  int
	spatialOnly bool
}

func (l *cb2Indexer) Scheme() Scheme { return l.scheme }

// parityAxes returns the number of leading axes included in the parity sum.
func (l *cb2Indexer) parityAxes() int {
	if l.spatialOnly {
		return len(l.cbExtents) - 1
	}
	return len(l.cbExtents)
}

func (l *cb2Indexer) SiteIndex(coord []int) int {
	cb := 0
	for m := 0; m < l.parityAxes(); m++ {
		cb += coord[m]
	}
	cb &= 1

	// Fold axis 0 in half: the low bit is carried by the parity block.
	idx := coord[0] >> 1
	order := 0
	for m := len(l.cbExtents) - 1; m >= 1; m-- {
		order = l.cbExtents[m-1] * (coord[m] + order)
	}

	return order + idx + cb*l.halfVolume
}

func (l *cb2Indexer) SiteCoords(index int, buf []int) []int {
	cb := index / l.halfVolume
	coord := siteCoords(index%l.halfVolume, l.cbExtents, buf)

	// Pick the low bit of axis 0 so the total parity comes out equal to cb.
	cbb := cb
	for m := 1; m < l.parityAxes(); m++ {
		cbb += coord[m]
	}
	cbb &= 1

	coord[0] = 2*coord[0] + cbb
	return coord
}

// cb32Indexer implements the 32-style checkerboard layout. Storage is folded
// by 4 along axis 0 and by 2 along every other axis, splitting the lattice
// into 2^(dim+1) sublattices: one bit per axis for the site's position
// within its hypercube, plus a top bit for the hypercube's own checkerboard
// parity. Each sublattice is a contiguous block of baseVolume sites, ordered
// lexicographically in the folded coordinate.
type cb32Indexer struct {
	cbExtents  []int // axis 0 quartered, other axes halved
	baseVolume int   // volume >> (dim+1)
}

func (l *cb32Indexer) Scheme() Scheme { return Checkerboard32 }

func (l *cb32Indexer) SiteIndex(coord []int) int {
	dim := len(l.cbExtents)

	// Low bits of every axis form the within-hypercube sublattice index.
	subl := coord[dim-1] & 1
	for m := dim - 2; m >= 0; m-- {
		subl = (subl << 1) + (coord[m] & 1)
	}

	// The hypercube checkerboard parity is the top sublattice bit.
	cb := 0
	for m := 0; m < dim; m++ {
		cb += coord[m] >> 1
	}
	subl += (cb & 1) << dim

	// Folded lexicographic index of the hypercube coordinate.
	order := 0
	for m := dim - 1; m >= 1; m-- {
		order = l.cbExtents[m-1] * ((coord[m] >> 1) + order)
	}

	return order + coord[0]>>2 + subl*l.baseVolume
}

func (l *cb32Indexer) SiteCoords(index int, buf []int) []int {
	dim := len(l.cbExtents)

	subl := index / l.baseVolume
	coord := siteCoords(index%l.baseVolume, l.cbExtents, buf)

	// Parity of the folded coordinate over the non-0 axes. XOR-ing it into
	// the top sublattice bit leaves exactly the second bit of axis 0, which
	// the fold discarded.
	cb := 0
	for m := 1; m < dim; m++ {
		cb += coord[m]
	}
	cb &= 1

	coord[0] <<= 2
	for m := 1; m < dim; m++ {
		coord[m] <<= 1
	}

	subl ^= cb << dim
	for m := 0; m < dim; m++ {
		coord[m] ^= (subl & (1 << m)) >> m
	}
	coord[0] ^= (subl & (1 << dim)) >> (dim - 1) // the hypercube parity bit

	return coord
}
