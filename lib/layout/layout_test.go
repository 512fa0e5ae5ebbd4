package layout

import (
	"testing"

	"github.com/cfields-hep/lattice/lib/eq"
	"github.com/cfields-hep/lattice/lib/geom"
)

func mustGeom(t *testing.T, extents []int) *geom.Geometry {
	t.Helper()
	g, err := geom.New(extents)
	if err != nil {
		t.Fatalf("Could not create geometry for %d: %v", extents, err)
	}
	return g
}

func TestLexicographicCorners(t *testing.T) {
	g := mustGeom(t, []int{4, 4, 4, 8})
	idx, err := NewIndexer(g, Lexicographic)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if i := idx.SiteIndex([]int{0, 0, 0, 0}); i != 0 {
		t.Errorf("Expected the origin to map to site 0, got %d", i)
	}
	if i := idx.SiteIndex([]int{3, 3, 3, 7}); i != 511 {
		t.Errorf("Expected the far corner to map to site 511, got %d", i)
	}
	if c := idx.SiteCoords(511, nil); !eq.Ints(c, []int{3, 3, 3, 7}) {
		t.Errorf("Expected site 511 to map to [3 3 3 7], got %d", c)
	}
}

func TestCheckerboard2Halves(t *testing.T) {
	g := mustGeom(t, []int{4, 4, 4, 8})
	idx, err := NewIndexer(g, Checkerboard2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	halfVolume := g.Volume() >> 1
	if halfVolume != 256 {
		t.Fatalf("Expected half volume 256, got %d", halfVolume)
	}

	if i := idx.SiteIndex([]int{0, 0, 0, 0}); i < 0 || i >= halfVolume {
		t.Errorf("Expected the even site [0 0 0 0] to map into [0, %d), "+
			"got %d", halfVolume, i)
	}
	if i := idx.SiteIndex([]int{1, 0, 0, 0}); i < halfVolume || i >= 2*halfVolume {
		t.Errorf("Expected the odd site [1 0 0 0] to map into [%d, %d), "+
			"got %d", halfVolume, 2*halfVolume, i)
	}
}

func TestBijection(t *testing.T) {
	tests := []struct {
		scheme  Scheme
		extents []int
	}{
		{Lexicographic, []int{4, 4, 4, 8}},
		{Lexicographic, []int{3, 4, 4, 4}},
		{Lexicographic, []int{3, 5, 7}},
		{Lexicographic, []int{2, 2, 2, 2}},
		{Lexicographic, []int{1, 1, 1, 1}},
		{Checkerboard2, []int{4, 4, 4, 8}},
		{Checkerboard2, []int{2, 2, 2, 2}},
		{Checkerboard2, []int{6, 3, 5, 7}},
		{Checkerboard2, []int{2, 1, 1, 1}},
		{Checkerboard3D, []int{4, 4, 4, 8}},
		{Checkerboard3D, []int{2, 2, 2, 2}},
		{Checkerboard3D, []int{4, 3, 5, 7}},
		{Checkerboard32, []int{4, 4, 4, 8}},
		{Checkerboard32, []int{4, 2, 2, 2}},
		{Checkerboard32, []int{8, 4, 6, 2}},
		{Checkerboard32, []int{4, 2, 6}},
	}

	for i := range tests {
		g := mustGeom(t, tests[i].extents)
		idx, err := NewIndexer(g, tests[i].scheme)
		if err != nil {
			t.Errorf("%d) Unexpected error for %s over %d: %v",
				i, tests[i].scheme, tests[i].extents, err)
			continue
		}

		seen := make([]bool, g.Volume())
		buf := make([]int, g.Dim())
		for site := 0; site < g.Volume(); site++ {
			coord := idx.SiteCoords(site, buf)
			for m := range coord {
				if coord[m] < 0 || coord[m] >= tests[i].extents[m] {
					t.Fatalf("%d) %s over %d: site %d maps out of range "+
						"to %d", i, tests[i].scheme, tests[i].extents,
						site, coord)
				}
			}

			j := idx.SiteIndex(coord)
			if j != site {
				t.Errorf("%d) %s over %d: site %d -> coord %d -> site %d",
					i, tests[i].scheme, tests[i].extents, site, coord, j)
			}
			if j >= 0 && j < g.Volume() {
				if seen[j] {
					t.Errorf("%d) %s over %d: site %d is hit twice",
						i, tests[i].scheme, tests[i].extents, j)
				}
				seen[j] = true
			}
		}
	}
}

// TestInverse walks the coordinate space directly instead of the index
// space, so it exercises SiteIndex on inputs SiteCoords never produced.
func TestInverse(t *testing.T) {
	schemes := []Scheme{
		Lexicographic, Checkerboard2, Checkerboard3D, Checkerboard32,
	}
	extents := []int{4, 2, 4, 2}

	for i, scheme := range schemes {
		g := mustGeom(t, extents)
		idx, err := NewIndexer(g, scheme)
		if err != nil {
			t.Errorf("%d) Unexpected error for %s: %v", i, scheme, err)
			continue
		}

		coord := make([]int, g.Dim())
		buf := make([]int, g.Dim())
		for {
			site := idx.SiteIndex(coord)
			if site < 0 || site >= g.Volume() {
				t.Fatalf("%d) %s: coord %d maps out of range to %d",
					i, scheme, coord, site)
			}
			back := idx.SiteCoords(site, buf)
			if !eq.Ints(back, coord) {
				t.Errorf("%d) %s: coord %d -> site %d -> coord %d",
					i, scheme, coord, site, back)
			}

			// Advance to the next coordinate, axis 0 fastest.
			m := 0
			for ; m < g.Dim(); m++ {
				coord[m]++
				if coord[m] < extents[m] {
					break
				}
				coord[m] = 0
			}
			if m == g.Dim() {
				break
			}
		}
	}
}

func TestCheckerboardParityBlocks(t *testing.T) {
	extents := []int{4, 4, 4, 8}
	g := mustGeom(t, extents)

	for _, scheme := range []Scheme{Checkerboard2, Checkerboard3D} {
		idx, err := NewIndexer(g, scheme)
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", scheme, err)
		}
		halfVolume := g.Volume() >> 1

		coord := make([]int, g.Dim())
		for site := 0; site < g.Volume(); site++ {
			coord = idx.SiteCoords(site, coord)

			parity := 0
			nAxes := g.Dim()
			if scheme == Checkerboard3D {
				nAxes--
			}
			for m := 0; m < nAxes; m++ {
				parity += coord[m]
			}
			parity &= 1

			if block := site / halfVolume; block != parity {
				t.Errorf("%s: site %d has coord %d with parity %d but "+
					"lives in block %d", scheme, site, coord, parity, block)
			}
		}
	}
}

func TestCheckerboard32Sublattices(t *testing.T) {
	extents := []int{4, 4, 4, 8}
	g := mustGeom(t, extents)
	idx, err := NewIndexer(g, Checkerboard32)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	dim := g.Dim()
	baseVolume := g.Volume() >> (dim + 1)
	if baseVolume != 16 {
		t.Fatalf("Expected base sublattice volume 16, got %d", baseVolume)
	}

	counts := make([]int, 1<<(dim+1))
	coord := make([]int, dim)
	for site := 0; site < g.Volume(); site++ {
		coord = idx.SiteCoords(site, coord)

		// Recompute the sublattice index from the coordinate.
		subl := coord[dim-1] & 1
		for m := dim - 2; m >= 0; m-- {
			subl = (subl << 1) + (coord[m] & 1)
		}
		cb := 0
		for m := 0; m < dim; m++ {
			cb += coord[m] >> 1
		}
		subl += (cb & 1) << dim

		if block := site / baseVolume; block != subl {
			t.Errorf("Site %d has coord %d in sublattice %d but lives in "+
				"block %d", site, coord, subl, block)
		}
		counts[subl]++
	}

	for subl := range counts {
		if counts[subl] != baseVolume {
			t.Errorf("Expected sublattice %d to contain %d sites, got %d",
				subl, baseVolume, counts[subl])
		}
	}
}

func TestSchemePreconditions(t *testing.T) {
	tests := []struct {
		scheme  Scheme
		extents []int
		ok      bool
	}{
		{Lexicographic, []int{3, 4, 4, 4}, true},
		{Checkerboard2, []int{3, 4, 4, 4}, false},
		{Checkerboard3D, []int{3, 4, 4, 4}, false},
		{Checkerboard32, []int{3, 4, 4, 4}, false},
		{Checkerboard32, []int{2, 2, 2, 2}, false},
		{Checkerboard32, []int{4, 3, 4, 4}, false},
		{Checkerboard32, []int{4, 4, 4, 4}, true},
	}

	for i := range tests {
		g := mustGeom(t, tests[i].extents)
		_, err := NewIndexer(g, tests[i].scheme)
		if tests[i].ok && err != nil {
			t.Errorf("%d) Expected %s to accept %d, got error: %v",
				i, tests[i].scheme, tests[i].extents, err)
		} else if !tests[i].ok && err == nil {
			t.Errorf("%d) Expected %s to reject %d, but it did not.",
				i, tests[i].scheme, tests[i].extents)
		}
	}
}

func TestCreateSelfCheck(t *testing.T) {
	// Every scheme whose preconditions hold for a 2^4 lattice must pass the
	// exhaustive self-check. The 32-style scheme needs axis 0 divisible by
	// 4, so it gets its own lattice size.
	for _, scheme := range []Scheme{Lexicographic, Checkerboard2, Checkerboard3D} {
		g := mustGeom(t, []int{2, 2, 2, 2})
		if _, err := Create(g, scheme, 4); err != nil {
			t.Errorf("Create failed for %s over [2 2 2 2]: %v", scheme, err)
		}
	}

	g := mustGeom(t, []int{4, 2, 2, 2})
	if _, err := Create(g, Checkerboard32, 4); err != nil {
		t.Errorf("Create failed for cb32 over [4 2 2 2]: %v", err)
	}
}

func TestCreateRejectsOddCheckerboard(t *testing.T) {
	g := mustGeom(t, []int{3, 4, 4, 4})
	if _, err := Create(g, Checkerboard2, 1); err == nil {
		t.Errorf("Expected Create to reject cb2 over [3 4 4 4].")
	}
	if _, err := Create(g, Lexicographic, 1); err != nil {
		t.Errorf("Expected Create to accept lexicographic over [3 4 4 4], "+
			"got: %v", err)
	}
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme
		ok     bool
	}{
		{"lexicographic", Lexicographic, true},
		{"lexico", Lexicographic, true},
		{"cb2", Checkerboard2, true},
		{"cb3d", Checkerboard3D, true},
		{"cb32", Checkerboard32, true},
		{"cb64", 0, false},
		{"", 0, false},
	}

	for i := range tests {
		scheme, err := ParseScheme(tests[i].name)
		if tests[i].ok && (err != nil || scheme != tests[i].scheme) {
			t.Errorf("%d) Expected ParseScheme(%q) = %v, got %v (err: %v)",
				i, tests[i].name, tests[i].scheme, scheme, err)
		} else if !tests[i].ok && err == nil {
			t.Errorf("%d) Expected ParseScheme(%q) to fail.", i, tests[i].name)
		}
	}
}

func TestSplitRange(t *testing.T) {
	tests := []struct{ n, p int }{
		{16, 4}, {17, 4}, {3, 4}, {1, 1}, {512, 7},
	}

	for i := range tests {
		covered := 0
		prevEnd := 0
		for th := 0; th < tests[i].p; th++ {
			start, end := splitRange(tests[i].n, tests[i].p, th)
			if start != prevEnd {
				t.Errorf("%d) Chunk %d starts at %d, expected %d",
					i, th, start, prevEnd)
			}
			if end < start {
				t.Errorf("%d) Chunk %d has negative size", i, th)
			}
			covered += end - start
			prevEnd = end
		}
		if covered != tests[i].n {
			t.Errorf("%d) Chunks cover %d items, expected %d",
				i, covered, tests[i].n)
		}
	}
}
