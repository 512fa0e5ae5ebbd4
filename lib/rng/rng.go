/*package rng provides the lattice's random number subsystem: a small
xorshift generator, per-site generators derived from a single seed, and the
init-once/finalize lifecycle the layout initializer drives.
*/
package rng

import (
	"fmt"
	"math"

	"github.com/cfields-hep/lattice/lib/layout"
)

// DefaultSeed is the seed used when the user does not supply one.
const DefaultSeed uint64 = 11

var xorshiftMaxUint = float64(math.MaxUint32)

// Generator is an xorshift random number generator. It is not thread safe;
// use one Generator per goroutine or per site.
type Generator struct {
	w, x, y, z uint32
}

// New initializes a Generator with a given seed.
func New(seed uint64) *Generator {
	return &Generator{uint32(seed), 123456789, 362436069, 521288629}
}

// Uniform generates a single random number in the range [0, 1).
func (gen *Generator) Uniform() float64 {
	t := gen.x ^ (gen.x << 11)
	gen.x, gen.y, gen.z = gen.y, gen.z, gen.w
	gen.w = gen.w ^ (gen.w >> 19) ^ (t ^ (t >> 8))
	res := float64(math.MaxUint32-gen.w) / xorshiftMaxUint
	if res == 1.0 {
		return gen.Uniform()
	}
	return res
}

// UniformSequence generates one random number in the range [0, 1) for each
// element of the array target and writes them to that array.
func (gen *Generator) UniformSequence(target []float64) {
	for i := 0; i < len(target); i++ {
		t := gen.x ^ (gen.x << 11)
		gen.x, gen.y, gen.z = gen.y, gen.z, gen.w
		gen.w = gen.w ^ (gen.w >> 19) ^ (t ^ (t >> 8))
		target[i] = float64(math.MaxUint32-gen.w) / xorshiftMaxUint
		if target[i] == 1.0 {
			i--
		}
	}
}

// Lattice is the per-lattice random number state: one global generator plus
// a deterministic per-site seeding rule, so a site's stream depends only on
// the seed and the site's linear index, not on the order sites are visited.
type Lattice struct {
	seed   uint64
	global *Generator
	volume int
}

// Init creates the random state for a verified layout.
func Init(l *layout.Layout, seed uint64) *Lattice {
	return &Lattice{
		seed:   seed,
		global: New(seed),
		volume: l.Geometry().Volume(),
	}
}

// Global returns the lattice-wide generator.
func (r *Lattice) Global() *Generator { return r.global }

// Site returns a fresh generator for the site with the given linear index.
func (r *Lattice) Site(index int) *Generator {
	// Golden-ratio mixing keeps neighboring sites' seeds far apart.
	return New(r.seed ^ (uint64(index)+1)*0x9e3779b97f4a7c15)
}

// Seed returns the seed the subsystem was initialized with.
func (r *Lattice) Seed() uint64 { return r.seed }

// The process-wide default instance, created by the layout initializer and
// torn down at process exit.
var defaultLattice *Lattice

// InitDefault installs the process-wide random state. The layout initializer
// calls this once after the layout self-check passes.
func InitDefault(l *layout.Layout, seed uint64) error {
	if defaultLattice != nil {
		return fmt.Errorf("The default RNG was initialized twice.")
	}
	defaultLattice = Init(l, seed)
	return nil
}

// Default returns the process-wide random state, or nil before InitDefault.
func Default() *Lattice { return defaultLattice }

// Finalize tears down the process-wide random state. It is safe to call
// when nothing was initialized.
func Finalize() { defaultLattice = nil }
