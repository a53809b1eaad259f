package rng

import (
	"math/rand/v2"
)

// Source is the uniform random capability the combat core draws from.
// Every shuffle and weighted choice goes through a Source so that a combat
// can be replayed from its seed.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). n must be > 0.
	IntN(n int) int
}

// pcgStream mixes the seed into the second PCG word so that seed 0 is usable.
const pcgStream = 0x9e3779b97f4a7c15

// Seeded is a deterministic Source backed by a PCG generator.
type Seeded struct {
	seed uint64
	r    *rand.Rand
}

// NewSeeded creates a Source that produces the same sequence for the same seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{
		seed: seed,
		r:    rand.New(rand.NewPCG(seed, seed^pcgStream)),
	}
}

// Seed returns the seed the source was created with.
func (s *Seeded) Seed() uint64 {
	return s.seed
}

// Float64 implements Source.
func (s *Seeded) Float64() float64 {
	return s.r.Float64()
}

// IntN implements Source.
func (s *Seeded) IntN(n int) int {
	return s.r.IntN(n)
}

// Shuffle permutes n elements in place with Fisher–Yates, walking from the
// last index down and swapping with a uniformly chosen earlier index.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		swap(i, j)
	}
}

// Fixed is a scripted Source for tests. Values are returned in order and the
// last value repeats once the script is exhausted.
type Fixed struct {
	Floats []float64
	Ints   []int
	fi     int
	ii     int
}

// Float64 implements Source.
func (f *Fixed) Float64() float64 {
	if len(f.Floats) == 0 {
		return 0
	}
	v := f.Floats[min(f.fi, len(f.Floats)-1)]
	f.fi++
	return v
}

// IntN implements Source. Scripted values are reduced modulo n.
func (f *Fixed) IntN(n int) int {
	if len(f.Ints) == 0 || n <= 0 {
		return 0
	}
	v := f.Ints[min(f.ii, len(f.Ints)-1)]
	f.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}
