package core

import "math/rand/v2"

// defaultRand is the process-level uniform sampler used when a
// Context doesn't inject one of its own.
func defaultRand() float64 {
	return rand.Float64()
}

// SeededSampler returns a uniform sampler seeded deterministically
// from seed, for hosts that want reproducible RandomOnce/Random
// outcomes (spec.md §5/§8's Determinism property) without hand-rolling
// a PRNG.
func SeededSampler(seed uint64) func() float64 {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	r := rand.New(src)
	return r.Float64
}
