package rng

import "math/rand"

// Stream is a seeded, stateful pseudo-random number source.
//
// Unlike a bare *rand.Rand, a Stream remembers the seed it was created with,
// so a Router can be rooted at an existing Stream regardless of how many
// values have already been drawn from it.
//
// A Stream is exclusively owned by the generation call that derived it and
// must never be shared across concurrent invocations.
type Stream struct {
	seed int64
	r    *rand.Rand
}

// NewStream creates a Stream seeded with the given value.
//
// The underlying source is math/rand's fixed algorithm, whose output sequence
// for a given seed is locked by the Go 1 compatibility promise.
func NewStream(seed int64) *Stream {
	return &Stream{
		seed: seed,
		r:    rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed this Stream was created with. The value is unaffected
// by how many numbers have been drawn.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Intn returns a deterministic pseudo-random int in [0, n). Panics if n <= 0,
// matching math/rand.
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// Int63 returns a deterministic pseudo-random non-negative int64.
func (s *Stream) Int63() int64 {
	return s.r.Int63()
}

// Float64 returns a deterministic pseudo-random float64 in [0.0, 1.0).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}
