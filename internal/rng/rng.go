// Package rng provides the deterministic random sources used by floor and
// zone generation. Every source is explicitly seeded; the same seed always
// produces the same sequence.
package rng

import (
	"math/rand"
)

// Source is a seeded random source scoped to one floor or one zone.
// It is not safe for concurrent use; each generation context owns its own.
type Source struct {
	r *rand.Rand
}

// New creates a source from a seed.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a value in [0, n). Panics if n <= 0, matching math/rand.
func (s *Source) Intn(n int) int {
	return s.r.Intn(n)
}

// Int63 returns a non-negative 63-bit value.
func (s *Source) Int63() int64 {
	return s.r.Int63()
}

// Range returns a value in the inclusive range [min, max].
// If max <= min, min is returned.
func (s *Source) Range(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.r.Intn(max-min+1)
}

// Float32 returns a value in [0.0, 1.0).
func (s *Source) Float32() float32 {
	return s.r.Float32()
}

// Chance returns true with probability p (clamped to [0, 1]).
func (s *Source) Chance(p float32) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.r.Float32() < p
}

// PickIndex picks an index from a weighted list. Weights must be
// non-negative; entries with zero weight are never picked. Returns -1 if
// the list is empty or the total weight is zero.
func (s *Source) PickIndex(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}

	roll := s.r.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	return -1 // unreachable with non-negative weights
}
