// Package rng provides the seeded pseudo-random source used by every engine.
//
// # Determinism
//
// Source is a 32-bit linear congruential generator. Two sources created with
// the same seed produce identical sequences for every method, so a session
// driven through the same calls replays exactly. A Source must be owned by a
// single caller; advancing it from two logical operations breaks replay.
package rng

import (
	"fmt"
	"time"

	"github.com/cardcap/fantasy-engine/internal/game/errs"
)

const (
	multiplier = 1664525
	increment  = 1013904223
	modulus    = 1 << 32
)

// Source is a reproducible pseudo-random number generator.
type Source struct {
	seed  uint32
	state uint32
}

// New creates a source seeded with seed.
func New(seed uint32) *Source {
	return &Source{seed: seed, state: seed}
}

// NewFromClock creates a source seeded from the wall clock.
func NewFromClock() *Source {
	return New(clockSeed())
}

// clockSeed returns the low 32 bits of the current time in milliseconds.
func clockSeed() uint32 {
	return uint32(time.Now().UnixMilli())
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() uint32 {
	return s.seed
}

// Reset rewinds the source to its original seed.
func (s *Source) Reset() {
	s.state = s.seed
}

func (s *Source) next() uint32 {
	s.state = s.state*multiplier + increment
	return s.state
}

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 {
	return float64(s.next()) / modulus
}

// Int returns an integer in [min, maxExclusive). When maxExclusive <= min it
// returns min without advancing the source.
func (s *Source) Int(min, maxExclusive int) int {
	if maxExclusive <= min {
		return min
	}
	span := maxExclusive - min
	n := int(s.Float64() * float64(span))
	if n >= span {
		n = span - 1
	}
	return min + n
}

// IntInclusive returns an integer in [min, max].
func (s *Source) IntInclusive(min, max int) int {
	return s.Int(min, max+1)
}

// Choice returns a uniformly chosen element of list.
func Choice[T any](s *Source, list []T) (T, error) {
	var zero T
	if len(list) == 0 {
		return zero, fmt.Errorf("random choice: %w", errs.ErrEmptyInput)
	}
	return list[s.Int(0, len(list))], nil
}

// Shuffle returns a Fisher-Yates shuffled copy of list. The input is not
// modified.
func Shuffle[T any](s *Source, list []T) []T {
	out := append([]T(nil), list...)
	for i := len(out) - 1; i > 0; i-- {
		j := s.Int(0, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
