// Package rng supplies the randomness used to build, reroll, and shuffle networks.
//
// Every operation that needs random numbers takes a Source explicitly, so that the same seed
// reproduces the same topology, weights, and orderings. Seeds themselves can come from the
// clock or from an external entropy service (see Seeder).
package rng

import "math/rand"

// Source is the minimal generator interface used throughout dynet. *rand.Rand satisfies it.
type Source interface {
	// Intn returns a uniform integer in [0, n). It panics if n <= 0.
	Intn(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// New returns a Source seeded with the given value. Two Sources with the same seed produce the
// same sequence.
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Between returns a uniform integer in the inclusive range [lower, upper]. If upper < lower,
// the two are swapped.
func Between(src Source, lower, upper int) int {
	if upper < lower {
		lower, upper = upper, lower
	}

	return lower + src.Intn(upper-lower+1)
}

// Gen produces a stream of float64 values
type Gen interface {
	Gen() float64
}

type uniform struct {
	src          Source
	lower, upper float64
}

// Uniform returns a Gen that gives values uniformly spread over [0, 1), drawn from src. The
// range can be changed with Bounds.
func Uniform(src Source) *uniform {
	return &uniform{src, 0, 1}
}

// Bounds sets the range of a Uniform Gen, returning it.
func (u *uniform) Bounds(lower, upper float64) *uniform {
	u.lower = lower
	u.upper = upper
	return u
}

// Gen is the implementation of Gen for Uniform. It returns a random number.
func (u *uniform) Gen() float64 {
	return u.src.Float64()*(u.upper-u.lower) + u.lower
}

// Fill sets every element of fs to a value from g.
func Fill(g Gen, fs []float64) {
	for i := range fs {
		fs[i] = g.Gen()
	}
}
