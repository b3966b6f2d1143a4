package survey

import (
	"math/rand/v2"
	"slices"
)

// MaxMultiSelect caps how many options a multi-choice question receives.
const MaxMultiSelect = 3

// Rand is a uniform source over [0, 1). *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand draws from the unseeded global generator. Runs are not
// reproducible.
var DefaultRand Rand = globalRand{}

// RandIndex returns a uniformly distributed index in [0, n). n must be
// positive; 0 is returned otherwise.
func RandIndex(r Rand, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(r.Float64() * float64(n))
	// Guard sources that stray onto 1.0.
	return min(max(i, 0), n-1)
}

// Shuffle returns a uniformly random permutation of s (Fisher-Yates). The
// input slice is left untouched.
func Shuffle[T any](r Rand, s []T) []T {
	out := slices.Clone(s)
	for i := len(out) - 1; i > 0; i-- {
		j := RandIndex(r, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SelectionCount draws how many of n multi-choice options get checked:
// uniform over [1, min(n, MaxMultiSelect)].
func SelectionCount(r Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return RandIndex(r, min(n, MaxMultiSelect)) + 1
}
