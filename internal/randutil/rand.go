// Package randutil derives reproducible rand/v2 generators from a single seed.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Every shuffle in the module goes through here so a seed printed in a log
// line replays the same deck.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Entropy returns a non-zero seed drawn from the runtime's random source.
func Entropy() int64 {
	for {
		if s := rand.Int64(); s != 0 {
			return s
		}
	}
}

// Resolve returns seed unchanged, or a fresh entropy seed when seed is 0.
func Resolve(seed int64) int64 {
	if seed == 0 {
		return Entropy()
	}
	return seed
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
