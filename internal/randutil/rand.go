// Package randutil builds the seeded generators used for shuffling and bot draws.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a PCG generator whose sequence depends only on seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns a seed from the wall clock. Callers log it so a session can be replayed
// with New.
func Seed() int64 {
	return int64(mix(uint64(time.Now().UnixNano())) >> 1)
}

// Derive returns the seed of the nth child stream of seed. Parallel simulations give
// each session its own stream while the whole run stays reproducible from one seed.
func Derive(seed int64, n int) int64 {
	return int64(mix(uint64(seed)+uint64(n+1)*goldenRatio64) >> 1)
}

// splitmix64 finalizer
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
