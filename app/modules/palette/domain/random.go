package palettedomain

import (
	"math/rand/v2"
	"time"
)

// RandomSource supplies uniform values in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a PCG-backed source. A zero seed derives one from the clock.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// jitter returns a value in [-spread, +spread).
func jitter(rng RandomSource, spread float64) float64 {
	return rng.Float64()*2*spread - spread
}
