package main

import (
	"math/rand"
	"time"
)

// mathRandJitter implements iface.Rand with the standard library's
// generator, seeded once at startup; good enough for spreading beacon
// transmissions, not for anything security sensitive (DAD reseeding
// uses blake2b instead, not this).
type mathRandJitter struct {
	r *rand.Rand
}

func newMathRandJitter(seed int64) *mathRandJitter {
	return &mathRandJitter{r: rand.New(rand.NewSource(seed))}
}

// Jitter implements iface.Rand.
func (j *mathRandJitter) Jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(j.r.Int63n(int64(max)))
}
