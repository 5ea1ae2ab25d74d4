package service

import (
	"math/rand/v2"
	"time"
)

// Rand is the pseudo-random source behind placeholder values such as delivery
// agent labels and combo discounts. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

func nowOr(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

func randOr(r Rand) Rand {
	if r != nil {
		return r
	}
	return globalRand{}
}

// between returns a value in [lo, hi].
func between(r Rand, lo, hi int) int {
	return lo + randOr(r).IntN(hi-lo+1)
}
