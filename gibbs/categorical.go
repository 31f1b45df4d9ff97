package gibbs

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Rand is the randomness a sampler consumes. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded source. A zero seed is replaced by a time-based
// one; the seed actually used is returned so a run can be reproduced.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// SampleCategorical draws an index with probability proportional to p[j].
// The weights need not sum to one. p is overwritten with its cumulative sum.
func SampleCategorical(p []float64, rng Rand) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("%w: no candidates", ErrDegenerate)
	}
	for j := 1; j < len(p); j++ {
		p[j] += p[j-1]
	}
	total := p[len(p)-1]
	if !(total > 0) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: total mass %g", ErrDegenerate, total)
	}
	u := rng.Float64() * total
	for j, c := range p {
		if c > u {
			return j, nil
		}
	}
	// u < total always holds, but rounding in the scaled draw can land on it.
	return len(p) - 1, nil
}
