package sensor

import (
	"context"
	"math/rand/v2"
	"sync"
)

const (
	simStep   = 0.15 // max change per sample, °C
	simSpread = 3.0  // max distance from base, °C
)

// Simulated is a bounded random walk around a base temperature, used when no
// hardware is attached.
type Simulated struct {
	mu   sync.Mutex
	base float64
	cur  float64
	rng  *rand.Rand
}

func NewSimulated(base float64, seed uint64) *Simulated {
	return &Simulated{
		base: base,
		cur:  base,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *Simulated) Read(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur += (s.rng.Float64()*2 - 1) * simStep
	switch {
	case s.cur > s.base+simSpread:
		s.cur = s.base + simSpread
	case s.cur < s.base-simSpread:
		s.cur = s.base - simSpread
	}
	return s.cur, nil
}
