package control

import (
	"math/rand"

	"github.com/san-kum/drivesim/internal/sim"
)

// Random samples actions uniformly within limits from a seeded source.
type Random struct {
	limits sim.Limits
	rng    *rand.Rand
}

func NewRandom(limits sim.Limits, seed int64) *Random {
	return &Random{
		limits: limits,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (r *Random) Compute(s sim.SimState, t float64) sim.Action {
	return sim.Action{
		Acceleration: (2*r.rng.Float64() - 1) * r.limits.MaxAcceleration,
		SteerAngle:   (2*r.rng.Float64() - 1) * r.limits.MaxSteerAngle,
	}
}
