package control

import (
	"math"

	"github.com/san-kum/drivesim/internal/sim"
)

const (
	// ManualThrottle is the acceleration applied while a throttle key is held.
	ManualThrottle = 50.0
	// ManualSteerStep is the steer change per key press, in degrees.
	ManualSteerStep = 10.0
)

// Manual holds the action chosen by a human driver.
type Manual struct {
	throttle  int
	steerDegs float64
}

func NewManual() *Manual {
	return &Manual{}
}

// Throttle sets the pedal: 1 forward, -1 reverse, 0 released.
func (m *Manual) Throttle(dir int) {
	switch {
	case dir > 0:
		m.throttle = 1
	case dir < 0:
		m.throttle = -1
	default:
		m.throttle = 0
	}
}

// Steer turns the wheel by delta degrees.
func (m *Manual) Steer(delta float64) {
	m.steerDegs += delta
}

// Pedal reports the current throttle direction.
func (m *Manual) Pedal() int { return m.throttle }

func (m *Manual) SteerDegrees() float64 { return m.steerDegs }

func (m *Manual) Reset() {
	m.throttle = 0
	m.steerDegs = 0
}

func (m *Manual) Compute(s sim.SimState, t float64) sim.Action {
	return sim.Action{
		Acceleration: float64(m.throttle) * ManualThrottle,
		SteerAngle:   m.steerDegs * math.Pi / 180,
	}
}
