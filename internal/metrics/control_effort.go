package metrics

import (
	"math"

	"github.com/san-kum/drivesim/internal/sim"
)

// ControlEffort is the mean actuation per tick: |acceleration| plus |steer|
// in radians, taken from the clamped action.
type ControlEffort struct {
	accel float64
	steer float64
	ticks int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s sim.SimState, a sim.Action, r, t float64) {
	c.accel += math.Abs(a.Acceleration)
	c.steer += math.Abs(a.SteerAngle)
	c.ticks++
}

func (c *ControlEffort) MeanAcceleration() float64 { return c.mean(c.accel) }
func (c *ControlEffort) MeanSteer() float64        { return c.mean(c.steer) }

func (c *ControlEffort) Value() float64 {
	return c.MeanAcceleration() + c.MeanSteer()
}

func (c *ControlEffort) mean(sum float64) float64 {
	if c.ticks == 0 {
		return 0
	}
	return sum / float64(c.ticks)
}

func (c *ControlEffort) Reset() {
	*c = ControlEffort{}
}
