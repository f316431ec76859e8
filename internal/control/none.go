package control

import "github.com/san-kum/drivesim/internal/sim"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(s sim.SimState, t float64) sim.Action {
	return sim.Action{}
}

type Constant struct {
	Action sim.Action
}

func NewConstant(acceleration, steerAngle float64) *Constant {
	return &Constant{Action: sim.NewAction(acceleration, steerAngle)}
}

func (c *Constant) Compute(s sim.SimState, t float64) sim.Action {
	return c.Action
}
