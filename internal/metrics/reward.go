package metrics

import "github.com/san-kum/drivesim/internal/sim"

type CumulativeReward struct {
	total float64
}

func NewCumulativeReward() *CumulativeReward { return &CumulativeReward{} }

func (c *CumulativeReward) Name() string { return "reward" }

func (c *CumulativeReward) Observe(s sim.SimState, a sim.Action, r, t float64) {
	c.total += r
}

func (c *CumulativeReward) Value() float64 { return c.total }
func (c *CumulativeReward) Reset()         { c.total = 0 }

// Captures counts markers collected, from the drop in remaining markers.
type Captures struct {
	count int
	last  int
}

func NewCaptures() *Captures { return &Captures{} }

func (c *Captures) Name() string { return "captures" }

func (c *Captures) Start(s sim.SimState) {
	c.last = len(s.Rewards)
}

func (c *Captures) Observe(s sim.SimState, a sim.Action, r, t float64) {
	n := len(s.Rewards)
	if n < c.last {
		c.count += c.last - n
	}
	c.last = n
}

func (c *Captures) Value() float64 { return float64(c.count) }

func (c *Captures) Reset() {
	c.count, c.last = 0, 0
}
