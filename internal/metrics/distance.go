package metrics

import (
	"github.com/san-kum/drivesim/internal/dynamo"
	"github.com/san-kum/drivesim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

// Distance is the path length driven.
type Distance struct {
	total float64
	prev  r2.Vec
}

func NewDistance() *Distance { return &Distance{} }

func (d *Distance) Name() string { return "distance" }

func (d *Distance) Start(s sim.SimState) {
	d.prev = s.Vehicle.Position()
}

func (d *Distance) Observe(s sim.SimState, a sim.Action, r, t float64) {
	pos := s.Vehicle.Position()
	d.total += dynamo.Distance(pos, d.prev)
	d.prev = pos
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	d.total, d.prev = 0, r2.Vec{}
}

// Defaults returns the metric set attached to every episode.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewCumulativeReward(),
		NewCaptures(),
		NewControlEffort(),
		NewDistance(),
	}
}
