package main

import (
	"github.com/san-kum/drivesim/internal/sim"
)

// trace collects the per-tick series plotted after a headless run.
type trace struct {
	speeds     []float64
	cumulative []float64
	total      float64
}

func newTrace(initial sim.SimState) *trace {
	return &trace{speeds: []float64{initial.Vehicle.Speed}}
}

func (tr *trace) OnStep(s sim.SimState, a sim.Action, r, t float64) {
	tr.total += r
	tr.speeds = append(tr.speeds, s.Vehicle.Speed)
	tr.cumulative = append(tr.cumulative, tr.total)
}
