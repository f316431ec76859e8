package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/drivesim/internal/physics"
	"github.com/san-kum/drivesim/internal/reward"
	"github.com/san-kum/drivesim/internal/sim"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()

	m.Observe(sim.SimState{}, sim.NewAction(-10, 0.5), 0, 0.1)
	m.Observe(sim.SimState{}, sim.NewAction(20, -0.5), 0, 0.2)

	if got := m.Value(); math.Abs(got-15.5) > 1e-12 {
		t.Errorf("expected mean effort 15.5, got %f", got)
	}
	if m.MeanAcceleration() != 15 || m.MeanSteer() != 0.5 {
		t.Errorf("unexpected split: accel %f steer %f", m.MeanAcceleration(), m.MeanSteer())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestCumulativeReward(t *testing.T) {
	m := NewCumulativeReward()
	for _, r := range []float64{0, 10, 0, 100} {
		m.Observe(sim.SimState{}, sim.Action{}, r, 0)
	}
	if m.Value() != 110 {
		t.Errorf("expected 110, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestCaptures(t *testing.T) {
	markers := func(n int) []reward.Marker { return make([]reward.Marker, n) }

	m := NewCaptures()
	m.Start(sim.SimState{Rewards: markers(5)})
	m.Observe(sim.SimState{Rewards: markers(3)}, sim.Action{}, 20, 0.1)
	m.Observe(sim.SimState{Rewards: markers(3)}, sim.Action{}, 0, 0.2)
	m.Observe(sim.SimState{Rewards: markers(2)}, sim.Action{}, 10, 0.3)

	if m.Value() != 3 {
		t.Errorf("expected 3 captures, got %f", m.Value())
	}
}

func TestDistance(t *testing.T) {
	at := func(x, y float64) sim.SimState {
		return sim.SimState{Vehicle: physics.NewVehicleState(physics.WithPosition(x, y))}
	}

	m := NewDistance()
	m.Start(at(0, 0))
	m.Observe(at(3, 4), sim.Action{}, 0, 0)
	m.Observe(at(3, 10), sim.Action{}, 0, 0)

	if got := m.Value(); math.Abs(got-11) > 1e-12 {
		t.Errorf("expected path length 11, got %f", got)
	}
}

func TestDefaultsHaveUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
