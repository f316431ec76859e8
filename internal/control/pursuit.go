package control

import (
	"fmt"
	"math"

	"github.com/san-kum/drivesim/internal/observe"
	"github.com/san-kum/drivesim/internal/sim"
)

type PursuitGains struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Kv     float64 `yaml:"kv"`
	Cruise float64 `yaml:"cruise"`
	// Approach scales the distance into a target speed so the car slows near a marker.
	Approach float64 `yaml:"approach"`
}

func DefaultPursuitGains() PursuitGains {
	return PursuitGains{
		Kp:       2.0,
		Ki:       0.0,
		Kd:       0.2,
		Kv:       1.5,
		Cruise:   200,
		Approach: 1.0,
	}
}

// Pursuit steers toward the nearest marker and regulates speed toward a
// cruise speed that ramps down with distance.
type Pursuit struct {
	gains    PursuitGains
	heading  *PID
	observer *observe.HeadingRelativeObserver
}

func NewPursuit(g PursuitGains) *Pursuit {
	return &Pursuit{
		gains:    g,
		heading:  NewPID(g.Kp, g.Ki, g.Kd),
		observer: observe.NewHeadingRelative(observe.SelectNearest),
	}
}

func (p *Pursuit) Compute(s sim.SimState, t float64) sim.Action {
	obs := p.observer.Observe(s)
	if len(s.Rewards) == 0 {
		return sim.Action{Acceleration: -p.gains.Kv * obs.Speed}
	}

	steer := p.heading.Update(obs.Angle, t)
	if obs.Speed < 0 {
		steer = -steer
	}

	target := math.Min(p.gains.Cruise, p.gains.Approach*obs.Distance)
	// Turn in place is impossible; slow down when the marker is behind.
	target *= math.Max(0, math.Cos(obs.Angle))
	target = math.Max(target, p.gains.Cruise*0.1)

	return sim.Action{
		Acceleration: p.gains.Kv * (target - obs.Speed),
		SteerAngle:   steer,
	}
}

func (p *Pursuit) Reset() {
	p.heading.Reset()
}

// GetParams returns tunable parameters for live adjustment
func (p *Pursuit) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":       p.gains.Kp,
		"ki":       p.gains.Ki,
		"kd":       p.gains.Kd,
		"kv":       p.gains.Kv,
		"cruise":   p.gains.Cruise,
		"approach": p.gains.Approach,
	}
}

func (p *Pursuit) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.gains.Kp = value
		p.heading.Kp = value
	case "ki":
		p.gains.Ki = value
		p.heading.Ki = value
	case "kd":
		p.gains.Kd = value
		p.heading.Kd = value
	case "kv":
		p.gains.Kv = value
	case "cruise":
		p.gains.Cruise = value
	case "approach":
		p.gains.Approach = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
