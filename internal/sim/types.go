package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/drivesim/internal/physics"
	"github.com/san-kum/drivesim/internal/reward"
)

const (
	DefaultMaxAcceleration = 100.0
	DefaultMaxSteerAngle   = math.Pi / 4
)

// Action is a control request. Limits are applied by the Simulator, not here.
type Action struct {
	Acceleration float64 `json:"acceleration"`
	SteerAngle   float64 `json:"steer_angle"`
}

func NewAction(acceleration, steerAngle float64) Action {
	return Action{Acceleration: acceleration, SteerAngle: steerAngle}
}

// SimState is a by-value snapshot of the simulation.
type SimState struct {
	Vehicle physics.VehicleState `json:"vehicle"`
	Rewards []reward.Marker      `json:"rewards"`
}

func (s SimState) Clone() SimState {
	c := SimState{Vehicle: s.Vehicle, Rewards: make([]reward.Marker, len(s.Rewards))}
	copy(c.Rewards, s.Rewards)
	return c
}

// Limits are the actuation bounds fixed at construction.
type Limits struct {
	MaxAcceleration float64 `json:"max_acceleration" yaml:"max_acceleration"`
	MaxSteerAngle   float64 `json:"max_steer_angle" yaml:"max_steer_angle"`
	CaptureRadius   float64 `json:"capture_radius" yaml:"capture_radius"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxAcceleration: DefaultMaxAcceleration,
		MaxSteerAngle:   DefaultMaxSteerAngle,
		CaptureRadius:   reward.DefaultCaptureRadius,
	}
}

type Controller interface {
	Compute(s SimState, t float64) Action
}

type Metric interface {
	Name() string
	Observe(s SimState, a Action, r float64, t float64)
	Value() float64
	Reset()
}

// Starter is implemented by metrics that need the state before the first tick.
type Starter interface {
	Start(s SimState)
}

// Listener is notified after every tick of Run.
type Listener interface {
	OnStep(s SimState, a Action, r float64, t float64)
}

type RunConfig struct {
	Dt       float64
	Duration float64
	// StopWhenCleared ends the run once no markers remain.
	StopWhenCleared bool
}

type Result struct {
	Times       []float64
	States      []physics.VehicleState
	Actions     []Action
	Rewards     []float64
	TotalReward float64
	Metrics     map[string]float64
	StepsTaken  int
}

// StepError wraps an error with the tick it occurred on.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
