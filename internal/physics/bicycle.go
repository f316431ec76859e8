package physics

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/drivesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultWheelbase = 100.0
	DefaultMaxSpeed  = 1000.0
)

// VehicleState is the physical state of a single vehicle.
type VehicleState struct {
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Speed     float64 `json:"speed" yaml:"speed"`
	Heading   float64 `json:"heading" yaml:"heading"`
	Wheelbase float64 `json:"wheelbase" yaml:"wheelbase"`
	MaxSpeed  float64 `json:"max_speed" yaml:"max_speed"`
}

type Option func(*VehicleState)

func WithPosition(x, y float64) Option {
	return func(v *VehicleState) { v.X, v.Y = x, y }
}

func WithHeading(heading float64) Option {
	return func(v *VehicleState) { v.Heading = heading }
}

func WithSpeed(speed float64) Option {
	return func(v *VehicleState) { v.Speed = speed }
}

func WithWheelbase(l float64) Option {
	return func(v *VehicleState) { v.Wheelbase = l }
}

func WithMaxSpeed(max float64) Option {
	return func(v *VehicleState) { v.MaxSpeed = max }
}

// DefaultVehicleState returns a vehicle at rest at the origin facing +x
// with DefaultWheelbase and DefaultMaxSpeed.
func DefaultVehicleState() VehicleState {
	return VehicleState{
		Wheelbase: DefaultWheelbase,
		MaxSpeed:  DefaultMaxSpeed,
	}
}

func NewVehicleState(opts ...Option) VehicleState {
	v := DefaultVehicleState()
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

func (v VehicleState) Position() r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// Step advances the state by dt. Position and heading use the speed and
// heading from before this step; speed is updated last and clamped to
// [-MaxSpeed, MaxSpeed]. The order matters.
func (v *VehicleState) Step(acceleration, steerAngle float64, dt time.Duration) {
	v.StepSeconds(acceleration, steerAngle, dt.Seconds())
}

func (v *VehicleState) StepSeconds(acceleration, steerAngle, dt float64) {
	delta := r2.Scale(v.Speed*dt, dynamo.HeadingVec(v.Heading))
	v.X += delta.X
	v.Y += delta.Y
	v.Heading += v.YawRate(steerAngle) * dt
	v.Speed += acceleration * dt
	v.Speed = dynamo.ClampAbs(v.Speed, v.MaxSpeed)
}

// YawRate is the heading rate produced by steerAngle at the current speed.
func (v VehicleState) YawRate(steerAngle float64) float64 {
	return v.Speed * math.Tan(steerAngle) / v.Wheelbase
}

func (v VehicleState) IsValid() bool {
	return dynamo.IsFinite(v.X, v.Y, v.Speed, v.Heading, v.Wheelbase, v.MaxSpeed)
}

// Validate checks the per-vehicle constants and finiteness of the state.
func (v VehicleState) Validate() error {
	if !v.IsValid() {
		return dynamo.ErrInvalidState
	}
	if v.Wheelbase <= 0 {
		return fmt.Errorf("wheelbase must be positive, got %f: %w", v.Wheelbase, dynamo.ErrParameterBounds)
	}
	if v.MaxSpeed <= 0 {
		return fmt.Errorf("max speed must be positive, got %f: %w", v.MaxSpeed, dynamo.ErrParameterBounds)
	}
	return nil
}
