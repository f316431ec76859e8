package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/drivesim/internal/dynamo"
	"github.com/san-kum/drivesim/internal/physics"
	"github.com/san-kum/drivesim/internal/reward"
)

// Simulator owns one vehicle and one reward field. It is not safe for
// concurrent use; each instance is independent.
type Simulator struct {
	vehicle   physics.VehicleState
	field     *reward.Field
	limits    Limits
	logger    zerolog.Logger
	steps     int
	elapsed   float64
	metrics   []Metric
	listeners []Listener
}

type Option func(*Simulator)

func WithMaxAcceleration(v float64) Option {
	return func(s *Simulator) { s.limits.MaxAcceleration = v }
}

// WithMaxSteerAngle sets the steer limit. It must stay below π/2.
func WithMaxSteerAngle(v float64) Option {
	return func(s *Simulator) { s.limits.MaxSteerAngle = v }
}

func WithCaptureRadius(r float64) Option {
	return func(s *Simulator) { s.limits.CaptureRadius = r }
}

func WithLimits(l Limits) Option {
	return func(s *Simulator) { s.limits = l }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func New(initial physics.VehicleState, markers []reward.Marker, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		vehicle: initial,
		field:   reward.NewField(markers),
		limits:  DefaultLimits(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("initial vehicle: %w", err)
	}
	for _, m := range markers {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	if err := s.limits.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (l Limits) Validate() error {
	if !dynamo.IsFinite(l.MaxAcceleration, l.MaxSteerAngle, l.CaptureRadius) {
		return fmt.Errorf("limits must be finite: %w", dynamo.ErrParameterBounds)
	}
	if l.MaxAcceleration < 0 {
		return fmt.Errorf("max acceleration must be non-negative, got %f: %w", l.MaxAcceleration, dynamo.ErrParameterBounds)
	}
	if l.MaxSteerAngle < 0 || l.MaxSteerAngle >= math.Pi/2 {
		return fmt.Errorf("max steer angle must be in [0, pi/2), got %f: %w", l.MaxSteerAngle, dynamo.ErrParameterBounds)
	}
	if l.CaptureRadius <= 0 {
		return fmt.Errorf("capture radius must be positive, got %f: %w", l.CaptureRadius, dynamo.ErrParameterBounds)
	}
	return nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddListener(l Listener) { s.listeners = append(s.listeners, l) }
func (s *Simulator) Limits() Limits         { return s.limits }
func (s *Simulator) Steps() int             { return s.steps }
func (s *Simulator) Elapsed() float64       { return s.elapsed }

// Remaining is the number of markers not yet collected.
func (s *Simulator) Remaining() int { return s.field.Len() }

// State returns a snapshot. Changing it has no effect on the simulator.
func (s *Simulator) State() SimState {
	return SimState{
		Vehicle: s.vehicle,
		Rewards: s.field.Markers(),
	}
}

// Clamp applies the actuation limits to a.
func (s *Simulator) Clamp(a Action) Action {
	return Action{
		Acceleration: dynamo.ClampAbs(a.Acceleration, s.limits.MaxAcceleration),
		SteerAngle:   dynamo.ClampAbs(a.SteerAngle, s.limits.MaxSteerAngle),
	}
}

// Advance clamps a, integrates the vehicle over dt and collects every
// marker within the capture radius of the new position. The returned
// reward is the sum of the collected values. Invalid input leaves the
// state untouched and returns a *StepError wrapping dynamo.ErrInvalidInput.
// A step whose result would not be finite is discarded the same way and
// wraps dynamo.ErrInvalidState.
func (s *Simulator) Advance(a Action, dt time.Duration) (float64, error) {
	return s.AdvanceSeconds(a, dt.Seconds())
}

func (s *Simulator) AdvanceSeconds(a Action, dt float64) (float64, error) {
	if !dynamo.IsFinite(a.Acceleration, a.SteerAngle, dt) || dt < 0 {
		return 0, &StepError{Step: s.steps, Time: s.elapsed, Wrapped: dynamo.ErrInvalidInput}
	}

	c := s.Clamp(a)
	next := s.vehicle
	next.StepSeconds(c.Acceleration, c.SteerAngle, dt)
	if !next.IsValid() {
		return 0, &StepError{Step: s.steps, Time: s.elapsed, Wrapped: dynamo.ErrInvalidState}
	}
	s.vehicle = next
	s.steps++
	s.elapsed += dt

	r, captured := s.field.Sweep(s.vehicle.Position(), s.limits.CaptureRadius)
	for _, m := range captured {
		s.logger.Debug().
			Int("step", s.steps).
			Float64("x", m.Position.X).
			Float64("y", m.Position.Y).
			Float64("value", m.Value).
			Msg("reward captured")
	}
	return r, nil
}

// Run drives the simulator with ctrl for cfg.Duration seconds.
func (s *Simulator) Run(ctx context.Context, ctrl Controller, cfg RunConfig) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		States:  make([]physics.VehicleState, 0, steps+1),
		Actions: make([]Action, 0, steps),
		Rewards: make([]float64, 0, steps),
		Metrics: make(map[string]float64),
	}

	initial := s.State()
	for _, m := range s.metrics {
		m.Reset()
		if st, ok := m.(Starter); ok {
			st.Start(initial)
		}
	}

	t := 0.0
	result.Times = append(result.Times, t)
	result.States = append(result.States, s.vehicle)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.StopWhenCleared && s.field.Len() == 0 {
			break
		}

		a := ctrl.Compute(s.State(), t)
		r, err := s.AdvanceSeconds(a, cfg.Dt)
		if err != nil {
			return result, err
		}
		t += cfg.Dt

		snap := s.State()
		applied := s.Clamp(a)
		for _, m := range s.metrics {
			m.Observe(snap, applied, r, t)
		}
		for _, l := range s.listeners {
			l.OnStep(snap, applied, r, t)
		}

		result.StepsTaken++
		result.TotalReward += r
		result.Times = append(result.Times, t)
		result.States = append(result.States, s.vehicle)
		result.Actions = append(result.Actions, applied)
		result.Rewards = append(result.Rewards, r)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg RunConfig) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrParameterBounds)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrParameterBounds)
	}
	return nil
}
