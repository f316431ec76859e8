package experiment

import (
	"errors"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/san-kum/drivesim/internal/config"
	"github.com/san-kum/drivesim/internal/observe"
	"github.com/san-kum/drivesim/internal/reward"
	"github.com/san-kum/drivesim/internal/sim"
)

var ErrNotReset = errors.New("experiment: env stepped before reset")

// Transition is what one env step hands back to a learner.
type Transition struct {
	Observation observe.HeadingRelative
	Reward      float64
	Terminated  bool
	Truncated   bool
}

// Env is an episodic driving task: Reset places the markers, Step advances
// one frame. Episodes end after the configured duration or once every
// marker has been collected.
type Env struct {
	cfg      *config.Config
	observer observe.Observer[observe.HeadingRelative]
	logger   zerolog.Logger
	sim      *sim.Simulator
	frames   int
}

type EnvOption func(*Env)

func WithEnvLogger(l zerolog.Logger) EnvOption {
	return func(e *Env) { e.logger = l }
}

func NewEnv(cfg *config.Config, opts ...EnvOption) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sel, err := observe.ParseSelection(cfg.Selection)
	if err != nil {
		return nil, err
	}
	e := &Env{
		cfg:      cfg,
		observer: observe.NewHeadingRelative(sel),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// PlaceMarkers scatters arena.Count markers uniformly inside the arena bounds.
func PlaceMarkers(arena config.ArenaConfig, rng *rand.Rand) []reward.Marker {
	markers := make([]reward.Marker, arena.Count)
	for i := range markers {
		x := arena.MinX + rng.Float64()*(arena.MaxX-arena.MinX)
		y := arena.MinY + rng.Float64()*(arena.MaxY-arena.MinY)
		markers[i] = reward.NewMarker(x, y, arena.Value)
	}
	return markers
}

// Markers returns the configured markers, or a seeded random layout.
func Markers(cfg *config.Config, seed int64) []reward.Marker {
	if m := cfg.Markers(); m != nil {
		return m
	}
	return PlaceMarkers(cfg.Arena, rand.New(rand.NewSource(seed)))
}

func (e *Env) Reset(seed int64) (observe.HeadingRelative, error) {
	s, err := sim.New(e.cfg.Vehicle, Markers(e.cfg, seed),
		sim.WithLimits(e.cfg.Limits),
		sim.WithLogger(e.logger),
	)
	if err != nil {
		return observe.HeadingRelative{}, err
	}
	e.sim = s
	e.frames = 0

	e.logger.Debug().Int64("seed", seed).Int("markers", s.Remaining()).Msg("episode reset")
	return e.observer.Observe(s.State()), nil
}

func (e *Env) Step(a sim.Action) (Transition, error) {
	if e.sim == nil {
		return Transition{}, ErrNotReset
	}

	r, err := e.sim.AdvanceSeconds(a, e.cfg.Dt())
	if err != nil {
		return Transition{}, err
	}
	e.frames++

	elapsed := float64(e.frames) / e.cfg.FPS
	return Transition{
		Observation: e.observer.Observe(e.sim.State()),
		Reward:      r,
		Terminated:  elapsed >= e.cfg.Duration || e.sim.Remaining() == 0,
	}, nil
}

// State exposes the current snapshot for renderers.
func (e *Env) State() sim.SimState {
	if e.sim == nil {
		return sim.SimState{}
	}
	return e.sim.State()
}

func (e *Env) Frames() int { return e.frames }
