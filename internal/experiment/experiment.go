package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/drivesim/internal/config"
	"github.com/san-kum/drivesim/internal/sim"
)

// Experiment is one closed-loop episode: a scenario, a seed and a controller.
type Experiment struct {
	cfg        *config.Config
	seed       int64
	logger     zerolog.Logger
	simulator  *sim.Simulator
	controller sim.Controller
}

func New(cfg *config.Config, seed int64, logger zerolog.Logger) *Experiment {
	return &Experiment{
		cfg:    cfg,
		seed:   seed,
		logger: logger,
	}
}

func (e *Experiment) Setup(controller sim.Controller, metrics []sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	s, err := sim.New(e.cfg.Vehicle, Markers(e.cfg, e.seed),
		sim.WithLimits(e.cfg.Limits),
		sim.WithLogger(e.logger),
	)
	if err != nil {
		return err
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}
	e.simulator = s
	e.controller = controller
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	return e.simulator.Run(ctx, e.controller, sim.RunConfig{
		Dt:              e.cfg.Dt(),
		Duration:        e.cfg.Duration,
		StopWhenCleared: true,
	})
}

// GetSimulator returns the underlying simulator for adding listeners
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
