package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/drivesim/internal/config"
	"github.com/san-kum/drivesim/internal/control"
	"github.com/san-kum/drivesim/internal/sim"
)

type Registry struct {
	controllers map[string]func(cfg *config.Config, seed int64) sim.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]func(*config.Config, int64) sim.Controller),
	}

	r.controllers["none"] = func(cfg *config.Config, seed int64) sim.Controller {
		return control.NewNone()
	}
	r.controllers["straight"] = func(cfg *config.Config, seed int64) sim.Controller {
		return control.NewConstant(cfg.Limits.MaxAcceleration/2, 0)
	}
	r.controllers["pursuit"] = func(cfg *config.Config, seed int64) sim.Controller {
		return control.NewPursuit(cfg.Pursuit)
	}
	r.controllers["random"] = func(cfg *config.Config, seed int64) sim.Controller {
		return control.NewRandom(cfg.Limits, seed)
	}

	return r
}

func (r *Registry) GetController(name string, cfg *config.Config, seed int64) (sim.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(cfg, seed), nil
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
