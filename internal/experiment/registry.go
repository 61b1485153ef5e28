package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/diffsim/internal/control"
	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/metrics"
)

// ControllerFactory builds a control law from named parameters. Missing
// parameters fall back to the law's defaults.
type ControllerFactory func(params map[string]float64, period float64) dynamo.ControlLaw

type Registry struct {
	controllers map[string]ControllerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]ControllerFactory),
	}

	r.controllers["none"] = func(map[string]float64, float64) dynamo.ControlLaw {
		return control.NewNone()
	}
	r.controllers["constant"] = func(params map[string]float64, _ float64) dynamo.ControlLaw {
		return control.NewConstant(
			param(params, "left", control.DefaultCommand),
			param(params, "right", control.DefaultCommand),
		)
	}
	r.controllers["heading"] = func(params map[string]float64, period float64) dynamo.ControlLaw {
		h := control.NewHeadingHold(
			param(params, "kp", 2),
			param(params, "ki", 0.5),
			param(params, "kd", 0.05),
			param(params, "target", 0),
			param(params, "throttle", control.DefaultCommand),
			period,
		)
		h.MaxIntegral = param(params, "max_integral", control.DefaultMaxIntegral)
		return h
	}
	r.controllers["goto"] = func(params map[string]float64, _ float64) dynamo.ControlLaw {
		g := control.NewGoTo(param(params, "x", 0.3), param(params, "y", 0))
		g.Kp = param(params, "kp", g.Kp)
		g.Speed = param(params, "speed", g.Speed)
		g.Radius = param(params, "radius", g.Radius)
		return g
	}
	r.controllers["square"] = func(params map[string]float64, _ float64) dynamo.ControlLaw {
		s := control.NewSquare(param(params, "side", 0.3), param(params, "throttle", 0.3))
		s.Kp = param(params, "kp", s.Kp)
		return s
	}
	r.controllers["manual"] = func(params map[string]float64, _ float64) dynamo.ControlLaw {
		m := control.NewManual()
		m.Set(param(params, "left", 0), param(params, "right", 0))
		return m
	}

	return r
}

func param(params map[string]float64, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

// Register adds or replaces a controller factory.
func (r *Registry) Register(name string, f ControllerFactory) {
	r.controllers[name] = f
}

func (r *Registry) GetController(name string, params map[string]float64, period float64) (dynamo.ControlLaw, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownController, name)
	}
	return fn(params, period), nil
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return metrics.Defaults()
}
