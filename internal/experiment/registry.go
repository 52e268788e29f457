package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/integrators"
	"github.com/san-kum/mmwave/internal/metrics"
	"github.com/san-kum/mmwave/internal/physics"
)

// Drive holds the resolved angular frequencies (rad/s) of a run.
type Drive struct {
	ProbeRabi  float64 `json:"probe_rabi"`
	CoupleRabi float64 `json:"couple_rabi"`
	Delta      float64 `json:"delta"`
	Delta2     float64 `json:"delta2"`
	Gamma2     float64 `json:"gamma2"`
	Gamma3     float64 `json:"gamma3"`
}

// Model describes how a named model is simulated.
type Model struct {
	Description string
	// Vector models evolve state vectors instead of density matrices.
	Vector bool
	Lossy  bool
	// Duo models pulse the couple laser too.
	Duo   bool
	build func(levels int, d Drive) (dynamo.System, error)
}

type Registry struct {
	models      map[string]Model
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]Model),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	unitary := func(levels int, d Drive) (dynamo.System, error) {
		return physics.NewUnitaryRydberg(levels, d.Delta, d.Delta2)
	}
	lossy := func(levels int, d Drive) (dynamo.System, error) {
		return physics.NewLossyRydberg(levels, d.Delta, d.Delta2, d.Gamma2, d.Gamma3)
	}

	r.models["unitary"] = Model{Description: "exact state-vector propagation", Vector: true, build: unitary}
	r.models["neumann"] = Model{Description: "von Neumann equation", build: unitary}
	r.models["lossy"] = Model{Description: "Lindblad equation with spontaneous decay", Lossy: true, build: lossy}
	r.models["duo"] = Model{Description: "Lindblad equation, probe and couple pulsed", Lossy: true, Duo: true, build: lossy}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }
	r.integrators["exact"] = func() dynamo.Integrator { return physics.NewPropagator() }

	return r
}

func (r *Registry) GetModel(name string) (Model, error) {
	m, ok := r.models[name]
	if !ok {
		return Model{}, fmt.Errorf("unknown model: %s", name)
	}
	return m, nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultMetrics watches the top level of the ladder and the health of ρ.
func (r *Registry) DefaultMetrics(levels int) []dynamo.Metric {
	top := levels - 1
	return []dynamo.Metric{
		metrics.NewPopulation(top, levels),
		metrics.NewPeakPopulation(top, levels),
		metrics.NewTraceDrift(levels),
		metrics.NewPurity(levels),
		metrics.NewStability(levels, 1e-6),
		metrics.NewPulseArea(0),
	}
}
