package physics

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/mmwave/internal/control"
	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/integrators"
	"github.com/san-kum/mmwave/internal/qmath"
)

// DefaultDt is the pulse runner step in s.
const DefaultDt = 1e-10

// PulseOptions tune a pulse run. Zero values select defaults.
type PulseOptions struct {
	Dt float64
	// EvolveTime replaces the schedule end as the simulated window.
	EvolveTime  float64
	Adaptive    bool
	Tolerance   float64
	RecordEvery int
	Integrator  dynamo.Integrator
	Metrics     []dynamo.Metric
	Observers   []dynamo.Observer
	Logger      *zerolog.Logger
}

// Config is the simulator configuration for a window ending at end.
func (o PulseOptions) Config(end float64) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Duration = end
	if o.EvolveTime > 0 {
		cfg.Duration = o.EvolveTime
	}
	if o.Dt > 0 {
		cfg.Dt = o.Dt
	}
	cfg.Adaptive = o.Adaptive
	if o.Tolerance > 0 {
		cfg.Tolerance = o.Tolerance
	}
	cfg.MaxDt = max(cfg.MaxDt, cfg.Dt)
	cfg.RecordEvery = o.RecordEvery
	cfg.ValidateState = true
	return cfg
}

func (o PulseOptions) integrator() dynamo.Integrator {
	if o.Integrator != nil {
		return o.Integrator
	}
	if o.Adaptive {
		return integrators.NewRK45()
	}
	return integrators.NewRK4()
}

// Evolution is the recorded trajectory of a pulse run.
type Evolution struct {
	*dynamo.Result
	Levels int
	// Vector is set when States hold packed state vectors rather than
	// packed density matrices.
	Vector bool
}

func (e *Evolution) populations(x dynamo.State) []float64 {
	if e.Vector {
		return qmath.VectorPopulations(x)
	}
	return qmath.Populations(x, e.Levels)
}

// Populations returns the level populations at every recorded time.
func (e *Evolution) Populations() [][]float64 {
	out := make([][]float64, len(e.States))
	for i, x := range e.States {
		out[i] = e.populations(x)
	}
	return out
}

// Population returns the time series of one level.
func (e *Evolution) Population(level int) []float64 {
	out := make([]float64, len(e.States))
	for i, x := range e.States {
		out[i] = e.populations(x)[level]
	}
	return out
}

func (e *Evolution) FinalPopulations() []float64 {
	return e.populations(e.Final())
}

// Coherence returns ρ_ij at every recorded time.
func (e *Evolution) Coherence(i, j int) []complex128 {
	out := make([]complex128, len(e.States))
	for k, x := range e.States {
		if e.Vector {
			a := complex(x[2*i], x[2*i+1])
			b := complex(x[2*j], -x[2*j+1])
			out[k] = a * b
			continue
		}
		idx := 2 * (i*e.Levels + j)
		out[k] = complex(x[idx], x[idx+1])
	}
	return out
}

// DensityAt returns the density matrix of record k.
func (e *Evolution) DensityAt(k int) (*qmath.Matrix, error) {
	if e.Vector {
		psi, err := qmath.UnpackVector(e.States[k])
		if err != nil {
			return nil, err
		}
		return qmath.Outer(psi), nil
	}
	return qmath.UnpackDensity(e.States[k], e.Levels)
}

func run(ctx context.Context, sys dynamo.System, integ dynamo.Integrator, sched *control.Schedule, x0 dynamo.State, opts PulseOptions) (*dynamo.Result, error) {
	sim := dynamo.New(sys, integ, sched)
	if opts.Logger != nil {
		sim.SetLogger(*opts.Logger)
	}
	for _, m := range opts.Metrics {
		sim.AddMetric(m)
	}
	for _, o := range opts.Observers {
		sim.AddObserver(o)
	}
	cfg := opts.Config(sched.End())
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("empty pulse window: %w", dynamo.ErrInvalidConfig)
	}
	return sim.Run(ctx, x0, cfg)
}

func (l *Ladder) checkDensity(rho *qmath.Matrix) error {
	if rho.Dim() != l.levels {
		return fmt.Errorf("density is %dx%d, ladder has %d levels: %w", rho.Dim(), rho.Dim(), l.levels, dynamo.ErrDimensionMismatch)
	}
	return nil
}

func (l *Ladder) schedule(probe *control.Square, couple float64) (*control.Schedule, error) {
	if err := probe.Validate(); err != nil {
		return nil, err
	}
	if l.levels == 2 {
		return control.NewSchedule().Add("probe", probe), nil
	}
	return control.NewProbe(probe, couple), nil
}

// ProbePulseUnitary propagates ψ0 exactly through a probe pulse with the
// couple laser on throughout. The result holds packed state vectors.
func (s *UnitaryRydberg) ProbePulseUnitary(ctx context.Context, psi0 []complex128, probe *control.Square, couple float64, opts PulseOptions) (*Evolution, error) {
	if len(psi0) != s.levels {
		return nil, fmt.Errorf("state has %d entries, ladder has %d levels: %w", len(psi0), s.levels, dynamo.ErrDimensionMismatch)
	}
	sched, err := s.schedule(probe, couple)
	if err != nil {
		return nil, err
	}
	opts.Adaptive = false
	res, err := run(ctx, StateVector{s}, NewPropagator(), sched, qmath.PackVector(psi0), opts)
	if err != nil {
		return nil, err
	}
	return &Evolution{Result: res, Levels: s.levels, Vector: true}, nil
}

// ProbePulseNeumann integrates the von Neumann equation from ρ0 through a
// probe pulse with the couple laser on throughout.
func (s *UnitaryRydberg) ProbePulseNeumann(ctx context.Context, rho0 *qmath.Matrix, probe *control.Square, couple float64, opts PulseOptions) (*Evolution, error) {
	if err := s.checkDensity(rho0); err != nil {
		return nil, err
	}
	sched, err := s.schedule(probe, couple)
	if err != nil {
		return nil, err
	}
	res, err := run(ctx, s, opts.integrator(), sched, qmath.PackDensity(rho0), opts)
	if err != nil {
		return nil, err
	}
	return &Evolution{Result: res, Levels: s.levels}, nil
}

// ProbePulseLindblad integrates the Lindblad equation from ρ0 through a
// probe pulse with the couple laser on throughout.
func (s *LossyRydberg) ProbePulseLindblad(ctx context.Context, rho0 *qmath.Matrix, probe *control.Square, couple float64, opts PulseOptions) (*Evolution, error) {
	if err := s.checkDensity(rho0); err != nil {
		return nil, err
	}
	sched, err := s.schedule(probe, couple)
	if err != nil {
		return nil, err
	}
	return s.evolve(ctx, rho0, sched, opts)
}

// DuoPulseLindblad integrates the Lindblad equation with independently
// pulsed probe and couple lasers.
func (s *LossyRydberg) DuoPulseLindblad(ctx context.Context, rho0 *qmath.Matrix, probe, couple *control.Square, opts PulseOptions) (*Evolution, error) {
	if s.levels != 3 {
		return nil, fmt.Errorf("duo pulses need three levels: %w", ErrLevels)
	}
	if err := s.checkDensity(rho0); err != nil {
		return nil, err
	}
	if err := probe.Validate(); err != nil {
		return nil, err
	}
	if err := couple.Validate(); err != nil {
		return nil, err
	}
	return s.evolve(ctx, rho0, control.NewDuo(probe, couple), opts)
}

// Evolve runs the Lindblad equation under an arbitrary schedule.
func (s *LossyRydberg) Evolve(ctx context.Context, rho0 *qmath.Matrix, sched *control.Schedule, opts PulseOptions) (*Evolution, error) {
	if err := s.checkDensity(rho0); err != nil {
		return nil, err
	}
	return s.evolve(ctx, rho0, sched, opts)
}

func (s *LossyRydberg) evolve(ctx context.Context, rho0 *qmath.Matrix, sched *control.Schedule, opts PulseOptions) (*Evolution, error) {
	res, err := run(ctx, s, opts.integrator(), sched, qmath.PackDensity(rho0), opts)
	if err != nil {
		return nil, err
	}
	return &Evolution{Result: res, Levels: s.levels}, nil
}
