package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/mmwave/internal/config"
	"github.com/san-kum/mmwave/internal/control"
	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/physics"
	"github.com/san-kum/mmwave/internal/qmath"
	"github.com/san-kum/mmwave/internal/transition"
)

var ErrNotSetup = errors.New("experiment: not set up")

// Setup is everything a simulator needs for one run.
type Setup struct {
	Model      Model
	System     dynamo.System
	Integrator dynamo.Integrator
	Schedule   *control.Schedule
	X0         dynamo.State
	Config     dynamo.Config
	Drive      Drive
	Levels     int
}

// Simulator builds a fresh simulator for the setup.
func (s *Setup) Simulator(log zerolog.Logger) *dynamo.Simulator {
	sim := dynamo.New(s.System, s.Integrator, s.Schedule)
	sim.SetLogger(log)
	return sim
}

type Experiment struct {
	cfg       *config.Config
	rydberg   *transition.Rydberg
	registry  *Registry
	log       zerolog.Logger
	setup     *Setup
	observers []dynamo.Observer
}

func New(cfg *config.Config, r *transition.Rydberg, log zerolog.Logger) *Experiment {
	return &Experiment{
		cfg:      cfg,
		rydberg:  r,
		registry: NewRegistry(),
		log:      log.With().Str("component", "experiment").Logger(),
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Registry() *Registry    { return e.registry }

func (e *Experiment) AddObserver(o dynamo.Observer) { e.observers = append(e.observers, o) }

// Resolve converts laser powers and detunings into angular frequencies.
func (e *Experiment) Resolve() (Drive, error) {
	model, err := e.registry.GetModel(e.cfg.Model)
	if err != nil {
		return Drive{}, err
	}

	var d Drive
	if d.ProbeRabi, err = e.rydberg.ERabiAngularFreq(e.cfg.Probe.Power); err != nil {
		return Drive{}, fmt.Errorf("probe rabi frequency: %w", err)
	}
	if e.cfg.Levels == 3 {
		if d.CoupleRabi, err = e.rydberg.RRabiAngularFreq(e.cfg.Couple.Power); err != nil {
			return Drive{}, fmt.Errorf("couple rabi frequency: %w", err)
		}
	}

	var gamma2, gamma3 float64
	if model.Lossy || e.cfg.Detuning.Optimal {
		if gamma2, err = e.rydberg.ELinewidthAt(e.cfg.Temperature); err != nil {
			return Drive{}, err
		}
		if gamma3, err = e.rydberg.RLinewidthAt(e.cfg.Temperature); err != nil {
			return Drive{}, err
		}
	}

	d.Delta = 2 * math.Pi * e.cfg.Detuning.Intermediate
	d.Delta2 = 2 * math.Pi * e.cfg.Detuning.TwoPhoton
	if e.cfg.Detuning.Optimal {
		d.Delta, err = e.rydberg.OptimalDetuning(transition.DetuningInput{
			ProbeRabi:  &d.ProbeRabi,
			CoupleRabi: &d.CoupleRabi,
			Gamma2:     &gamma2,
			Gamma3:     &gamma3,
		})
		if err != nil {
			return Drive{}, fmt.Errorf("optimal detuning: %w", err)
		}
	}
	if model.Lossy {
		d.Gamma2, d.Gamma3 = gamma2, gamma3
	}

	e.log.Debug().
		Float64("probe_rabi", d.ProbeRabi).
		Float64("couple_rabi", d.CoupleRabi).
		Float64("delta", d.Delta).
		Float64("gamma2", d.Gamma2).
		Float64("gamma3", d.Gamma3).
		Float64("temperature", e.cfg.Temperature).
		Msg("drive resolved")
	return d, nil
}

// Setup resolves the drive and assembles system, integrator, schedule and
// initial state.
func (e *Experiment) Setup() (*Setup, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := e.registry.GetModel(e.cfg.Model)
	if err != nil {
		return nil, err
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return nil, err
	}
	if _, exact := integ.(*physics.Propagator); exact && model.Lossy {
		return nil, fmt.Errorf("exact propagation cannot model decay: %w", config.ErrInvalid)
	}
	d, err := e.Resolve()
	if err != nil {
		return nil, err
	}
	sys, err := model.build(e.cfg.Levels, d)
	if err != nil {
		return nil, err
	}

	probe := pulse(e.cfg.Probe, d.ProbeRabi)
	var sched *control.Schedule
	switch {
	case e.cfg.Levels == 2:
		sched = control.NewSchedule().Add("probe", probe)
	case model.Duo:
		sched = control.NewDuo(probe, pulse(e.cfg.Couple, d.CoupleRabi))
	default:
		sched = control.NewProbe(probe, d.CoupleRabi)
	}

	x0 := qmath.PackDensity(physics.GroundDensity(e.cfg.Levels))
	if model.Vector {
		sys = physics.StateVector{UnitaryRydberg: sys.(*physics.UnitaryRydberg)}
		x0 = qmath.PackVector(physics.GroundState(e.cfg.Levels))
	}

	e.setup = &Setup{
		Model:      model,
		System:     sys,
		Integrator: integ,
		Schedule:   sched,
		X0:         x0,
		Config:     e.options().Config(sched.End()),
		Drive:      d,
		Levels:     e.cfg.Levels,
	}
	return e.setup, nil
}

func pulse(p config.PulseConfig, peak float64) *control.Square {
	return &control.Square{Delay: p.Delay, Duration: p.Duration, Hold: p.Hold, Peak: peak}
}

func (e *Experiment) options() physics.PulseOptions {
	return physics.PulseOptions{
		Dt:          e.cfg.Dt,
		EvolveTime:  e.cfg.EvolveTime,
		Adaptive:    e.cfg.Adaptive,
		Tolerance:   e.cfg.Tolerance,
		RecordEvery: e.cfg.RecordEvery,
	}
}

// Run executes the configured pulse sequence with the default metrics.
func (e *Experiment) Run(ctx context.Context) (*physics.Evolution, error) {
	if e.setup == nil {
		if _, err := e.Setup(); err != nil {
			return nil, err
		}
	}
	s := e.setup

	opts := e.options()
	opts.Integrator = s.Integrator
	opts.Metrics = e.registry.DefaultMetrics(s.Levels)
	opts.Observers = e.observers
	opts.Logger = &e.log

	probe, _ := s.Schedule.Channel("probe")
	probeSq := probe.(*control.Square)

	var ev *physics.Evolution
	var err error
	switch sys := s.System.(type) {
	case physics.StateVector:
		psi0, _ := qmath.UnpackVector(s.X0)
		ev, err = sys.ProbePulseUnitary(ctx, psi0, probeSq, s.Drive.CoupleRabi, opts)
	case *physics.UnitaryRydberg:
		ev, err = sys.ProbePulseNeumann(ctx, physics.GroundDensity(s.Levels), probeSq, s.Drive.CoupleRabi, opts)
	case *physics.LossyRydberg:
		if s.Model.Duo {
			couple, _ := s.Schedule.Channel("couple")
			ev, err = sys.DuoPulseLindblad(ctx, physics.GroundDensity(s.Levels), probeSq, couple.(*control.Square), opts)
		} else {
			ev, err = sys.ProbePulseLindblad(ctx, physics.GroundDensity(s.Levels), probeSq, s.Drive.CoupleRabi, opts)
		}
	default:
		return nil, ErrNotSetup
	}
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("model", e.cfg.Model).
		Int("steps", ev.StepsTaken).
		Float64("population", ev.Metrics["population"]).
		Float64("trace_drift", ev.Metrics["trace_drift"]).
		Msg("experiment finished")
	return ev, nil
}
