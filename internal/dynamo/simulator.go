package dynamo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	controller Controller
	metrics    []Metric
	observers  []Observer
	log        zerolog.Logger
}

// New returns a simulator; a nil controller drives the system with a zero
// control vector.
func New(dyn System, integrator Integrator, controller Controller) *Simulator {
	if controller == nil {
		controller = zeroControl(dyn.ControlDim())
	}
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		log:        zerolog.Nop(),
	}
}

type zeroControl int

func (z zeroControl) Compute(State, float64) Control { return make(Control, int(z)) }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(log zerolog.Logger) {
	s.log = log.With().Str("component", "simulator").Logger()
}

func (s *Simulator) System() System         { return s.dyn }
func (s *Simulator) Controller() Controller { return s.controller }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}
	every := max(cfg.RecordEvery, 1)

	steps := int(cfg.Duration/cfg.Dt) + 1
	result := &Result{
		States:   make([]State, 0, steps/every+2),
		Controls: make([]Control, 0, steps/every+2),
		Times:    make([]float64, 0, steps/every+2),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt
	breaks := s.breakpoints(cfg.Duration)

	u := s.controller.Compute(x, t)
	s.record(result, x, u, t)
	s.observe(x, u, t)

	initial, hasInvariant := s.invariant(x)
	end := cfg.Duration * (1 - 1e-12)

	for t < end {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		u = s.controller.Compute(x, t)
		var h float64
		breaks, h = clip(breaks, t, math.Min(dt, cfg.Duration-t))

		var newX State
		if cfg.Adaptive {
			var next float64
			var err error
			newX, next, err = s.adaptiveStep(x, u, t, h, cfg)
			if errors.Is(err, ErrStepRejected) {
				result.Rejected++
				if next < cfg.MinDt {
					return result, &SimulationError{Step: result.StepsTaken, Time: t, State: x, Wrapped: ErrStepTooSmall}
				}
				dt = next
				continue
			}
			if err != nil {
				return result, &SimulationError{Step: result.StepsTaken, Time: t, State: x, Wrapped: err}
			}
			dt = math.Max(cfg.MinDt, math.Min(next, cfg.MaxDt))
		} else {
			newX = s.integrator.Step(s.dyn, x, u, t, h)
		}

		if cfg.ValidateState && !newX.IsValid() {
			return result, &SimulationError{Step: result.StepsTaken, Time: t, State: x, Wrapped: ErrInvalidState}
		}

		x = newX
		t = snap(breaks, t+h, cfg.Duration)
		result.StepsTaken++

		s.observe(x, u, t)
		if result.StepsTaken%every == 0 || t >= end {
			s.record(result, x, u, t)
		}
	}

	if hasInvariant {
		final, _ := s.invariant(x)
		result.InvariantDrift = math.Abs(final - initial)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Debug().
		Int("steps", result.StepsTaken).
		Int("rejected", result.Rejected).
		Float64("drift", result.InvariantDrift).
		Msg("run complete")
	return result, nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g: %w", cfg.Dt, ErrInvalidConfig)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g: %w", cfg.Duration, ErrInvalidConfig)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping: %w", ErrInvalidConfig)
	}
	if cfg.Adaptive && (cfg.MinDt <= 0 || cfg.MaxDt < cfg.MinDt) {
		return fmt.Errorf("need 0 < min dt <= max dt, got %g, %g: %w", cfg.MinDt, cfg.MaxDt, ErrInvalidConfig)
	}
	if d := s.dyn.StateDim(); d > 0 && len(x0) != d {
		return fmt.Errorf("state has %d entries, system wants %d: %w", len(x0), d, ErrDimensionMismatch)
	}
	return nil
}

func (s *Simulator) breakpoints(duration float64) []float64 {
	sc, ok := s.controller.(Scheduled)
	if !ok {
		return nil
	}
	var out []float64
	for _, b := range sc.Breakpoints() {
		if b > 0 && b < duration {
			out = append(out, b)
		}
	}
	sort.Float64s(out)
	return out
}

func (s *Simulator) record(r *Result, x State, u Control, t float64) {
	r.States = append(r.States, x.Clone())
	r.Controls = append(r.Controls, u)
	r.Times = append(r.Times, t)
}

func (s *Simulator) observe(x State, u Control, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, u, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, u, t)
	}
}

func (s *Simulator) invariant(x State) (float64, bool) {
	if inv, ok := s.dyn.(Invariant); ok {
		return inv.Invariant(x), true
	}
	return 0, false
}

func (s *Simulator) adaptiveStep(x State, u Control, t, dt float64, cfg Config) (State, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		return adaptive.StepAdaptive(s.dyn, x, u, t, dt, cfg.Tolerance)
	}

	// step doubling
	x1 := s.integrator.Step(s.dyn, x, u, t, dt)
	xHalf := s.integrator.Step(s.dyn, x, u, t, dt/2)
	x2 := s.integrator.Step(s.dyn, xHalf, u, t+dt/2, dt/2)

	err := x1.Sub(x2).Norm()
	if err > cfg.Tolerance {
		return x, dt / 2, ErrStepRejected
	}
	if err < cfg.Tolerance/10 {
		return x2, dt * 2, nil
	}
	return x2, dt, nil
}

// clip drops breakpoints at or before t and shortens h so the step lands on
// the next one.
func clip(breaks []float64, t, h float64) ([]float64, float64) {
	for len(breaks) > 0 && breaks[0] <= t*(1+1e-12) {
		breaks = breaks[1:]
	}
	if len(breaks) > 0 && t+h > breaks[0] {
		h = breaks[0] - t
	}
	return breaks, h
}

func snap(breaks []float64, t, duration float64) float64 {
	if len(breaks) > 0 && math.Abs(t-breaks[0]) <= 1e-12*math.Max(t, duration) {
		return breaks[0]
	}
	return t
}
