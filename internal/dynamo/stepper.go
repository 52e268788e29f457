package dynamo

import "math"

// Stepper advances a simulation one fixed step per call, for callers that
// interleave integration with other work such as drawing frames. Steps are
// clipped at breakpoints like Run; adaptive stepping is not supported.
type Stepper struct {
	sim    *Simulator
	cfg    Config
	x      State
	u      Control
	t      float64
	breaks []float64
	steps  int
}

// Stepper resets the simulator's metrics and observes the initial state.
func (s *Simulator) Stepper(x0 State, cfg Config) (*Stepper, error) {
	cfg.Adaptive = false
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	st := &Stepper{sim: s, cfg: cfg, x: x0.Clone(), breaks: s.breakpoints(cfg.Duration)}
	st.u = s.controller.Compute(st.x, 0)
	s.observe(st.x, st.u, 0)
	return st, nil
}

func (st *Stepper) State() State     { return st.x }
func (st *Stepper) Control() Control { return st.u }
func (st *Stepper) Time() float64    { return st.t }
func (st *Stepper) Steps() int       { return st.steps }

func (st *Stepper) Done() bool { return st.t >= st.cfg.Duration*(1-1e-12) }

// Progress is the elapsed fraction of the run.
func (st *Stepper) Progress() float64 { return math.Min(st.t/st.cfg.Duration, 1) }

// Step advances one step. It returns false without stepping once the run
// is complete.
func (st *Stepper) Step() (bool, error) {
	if st.Done() {
		return false, nil
	}
	s := st.sim
	u := s.controller.Compute(st.x, st.t)
	var h float64
	st.breaks, h = clip(st.breaks, st.t, math.Min(st.cfg.Dt, st.cfg.Duration-st.t))

	x := s.integrator.Step(s.dyn, st.x, u, st.t, h)
	if st.cfg.ValidateState && !x.IsValid() {
		return false, &SimulationError{Step: st.steps, Time: st.t, State: st.x, Wrapped: ErrInvalidState}
	}
	st.x, st.u = x, u
	st.t = snap(st.breaks, st.t+h, st.cfg.Duration)
	st.steps++
	s.observe(st.x, st.u, st.t)
	return true, nil
}

// Metrics returns the current metric values.
func (st *Stepper) Metrics() map[string]float64 {
	out := make(map[string]float64, len(st.sim.metrics))
	for _, m := range st.sim.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
