package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

type decay struct{}

func (d *decay) Derive(x State, u Control, t float64) State {
	return State{-x[0]}
}

func (d *decay) StateDim() int   { return 1 }
func (d *decay) ControlDim() int { return 0 }

type euler struct{}

func (e *euler) Step(dyn System, x State, u Control, t float64, dt float64) State {
	dx := dyn.Derive(x, u, t)
	return State{x[0] + dt*dx[0]}
}

// driven has dx/dt = u[0] and conserves nothing.
type driven struct{}

func (d *driven) Derive(x State, u Control, t float64) State { return State{u[0]} }
func (d *driven) StateDim() int                              { return 1 }
func (d *driven) ControlDim() int                            { return 1 }

// gate is on during [on, off).
type gate struct{ on, off float64 }

func (g gate) Compute(x State, t float64) Control {
	if t >= g.on && t < g.off {
		return Control{1}
	}
	return Control{0}
}

func (g gate) Breakpoints() []float64 { return []float64{g.on, g.off} }

func TestSimulatorRun(t *testing.T) {
	sim := New(&decay{}, &euler{}, nil)

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	final := result.Final()[0]
	expected := math.Pow(0.9, 10)
	if math.Abs(final-expected) > 1e-12 {
		t.Errorf("expected final state %.6f, got %.6f", expected, final)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&decay{}, &euler{}, nil)

	tests := []struct {
		name string
		cfg  Config
		x0   State
		want error
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}, State{1}, ErrInvalidConfig},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}, State{1}, ErrInvalidConfig},
		{"zero duration", Config{Dt: 0.1, Duration: 0}, State{1}, ErrInvalidConfig},
		{"adaptive without tolerance", Config{Dt: 0.1, Duration: 1, Adaptive: true, MinDt: 1e-6, MaxDt: 1}, State{1}, ErrInvalidConfig},
		{"wrong dimension", Config{Dt: 0.1, Duration: 1.0}, State{1, 2}, ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.x0, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

type countMetric struct {
	count int
	sum   float64
}

func (c *countMetric) Name() string { return "test" }
func (c *countMetric) Observe(x State, u Control, time float64) {
	c.count++
	c.sum += x[0]
}
func (c *countMetric) Value() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}
func (c *countMetric) Reset() {
	c.count = 0
	c.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&decay{}, &euler{}, nil)
	metric := &countMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	// initial state plus one observation per step
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
}

func TestSimulatorStopsAtBreakpoints(t *testing.T) {
	sim := New(&driven{}, &euler{}, gate{on: 0.25, off: 0.55})

	result, err := sim.Run(context.Background(), State{0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// the integral of the gate is its width, with no discretisation error
	if got := result.Final()[0]; math.Abs(got-0.3) > 1e-12 {
		t.Errorf("expected 0.3, got %v", got)
	}

	found := false
	for _, tm := range result.Times {
		if tm == 0.25 {
			found = true
		}
	}
	if !found {
		t.Errorf("breakpoint 0.25 not hit: %v", result.Times)
	}
	if end := result.Times[len(result.Times)-1]; math.Abs(end-1.0) > 1e-12 {
		t.Errorf("expected run to end at 1.0, got %v", end)
	}
}

func TestSimulatorRecordEvery(t *testing.T) {
	sim := New(&decay{}, &euler{}, nil)
	result, err := sim.Run(context.Background(), State{1}, Config{Dt: 0.01, Duration: 1.0, RecordEvery: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.States) != 11 {
		t.Errorf("expected 11 recorded states, got %d", len(result.States))
	}
	if result.StepsTaken != 100 {
		t.Errorf("expected 100 steps, got %d", result.StepsTaken)
	}
}

func TestSimulatorStepDoubling(t *testing.T) {
	sim := New(&decay{}, &euler{}, nil)
	cfg := Config{Dt: 0.5, Duration: 1.0, Adaptive: true, Tolerance: 1e-4, MinDt: 1e-9, MaxDt: 0.5}

	result, err := sim.Run(context.Background(), State{1}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Rejected == 0 {
		t.Error("expected rejected steps with a coarse initial dt")
	}
	if got := result.Final()[0]; math.Abs(got-math.Exp(-1)) > 1e-2 {
		t.Errorf("expected ~%.4f, got %.4f", math.Exp(-1), got)
	}
}

type exploding struct{ decay }

func (e *exploding) Derive(x State, u Control, t float64) State {
	return State{math.Inf(1)}
}

func TestSimulatorInvalidState(t *testing.T) {
	sim := New(&exploding{}, &euler{}, nil)
	_, err := sim.Run(context.Background(), State{1}, Config{Dt: 0.1, Duration: 1, ValidateState: true})

	var simErr *SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimulationError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if simErr.Step != 0 {
		t.Errorf("expected failure at step 0, got %d", simErr.Step)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(&decay{}, &euler{}, nil)
	_, err := sim.Run(ctx, State{1}, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStepperMatchesRun(t *testing.T) {
	cfg := Config{Dt: 0.1, Duration: 1.0}
	want, err := New(&driven{}, &euler{}, gate{on: 0.25, off: 0.55}).Run(context.Background(), State{0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	sim := New(&driven{}, &euler{}, gate{on: 0.25, off: 0.55})
	metric := &countMetric{}
	sim.AddMetric(metric)
	st, err := sim.Stepper(State{0}, cfg)
	if err != nil {
		t.Fatalf("stepper failed: %v", err)
	}
	for {
		ok, err := st.Step()
		if err != nil {
			t.Fatalf("step failed: %v", err)
		}
		if !ok {
			break
		}
	}

	if !st.Done() || st.Progress() != 1 {
		t.Errorf("expected finished stepper, t=%v", st.Time())
	}
	if st.Steps() != want.StepsTaken {
		t.Errorf("expected %d steps, got %d", want.StepsTaken, st.Steps())
	}
	if math.Abs(st.State()[0]-want.Final()[0]) > 1e-15 {
		t.Errorf("expected %v, got %v", want.Final()[0], st.State()[0])
	}
	if metric.count != st.Steps()+1 {
		t.Errorf("expected %d observations, got %d", st.Steps()+1, metric.count)
	}
	if _, ok := st.Metrics()["test"]; !ok {
		t.Error("metric not reported")
	}
	if ok, _ := st.Step(); ok {
		t.Error("finished stepper advanced")
	}
}

func TestStepperInvalid(t *testing.T) {
	sim := New(&exploding{}, &euler{}, nil)
	if _, err := sim.Stepper(State{1}, Config{Dt: 0}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	st, err := sim.Stepper(State{1}, Config{Dt: 0.1, Duration: 1, ValidateState: true})
	if err != nil {
		t.Fatalf("stepper failed: %v", err)
	}
	if _, err := st.Step(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}
