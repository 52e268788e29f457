package integrators

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/mmwave/internal/dynamo"
)

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	dyn := &oscillator{}

	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
	if math.Abs(x[0]-math.Cos(10)) > 1e-8 {
		t.Errorf("got %.10f, want %.10f", x[0], math.Cos(10))
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &oscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Invariant(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	drift := math.Abs(dyn.Invariant(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_RejectsLargeStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &oscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x, newDt, err := integrator.StepAdaptive(dyn, x0, nil, 0, 2.0, 1e-10)
	if !errors.Is(err, dynamo.ErrStepRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if newDt >= 2.0 || newDt <= 0 {
		t.Errorf("expected a smaller positive step, got %f", newDt)
	}
	if x[0] != x0[0] || x[1] != x0[1] {
		t.Error("rejected step must return the input state")
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &oscillator{}

	x, newDt, err := integrator.StepAdaptive(dyn, dynamo.State{1.0, 0.0}, nil, 0, 1e-3, 1e-6)
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if newDt <= 1e-3 {
		t.Errorf("expected the step to grow, got %g", newDt)
	}
}

func TestRK45_WithSimulator(t *testing.T) {
	sim := dynamo.New(&oscillator{}, NewRK45(), nil)
	cfg := dynamo.Config{
		Dt: 0.5, Duration: 20, Adaptive: true,
		Tolerance: 1e-9, MinDt: 1e-9, MaxDt: 1,
	}

	result, err := sim.Run(context.Background(), dynamo.State{1, 0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	final := result.Final()
	if math.Abs(final[0]-math.Cos(20)) > 1e-5 {
		t.Errorf("got %.8f, want %.8f", final[0], math.Cos(20))
	}
	if result.InvariantDrift > 1e-5 {
		t.Errorf("invariant drift too high: %e", result.InvariantDrift)
	}
	if result.StepsTaken > 2000 {
		t.Errorf("adaptive run took %d steps", result.StepsTaken)
	}
}
