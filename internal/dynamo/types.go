package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Control carries the drive parameters, e.g. Rabi frequencies.
type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Invariant is implemented by systems with a conserved quantity (trace,
// norm); the simulator reports its drift.
type Invariant interface {
	Invariant(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// AdaptiveIntegrator estimates the local error of a step. It returns the
// advanced state and the suggested next step, or ErrStepRejected together
// with a smaller step to retry.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, u Control, t, dt, tol float64) (State, float64, error)
}

type Controller interface {
	Compute(x State, t float64) Control
}

// Scheduled controllers switch discontinuously at known times.
type Scheduled interface {
	Breakpoints() []float64
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
	// RecordEvery keeps every n-th state in the result; the final state is
	// always kept.
	RecordEvery int
}

// DefaultConfig suits nanosecond-scale optical dynamics.
func DefaultConfig() Config {
	return Config{
		Dt:            1e-10,
		Duration:      1e-6,
		Tolerance:     1e-8,
		MaxDt:         1e-8,
		MinDt:         1e-15,
		Adaptive:      false,
		ValidateState: true,
		RecordEvery:   1,
	}
}

type Result struct {
	States         []State
	Controls       []Control
	Times          []float64
	Metrics        map[string]float64
	InvariantDrift float64
	StepsTaken     int
	Rejected       int
}

// Final returns the last recorded state.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
