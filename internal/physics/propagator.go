package physics

import (
	"math"
	"slices"

	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/qmath"
)

// Driven systems expose their Hamiltonian for a control vector.
type Driven interface {
	HamiltonianAt(u dynamo.Control) *qmath.Matrix
}

// Propagator is an exact integrator for closed systems whose control is
// constant over a step: packed vectors advance as Uψ and packed density
// matrices as UρU†, with U = exp(-iH dt). The last U is reused while the
// control and step are unchanged. A Propagator is not safe for concurrent
// use.
type Propagator struct {
	u  dynamo.Control
	dt float64
	op *qmath.Matrix
}

func NewPropagator() *Propagator {
	return &Propagator{}
}

func (p *Propagator) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	d, ok := dyn.(Driven)
	if !ok {
		return invalid(len(x))
	}
	op, err := p.operator(d, u, dt)
	if err != nil {
		return invalid(len(x))
	}

	n := op.Dim()
	switch len(x) {
	case 2 * n:
		psi, err := qmath.UnpackVector(x)
		if err != nil {
			return invalid(len(x))
		}
		return qmath.PackVector(op.MulVec(psi))
	case 2 * n * n:
		rho, err := qmath.UnpackDensity(x, n)
		if err != nil {
			return invalid(len(x))
		}
		return qmath.PackDensity(op.Mul(rho).Mul(op.Dagger()))
	}
	return invalid(len(x))
}

func (p *Propagator) operator(d Driven, u dynamo.Control, dt float64) (*qmath.Matrix, error) {
	if p.op != nil && dt == p.dt && slices.Equal(u, p.u) {
		return p.op, nil
	}
	op, err := qmath.ExpHermitian(d.HamiltonianAt(u), dt)
	if err != nil {
		return nil, err
	}
	p.u = slices.Clone(u)
	p.dt = dt
	p.op = op
	return op, nil
}

// invalid returns a NaN state so the simulator's validation stops the run.
func invalid(n int) dynamo.State {
	x := make(dynamo.State, n)
	for i := range x {
		x[i] = math.NaN()
	}
	return x
}
