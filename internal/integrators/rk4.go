package integrators

import "github.com/san-kum/mmwave/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme. It reuses its stage
// buffers between steps and is therefore not safe for concurrent use.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

var (
	half   = []float64{0.5}
	whole  = []float64{1}
	rk4Sum = []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6}
)

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	r.ensureScratch(len(x))

	copy(r.k1, dyn.Derive(x, u, t))
	copy(r.k2, dyn.Derive(combine(r.scratch, x, dt, half, r.k1), u, t+dt/2))
	copy(r.k3, dyn.Derive(combine(r.scratch, x, dt, half, r.k2), u, t+dt/2))
	copy(r.k4, dyn.Derive(combine(r.scratch, x, dt, whole, r.k3), u, t+dt))

	return combine(nil, x, dt, rk4Sum, r.k1, r.k2, r.k3, r.k4)
}
