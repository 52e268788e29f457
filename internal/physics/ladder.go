package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/qmath"
)

// Ladder holds the detunings shared by the unitary and lossy systems.
// Delta is the intermediate detuning Δ and Delta2 the two-photon detuning
// δ, both in rad/s.
type Ladder struct {
	levels int
	Delta  float64
	Delta2 float64
}

func newLadder(levels int, delta, delta2 float64) (Ladder, error) {
	if levels != 2 && levels != 3 {
		return Ladder{}, fmt.Errorf("got %d: %w", levels, ErrLevels)
	}
	return Ladder{levels: levels, Delta: delta, Delta2: delta2}, nil
}

func (l *Ladder) Levels() int     { return l.levels }
func (l *Ladder) StateDim() int   { return 2 * l.levels * l.levels }
func (l *Ladder) ControlDim() int { return l.levels - 1 }

// HamiltonianAt builds H for the control vector u = [Ω12, Ω23].
func (l *Ladder) HamiltonianAt(u dynamo.Control) *qmath.Matrix {
	var omega12, omega23 float64
	if len(u) > 0 {
		omega12 = u[0]
	}
	if l.levels == 2 {
		return Hamiltonian2(omega12, l.Delta)
	}
	if len(u) > 1 {
		omega23 = u[1]
	}
	return Hamiltonian(omega12, omega23, l.Delta, l.Delta2)
}

// Invariant is Re Tr ρ.
func (l *Ladder) Invariant(x dynamo.State) float64 {
	tr := 0.0
	for i := 0; i < l.levels; i++ {
		tr += x[2*(i*l.levels+i)]
	}
	return tr
}

func (l *Ladder) GetParams() map[string]float64 {
	return map[string]float64{"delta": l.Delta, "delta2": l.Delta2}
}

func (l *Ladder) SetParam(name string, v float64) error {
	switch name {
	case "delta":
		l.Delta = v
	case "delta2":
		l.Delta2 = v
	default:
		return fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrInvalidConfig)
	}
	return nil
}

func (l *Ladder) unpack(x dynamo.State) *qmath.Matrix {
	rho, err := qmath.UnpackDensity(x, l.levels)
	if err != nil {
		return nanMatrix(l.levels)
	}
	return rho
}

func nanMatrix(n int) *qmath.Matrix {
	m := qmath.New(n)
	for i := 0; i < n; i++ {
		m.Set(i, i, complex(math.NaN(), 0))
	}
	return m
}

// UnitaryRydberg evolves a closed ladder under the von Neumann equation.
type UnitaryRydberg struct {
	Ladder
}

func NewUnitaryRydberg(levels int, delta, delta2 float64) (*UnitaryRydberg, error) {
	l, err := newLadder(levels, delta, delta2)
	if err != nil {
		return nil, err
	}
	return &UnitaryRydberg{Ladder: l}, nil
}

func (s *UnitaryRydberg) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	return qmath.PackDensity(ComputeDotRho(s.unpack(x), s.HamiltonianAt(u)))
}

// LossyRydberg adds spontaneous decay of |e> at Gamma2 and |r> at Gamma3
// (rad/s). Without decay it reduces to UnitaryRydberg.
type LossyRydberg struct {
	Ladder
	Gamma2 float64
	Gamma3 float64
}

func NewLossyRydberg(levels int, delta, delta2, gamma2, gamma3 float64) (*LossyRydberg, error) {
	l, err := newLadder(levels, delta, delta2)
	if err != nil {
		return nil, err
	}
	if gamma2 < 0 || gamma3 < 0 {
		return nil, fmt.Errorf("γ2=%g γ3=%g: %w", gamma2, gamma3, ErrRate)
	}
	return &LossyRydberg{Ladder: l, Gamma2: gamma2, Gamma3: gamma3}, nil
}

func (s *LossyRydberg) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	return qmath.PackDensity(ComputeLindbladDotRho(s.unpack(x), s.HamiltonianAt(u), s.Gamma2, s.Gamma3))
}

func (s *LossyRydberg) GetParams() map[string]float64 {
	p := s.Ladder.GetParams()
	p["gamma2"] = s.Gamma2
	p["gamma3"] = s.Gamma3
	return p
}

func (s *LossyRydberg) SetParam(name string, v float64) error {
	switch name {
	case "gamma2", "gamma3":
		if v < 0 {
			return fmt.Errorf("%s=%g: %w", name, v, ErrRate)
		}
		if name == "gamma2" {
			s.Gamma2 = v
		} else {
			s.Gamma3 = v
		}
		return nil
	}
	return s.Ladder.SetParam(name, v)
}

// StateVector is the Schrödinger form of a closed ladder on packed state
// vectors, dψ/dt = -iHψ.
type StateVector struct {
	*UnitaryRydberg
}

func (s StateVector) StateDim() int { return 2 * s.levels }

func (s StateVector) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	psi, err := qmath.UnpackVector(x)
	if err != nil || len(psi) != s.levels {
		return invalid(len(x))
	}
	hpsi := s.HamiltonianAt(u).MulVec(psi)
	for i := range hpsi {
		hpsi[i] *= -1i
	}
	return qmath.PackVector(hpsi)
}

// Invariant is ‖ψ‖².
func (s StateVector) Invariant(x dynamo.State) float64 {
	n := 0.0
	for _, v := range x {
		n += v * v
	}
	return n
}
