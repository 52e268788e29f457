package physics

import (
	"errors"
	"fmt"

	"github.com/san-kum/mmwave/internal/qmath"
)

const (
	Ground = iota
	Intermediate
	Rydberg
)

var (
	ErrLevels     = errors.New("physics: ladder must have 2 or 3 levels")
	ErrRate       = errors.New("physics: decay rates must be non-negative")
	ErrArrayShape = errors.New("physics: Rabi frequency arrays differ in length")
)

// Hamiltonian returns the three-level ladder Hamiltonian.
func Hamiltonian(omega12, omega23, delta, delta2 float64) *qmath.Matrix {
	h := qmath.New(3)
	h.Set(0, 1, complex(omega12/2, 0))
	h.Set(1, 0, complex(omega12/2, 0))
	h.Set(1, 1, complex(-delta, 0))
	h.Set(1, 2, complex(omega23/2, 0))
	h.Set(2, 1, complex(omega23/2, 0))
	h.Set(2, 2, complex(-delta2, 0))
	return h
}

// Hamiltonian2 is the two-level Hamiltonian [[0, Ω/2], [Ω/2, -Δ]].
func Hamiltonian2(omega, delta float64) *qmath.Matrix {
	h := qmath.New(2)
	h.Set(0, 1, complex(omega/2, 0))
	h.Set(1, 0, complex(omega/2, 0))
	h.Set(1, 1, complex(-delta, 0))
	return h
}

// HamiltonianArray evaluates Hamiltonian for each pair of Rabi frequencies.
func HamiltonianArray(omega12s, omega23s []float64, delta, delta2 float64) ([]*qmath.Matrix, error) {
	if len(omega12s) != len(omega23s) {
		return nil, fmt.Errorf("%d probe vs %d couple: %w", len(omega12s), len(omega23s), ErrArrayShape)
	}
	out := make([]*qmath.Matrix, len(omega12s))
	for i := range omega12s {
		out[i] = Hamiltonian(omega12s[i], omega23s[i], delta, delta2)
	}
	return out, nil
}

// ComputeDotRho returns the von Neumann derivative -i[H, ρ].
func ComputeDotRho(rho, h *qmath.Matrix) *qmath.Matrix {
	return qmath.Commutator(h, rho).Scale(-1i)
}

// ComputeLindbladDotRho adds spontaneous decay |e>→|g> at gamma2 and
// |r>→|e> at gamma3 to the von Neumann derivative. Jump operators are
// L1 = sqrt(γ2)|g><e| and L2 = sqrt(γ3)|e><r|.
func ComputeLindbladDotRho(rho, h *qmath.Matrix, gamma2, gamma3 float64) *qmath.Matrix {
	d := ComputeDotRho(rho, h)
	dissipate(d, rho, Ground, Intermediate, gamma2)
	if rho.Dim() > Rydberg {
		dissipate(d, rho, Intermediate, Rydberg, gamma3)
	}
	return d
}

// dissipate adds L ρ L† - ½{L†L, ρ} for L = sqrt(gamma)|to><from|.
func dissipate(d, rho *qmath.Matrix, to, from int, gamma float64) {
	if gamma == 0 {
		return
	}
	d.Set(to, to, d.At(to, to)+complex(gamma, 0)*rho.At(from, from))
	half := complex(gamma/2, 0)
	for k := 0; k < rho.Dim(); k++ {
		d.Set(from, k, d.At(from, k)-half*rho.At(from, k))
		d.Set(k, from, d.At(k, from)-half*rho.At(k, from))
	}
}

// EvolveState returns exp(-iHt)ψ0.
func EvolveState(psi0 []complex128, h *qmath.Matrix, t float64) ([]complex128, error) {
	if len(psi0) != h.Dim() {
		return nil, fmt.Errorf("state has %d entries, hamiltonian is %dx%d: %w", len(psi0), h.Dim(), h.Dim(), qmath.ErrDimension)
	}
	u, err := qmath.ExpHermitian(h, t)
	if err != nil {
		return nil, err
	}
	return u.MulVec(psi0), nil
}

// GroundState returns |g> for a ladder of the given size.
func GroundState(levels int) []complex128 {
	return qmath.Basis(levels, Ground)
}

// GroundDensity returns |g><g|.
func GroundDensity(levels int) *qmath.Matrix {
	return qmath.Outer(GroundState(levels))
}
