package spinchain

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/mmwave/internal/qmath"
)

var ErrSequence = errors.New("spinchain: invalid floquet sequence")

// Diagonalizer computes spectra and effective Hamiltonians of a graph by
// exact diagonalisation.
type Diagonalizer struct {
	graph *Graph
	log   zerolog.Logger
}

func NewDiagonalizer(g *Graph, log zerolog.Logger) *Diagonalizer {
	return &Diagonalizer{graph: g, log: log.With().Str("component", "spinchain").Logger()}
}

func (d *Diagonalizer) Graph() *Graph { return d.graph }

func (d *Diagonalizer) Hamiltonian(t float64) *qmath.Matrix {
	return Hamiltonian(d.graph, t)
}

// Spectrum returns the ascending eigenvalues of the Hamiltonian at t.
func (d *Diagonalizer) Spectrum(t float64) ([]float64, error) {
	vals, err := qmath.Spectrum(d.Hamiltonian(t))
	if err != nil {
		return nil, fmt.Errorf("spectrum at t=%g: %w", t, err)
	}
	return vals, nil
}

// GroundState returns the lowest eigenvalue and its eigenvector.
func (d *Diagonalizer) GroundState(t float64) (float64, []complex128, error) {
	vals, vecs, err := qmath.EigenHermitian(d.Hamiltonian(t))
	if err != nil {
		return 0, nil, fmt.Errorf("ground state at t=%g: %w", t, err)
	}
	psi := make([]complex128, vecs.Dim())
	for i := range psi {
		psi[i] = vecs.At(i, 0)
	}
	return vals[0], psi, nil
}

// FloquetHamiltonian returns the effective Hamiltonian H_F of one period in
// which the Hamiltonian at params[k] acts for dts[k]. A step with dt <= 0 is
// a delta pulse: its Hamiltonian is applied for unit time and adds nothing
// to the period, so it must already carry the intended phase. The period
// is the sum of the positive steps.
func (d *Diagonalizer) FloquetHamiltonian(params, dts []float64) (*qmath.Matrix, error) {
	if len(params) != len(dts) {
		return nil, fmt.Errorf("%d params but %d durations: %w", len(params), len(dts), ErrSequence)
	}
	period := 0.0
	u := qmath.Identity(d.graph.Dim())
	for k, p := range params {
		dt := dts[k]
		if dt > 0 {
			period += dt
		} else {
			dt = 1
		}
		step, err := qmath.ExpHermitian(d.Hamiltonian(p), dt)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", k, err)
		}
		u = step.Mul(u)
	}
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive: %w", ErrSequence)
	}

	hf, err := qmath.LogUnitary(u, period)
	if err != nil {
		return nil, fmt.Errorf("floquet hamiltonian: %w", err)
	}
	d.log.Debug().Int("steps", len(params)).Float64("period", period).Msg("floquet hamiltonian")
	return hf, nil
}
