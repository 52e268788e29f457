package analysis

import (
	"math"

	"github.com/san-kum/mmwave/internal/dynamo"
)

// Bloch is the Bloch vector of the two-level subspace {i, j}: U = 2 Re ρ_ij,
// V = 2 Im ρ_ij and W = ρ_jj - ρ_ii.
type Bloch struct {
	U, V, W float64
}

// BlochVector reads levels i and j of a packed density matrix.
func BlochVector(x dynamo.State, levels, i, j int) Bloch {
	at := func(a, b int) (float64, float64) {
		k := 2 * (a*levels + b)
		return x[k], x[k+1]
	}
	re, im := at(i, j)
	pi, _ := at(i, i)
	pj, _ := at(j, j)
	return Bloch{U: 2 * re, V: 2 * im, W: pj - pi}
}

// BlochTrajectory maps BlochVector over recorded states.
func BlochTrajectory(states []dynamo.State, levels, i, j int) []Bloch {
	out := make([]Bloch, len(states))
	for k, x := range states {
		out[k] = BlochVector(x, levels, i, j)
	}
	return out
}

// Length is |(U, V, W)|; 1 for a pure state confined to the subspace.
func (b Bloch) Length() float64 {
	return math.Sqrt(b.U*b.U + b.V*b.V + b.W*b.W)
}
