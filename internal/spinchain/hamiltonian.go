package spinchain

import (
	"github.com/san-kum/mmwave/internal/qmath"
)

// single-site factors: Pauli matrices and the raising/lowering operators
// |↑⟩⟨↓| and |↓⟩⟨↑|
const pauliOps = "xyz+-"

// Basis index bit (sites-1-i) holds site i, 0 for up and 1 for down, so
// site 0 is the leftmost factor of a Kronecker product.
func bit(state, site, sites int) int { return state >> (sites - 1 - site) & 1 }

// flip returns the state with site toggled.
func flip(state, site, sites int) int { return state ^ 1<<(sites-1-site) }

// apply acts with a single-site factor on a basis state. Pauli strings map
// basis states to basis states, so the result is one state and amplitude.
func apply(op byte, site, sites, state int) (int, complex128) {
	up := bit(state, site, sites) == 0
	switch op {
	case 'x':
		return flip(state, site, sites), 1
	case 'y':
		if up {
			return flip(state, site, sites), 1i
		}
		return flip(state, site, sites), -1i
	case 'z':
		if up {
			return state, 1
		}
		return state, -1
	case '+':
		if up {
			return state, 0
		}
		return flip(state, site, sites), 1
	case '-':
		if up {
			return flip(state, site, sites), 1
		}
		return state, 0
	}
	return state, 0
}

// Hamiltonian builds the dense Hamiltonian of g at time t: the sum over
// operators and bonds of strength times the operator string on the bond
// sites.
func Hamiltonian(g *Graph, t float64) *qmath.Matrix {
	n := g.sites
	h := qmath.New(g.Dim())
	bonds := g.At(t)
	for _, op := range g.ops {
		for _, b := range bonds[op] {
			if b.Strength == 0 {
				continue
			}
			for col := 0; col < g.Dim(); col++ {
				row, amp := col, complex(b.Strength, 0)
				// rightmost factor acts first
				for k := len(op) - 1; k >= 0 && amp != 0; k-- {
					var a complex128
					row, a = apply(op[k], b.Sites[k], n, row)
					amp *= a
				}
				if amp != 0 {
					h.Set(row, col, h.At(row, col)+amp)
				}
			}
		}
	}
	return h
}

// SiteOperator embeds a single-site factor at site in a chain of sites
// spins.
func SiteOperator(op byte, site, sites int) *qmath.Matrix {
	single := qmath.New(2)
	for col := 0; col < 2; col++ {
		row, a := apply(op, 0, 1, col)
		single.Set(row, col, single.At(row, col)+a)
	}
	out := qmath.Identity(1)
	for i := 0; i < sites; i++ {
		if i == site {
			out = qmath.Kron(out, single)
		} else {
			out = qmath.Kron(out, qmath.Identity(2))
		}
	}
	return out
}
