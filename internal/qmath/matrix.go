package qmath

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

var (
	ErrDimension    = errors.New("qmath: dimension mismatch")
	ErrNotHermitian = errors.New("qmath: matrix is not Hermitian")
	ErrNoConverge   = errors.New("qmath: eigendecomposition did not converge")
	ErrNotUnitary   = errors.New("qmath: matrix is not unitary")
)

// Matrix is a dense square complex matrix stored row-major.
type Matrix struct {
	n    int
	data []complex128
}

func New(n int) *Matrix {
	return &Matrix{n: n, data: make([]complex128, n*n)}
}

func Identity(n int) *Matrix {
	m := New(n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// FromRows builds a matrix from square row data.
func FromRows(rows [][]complex128) (*Matrix, error) {
	n := len(rows)
	m := New(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), n, ErrDimension)
		}
		copy(m.data[i*n:], row)
	}
	return m, nil
}

// Diagonal returns diag(d).
func Diagonal(d []complex128) *Matrix {
	m := New(len(d))
	for i, v := range d {
		m.data[i*m.n+i] = v
	}
	return m
}

func (m *Matrix) Dim() int                   { return m.n }
func (m *Matrix) At(i, j int) complex128     { return m.data[i*m.n+j] }
func (m *Matrix) Set(i, j int, v complex128) { m.data[i*m.n+j] = v }

func (m *Matrix) Clone() *Matrix {
	c := New(m.n)
	copy(c.data, m.data)
	return c
}

func (m *Matrix) Add(o *Matrix) *Matrix {
	r := New(m.n)
	for i := range m.data {
		r.data[i] = m.data[i] + o.data[i]
	}
	return r
}

func (m *Matrix) Sub(o *Matrix) *Matrix {
	r := New(m.n)
	for i := range m.data {
		r.data[i] = m.data[i] - o.data[i]
	}
	return r
}

func (m *Matrix) Scale(c complex128) *Matrix {
	r := New(m.n)
	for i, v := range m.data {
		r.data[i] = c * v
	}
	return r
}

// Mul returns m·o.
func (m *Matrix) Mul(o *Matrix) *Matrix {
	n := m.n
	r := New(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			a := m.data[i*n+k]
			if a == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				r.data[i*n+j] += a * o.data[k*n+j]
			}
		}
	}
	return r
}

func (m *Matrix) MulVec(v []complex128) []complex128 {
	n := m.n
	r := make([]complex128, n)
	for i := 0; i < n; i++ {
		var s complex128
		for j := 0; j < n; j++ {
			s += m.data[i*n+j] * v[j]
		}
		r[i] = s
	}
	return r
}

// Dagger returns the conjugate transpose.
func (m *Matrix) Dagger() *Matrix {
	n := m.n
	r := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r.data[j*n+i] = cmplx.Conj(m.data[i*n+j])
		}
	}
	return r
}

func (m *Matrix) Trace() complex128 {
	var t complex128
	for i := 0; i < m.n; i++ {
		t += m.data[i*m.n+i]
	}
	return t
}

// Commutator returns [a, b] = ab - ba.
func Commutator(a, b *Matrix) *Matrix {
	return a.Mul(b).Sub(b.Mul(a))
}

// Anticommutator returns {a, b} = ab + ba.
func Anticommutator(a, b *Matrix) *Matrix {
	return a.Mul(b).Add(b.Mul(a))
}

// Kron returns the Kronecker product a ⊗ b.
func Kron(a, b *Matrix) *Matrix {
	n := a.n * b.n
	r := New(n)
	for i := 0; i < a.n; i++ {
		for j := 0; j < a.n; j++ {
			av := a.data[i*a.n+j]
			if av == 0 {
				continue
			}
			for k := 0; k < b.n; k++ {
				for l := 0; l < b.n; l++ {
					r.data[(i*b.n+k)*n+j*b.n+l] = av * b.data[k*b.n+l]
				}
			}
		}
	}
	return r
}

// FrobeniusNorm returns sqrt(Σ|m_ij|²).
func (m *Matrix) FrobeniusNorm() float64 {
	s := 0.0
	for _, v := range m.data {
		s += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(s)
}

// IsHermitian reports whether |m - m†| ≤ tol elementwise.
func (m *Matrix) IsHermitian(tol float64) bool {
	n := m.n
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if cmplx.Abs(m.data[i*n+j]-cmplx.Conj(m.data[j*n+i])) > tol {
				return false
			}
		}
	}
	return true
}

func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%8.4g", m.data[i*m.n+j])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
