package qmath

import "fmt"

// PackDensity flattens ρ row-major into (Re, Im) pairs, 2n² reals.
func PackDensity(rho *Matrix) []float64 {
	out := make([]float64, 2*len(rho.data))
	for i, v := range rho.data {
		out[2*i] = real(v)
		out[2*i+1] = imag(v)
	}
	return out
}

// UnpackDensity is the inverse of PackDensity.
func UnpackDensity(x []float64, n int) (*Matrix, error) {
	if len(x) != 2*n*n {
		return nil, fmt.Errorf("packed density has %d reals, want %d: %w", len(x), 2*n*n, ErrDimension)
	}
	m := New(n)
	for i := range m.data {
		m.data[i] = complex(x[2*i], x[2*i+1])
	}
	return m, nil
}

func PackVector(v []complex128) []float64 {
	out := make([]float64, 2*len(v))
	for i, c := range v {
		out[2*i] = real(c)
		out[2*i+1] = imag(c)
	}
	return out
}

func UnpackVector(x []float64) ([]complex128, error) {
	if len(x)%2 != 0 {
		return nil, fmt.Errorf("packed vector has odd length %d: %w", len(x), ErrDimension)
	}
	v := make([]complex128, len(x)/2)
	for i := range v {
		v[i] = complex(x[2*i], x[2*i+1])
	}
	return v, nil
}

// DensityDim returns n for a packed density matrix of len(x) reals, or 0.
func DensityDim(x []float64) int {
	for n := 1; 2*n*n <= len(x); n++ {
		if 2*n*n == len(x) {
			return n
		}
	}
	return 0
}

// Populations returns the diagonal of a packed density matrix.
func Populations(x []float64, n int) []float64 {
	p := make([]float64, n)
	for i := 0; i < n; i++ {
		p[i] = x[2*(i*n+i)]
	}
	return p
}

// VectorPopulations returns |ψ_i|² of a packed state vector.
func VectorPopulations(x []float64) []float64 {
	p := make([]float64, len(x)/2)
	for i := range p {
		re, im := x[2*i], x[2*i+1]
		p[i] = re*re + im*im
	}
	return p
}

// Outer returns |v><v|.
func Outer(v []complex128) *Matrix {
	n := len(v)
	m := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.data[i*n+j] = v[i] * complex(real(v[j]), -imag(v[j]))
		}
	}
	return m
}

// Basis returns the n-dimensional unit vector e_i.
func Basis(n, i int) []complex128 {
	v := make([]complex128, n)
	v[i] = 1
	return v
}
