package qmath

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// EigenHermitian returns the ascending eigenvalues of h and a matrix whose
// columns are the corresponding orthonormal eigenvectors.
func EigenHermitian(h *Matrix) ([]float64, *Matrix, error) {
	if !h.IsHermitian(1e-9 * (1 + h.FrobeniusNorm())) {
		return nil, nil, ErrNotHermitian
	}
	n := h.n
	sym := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := h.At(i, j)
			a, b := real(v), imag(v)
			sym.SetSym(i, j, a)
			sym.SetSym(n+i, n+j, a)
			// [[A, -B], [B, A]] with B antisymmetric
			sym.SetSym(i, n+j, -b)
			sym.SetSym(j, n+i, b)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, nil, ErrNoConverge
	}
	values := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	outVals := make([]float64, 0, n)
	basis := make([][]complex128, 0, n)
	for k := 0; k < 2*n && len(basis) < n; k++ {
		v := make([]complex128, n)
		for i := 0; i < n; i++ {
			v[i] = complex(vecs.At(i, k), vecs.At(n+i, k))
		}
		// each eigenvalue appears twice with vectors v and -iv
		for _, u := range basis {
			p := inner(u, v)
			for i := range v {
				v[i] -= p * u[i]
			}
		}
		norm := math.Sqrt(real(inner(v, v)))
		if norm < 1e-3 {
			continue
		}
		for i := range v {
			v[i] /= complex(norm, 0)
		}
		basis = append(basis, v)
		outVals = append(outVals, values[k])
	}

	vectors := New(n)
	for j, v := range basis {
		for i := range v {
			vectors.Set(i, j, v[i])
		}
	}
	return outVals, vectors, nil
}

// inner returns <u|v>.
func inner(u, v []complex128) complex128 {
	var s complex128
	for i := range u {
		s += cmplx.Conj(u[i]) * v[i]
	}
	return s
}

// Spectrum returns the ascending eigenvalues of a Hermitian matrix.
func Spectrum(h *Matrix) ([]float64, error) {
	vals, _, err := EigenHermitian(h)
	return vals, err
}

// ExpHermitian returns exp(-iHt) for Hermitian H.
func ExpHermitian(h *Matrix, t float64) (*Matrix, error) {
	vals, vecs, err := EigenHermitian(h)
	if err != nil {
		return nil, err
	}
	phases := make([]complex128, len(vals))
	for i, e := range vals {
		phases[i] = cmplx.Exp(complex(0, -e*t))
	}
	return vecs.Mul(Diagonal(phases)).Mul(vecs.Dagger()), nil
}

// eigenvalues of (U+U†)/2 closer than this are treated as one block
const degenerateCos = 1e-8

// EigenUnitary returns the eigenphases θ (eigenvalues e^{iθ}, θ in (-π, π])
// of a unitary u and the eigenvectors as columns.
func EigenUnitary(u *Matrix) ([]float64, *Matrix, error) {
	n := u.n
	if u.Dagger().Mul(u).Sub(Identity(n)).FrobeniusNorm() > 1e-9*float64(n) {
		return nil, nil, ErrNotUnitary
	}
	// (U+U†)/2 has eigenvalues cos θ, so e^{iθ} and e^{-iθ} share a block;
	// (U-U†)/2i commutes with it and separates them by sin θ.
	re := u.Add(u.Dagger()).Scale(0.5)
	im := u.Sub(u.Dagger()).Scale(-0.5i)
	cos, vecs, err := EigenHermitian(re)
	if err != nil {
		return nil, nil, err
	}

	cols := make([][]complex128, n)
	for k := range cols {
		cols[k] = make([]complex128, n)
		for i := 0; i < n; i++ {
			cols[k][i] = vecs.At(i, k)
		}
	}
	for lo := 0; lo < n; {
		hi := lo + 1
		for hi < n && cos[hi]-cos[hi-1] < degenerateCos {
			hi++
		}
		if hi-lo > 1 {
			if err := diagonalizeBlock(im, cols[lo:hi]); err != nil {
				return nil, nil, err
			}
		}
		lo = hi
	}

	phases := make([]float64, n)
	out := New(n)
	for k, col := range cols {
		phases[k] = cmplx.Phase(inner(col, u.MulVec(col)))
		for i, v := range col {
			out.Set(i, k, v)
		}
	}
	return phases, out, nil
}

// diagonalizeBlock rotates the orthonormal vectors of block, in place, onto
// eigenvectors of h restricted to their span.
func diagonalizeBlock(h *Matrix, block [][]complex128) error {
	m := len(block)
	hv := make([][]complex128, m)
	for j, v := range block {
		hv[j] = h.MulVec(v)
	}
	sub := New(m)
	for i := 0; i < m; i++ {
		sub.Set(i, i, complex(real(inner(block[i], hv[i])), 0))
		for j := i + 1; j < m; j++ {
			v := inner(block[i], hv[j])
			sub.Set(i, j, v)
			sub.Set(j, i, cmplx.Conj(v))
		}
	}
	_, w, err := EigenHermitian(sub)
	if err != nil {
		return err
	}

	rotated := make([][]complex128, m)
	for k := range rotated {
		v := make([]complex128, len(block[0]))
		for j := 0; j < m; j++ {
			c := w.At(j, k)
			for i := range v {
				v[i] += c * block[j][i]
			}
		}
		rotated[k] = v
	}
	copy(block, rotated)
	return nil
}

// LogUnitary returns the Hermitian H with exp(-iHt) = u whose eigenvalues
// lie in [-π/t, π/t).
func LogUnitary(u *Matrix, t float64) (*Matrix, error) {
	phases, vecs, err := EigenUnitary(u)
	if err != nil {
		return nil, err
	}
	d := make([]complex128, len(phases))
	for i, p := range phases {
		d[i] = complex(-p/t, 0)
	}
	return vecs.Mul(Diagonal(d)).Mul(vecs.Dagger()), nil
}
