package qmath

import (
	"math"
	"math/cmplx"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pauli(t *testing.T) (x, y, z *Matrix) {
	t.Helper()
	var err error
	x, err = FromRows([][]complex128{{0, 1}, {1, 0}})
	require.NoError(t, err)
	y, err = FromRows([][]complex128{{0, -1i}, {1i, 0}})
	require.NoError(t, err)
	z, err = FromRows([][]complex128{{1, 0}, {0, -1}})
	require.NoError(t, err)
	return x, y, z
}

func assertClose(t *testing.T, want, got *Matrix, tol float64) {
	t.Helper()
	require.Equal(t, want.Dim(), got.Dim())
	assert.InDelta(t, 0, want.Sub(got).FrobeniusNorm(), tol)
}

func TestCommutatorPauli(t *testing.T) {
	x, y, z := pauli(t)
	// [σx, σy] = 2iσz
	assertClose(t, z.Scale(2i), Commutator(x, y), 1e-15)
	assertClose(t, Identity(2).Scale(2), Anticommutator(x, x), 1e-15)
	assert.Equal(t, complex128(0), z.Trace())
}

func TestFromRowsRejectsRagged(t *testing.T) {
	_, err := FromRows([][]complex128{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrDimension)
}

func TestEigenHermitian(t *testing.T) {
	_, y, _ := pauli(t)
	vals, vecs, err := EigenHermitian(y)
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.InDelta(t, -1, vals[0], 1e-12)
	assert.InDelta(t, 1, vals[1], 1e-12)

	// V diag(λ) V† reconstructs H and V is unitary
	d := Diagonal([]complex128{complex(vals[0], 0), complex(vals[1], 0)})
	assertClose(t, y, vecs.Mul(d).Mul(vecs.Dagger()), 1e-12)
	assertClose(t, Identity(2), vecs.Dagger().Mul(vecs), 1e-12)
}

func TestEigenHermitianDegenerate(t *testing.T) {
	h, err := FromRows([][]complex128{
		{2, 0, 0},
		{0, 1, 1i},
		{0, -1i, 1},
	})
	require.NoError(t, err)
	vals, vecs, err := EigenHermitian(h)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 2, 2}, vals, 1e-12)
	assertClose(t, Identity(3), vecs.Dagger().Mul(vecs), 1e-12)
}

func TestEigenRejectsNonHermitian(t *testing.T) {
	m, err := FromRows([][]complex128{{0, 1}, {0, 0}})
	require.NoError(t, err)
	_, _, err = EigenHermitian(m)
	assert.ErrorIs(t, err, ErrNotHermitian)
}

func TestExpHermitian(t *testing.T) {
	x, _, _ := pauli(t)
	theta := 0.7
	u, err := ExpHermitian(x, theta)
	require.NoError(t, err)

	want := Identity(2).Scale(complex(math.Cos(theta), 0)).Sub(x.Scale(complex(0, math.Sin(theta))))
	assertClose(t, want, u, 1e-12)
	assertClose(t, Identity(2), u.Mul(u.Dagger()), 1e-12)
}

func TestLogUnitary(t *testing.T) {
	x, _, z := pauli(t)
	h := x.Scale(0.3).Add(z.Scale(-0.8))
	u, err := ExpHermitian(h, 1.5)
	require.NoError(t, err)

	phases, _, err := EigenUnitary(u)
	require.NoError(t, err)
	e := math.Hypot(0.3, 0.8)
	sort.Float64s(phases)
	assert.InDelta(t, -e*1.5, phases[0], 1e-9)
	assert.InDelta(t, e*1.5, phases[1], 1e-9)

	back, err := LogUnitary(u, 1.5)
	require.NoError(t, err)
	assertClose(t, h, back, 1e-9)

	_, _, err = EigenUnitary(x.Scale(2))
	assert.ErrorIs(t, err, ErrNotUnitary)
}

func TestLogUnitaryDegenerate(t *testing.T) {
	u := Identity(3).Scale(cmplx.Exp(0.4i))
	h, err := LogUnitary(u, 2)
	require.NoError(t, err)
	assertClose(t, Identity(3).Scale(-0.2), h, 1e-12)
}

func TestLogUnitaryConjugatePhases(t *testing.T) {
	// eigenphases placed symmetrically about atan(0.618) so that any fixed
	// mix of cos θ and sin θ is degenerate
	x, y, z := pauli(t)
	phi := math.Atan(0.6180339887498949)
	v, err := ExpHermitian(x.Scale(0.7).Add(y.Scale(0.2)), 1)
	require.NoError(t, err)
	d := Identity(2).Scale(complex(-phi, 0)).Add(z.Scale(-0.3))
	h := v.Mul(d).Mul(v.Dagger())

	u, err := ExpHermitian(h, 1)
	require.NoError(t, err)
	phases, _, err := EigenUnitary(u)
	require.NoError(t, err)
	sort.Float64s(phases)
	assert.InDelta(t, phi-0.3, phases[0], 1e-9)
	assert.InDelta(t, phi+0.3, phases[1], 1e-9)

	back, err := LogUnitary(u, 1)
	require.NoError(t, err)
	assertClose(t, h, back, 1e-9)

	// e^{±iθ} pairs in a larger space
	w, err := FromRows([][]complex128{{1, 2, 0}, {2, -1, 1i}, {0, -1i, 0.5}})
	require.NoError(t, err)
	rot, err := ExpHermitian(w, 0.4)
	require.NoError(t, err)
	h3 := rot.Mul(Diagonal([]complex128{1.1, -1.1, 0})).Mul(rot.Dagger())
	u3, err := ExpHermitian(h3, 1)
	require.NoError(t, err)
	back3, err := LogUnitary(u3, 1)
	require.NoError(t, err)
	assertClose(t, h3, back3, 1e-9)
}

func TestKron(t *testing.T) {
	x, _, z := pauli(t)
	k := Kron(z, x)
	assert.Equal(t, 4, k.Dim())
	assert.Equal(t, complex128(1), k.At(0, 1))
	assert.Equal(t, complex128(-1), k.At(2, 3))
	assert.Equal(t, complex128(0), k.At(0, 2))
}

func TestPackDensity(t *testing.T) {
	psi := []complex128{complex(1/math.Sqrt2, 0), complex(0, 1/math.Sqrt2)}
	rho := Outer(psi)
	x := PackDensity(rho)
	assert.Len(t, x, 8)
	assert.Equal(t, 2, DensityDim(x))
	assert.Equal(t, 0, DensityDim(make([]float64, 7)))

	back, err := UnpackDensity(x, 2)
	require.NoError(t, err)
	assertClose(t, rho, back, 0)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, Populations(x, 2), 1e-15)
	assert.InDelta(t, 0, cmplx.Abs(back.At(0, 1)-complex(0, -0.5)), 1e-15)

	_, err = UnpackDensity(x, 3)
	assert.ErrorIs(t, err, ErrDimension)

	v := PackVector(psi)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, VectorPopulations(v), 1e-15)
	_, err = UnpackVector(v[:3])
	assert.ErrorIs(t, err, ErrDimension)
}
