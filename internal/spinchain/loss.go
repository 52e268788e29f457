package spinchain

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/mmwave/internal/qmath"
)

var ErrZeroMatrix = errors.New("spinchain: zero matrix has no normalised overlap")

func sameDim(a, b *qmath.Matrix) error {
	if a.Dim() != b.Dim() {
		return fmt.Errorf("%d vs %d: %w", a.Dim(), b.Dim(), qmath.ErrDimension)
	}
	return nil
}

// FrobeniusNorm is sqrt|Tr(a†b)|; for a == b it is the Frobenius norm of a.
func FrobeniusNorm(a, b *qmath.Matrix) (float64, error) {
	if err := sameDim(a, b); err != nil {
		return 0, err
	}
	return math.Sqrt(cmplx.Abs(a.Dagger().Mul(b).Trace())), nil
}

// FrobeniusLoss is 1 minus the normalised overlap of two Hamiltonians: 0
// for proportional matrices, 1 for orthogonal ones.
func FrobeniusLoss(a, b *qmath.Matrix) (float64, error) {
	overlap, err := FrobeniusNorm(a, b)
	if err != nil {
		return 0, err
	}
	na, _ := FrobeniusNorm(a, a)
	nb, _ := FrobeniusNorm(b, b)
	if na == 0 || nb == 0 {
		return 0, ErrZeroMatrix
	}
	return 1 - overlap/math.Sqrt(na*nb), nil
}

// NormIdentityLoss compares the unitaries exp(-ia) and exp(-ib) generated by
// two Hamiltonians already scaled by their evolution time. It returns the
// Frobenius norm of U_a†U_b - 1, zero when they agree.
func NormIdentityLoss(a, b *qmath.Matrix) (float64, error) {
	if err := sameDim(a, b); err != nil {
		return 0, err
	}
	ua, err := qmath.ExpHermitian(a, 1)
	if err != nil {
		return 0, err
	}
	ub, err := qmath.ExpHermitian(b, 1)
	if err != nil {
		return 0, err
	}
	return ua.Dagger().Mul(ub).Sub(qmath.Identity(a.Dim())).FrobeniusNorm(), nil
}
