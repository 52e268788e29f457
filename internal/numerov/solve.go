package numerov

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrGrid      = errors.New("numerov: invalid integration grid")
	ErrNotBound  = errors.New("numerov: energy must be negative for a bound state")
	ErrNoOverlap = errors.New("numerov: wavefunctions share no grid points")
	ErrStepMatch = errors.New("numerov: wavefunctions use different grid steps")
)

const (
	DefaultStep        = 0.005
	DefaultInnerRadius = 1e-3
)

// Options controls the radial grid. Zero values pick defaults; OuterRadius
// defaults to 2n(n+15) bohr.
type Options struct {
	Step        float64
	InnerRadius float64
	OuterRadius float64
}

// Wavefunction holds w(x) = x^(-1/2) r R(r) on the grid x_i = i*Step for
// i in [Start, Start+len(W)).
type Wavefunction struct {
	Step  float64
	Start int
	W     []float64
}

func (wf *Wavefunction) X(i int) float64 {
	return float64(wf.Start+i) * wf.Step
}

// R returns the radial function R(r) at grid point i.
func (wf *Wavefunction) R(i int) float64 {
	x := wf.X(i)
	// u = sqrt(x) w, R = u/r = u/x²
	return wf.W[i] / math.Pow(x, 1.5)
}

func (wf *Wavefunction) end() int {
	return wf.Start + len(wf.W)
}

// Solve integrates the radial equation for orbital l, total angular momentum
// j and energy (hartree, negative for bound states). n only sets the default
// outer radius.
func Solve(pot Potential, energy float64, n, l int, j float64, opts Options) (*Wavefunction, error) {
	if energy >= 0 {
		return nil, fmt.Errorf("energy %g: %w", energy, ErrNotBound)
	}
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.InnerRadius <= 0 {
		opts.InnerRadius = DefaultInnerRadius
	}
	if opts.OuterRadius <= 0 {
		opts.OuterRadius = 2 * float64(n) * float64(n+15)
	}
	if opts.OuterRadius <= opts.InnerRadius {
		return nil, fmt.Errorf("inner %g outer %g: %w", opts.InnerRadius, opts.OuterRadius, ErrGrid)
	}

	h := opts.Step
	iMin := int(math.Floor(math.Sqrt(opts.InnerRadius) / h))
	if iMin < 1 {
		iMin = 1
	}
	iMax := int(math.Ceil(math.Sqrt(opts.OuterRadius) / h))
	if iMax-iMin < 3 {
		return nil, fmt.Errorf("%d points: %w", iMax-iMin+1, ErrGrid)
	}

	centrifugal := (2*float64(l) + 0.5) * (2*float64(l) + 1.5)
	g := func(i int) float64 {
		x := float64(i) * h
		r := x * x
		return 8*r*(pot.V(r, l, j)-energy) + centrifugal/r
	}

	size := iMax - iMin + 1
	w := make([]float64, size)
	w[size-1] = 0
	w[size-2] = 1e-10

	h12 := h * h / 12
	core := pot.CoreRadius()

	gNext := g(iMax)
	gCur := g(iMax - 1)
	start := 0
	for k := size - 2; k >= 1; k-- {
		i := iMin + k
		gPrev := g(i - 1)
		w[k-1] = (2*w[k]*(1+5*h12*gCur) - w[k+1]*(1-h12*gNext)) / (1 - h12*gPrev)

		r := float64(i-1) * h * float64(i-1) * h
		if r < core && math.Abs(w[k-1]) > math.Abs(w[k]) {
			start = k
			break
		}
		gNext, gCur = gCur, gPrev
	}

	wf := &Wavefunction{Step: h, Start: iMin + start, W: w[start:]}
	wf.normalise()
	return wf, nil
}

// normalise scales w so that the integral of 2x²w² dx is one.
func (wf *Wavefunction) normalise() {
	sum := 0.0
	for i, v := range wf.W {
		x := wf.X(i)
		sum += 2 * x * x * v * v
	}
	norm := math.Sqrt(sum * wf.Step)
	if norm == 0 {
		return
	}
	for i := range wf.W {
		wf.W[i] /= norm
	}
}

// Norm returns the integral of R² r² dr; 1 after Solve.
func (wf *Wavefunction) Norm() float64 {
	return overlap(wf, wf, 0)
}

// RadialMatrixElement returns the integral of R_a R_b r^(2+power) dr in bohr^power.
func RadialMatrixElement(a, b *Wavefunction, power int) (float64, error) {
	if a.Step != b.Step {
		return 0, ErrStepMatch
	}
	lo := max(a.Start, b.Start)
	hi := min(a.end(), b.end())
	if hi <= lo {
		return 0, ErrNoOverlap
	}
	return overlap(a, b, power), nil
}

func overlap(a, b *Wavefunction, power int) float64 {
	lo := max(a.Start, b.Start)
	hi := min(a.end(), b.end())

	sum := 0.0
	exp := float64(2 + 2*power)
	for i := lo; i < hi; i++ {
		x := float64(i) * a.Step
		sum += 2 * math.Pow(x, exp) * a.W[i-a.Start] * b.W[i-b.Start]
	}
	return sum * a.Step
}
