package atom

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/san-kum/mmwave/internal/numerov"
	"github.com/san-kum/mmwave/internal/units"
	"github.com/san-kum/mmwave/internal/wigner"
)

var (
	ErrUnknownLevel  = errors.New("atom: unknown level")
	ErrSelectionRule = errors.New("atom: dipole selection rule violated")
)

// ElementKey identifies the radial integral <N1 L1 J1| r^Power |N2 L2 J2>.
type ElementKey struct {
	N1, L1 int
	J1     float64
	N2, L2 int
	J2     float64
	Power  int
}

// ElementCache stores radial integrals between runs.
type ElementCache interface {
	Get(key ElementKey) (float64, bool, error)
	Put(key ElementKey, value float64) error
}

type Option func(*Atom)

// WithCache backs the in-memory radial integral table with c.
func WithCache(c ElementCache) Option {
	return func(a *Atom) { a.cache = c }
}

func WithLogger(log zerolog.Logger) Option {
	return func(a *Atom) { a.log = log.With().Str("component", "atom").Logger() }
}

// WithStep sets the Numerov grid step in sqrt(bohr).
func WithStep(h float64) Option {
	return func(a *Atom) {
		if h > 0 {
			a.step = h
		}
	}
}

// Atom is an alkali atom with one valence electron. It is safe for
// concurrent use.
type Atom struct {
	Name string
	Z    int
	// I is the nuclear spin.
	I float64
	// IonisationEnergy and RydbergConstant are in cm^-1; the latter is
	// corrected for the reduced mass.
	IonisationEnergy float64
	RydbergConstant  float64

	groundN   []int
	defects   map[fineKey][]float64
	levels    map[levelKey]float64
	hfs       map[levelKey][2]float64
	potential numerov.ModelPotential
	// measured |<j||er||j'>| in e·a0; the model potential is too crude for
	// these low-lying pairs
	literature map[pairKey]float64

	step  float64
	cache ElementCache
	log   zerolog.Logger

	mu     sync.Mutex
	waves  map[levelKey]*numerov.Wavefunction
	radial map[ElementKey]float64
}

func (a *Atom) init(opts []Option) {
	a.step = numerov.DefaultStep
	a.log = zerolog.Nop()
	a.waves = make(map[levelKey]*numerov.Wavefunction)
	a.radial = make(map[ElementKey]float64)
	for _, opt := range opts {
		opt(a)
	}
}

// GroundN is the lowest principal quantum number available for orbital l.
func (a *Atom) GroundN(l int) int {
	if l < len(a.groundN) {
		return a.groundN[l]
	}
	return l + 1
}

// Validate reports whether lv is a physical level of the atom.
func (a *Atom) Validate(lv Level) error {
	switch {
	case lv.L < 0 || lv.N <= lv.L:
		return fmt.Errorf("%v: l must be in [0, n-1]: %w", lv, ErrUnknownLevel)
	case lv.J < 0.5 || math.Abs(math.Abs(lv.J-float64(lv.L))-0.5) > 1e-9:
		return fmt.Errorf("%v: j must be l±1/2: %w", lv, ErrUnknownLevel)
	case lv.N < a.GroundN(lv.L):
		return fmt.Errorf("%v: below the lowest %c level: %w", lv, orbitalLetters[min(lv.L, len(orbitalLetters)-1)], ErrUnknownLevel)
	}
	return nil
}

// QuantumDefect returns δ(n) = δ0 + δ2/(n-δ0)² + δ4/(n-δ0)⁴ + ...
func (a *Atom) QuantumDefect(lv Level) float64 {
	k := lv.key()
	d, ok := a.defects[fineKey{l: k.l, twoJ: k.twoJ}]
	if !ok || len(d) == 0 {
		return 0
	}
	delta := d[0]
	base := float64(lv.N) - d[0]
	pow := 1.0
	for _, c := range d[1:] {
		pow *= base * base
		delta += c / pow
	}
	return delta
}

// bindingEnergy is the ionisation energy of lv in cm^-1.
func (a *Atom) bindingEnergy(lv Level) float64 {
	if e, ok := a.levels[lv.key()]; ok {
		return a.IonisationEnergy - e
	}
	ns := float64(lv.N) - a.QuantumDefect(lv)
	return a.RydbergConstant / (ns * ns)
}

// Energy returns the energy of lv in eV relative to the ionisation limit.
func (a *Atom) Energy(lv Level) (float64, error) {
	if err := a.Validate(lv); err != nil {
		return 0, err
	}
	return -units.InvCmToEV(a.bindingEnergy(lv)), nil
}

// TransitionFrequency returns ν(to) - ν(from) in Hz; negative for emission.
func (a *Atom) TransitionFrequency(from, to Level) (float64, error) {
	if err := a.Validate(from); err != nil {
		return 0, err
	}
	if err := a.Validate(to); err != nil {
		return 0, err
	}
	return units.InvCmToHz(a.bindingEnergy(from) - a.bindingEnergy(to)), nil
}

func (a *Atom) wavefunction(lv Level) (*numerov.Wavefunction, error) {
	k := lv.key()
	a.mu.Lock()
	wf, ok := a.waves[k]
	a.mu.Unlock()
	if ok {
		return wf, nil
	}

	energy := -a.bindingEnergy(lv) / units.HartreeInvCm
	wf, err := numerov.Solve(a.potential, energy, lv.N, lv.L, lv.J, numerov.Options{Step: a.step})
	if err != nil {
		return nil, fmt.Errorf("wavefunction %v: %w", lv, err)
	}

	a.mu.Lock()
	a.waves[k] = wf
	a.mu.Unlock()
	return wf, nil
}

func elementKey(x, y Level, power int) ElementKey {
	if y.key().less(x.key()) {
		x, y = y, x
	}
	return ElementKey{N1: x.N, L1: x.L, J1: x.J, N2: y.N, L2: y.L, J2: y.J, Power: power}
}

// RadialMatrixElement returns ∫ R_x R_y r^(2+power) dr in a0^power.
func (a *Atom) RadialMatrixElement(x, y Level, power int) (float64, error) {
	if err := a.Validate(x); err != nil {
		return 0, err
	}
	if err := a.Validate(y); err != nil {
		return 0, err
	}

	key := elementKey(x, y, power)
	a.mu.Lock()
	v, ok := a.radial[key]
	a.mu.Unlock()
	if ok {
		return v, nil
	}

	if a.cache != nil {
		v, ok, err := a.cache.Get(key)
		if err != nil {
			a.log.Warn().Err(err).Msg("element cache read failed")
		} else if ok {
			a.store(key, v)
			return v, nil
		}
	}

	wx, err := a.wavefunction(x)
	if err != nil {
		return 0, err
	}
	wy, err := a.wavefunction(y)
	if err != nil {
		return 0, err
	}
	v, err = numerov.RadialMatrixElement(wx, wy, power)
	if err != nil {
		return 0, fmt.Errorf("radial element %v-%v: %w", x, y, err)
	}
	a.log.Debug().
		Str("from", x.String()).
		Str("to", y.String()).
		Int("power", power).
		Float64("value", v).
		Msg("radial element computed")

	a.store(key, v)
	if a.cache != nil {
		if err := a.cache.Put(key, v); err != nil {
			a.log.Warn().Err(err).Msg("element cache write failed")
		}
	}
	return v, nil
}

func (a *Atom) store(key ElementKey, v float64) {
	a.mu.Lock()
	a.radial[key] = v
	a.mu.Unlock()
}

func checkDipole(x, y Level) error {
	if abs(x.L-y.L) != 1 || math.Abs(x.J-y.J) > 1+1e-9 {
		return fmt.Errorf("%v-%v: %w", x, y, ErrSelectionRule)
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func phase(x float64) float64 {
	if abs(int(math.Round(x)))%2 == 1 {
		return -1
	}
	return 1
}

// ReducedMatrixElementL returns <l_x||er||l_y> in e·a0.
func (a *Atom) ReducedMatrixElementL(x, y Level) (float64, error) {
	if err := checkDipole(x, y); err != nil {
		return 0, err
	}
	r, err := a.RadialMatrixElement(x, y, 1)
	if err != nil {
		return 0, err
	}
	lx, ly := float64(x.L), float64(y.L)
	return phase(lx) * math.Sqrt((2*lx+1)*(2*ly+1)) * wigner.ThreeJ(lx, 1, ly, 0, 0, 0) * r, nil
}

// ReducedMatrixElementJ returns <j_x||er||j_y> in e·a0 using Edmonds'
// normalisation, so |<j||er||j'>|² sums the squared dipoles over m, m', q.
// Pairs with a measured value use it, keeping the computed sign.
func (a *Atom) ReducedMatrixElementJ(x, y Level) (float64, error) {
	rl, err := a.ReducedMatrixElementL(x, y)
	if err != nil {
		return 0, err
	}
	const s = 0.5
	lx, ly := float64(x.L), float64(y.L)
	rj := phase(lx+s+y.J+1) * math.Sqrt((2*x.J+1)*(2*y.J+1)) *
		wigner.SixJ(x.J, 1, y.J, ly, s, lx) * rl
	if d, ok := a.literature[pair(x, y)]; ok {
		return math.Copysign(d, rj), nil
	}
	return rj, nil
}

// LiteratureElement returns the measured |<j_x||er||j_y>| (e·a0) used in
// place of the computed one, if the atom has it.
func (a *Atom) LiteratureElement(x, y Level) (float64, bool) {
	d, ok := a.literature[pair(x, y)]
	return d, ok
}

// DipoleMatrixElement returns <x mx| r_q |y my> in e·a0; zero unless my = mx+q.
func (a *Atom) DipoleMatrixElement(x Level, mx float64, y Level, my float64, q int) (float64, error) {
	if q < -1 || q > 1 {
		return 0, fmt.Errorf("polarisation %d: %w", q, ErrSelectionRule)
	}
	if math.Abs(mx) > x.J || math.Abs(my) > y.J {
		return 0, fmt.Errorf("projection out of range for %v, %v: %w", x, y, ErrSelectionRule)
	}
	rj, err := a.ReducedMatrixElementJ(x, y)
	if err != nil {
		return 0, err
	}
	return phase(x.J-mx) * wigner.ThreeJ(x.J, 1, y.J, -mx, -float64(q), my) * rj, nil
}
