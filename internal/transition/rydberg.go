package transition

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/san-kum/mmwave/internal/atom"
	"github.com/san-kum/mmwave/internal/units"
)

var (
	ErrAmbiguousPowers = errors.New("transition: give exactly one of probe or couple power")
	ErrMissingDrive    = errors.New("transition: need both powers or both Rabi frequencies")
)

const (
	ProbeLookupMax  = 100e-3
	CoupleLookupMax = 10.0

	// DefaultTemperature is the black-body temperature (K) used for
	// linewidths unless WithTemperature says otherwise.
	DefaultTemperature = 300.0

	TweezerWavelength = 1069.79e-9
	TweezerWaist      = 1e-6
)

// Params describes the ground -> intermediate -> Rydberg ladder.
type Params struct {
	Waist float64 `yaml:"waist" json:"waist" msgpack:"waist"`

	Ground         atom.Level `yaml:"ground" json:"ground" msgpack:"ground"`
	GroundMJ       float64    `yaml:"ground_mj" json:"ground_mj" msgpack:"ground_mj"`
	Intermediate   atom.Level `yaml:"intermediate" json:"intermediate" msgpack:"intermediate"`
	IntermediateMJ float64    `yaml:"intermediate_mj" json:"intermediate_mj" msgpack:"intermediate_mj"`
	Rydberg        atom.Level `yaml:"rydberg" json:"rydberg" msgpack:"rydberg"`

	// Q1 and Q2 are the probe and couple polarisations (-1, 0, +1).
	Q1 int `yaml:"q1" json:"q1" msgpack:"q1"`
	Q2 int `yaml:"q2" json:"q2" msgpack:"q2"`

	// Hyperfine levels used for frequencies and saturation powers.
	GroundF       float64 `yaml:"ground_f" json:"ground_f" msgpack:"ground_f"`
	IntermediateF float64 `yaml:"intermediate_f" json:"intermediate_f" msgpack:"intermediate_f"`
	RydbergF      float64 `yaml:"rydberg_f" json:"rydberg_f" msgpack:"rydberg_f"`
}

// DefaultParams is the 6S1/2 -> 7P3/2 -> 47D5/2 ladder with σ+ light on both
// legs and 25 µm waists.
func DefaultParams() Params {
	return Params{
		Waist:          25e-6,
		Ground:         atom.Level{N: 6, L: 0, J: 0.5},
		GroundMJ:       0.5,
		Intermediate:   atom.Level{N: 7, L: 1, J: 1.5},
		IntermediateMJ: 1.5,
		Rydberg:        atom.Level{N: 47, L: 2, J: 2.5},
		Q1:             1,
		Q2:             1,
		GroundF:        4,
		IntermediateF:  5,
		RydbergF:       6,
	}
}

type Option func(*Rydberg)

func WithLogger(log zerolog.Logger) Option {
	return func(r *Rydberg) { r.log = log.With().Str("component", "transition").Logger() }
}

// WithTemperature sets the black-body temperature (K) of the default
// linewidths. Negative values are ignored.
func WithTemperature(kelvin float64) Option {
	return func(r *Rydberg) {
		if kelvin >= 0 {
			r.temperature = kelvin
		}
	}
}

// Rydberg is a two-photon ladder transition driven by a probe laser
// (ground -> intermediate) and a couple laser (intermediate -> Rydberg).
type Rydberg struct {
	Params

	atom        *atom.Atom
	log         zerolog.Logger
	temperature float64

	probe  *Lookup
	couple *Lookup

	mu         sync.Mutex
	linewidths map[linewidthKey]float64
}

type linewidthKey struct {
	level       atom.Level
	temperature float64
}

func NewRydberg(a *atom.Atom, p Params, opts ...Option) (*Rydberg, error) {
	for _, lv := range []atom.Level{p.Ground, p.Intermediate, p.Rydberg} {
		if err := a.Validate(lv); err != nil {
			return nil, err
		}
	}
	if p.Waist <= 0 {
		return nil, fmt.Errorf("waist %g: %w", p.Waist, units.ErrNonPositive)
	}
	for _, q := range []int{p.Q1, p.Q2} {
		if q < -1 || q > 1 {
			return nil, fmt.Errorf("polarisation %d: %w", q, atom.ErrSelectionRule)
		}
	}

	r := &Rydberg{
		Params:      p,
		atom:        a,
		log:         zerolog.Nop(),
		temperature: DefaultTemperature,
		linewidths:  make(map[linewidthKey]float64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Rydberg) Atom() *atom.Atom { return r.atom }

// Temperature is the black-body temperature (K) of ELinewidth and RLinewidth.
func (r *Rydberg) Temperature() float64 { return r.temperature }

func (r *Rydberg) directE(power float64) (float64, error) {
	return r.atom.RabiFrequency(r.Ground, r.GroundMJ, r.Intermediate, r.Q1, power, r.Waist)
}

func (r *Rydberg) directR(power float64) (float64, error) {
	return r.atom.RabiFrequency(r.Intermediate, r.IntermediateMJ, r.Rydberg, r.Q2, power, r.Waist)
}

// InitFastLookup tabulates both legs: 0-100 mW for the probe and 0-10 W for
// the couple laser.
func (r *Rydberg) InitFastLookup() error {
	probe, err := BuildLookup(ProbeLookupMax, DefaultSamples, r.directE)
	if err != nil {
		return fmt.Errorf("probe lookup: %w", err)
	}
	couple, err := BuildLookup(CoupleLookupMax, DefaultSamples, r.directR)
	if err != nil {
		return fmt.Errorf("couple lookup: %w", err)
	}
	r.probe, r.couple = probe, couple
	r.log.Debug().Int("samples", DefaultSamples).Msg("fast lookup initialised")
	return nil
}

// HasLookup reports whether the fast lookup tables are in use.
func (r *Rydberg) HasLookup() bool {
	return r.probe != nil && r.couple != nil
}

// ERabiAngularFreq returns the probe-leg Rabi angular frequency (rad/s).
func (r *Rydberg) ERabiAngularFreq(power float64) (float64, error) {
	if r.probe != nil {
		return r.probe.RabiAt(power)
	}
	return r.directE(power)
}

// RRabiAngularFreq returns the couple-leg Rabi angular frequency (rad/s).
func (r *Rydberg) RRabiAngularFreq(power float64) (float64, error) {
	if r.couple != nil {
		return r.couple.RabiAt(power)
	}
	return r.directR(power)
}

// BalancedLaserPower returns the power of the laser that was not given such
// that both legs have the same Rabi frequency. Without lookup tables the
// inversion uses Ω ∝ sqrt(P).
func (r *Rydberg) BalancedLaserPower(probePower, couplePower *float64) (float64, error) {
	if (probePower == nil) == (couplePower == nil) {
		return 0, ErrAmbiguousPowers
	}

	if probePower == nil {
		omega, err := r.RRabiAngularFreq(*couplePower)
		if err != nil {
			return 0, err
		}
		if r.probe != nil {
			return r.probe.PowerAt(omega)
		}
		return invertSqrt(omega, r.directE)
	}

	omega, err := r.ERabiAngularFreq(*probePower)
	if err != nil {
		return 0, err
	}
	if r.couple != nil {
		return r.couple.PowerAt(omega)
	}
	return invertSqrt(omega, r.directR)
}

func invertSqrt(omega float64, rabi func(float64) (float64, error)) (float64, error) {
	ref, err := rabi(1)
	if err != nil {
		return 0, err
	}
	if ref == 0 {
		return 0, atom.ErrSelectionRule
	}
	return (omega / ref) * (omega / ref), nil
}

func (r *Rydberg) linewidth(lv atom.Level, temperature float64) (float64, error) {
	k := linewidthKey{level: lv, temperature: temperature}
	r.mu.Lock()
	g, ok := r.linewidths[k]
	r.mu.Unlock()
	if ok {
		return g, nil
	}

	tau, err := r.atom.StateLifetime(lv, temperature, lv.N+5)
	if err != nil {
		return 0, err
	}
	g = 1 / tau
	r.log.Debug().
		Str("level", lv.String()).
		Float64("temperature", temperature).
		Float64("gamma", g).
		Msg("linewidth computed")

	r.mu.Lock()
	r.linewidths[k] = g
	r.mu.Unlock()
	return g, nil
}

// ELinewidth is the decay rate (s^-1) of the intermediate level at the
// calculator's temperature.
func (r *Rydberg) ELinewidth() (float64, error) {
	return r.linewidth(r.Intermediate, r.temperature)
}

// RLinewidth is the decay rate (s^-1) of the Rydberg level at the
// calculator's temperature.
func (r *Rydberg) RLinewidth() (float64, error) {
	return r.linewidth(r.Rydberg, r.temperature)
}

// ELinewidthAt is ELinewidth at the given black-body temperature (K).
func (r *Rydberg) ELinewidthAt(kelvin float64) (float64, error) {
	return r.linewidth(r.Intermediate, kelvin)
}

// RLinewidthAt is RLinewidth at the given black-body temperature (K).
func (r *Rydberg) RLinewidthAt(kelvin float64) (float64, error) {
	return r.linewidth(r.Rydberg, kelvin)
}

func (r *Rydberg) hfsShift(lv atom.Level, f float64) float64 {
	a, _ := r.atom.HFSCoefficients(lv)
	return r.atom.HFSEnergyShift(lv.J, f, a, 0)
}

// ETransitionFreq is the probe frequency (Hz) between the chosen hyperfine
// levels of the ground and intermediate states.
func (r *Rydberg) ETransitionFreq() (float64, error) {
	f, err := r.atom.TransitionFrequency(r.Ground, r.Intermediate)
	if err != nil {
		return 0, err
	}
	return f - r.hfsShift(r.Ground, r.GroundF) + r.hfsShift(r.Intermediate, r.IntermediateF), nil
}

// RTransitionFreq is the couple frequency (Hz) from the chosen intermediate
// hyperfine level. Rydberg hyperfine structure is neglected.
func (r *Rydberg) RTransitionFreq() (float64, error) {
	f, err := r.atom.TransitionFrequency(r.Intermediate, r.Rydberg)
	if err != nil {
		return 0, err
	}
	return f - r.hfsShift(r.Intermediate, r.IntermediateF), nil
}

func (r *Rydberg) beamArea() float64 {
	return math.Pi * r.Waist * r.Waist
}

// ESaturationPower is the probe power (W) reaching the isotropic saturation
// intensity at the beam centre.
func (r *Rydberg) ESaturationPower() (float64, error) {
	isat, err := r.atom.SaturationIntensityIsotropic(r.Ground, r.GroundF, r.Intermediate, r.IntermediateF)
	if err != nil {
		return 0, err
	}
	return isat * r.beamArea(), nil
}

func (r *Rydberg) RSaturationPower() (float64, error) {
	isat, err := r.atom.SaturationIntensityIsotropic(r.Intermediate, r.IntermediateF, r.Rydberg, r.RydbergF)
	if err != nil {
		return 0, err
	}
	return isat * r.beamArea(), nil
}

// DetuningInput selects how OptimalDetuning obtains the two Rabi frequencies.
// Linewidths left nil are computed.
type DetuningInput struct {
	ProbePower  *float64
	CouplePower *float64
	ProbeRabi   *float64
	CoupleRabi  *float64
	Gamma2      *float64
	Gamma3      *float64
}

// OptimalDetuning returns the intermediate-state detuning (rad/s)
// Δ = sqrt(Ω1²+Ω2²)/2 · sqrt(γ2/(2γ3)) balancing intermediate scattering
// against Rydberg decay.
func (r *Rydberg) OptimalDetuning(in DetuningInput) (float64, error) {
	var omega1, omega2 float64
	switch {
	case in.ProbeRabi != nil && in.CoupleRabi != nil:
		omega1, omega2 = *in.ProbeRabi, *in.CoupleRabi
	case in.ProbePower != nil && in.CouplePower != nil:
		var err error
		if omega1, err = r.ERabiAngularFreq(*in.ProbePower); err != nil {
			return 0, err
		}
		if omega2, err = r.RRabiAngularFreq(*in.CouplePower); err != nil {
			return 0, err
		}
	default:
		return 0, ErrMissingDrive
	}

	gamma2, gamma3, err := r.gammas(in.Gamma2, in.Gamma3)
	if err != nil {
		return 0, err
	}
	return optimalDetuning(omega1, omega2, gamma2, gamma3), nil
}

func optimalDetuning(omega1, omega2, gamma2, gamma3 float64) float64 {
	return math.Hypot(omega1, omega2) / 2 * math.Sqrt(gamma2/(2*gamma3))
}

func (r *Rydberg) gammas(g2, g3 *float64) (float64, float64, error) {
	var gamma2, gamma3 float64
	var err error
	if g2 != nil {
		gamma2 = *g2
	} else if gamma2, err = r.ELinewidth(); err != nil {
		return 0, 0, err
	}
	if g3 != nil {
		gamma3 = *g3
	} else if gamma3, err = r.RLinewidth(); err != nil {
		return 0, 0, err
	}
	return gamma2, gamma3, nil
}

func (r *Rydberg) rabiPair(probePower, couplePower float64) (float64, float64, error) {
	omega1, err := r.ERabiAngularFreq(probePower)
	if err != nil {
		return 0, 0, err
	}
	omega2, err := r.RRabiAngularFreq(couplePower)
	if err != nil {
		return 0, 0, err
	}
	return omega1, omega2, nil
}

// optimal returns both Rabi frequencies and the optimal detuning.
func (r *Rydberg) optimal(probePower, couplePower float64) (omega1, omega2, delta0 float64, err error) {
	omega1, omega2, err = r.rabiPair(probePower, couplePower)
	if err != nil {
		return 0, 0, 0, err
	}
	delta0, err = r.OptimalDetuning(DetuningInput{ProbeRabi: &omega1, CoupleRabi: &omega2})
	return omega1, omega2, delta0, err
}

// TotalRabiAngularFreq is the effective two-photon Rabi angular frequency:
// Ω1Ω2/(2Δ0) at the optimal detuning, or sqrt(Ω1²+Ω2²)/2 on resonance.
func (r *Rydberg) TotalRabiAngularFreq(probePower, couplePower float64, resonance bool) (float64, error) {
	if resonance {
		omega1, omega2, err := r.rabiPair(probePower, couplePower)
		if err != nil {
			return 0, err
		}
		return 0.5 * math.Hypot(omega1, omega2), nil
	}
	omega1, omega2, delta0, err := r.optimal(probePower, couplePower)
	if err != nil {
		return 0, err
	}
	return omega1 * omega2 / 2 / delta0, nil
}

// PiPulseDuration returns π/Ω_total in seconds.
func (r *Rydberg) PiPulseDuration(probePower, couplePower float64, resonance bool) (float64, error) {
	omega, err := r.TotalRabiAngularFreq(probePower, couplePower, resonance)
	if err != nil {
		return 0, err
	}
	return math.Pi / omega, nil
}

// PiDetuning returns the intermediate detuning (rad/s) for which a π pulse
// lasts piTime seconds.
func (r *Rydberg) PiDetuning(probePower, couplePower, piTime float64) (float64, error) {
	omega1, omega2, err := r.rabiPair(probePower, couplePower)
	if err != nil {
		return 0, err
	}
	return piTime / math.Pi / 2 * omega1 * omega2, nil
}

// StarkShifts returns the perturbative light shifts Ω²/(4Δ0) (rad/s) of the
// probe and couple legs at the optimal detuning.
func (r *Rydberg) StarkShifts(probePower, couplePower float64) (probe, couple float64, err error) {
	omega1, omega2, delta0, err := r.optimal(probePower, couplePower)
	if err != nil {
		return 0, 0, err
	}
	return omega1 * omega1 / 4 / delta0, omega2 * omega2 / 4 / delta0, nil
}

// DiffRydACStark is the differential AC Stark shift (rad/s) of the two-photon
// resonance, (Ω1² - Ω2²)/(4Δ0), to lowest order in Ω/Δ0.
func (r *Rydberg) DiffRydACStark(probePower, couplePower float64) (float64, error) {
	s1, s2, err := r.StarkShifts(probePower, couplePower)
	if err != nil {
		return 0, err
	}
	return s1 - s2, nil
}

// BinDiffRydACStark is DiffRydACStark without expanding the two-level
// eigenvalues: each leg shifts by (sqrt(Δ0²+Ω²) - Δ0)/2.
func (r *Rydberg) BinDiffRydACStark(probePower, couplePower float64) (float64, error) {
	omega1, omega2, delta0, err := r.optimal(probePower, couplePower)
	if err != nil {
		return 0, err
	}
	return 0.5 * (math.Hypot(delta0, omega1) - math.Hypot(delta0, omega2)), nil
}

// TweezerStarkShift is the two-level estimate of the light shift (rad/s) of
// the Rydberg transition from a 1069.79 nm tweezer of the given power.
func (r *Rydberg) TweezerStarkShift(power float64) (shift, detuning float64, err error) {
	omega, err := r.atom.RabiFrequency(r.Intermediate, r.IntermediateMJ, r.Rydberg, r.Q2, power, TweezerWaist)
	if err != nil {
		return 0, 0, err
	}
	transition, err := r.RTransitionFreq()
	if err != nil {
		return 0, 0, err
	}
	tweezer, err := units.Wavelength2Freq(TweezerWavelength)
	if err != nil {
		return 0, 0, err
	}
	detuning = transition - tweezer
	return omega * omega / 4 / (2 * math.Pi * detuning), detuning, nil
}
