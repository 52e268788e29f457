package transition

import (
	"fmt"
	"math"

	"github.com/san-kum/mmwave/internal/units"
)

// Row is one labelled line of a report.
type Row struct {
	Label string
	Value string
}

// Default AOM shifts (Hz) of the probe and couple beam paths.
const (
	DefaultAOMProbe  = -220e6
	DefaultAOMCouple = -110e6
)

// LaserReport summarises laser settings for a pair of powers. Frequencies are
// in Hz, rates in s^-1, durations in s.
type LaserReport struct {
	ProbeTransition      float64 `json:"probe_transition"`
	ProbeLaser           float64 `json:"probe_laser"`
	ProbePowerBroadening float64 `json:"probe_power_broadening"`
	ProbeLinewidth       float64 `json:"probe_linewidth"`

	CoupleTransition      float64 `json:"couple_transition"`
	CoupleLaser           float64 `json:"couple_laser"`
	CouplePowerBroadening float64 `json:"couple_power_broadening"`
	CoupleLinewidth       float64 `json:"couple_linewidth"`

	OptimalDetuning    float64 `json:"optimal_detuning"`
	OptimalProbeLaser  float64 `json:"optimal_probe_laser"`
	OptimalCoupleLaser float64 `json:"optimal_couple_laser"`
	TotalRabiFrequency float64 `json:"total_rabi_frequency"`
	PiPulseDuration    float64 `json:"pi_pulse_duration"`
}

// LaserFrequencies computes the laser frequencies behind AOMs with the given
// shifts (Hz), power broadening and the two-photon figures of merit.
func (r *Rydberg) LaserFrequencies(probePower, couplePower, aomProbe, aomCouple float64) (*LaserReport, error) {
	trans1, err := r.ETransitionFreq()
	if err != nil {
		return nil, err
	}
	trans2, err := r.RTransitionFreq()
	if err != nil {
		return nil, err
	}
	line1, err := r.ELinewidth()
	if err != nil {
		return nil, err
	}
	line2, err := r.RLinewidth()
	if err != nil {
		return nil, err
	}
	omega1, omega2, delta0, err := r.optimal(probePower, couplePower)
	if err != nil {
		return nil, err
	}
	total, err := r.TotalRabiAngularFreq(probePower, couplePower, false)
	if err != nil {
		return nil, err
	}

	shift := delta0 / (2 * math.Pi)
	return &LaserReport{
		ProbeTransition:       trans1,
		ProbeLaser:            trans1 - aomProbe,
		ProbePowerBroadening:  math.Sqrt2 * omega1 / (2 * math.Pi),
		ProbeLinewidth:        line1,
		CoupleTransition:      trans2,
		CoupleLaser:           trans2 - aomCouple,
		CouplePowerBroadening: math.Sqrt2 * omega2 / (2 * math.Pi),
		CoupleLinewidth:       line2,
		OptimalDetuning:       shift,
		OptimalProbeLaser:     trans1 + shift - aomProbe,
		OptimalCoupleLaser:    trans2 - shift - aomCouple,
		TotalRabiFrequency:    total / (2 * math.Pi),
		PiPulseDuration:       math.Pi / total,
	}, nil
}

func (lr *LaserReport) Rows() []Row {
	return []Row{
		{"Probe transition", ghz(lr.ProbeTransition)},
		{"Probe laser (with AOM)", ghz(lr.ProbeLaser)},
		{"Probe power broadening √2Ω", mhz(lr.ProbePowerBroadening)},
		{"Probe natural linewidth", mhz(lr.ProbeLinewidth)},
		{"Couple transition", ghz(lr.CoupleTransition)},
		{"Couple laser (with AOM)", ghz(lr.CoupleLaser)},
		{"Couple power broadening √2Ω", mhz(lr.CouplePowerBroadening)},
		{"Couple natural linewidth", mhz(lr.CoupleLinewidth)},
		{"Optimal detuning", ghz(lr.OptimalDetuning)},
		{"Optimal probe laser (with AOM)", ghz(lr.OptimalProbeLaser)},
		{"Optimal couple laser (with AOM)", ghz(lr.OptimalCoupleLaser)},
		{"Expected Rabi frequency", "2π × " + mhz(lr.TotalRabiFrequency)},
		{"π pulse duration", fmt.Sprintf("%.2f ns", lr.PiPulseDuration*1e9)},
	}
}

// StarkReport holds AC Stark shifts in Hz.
type StarkReport struct {
	Differential      float64 `json:"differential"`
	DifferentialExact float64 `json:"differential_exact"`
	Probe             float64 `json:"probe"`
	Couple            float64 `json:"couple"`
}

func (r *Rydberg) ACStarkShifts(probePower, couplePower float64) (*StarkReport, error) {
	s1, s2, err := r.StarkShifts(probePower, couplePower)
	if err != nil {
		return nil, err
	}
	exact, err := r.BinDiffRydACStark(probePower, couplePower)
	if err != nil {
		return nil, err
	}
	return &StarkReport{
		Differential:      (s1 - s2) / (2 * math.Pi),
		DifferentialExact: exact / (2 * math.Pi),
		Probe:             s1 / (2 * math.Pi),
		Couple:            s2 / (2 * math.Pi),
	}, nil
}

func (sr *StarkReport) Rows() []Row {
	return []Row{
		{"Differential Stark shift", mhz(sr.Differential)},
		{"Differential Stark shift (exact)", mhz(sr.DifferentialExact)},
		{"Stark shift 1", mhz(sr.Probe)},
		{"Stark shift 2", mhz(sr.Couple)},
	}
}

// TweezerReport holds the tweezer light shift of the Rydberg transition.
type TweezerReport struct {
	Transition float64 `json:"transition"`
	Tweezer    float64 `json:"tweezer"`
	Detuning   float64 `json:"detuning"`
	StarkShift float64 `json:"stark_shift"`
}

func (r *Rydberg) TweezerStark(power float64) (*TweezerReport, error) {
	shift, detuning, err := r.TweezerStarkShift(power)
	if err != nil {
		return nil, err
	}
	return &TweezerReport{
		Transition: detuning + r.tweezerFreq(),
		Tweezer:    r.tweezerFreq(),
		Detuning:   detuning,
		StarkShift: shift / (2 * math.Pi),
	}, nil
}

func (r *Rydberg) tweezerFreq() float64 {
	return units.SpeedOfLight / TweezerWavelength
}

func (tr *TweezerReport) Rows() []Row {
	return []Row{
		{"Transition frequency", ghz(tr.Transition)},
		{"Tweezer frequency", ghz(tr.Tweezer)},
		{"Tweezer detuning", ghz(tr.Detuning)},
		{"Tweezer Stark shift", mhz(tr.StarkShift)},
	}
}

// SaturationReport holds saturation powers in W.
type SaturationReport struct {
	Probe  float64 `json:"probe"`
	Couple float64 `json:"couple"`
}

func (r *Rydberg) SaturationPowers() (*SaturationReport, error) {
	e, err := r.ESaturationPower()
	if err != nil {
		return nil, err
	}
	c, err := r.RSaturationPower()
	if err != nil {
		return nil, err
	}
	return &SaturationReport{Probe: e, Couple: c}, nil
}

func (sr *SaturationReport) Rows() []Row {
	return []Row{
		{"Saturation power E", fmt.Sprintf("%.4g mW", sr.Probe*1e3)},
		{"Saturation power R", fmt.Sprintf("%.4g mW", sr.Couple*1e3)},
	}
}

func ghz(f float64) string { return fmt.Sprintf("%.6f GHz", f*1e-9) }
func mhz(f float64) string { return fmt.Sprintf("%.4f MHz", f*1e-6) }
