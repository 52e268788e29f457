package atom

import (
	"fmt"
	"math"

	"github.com/san-kum/mmwave/internal/units"
	"github.com/san-kum/mmwave/internal/wigner"
)

// RabiFrequency returns the angular Rabi frequency (rad/s) of the
// x mx -> y (mx+q) transition driven by a Gaussian beam of the given power
// (W) and waist (m), evaluated at the beam centre.
func (a *Atom) RabiFrequency(x Level, mx float64, y Level, q int, power, waist float64) (float64, error) {
	d, err := a.DipoleMatrixElement(x, mx, y, mx+float64(q), q)
	if err != nil {
		return 0, err
	}
	field, err := units.Power2Field(power, waist)
	if err != nil {
		return 0, err
	}
	return field * math.Abs(d) * units.ElementaryCharge * units.BohrRadius / units.HBar, nil
}

// photonOccupation is the mean black-body photon number at angular frequency ω.
func photonOccupation(omega, temperature float64) float64 {
	if temperature <= 0 {
		return 0
	}
	return 1 / math.Expm1(units.HBar*omega/(units.Boltzmann*temperature))
}

// TransitionRate returns the rate (s^-1) from x to y. Emission includes
// stimulated emission by black-body radiation at the given temperature (K);
// absorption is purely black-body driven and vanishes at zero temperature.
func (a *Atom) TransitionRate(x, y Level, temperature float64) (float64, error) {
	freq, err := a.TransitionFrequency(x, y)
	if err != nil {
		return 0, err
	}
	rj, err := a.ReducedMatrixElementJ(x, y)
	if err != nil {
		return 0, err
	}

	upper := x
	if freq > 0 {
		upper = y
	}
	omega := 2 * math.Pi * math.Abs(freq)
	d := rj * units.ElementaryCharge * units.BohrRadius
	c := units.SpeedOfLight
	einsteinA := math.Pow(omega, 3) * d * d /
		(3 * math.Pi * units.Epsilon0 * units.HBar * c * c * c * (2*upper.J + 1))

	nbar := photonOccupation(omega, temperature)
	if freq < 0 {
		return einsteinA * (1 + nbar), nil
	}
	return einsteinA * nbar * (2*y.J + 1) / (2*x.J + 1), nil
}

// StateLifetime returns the lifetime (s) of lv. All lower dipole-coupled
// levels contribute; at non-zero temperature black-body absorption to
// higher levels with n up to includeLevelsUpTo is added.
func (a *Atom) StateLifetime(lv Level, temperature float64, includeLevelsUpTo int) (float64, error) {
	if err := a.Validate(lv); err != nil {
		return 0, err
	}
	nMax := lv.N + 2
	if temperature > 0 && includeLevelsUpTo > nMax {
		nMax = includeLevelsUpTo
	}
	own := a.bindingEnergy(lv)

	total := 0.0
	for _, l := range []int{lv.L - 1, lv.L + 1} {
		if l < 0 {
			continue
		}
		for _, j := range []float64{float64(l) - 0.5, float64(l) + 0.5} {
			if j < 0.5 || math.Abs(j-lv.J) > 1 {
				continue
			}
			for n := max(a.GroundN(l), l+1); n <= nMax; n++ {
				other := Level{N: n, L: l, J: j}
				lower := a.bindingEnergy(other) > own
				if !lower && (temperature <= 0 || n > includeLevelsUpTo) {
					continue
				}
				rate, err := a.TransitionRate(lv, other, temperature)
				if err != nil {
					return 0, fmt.Errorf("lifetime %v: %w", lv, err)
				}
				total += rate
			}
		}
	}
	if total == 0 {
		return math.Inf(1), nil
	}
	return 1 / total, nil
}

// HFSCoefficients returns the magnetic dipole A and electric quadrupole B
// hyperfine constants of lv in Hz. Levels without data give zero.
func (a *Atom) HFSCoefficients(lv Level) (A, B float64) {
	c := a.hfs[lv.key()]
	return c[0], c[1]
}

// HFSEnergyShift returns the shift (Hz) of hyperfine level f of a level with
// total electronic angular momentum j relative to its centre of gravity.
func (a *Atom) HFSEnergyShift(j, f, A, B float64) float64 {
	i := a.I
	k := f*(f+1) - i*(i+1) - j*(j+1)
	shift := 0.5 * A * k
	if B != 0 && j > 0.5 && i > 0.5 {
		shift += B * (1.5*k*(k+1) - 2*i*(i+1)*j*(j+1)) / (4 * i * (2*i - 1) * j * (2*j - 1))
	}
	return shift
}

// SaturationIntensityIsotropic returns the saturation intensity (W/m²) of the
// cycling-type transition g,fg -> e,fe for isotropically polarised light,
// with the linewidth set by the zero-temperature lifetime of e.
func (a *Atom) SaturationIntensityIsotropic(g Level, fg float64, e Level, fe float64) (float64, error) {
	rj, err := a.ReducedMatrixElementJ(g, e)
	if err != nil {
		return 0, err
	}
	six := wigner.SixJ(g.J, e.J, 1, fe, fg, a.I)
	d := rj * units.ElementaryCharge * units.BohrRadius
	d2 := (2*fe + 1) / 3 * six * six * d * d
	if d2 == 0 {
		return 0, fmt.Errorf("F=%g -> F'=%g: %w", fg, fe, ErrSelectionRule)
	}

	tau, err := a.StateLifetime(e, 0, 0)
	if err != nil {
		return 0, err
	}
	gamma := 1 / tau
	return units.SpeedOfLight * units.Epsilon0 * gamma * gamma * units.HBar * units.HBar / (4 * d2), nil
}
