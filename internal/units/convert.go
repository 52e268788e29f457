package units

import (
	"errors"
	"fmt"
	"math"
)

var ErrNonPositive = errors.New("units: value must be positive")

// Wavelength2Freq returns the frequency in Hz of light with wavelength λ (m).
func Wavelength2Freq(wavelength float64) (float64, error) {
	if wavelength <= 0 {
		return 0, fmt.Errorf("wavelength %g: %w", wavelength, ErrNonPositive)
	}
	return SpeedOfLight / wavelength, nil
}

// Freq2Wavelength returns the wavelength in m of light with frequency ν (Hz).
func Freq2Wavelength(freq float64) (float64, error) {
	if freq <= 0 {
		return 0, fmt.Errorf("frequency %g: %w", freq, ErrNonPositive)
	}
	return SpeedOfLight / freq, nil
}

// Wavelength2AngularFreq returns ω = 2πc/λ in rad/s.
func Wavelength2AngularFreq(wavelength float64) (float64, error) {
	f, err := Wavelength2Freq(wavelength)
	if err != nil {
		return 0, err
	}
	return 2 * math.Pi * f, nil
}

// Power2Field returns the peak electric field (V/m) at the centre of a
// Gaussian beam of power P (W) and 1/e² intensity waist w (m).
//
// I0 = 2P/(πw²) and E0 = sqrt(2 I0/(c ε0)).
func Power2Field(power, waist float64) (float64, error) {
	if waist <= 0 {
		return 0, fmt.Errorf("waist %g: %w", waist, ErrNonPositive)
	}
	if power < 0 {
		return 0, fmt.Errorf("power %g: %w", power, ErrNonPositive)
	}
	intensity := 2 * power / (math.Pi * waist * waist)
	return math.Sqrt(2 * intensity / (SpeedOfLight * Epsilon0)), nil
}

// PeakIntensity returns the on-axis intensity (W/m²) of a Gaussian beam.
func PeakIntensity(power, waist float64) float64 {
	return 2 * power / (math.Pi * waist * waist)
}
