package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrShortSeries = errors.New("analysis: series too short")

// PowerSpectrum returns |X_k|² for k = 0..n/2 of the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}
	coeff := fourier.NewFFT(len(data)).Coefficients(nil, centered)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		a := cmplx.Abs(c)
		ps[i] = a * a
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz of a
// series sampled every dt seconds. The peak bin is refined by parabolic
// interpolation of the log power.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	if len(data) < 4 || dt <= 0 {
		return 0, ErrShortSeries
	}
	ps := PowerSpectrum(data)
	peak := floats.MaxIdx(ps[1:]) + 1
	if ps[peak] == 0 {
		return 0, nil
	}

	offset := 0.0
	if peak > 1 && peak < len(ps)-1 && ps[peak-1] > 0 && ps[peak+1] > 0 {
		a, b, c := math.Log(ps[peak-1]), math.Log(ps[peak]), math.Log(ps[peak+1])
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
	}
	return (float64(peak) + offset) / (float64(len(data)) * dt), nil
}

// RabiFrequencyEstimate returns the angular frequency in rad/s of a
// population oscillation.
func RabiFrequencyEstimate(populations []float64, dt float64) (float64, error) {
	f, err := DominantFrequency(populations, dt)
	return 2 * math.Pi * f, err
}
