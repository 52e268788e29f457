// Package units converts between the optical quantities used throughout the
// calculator and exposes the physical constants they depend on.
//
// All values are SI unless a name says otherwise:
//
//   - [Wavelength2Freq] and [Freq2Wavelength]: λ <-> ν
//   - [Wavelength2AngularFreq]: λ -> ω = 2πc/λ
//   - [Power2Field]: peak electric field of a TEM00 beam
//
// Constants come from gonum's CODATA tables; atomic-unit conversions that gonum
// does not carry are defined here.
package units
