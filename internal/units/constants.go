package units

import (
	"math"

	"gonum.org/v1/gonum/unit/constant"
)

var (
	SpeedOfLight     = float64(constant.LightSpeedInVacuum)
	Planck           = float64(constant.Planck)
	HBar             = Planck / (2 * math.Pi)
	ElementaryCharge = float64(constant.ElementaryCharge)
	Epsilon0         = float64(constant.ElectricConstant)
	Boltzmann        = float64(constant.Boltzmann)
	FineStructure    = float64(constant.FineStructure)
)

const (
	// BohrRadius in metres (CODATA 2018).
	BohrRadius = 5.29177210903e-11

	// HartreeInvCm is one hartree expressed in cm^-1.
	HartreeInvCm = 219474.6313632

	// ElectronVoltInvCm is one eV expressed in cm^-1.
	ElectronVoltInvCm = 8065.543937
)

// InvCmToHz converts a wavenumber in cm^-1 to a frequency in Hz.
func InvCmToHz(k float64) float64 {
	return k * 100 * SpeedOfLight
}

// InvCmToEV converts a wavenumber in cm^-1 to electron volts.
func InvCmToEV(k float64) float64 {
	return k / ElectronVoltInvCm
}

// EVToHz converts an energy in eV to a frequency in Hz.
func EVToHz(e float64) float64 {
	return e * ElementaryCharge / Planck
}
