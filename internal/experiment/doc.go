// Package experiment turns a [config.Config] into a runnable pulse
// simulation: laser powers become Rabi frequencies through a
// [transition.Rydberg], detunings and decay rates are resolved, and the
// model and integrator are looked up by name in a [Registry].
package experiment
