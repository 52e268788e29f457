// Package transition derives laser parameters for driving cold atoms into
// Rydberg states.
//
// [Optical] models one laser-driven transition. [Rydberg] models the
// two-photon ladder ground -> intermediate -> Rydberg and provides transition
// frequencies with hyperfine corrections, linewidths including black-body
// redistribution at a chosen temperature ([WithTemperature]), Rabi frequencies, saturation powers, the optimal intermediate detuning,
// effective two-photon Rabi frequencies, π-pulse timing and AC Stark shifts.
//
// Rabi frequencies can be served from cubic-spline lookup tables
// ([Rydberg.InitFastLookup]); queries outside the tabulated power range then
// fail with [ErrOutOfRange]. Tables can be saved and restored through
// [Snapshot].
//
// Angular frequencies are in rad/s, frequencies in Hz, powers in W and
// lengths in m.
package transition
