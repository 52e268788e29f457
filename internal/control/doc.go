// Package control provides laser drive schedules for the Rydberg dynamics.
//
// A [Schedule] implements [dynamo.Controller]: each named [Channel] supplies
// one entry of the control vector, a Rabi angular frequency in rad/s. The
// ladder systems expect two channels, probe then couple.
//
//   - [Square]: on at Peak during [Delay, Delay+Duration), off otherwise,
//     followed by Hold of free evolution
//   - [Constant]: continuous-wave drive
//
// # Usage
//
//	probe := &control.Square{Delay: 10e-9, Duration: 200e-9, Hold: 50e-9, Peak: omega1}
//	sched := control.NewProbe(probe, omega2)
//	sim := dynamo.New(sys, integ, sched)
//	result, _ := sim.Run(ctx, x0, dynamo.Config{Dt: 1e-10, Duration: sched.End()})
//
// Schedules implement [dynamo.Scheduled] so pulse edges fall on step
// boundaries, and [dynamo.Configurable] for parameter sweeps.
package control
