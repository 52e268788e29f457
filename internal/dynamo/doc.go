// Package dynamo provides the simulation primitives used to propagate
// driven quantum systems in time.
//
// The package defines the fundamental interfaces and types for numerical
// integration of ordinary differential equations dX/dt = f(X, u, t):
//
//   - [State]: flat real vector (complex amplitudes packed as Re, Im pairs)
//   - [System]: the right-hand side f
//   - [Integrator]: fixed-step scheme; [AdaptiveIntegrator] adds error control
//   - [Controller]: time-dependent drive u(t), e.g. laser pulse schedules
//   - [Simulator]: orchestrates a run and collects a [Result]
//   - [Stepper]: the same loop, one step per call, for interactive views
//
// Controllers that switch discontinuously may implement [Scheduled]; the
// simulator then never steps across a switching time.
//
// # Example
//
//	sys, _ := physics.NewUnitaryRydberg(3, delta, delta2)
//	s := dynamo.New(sys, integrators.NewRK4(), pulses)
//	result, _ := s.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Parameter sweeps build one
// simulator per goroutine.
package dynamo
