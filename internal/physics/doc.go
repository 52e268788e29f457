// Package physics models laser-driven ladder atoms in the rotating frame.
//
// The basis is |g>, |e>, |r> (ground, intermediate, Rydberg) and ħ = 1, so
// energies are angular frequencies in rad/s. With probe Rabi frequency Ω12,
// couple Rabi frequency Ω23, intermediate detuning Δ and two-photon
// detuning δ the Hamiltonian is
//
//	H = [[0,     Ω12/2, 0    ],
//	     [Ω12/2, -Δ,    Ω23/2],
//	     [0,     Ω23/2, -δ   ]]
//
// and the two-level variant keeps the upper-left block.
//
// Systems implement [dynamo.System] on packed density matrices (see
// [qmath.PackDensity]) and read Ω12, Ω23 from the control vector, so any
// [control.Schedule] can drive them:
//
//   - [UnitaryRydberg]: von Neumann equation dρ/dt = -i[H, ρ]
//   - [LossyRydberg]: Lindblad equation with decay |e>→|g> at γ2 and
//     |r>→|e> at γ3
//
// Both implement [dynamo.Invariant] with the trace of ρ.
//
// # Pulses
//
// The pulse runners wrap a [dynamo.Simulator]:
//
//	sys := physics.NewUnitaryRydberg(3, delta, 0)
//	probe := &control.Square{Duration: 100e-9, Peak: omega12}
//	ev, err := sys.ProbePulseUnitary(ctx, physics.GroundState(3), probe, omega23, physics.PulseOptions{})
//	pr := ev.Population(physics.Rydberg)
//
// ProbePulseUnitary uses the exact [Propagator]; the Neumann and Lindblad
// runners integrate with RK4 unless another integrator is given.
package physics
