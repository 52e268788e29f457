// Package numerov computes bound-state radial wavefunctions of a valence
// electron and the radial matrix elements between them.
//
// The radial equation u'' = [2(V-E) + l(l+1)/r²] u (atomic units) is solved
// on a uniform grid in x = sqrt(r) with w(x) = x^(-1/2) u(r), which turns it
// into the first-derivative-free form
//
//	w'' = G(x) w,  G = 8x²(V(x²) - E) + (2l+1/2)(2l+3/2)/x²
//
// suitable for Numerov's method. Integration runs inward from the classically
// forbidden outer region, where the decaying solution is the stable one, and
// stops at the inner radius or where the solution starts to diverge inside
// the ionic core.
//
// # Potentials
//
//   - [Coulomb]: hydrogenic -Z/r, exact eigenstates for tests
//   - [ModelPotential]: l-dependent core potential with core polarisation and
//     spin-orbit coupling for alkali atoms
package numerov
