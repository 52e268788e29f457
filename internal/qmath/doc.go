// Package qmath holds the small dense complex linear algebra used by the
// quantum dynamics: square matrices, commutators, Hermitian
// eigendecomposition and exponentials, and the packing of density matrices
// and state vectors into flat real slices for ODE integrators.
//
// Hermitian eigenproblems are solved through the real symmetric embedding
//
//	H = A + iB  ->  M = [[A, -B], [B, A]]
//
// whose spectrum is that of H with every eigenvalue doubled.
package qmath
