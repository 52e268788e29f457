// Package spinchain builds spin-1/2 chain Hamiltonians from interaction
// terms and compares them.
//
// A [Graph] expands [Term]s such as {"xx", J, NearestNeighbor} or
// {"z", h, OnSite} over the sites of a chain; strengths may depend on time
// and site. [Hamiltonian] assembles the dense matrix, and a [Diagonalizer]
// gives spectra and Floquet effective Hamiltonians of pulse sequences.
// [FrobeniusLoss] and [NormIdentityLoss] score how close an engineered
// Hamiltonian is to a target.
//
// Example:
//
//	g, _ := spinchain.FromInteractions(4, []spinchain.Term{
//		{Op: "xx", Strength: spinchain.Const(0.5), Range: spinchain.NearestNeighbor},
//		{Op: "yy", Strength: spinchain.Const(0.5), Range: spinchain.NearestNeighbor},
//	}, true)
//	vals, _ := spinchain.NewDiagonalizer(g, log).Spectrum(0)
package spinchain
