// Package atom provides single-valence-electron atomic data and the derived
// quantities needed to drive optical and Rydberg transitions: level energies,
// dipole matrix elements, Rabi frequencies, spontaneous and black-body
// transition rates, lifetimes, hyperfine shifts and saturation intensities.
//
// Energies of low-lying levels come from tabulated spectroscopic data; all
// other levels use the Rydberg-Ritz quantum-defect expansion. Radial matrix
// elements are computed by Numerov integration in the model core potential
// (see package numerov) and memoised in memory, optionally backed by an
// [ElementCache]. The model potential is poor close to the core, so the
// lowest S-P pairs use measured reduced elements instead
// ([Atom.LiteratureElement]).
//
// Angular momenta are float64 so half-integers can be written directly.
// Unless stated otherwise matrix elements are in units of e·a0, energies
// in eV and frequencies in Hz.
package atom
