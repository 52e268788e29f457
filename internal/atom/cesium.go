package atom

import "github.com/san-kum/mmwave/internal/numerov"

var (
	cs6S  = Level{N: 6, L: 0, J: 0.5}
	cs7S  = Level{N: 7, L: 0, J: 0.5}
	cs6P1 = Level{N: 6, L: 1, J: 0.5}
	cs6P3 = Level{N: 6, L: 1, J: 1.5}
	cs7P1 = Level{N: 7, L: 1, J: 0.5}
	cs7P3 = Level{N: 7, L: 1, J: 1.5}
)

// Cesium returns caesium-133 with spectroscopic data, measured dipole
// elements of the lowest S-P pairs and the Marinescu model potential.
func Cesium(opts ...Option) *Atom {
	a := &Atom{
		Name:             "Cs133",
		Z:                55,
		I:                3.5,
		IonisationEnergy: 31406.4677325,
		RydbergConstant:  109736.862733,
		groundN:          []int{6, 6, 5, 4, 5},
		defects: map[fineKey][]float64{
			{0, 1}: {4.0493532, 0.2391, 0.06, 11, -209},
			{1, 1}: {3.5915871, 0.36273},
			{1, 3}: {3.5590676, 0.37469},
			{2, 3}: {2.4754562, 0.009320, -0.43498, -0.76358, -18.0061},
			{2, 5}: {2.4663144, 0.014964, -0.45828, -0.25489},
			{3, 5}: {0.03341424, -0.198674, 0.28953, -0.2601},
			{3, 7}: {0.033537, -0.191},
			{4, 7}: {0.00703865, -0.049252, 0.01291},
			{4, 9}: {0.00703865, -0.049252, 0.01291},
		},
		// cm^-1 above the ground level
		levels: map[levelKey]float64{
			{6, 0, 1}: 0,
			{7, 0, 1}: 18535.5286,
			{8, 0, 1}: 24317.149,
			{6, 1, 1}: 11178.26816,
			{6, 1, 3}: 11732.3071,
			{7, 1, 1}: 21765.348,
			{7, 1, 3}: 21946.397,
			{8, 1, 1}: 25709.11,
			{8, 1, 3}: 25791.508,
			{5, 2, 3}: 14499.2584,
			{5, 2, 5}: 14596.84232,
			{6, 2, 3}: 22588.821,
			{6, 2, 5}: 22631.6863,
			{7, 2, 3}: 26047.83,
			{7, 2, 5}: 26068.77,
			{4, 3, 5}: 24472.0,
			{4, 3, 7}: 24472.0,
		},
		// A and B in Hz
		hfs: map[levelKey][2]float64{
			{6, 0, 1}: {2298.1579425e6, 0},
			{6, 1, 1}: {291.9309e6, 0},
			{6, 1, 3}: {50.28827e6, -0.4934e6},
			{7, 0, 1}: {545.90e6, 0},
			{7, 1, 1}: {94.35e6, 0},
			{7, 1, 3}: {16.605e6, -0.15e6},
		},
		literature: map[pairKey]float64{
			pair(cs6S, cs6P1): 4.5097, // Patterson et al. 2015
			pair(cs6S, cs6P3): 6.3403,
			pair(cs6S, cs7P1): 0.27810, // Antypas and Elliott 2013
			pair(cs6S, cs7P3): 0.57417,
			pair(cs7S, cs6P1): 4.249, // Toh et al. 2019
			pair(cs7S, cs6P3): 6.489,
			pair(cs7S, cs7P1): 10.308, // Bennett et al. 1999
			pair(cs7S, cs7P3): 14.320,
		},
		potential: numerov.ModelPotential{
			Z:      55,
			AlphaC: 15.6440,
			Params: []numerov.CoreParams{
				{A1: 3.49546309, A2: 1.47533800, A3: -9.72143084, A4: 0.02629242, Rc: 1.92046930},
				{A1: 4.69366096, A2: 1.71398344, A3: -24.65624280, A4: -0.09543125, Rc: 2.13383095},
				{A1: 4.32466196, A2: 1.61365288, A3: -6.70128850, A4: -0.74095193, Rc: 0.93007296},
				{A1: 3.01048361, A2: 1.40000001, A3: -3.20036138, A4: 0.00034538, Rc: 1.99969677},
			},
			SpinOrbit: true,
		},
	}
	a.init(opts)
	return a
}
