package numerov

import "math"

// fineStructure is α, used by the spin-orbit term.
const fineStructure = 7.2973525693e-3

// Potential is the effective one-electron potential in hartree at radius r (bohr).
type Potential interface {
	V(r float64, l int, j float64) float64
	// CoreRadius bounds the region where divergence of the inward solution is
	// tolerated and truncated.
	CoreRadius() float64
}

type Coulomb struct {
	Z float64
}

func (c Coulomb) V(r float64, l int, j float64) float64 {
	return -c.Z / r
}

func (c Coulomb) CoreRadius() float64 { return 0 }

// CoreParams are the per-l parameters of the parametric model potential
// Z_l(r) = 1 + (Z-1)exp(-a1 r) - r(a3 + a4 r)exp(-a2 r).
type CoreParams struct {
	A1, A2, A3, A4 float64
	Rc             float64
}

// ModelPotential is the l-dependent parametric core potential for alkali
// atoms. Params is indexed by l; orbitals beyond the table use the last entry.
type ModelPotential struct {
	Z         float64
	AlphaC    float64
	Params    []CoreParams
	SpinOrbit bool
}

func (m ModelPotential) params(l int) CoreParams {
	if l < len(m.Params) {
		return m.Params[l]
	}
	return m.Params[len(m.Params)-1]
}

func (m ModelPotential) V(r float64, l int, j float64) float64 {
	p := m.params(l)
	zl := 1 + (m.Z-1)*math.Exp(-p.A1*r) - r*(p.A3+p.A4*r)*math.Exp(-p.A2*r)
	v := -zl/r - m.AlphaC/(2*math.Pow(r, 4))*(1-math.Exp(-math.Pow(r/p.Rc, 6)))

	if m.SpinOrbit && l > 0 {
		const s = 0.5
		ls := j*(j+1) - float64(l*(l+1)) - s*(s+1)
		v += fineStructure * fineStructure / (4 * r * r * r) * ls
	}
	return v
}

func (m ModelPotential) CoreRadius() float64 {
	return math.Cbrt(m.AlphaC)
}
