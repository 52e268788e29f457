package physics

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mmwave/internal/control"
	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/integrators"
	"github.com/san-kum/mmwave/internal/qmath"
)

const omega = 2 * math.Pi * 1e6

var _ = Describe("Hamiltonian", func() {
	It("builds the ladder in the rotating frame", func() {
		h := Hamiltonian(2, 4, 3, 5)
		Expect(h.IsHermitian(0)).To(BeTrue())
		Expect(h.At(0, 1)).To(Equal(complex(1, 0)))
		Expect(h.At(1, 2)).To(Equal(complex(2, 0)))
		Expect(h.At(1, 1)).To(Equal(complex(-3, 0)))
		Expect(h.At(2, 2)).To(Equal(complex(-5, 0)))
		Expect(h.At(0, 2)).To(BeZero())
	})

	It("drops the Rydberg level in the two-level form", func() {
		h := Hamiltonian2(2, 3)
		Expect(h.Dim()).To(Equal(2))
		Expect(h.At(1, 0)).To(Equal(complex(1, 0)))
		Expect(h.At(1, 1)).To(Equal(complex(-3, 0)))
	})

	It("evaluates arrays pairwise", func() {
		hs, err := HamiltonianArray([]float64{1, 2}, []float64{3, 4}, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(hs).To(HaveLen(2))
		Expect(hs[1].At(0, 1)).To(Equal(complex(1, 0)))

		_, err = HamiltonianArray([]float64{1}, nil, 0, 0)
		Expect(err).To(MatchError(ErrArrayShape))
	})

	It("conserves trace in the von Neumann derivative", func() {
		rho := qmath.Outer([]complex128{0.6, 0.8i, 0})
		d := ComputeDotRho(rho, Hamiltonian(1, 2, 3, 4))
		Expect(real(d.Trace())).To(BeNumerically("~", 0, 1e-15))
		Expect(d.Scale(1i).IsHermitian(1e-12)).To(BeTrue())
	})

	It("moves population down the ladder in the dissipator", func() {
		rho := qmath.Outer(qmath.Basis(3, Rydberg))
		d := ComputeLindbladDotRho(rho, qmath.New(3), 2, 7)
		Expect(real(d.At(2, 2))).To(BeNumerically("~", -7, 1e-12))
		Expect(real(d.At(1, 1))).To(BeNumerically("~", 7, 1e-12))
		Expect(real(d.At(0, 0))).To(BeZero())
	})
})

var _ = Describe("EvolveState", func() {
	It("performs a resonant π rotation", func() {
		psi, err := EvolveState(GroundState(2), Hamiltonian2(omega, 0), math.Pi/omega)
		Expect(err).NotTo(HaveOccurred())
		Expect(real(psi[1])*real(psi[1]) + imag(psi[1])*imag(psi[1])).To(BeNumerically("~", 1, 1e-9))
	})

	It("rejects mismatched dimensions", func() {
		_, err := EvolveState(GroundState(3), Hamiltonian2(1, 0), 1)
		Expect(err).To(MatchError(qmath.ErrDimension))
	})
})

var _ = Describe("UnitaryRydberg", func() {
	ctx := context.Background()

	It("validates the level count", func() {
		_, err := NewUnitaryRydberg(4, 0, 0)
		Expect(err).To(MatchError(ErrLevels))
	})

	It("follows sin² Rabi oscillations in a two-level atom", func() {
		sys, err := NewUnitaryRydberg(2, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		probe := &control.Square{Duration: 0.75 / 1e6, Peak: omega}

		ev, err := sys.ProbePulseUnitary(ctx, GroundState(2), probe, 0, PulseOptions{Dt: 1e-9})
		Expect(err).NotTo(HaveOccurred())
		pe := ev.Population(Intermediate)
		for k, t := range ev.Times {
			s := math.Sin(omega * t / 2)
			Expect(pe[k]).To(BeNumerically("~", s*s, 1e-9))
		}
		Expect(ev.InvariantDrift).To(BeNumerically("<", 1e-10))
	})

	It("transfers to the Rydberg level with equal resonant drives", func() {
		sys, _ := NewUnitaryRydberg(3, 0, 0)
		probe := &control.Square{Duration: math.Sqrt2 * math.Pi / omega, Peak: omega}

		ev, err := sys.ProbePulseUnitary(ctx, GroundState(3), probe, omega, PulseOptions{Dt: 1e-9})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.FinalPopulations()[Rydberg]).To(BeNumerically("~", 1, 1e-9))
	})

	It("agrees between exact propagation and the von Neumann equation", func() {
		sys, _ := NewUnitaryRydberg(3, 2*math.Pi*3e6, 2*math.Pi*0.2e6)
		probe := &control.Square{Delay: 50e-9, Duration: 400e-9, Hold: 100e-9, Peak: omega}
		opts := PulseOptions{Dt: 2e-10}

		exact, err := sys.ProbePulseUnitary(ctx, GroundState(3), probe, 1.5*omega, opts)
		Expect(err).NotTo(HaveOccurred())
		neumann, err := sys.ProbePulseNeumann(ctx, GroundDensity(3), probe, 1.5*omega, opts)
		Expect(err).NotTo(HaveOccurred())

		Expect(neumann.Final()).To(HaveLen(18))
		want := exact.FinalPopulations()
		got := neumann.FinalPopulations()
		for i := range want {
			Expect(got[i]).To(BeNumerically("~", want[i], 1e-8))
		}
		Expect(neumann.Times[len(neumann.Times)-1]).To(BeNumerically("~", probe.End(), 1e-15))
	})

	It("leaves populations alone outside the pulse", func() {
		sys, _ := NewUnitaryRydberg(2, 2*math.Pi*1e6, 0)
		probe := &control.Square{Delay: 100e-9, Duration: 200e-9, Hold: 300e-9, Peak: omega}

		ev, err := sys.ProbePulseUnitary(ctx, GroundState(2), probe, 0, PulseOptions{Dt: 1e-9})
		Expect(err).NotTo(HaveOccurred())
		pe := ev.Population(Intermediate)
		var during, after []float64
		for k, t := range ev.Times {
			switch {
			case t <= probe.Delay:
				Expect(pe[k]).To(BeNumerically("~", 0, 1e-12))
			case t >= probe.Delay+probe.Duration:
				after = append(after, pe[k])
			default:
				during = append(during, pe[k])
			}
		}
		Expect(during).NotTo(BeEmpty())
		for _, p := range after {
			Expect(p).To(BeNumerically("~", after[0], 1e-12))
		}
	})

	It("honours an explicit evolve time", func() {
		sys, _ := NewUnitaryRydberg(2, 0, 0)
		probe := &control.Square{Duration: 10e-9, Peak: omega}
		ev, err := sys.ProbePulseUnitary(ctx, GroundState(2), probe, 0, PulseOptions{Dt: 1e-9, EvolveTime: 50e-9})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Times[len(ev.Times)-1]).To(BeNumerically("~", 50e-9, 1e-18))
	})

	It("rejects a state of the wrong size", func() {
		sys, _ := NewUnitaryRydberg(3, 0, 0)
		probe := &control.Square{Duration: 1e-9}
		_, err := sys.ProbePulseUnitary(ctx, GroundState(2), probe, 0, PulseOptions{})
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		_, err = sys.ProbePulseNeumann(ctx, GroundDensity(2), probe, 0, PulseOptions{})
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("rejects an empty window", func() {
		sys, _ := NewUnitaryRydberg(2, 0, 0)
		_, err := sys.ProbePulseUnitary(ctx, GroundState(2), &control.Square{}, 0, PulseOptions{})
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("stops on cancellation", func() {
		sys, _ := NewUnitaryRydberg(3, 0, 0)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := sys.ProbePulseNeumann(cctx, GroundDensity(3), &control.Square{Duration: 1e-6, Peak: omega}, omega, PulseOptions{})
		Expect(err).To(MatchError(context.Canceled))
	})

	It("exposes detunings as parameters", func() {
		sys, _ := NewUnitaryRydberg(3, 1, 2)
		Expect(sys.GetParams()).To(HaveKeyWithValue("delta2", 2.0))
		Expect(sys.SetParam("delta", 5)).To(Succeed())
		Expect(sys.Delta).To(Equal(5.0))
		Expect(sys.SetParam("gamma", 1)).To(MatchError(dynamo.ErrInvalidConfig))
	})
})

var _ = Describe("LossyRydberg", func() {
	ctx := context.Background()

	It("validates decay rates", func() {
		_, err := NewLossyRydberg(3, 0, 0, -1, 0)
		Expect(err).To(MatchError(ErrRate))
		sys, _ := NewLossyRydberg(3, 0, 0, 1, 1)
		Expect(sys.SetParam("gamma3", -2)).To(MatchError(ErrRate))
		Expect(sys.SetParam("gamma3", 2)).To(Succeed())
		Expect(sys.GetParams()).To(HaveKeyWithValue("gamma3", 2.0))
	})

	It("matches unitary evolution without decay", func() {
		lossy, _ := NewLossyRydberg(3, 2*math.Pi*2e6, 0, 0, 0)
		unitary, _ := NewUnitaryRydberg(3, 2*math.Pi*2e6, 0)
		probe := &control.Square{Duration: 300e-9, Hold: 50e-9, Peak: omega}
		opts := PulseOptions{Dt: 1e-9}

		a, err := lossy.ProbePulseLindblad(ctx, GroundDensity(3), probe, omega, opts)
		Expect(err).NotTo(HaveOccurred())
		b, err := unitary.ProbePulseNeumann(ctx, GroundDensity(3), probe, omega, opts)
		Expect(err).NotTo(HaveOccurred())
		for i := range a.Final() {
			Expect(a.Final()[i]).To(BeNumerically("~", b.Final()[i], 1e-12))
		}
	})

	It("decays the intermediate level exponentially", func() {
		gamma := 1e7
		sys, _ := NewLossyRydberg(3, 0, 0, gamma, 0)
		rho0 := qmath.Outer(qmath.Basis(3, Intermediate))
		hold := &control.Square{Hold: 100e-9}

		ev, err := sys.ProbePulseLindblad(ctx, rho0, hold, 0, PulseOptions{Dt: 1e-10})
		Expect(err).NotTo(HaveOccurred())
		pops := ev.FinalPopulations()
		Expect(pops[Intermediate]).To(BeNumerically("~", math.Exp(-1), 1e-9))
		Expect(pops[Ground]).To(BeNumerically("~", 1-math.Exp(-1), 1e-9))
	})

	It("cascades Rydberg decay through the intermediate level", func() {
		sys, _ := NewLossyRydberg(3, 0, 0, 0, 1e7)
		rho0 := qmath.Outer(qmath.Basis(3, Rydberg))

		ev, err := sys.ProbePulseLindblad(ctx, rho0, &control.Square{Hold: 200e-9}, 0, PulseOptions{Dt: 1e-10})
		Expect(err).NotTo(HaveOccurred())
		pops := ev.FinalPopulations()
		Expect(pops[Rydberg]).To(BeNumerically("~", math.Exp(-2), 1e-9))
		Expect(pops[Intermediate]).To(BeNumerically("~", 1-math.Exp(-2), 1e-9))
	})

	It("keeps ρ a physical density matrix under drive and decay", func() {
		sys, _ := NewLossyRydberg(3, 2*math.Pi*1e6, 2*math.Pi*0.1e6, 2*math.Pi*1e6, 2*math.Pi*5e3)
		probe := &control.Square{Delay: 20e-9, Duration: 500e-9, Hold: 200e-9, Peak: 2 * omega}

		ev, err := sys.ProbePulseLindblad(ctx, GroundDensity(3), probe, 3*omega, PulseOptions{Dt: 1e-9, RecordEvery: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.InvariantDrift).To(BeNumerically("<", 1e-10))
		for k := range ev.States {
			rho, err := ev.DensityAt(k)
			Expect(err).NotTo(HaveOccurred())
			Expect(rho.IsHermitian(1e-10)).To(BeTrue())
			for _, p := range ev.Populations()[k] {
				Expect(p).To(BeNumerically(">=", -1e-9))
				Expect(p).To(BeNumerically("<=", 1+1e-9))
			}
		}
	})

	It("climbs the ladder with sequential π pulses", func() {
		sys, _ := NewLossyRydberg(3, 0, 0, 0, 0)
		tpi := math.Pi / omega
		probe := &control.Square{Duration: tpi, Peak: omega}
		couple := &control.Square{Delay: tpi, Duration: tpi, Peak: omega}

		ev, err := sys.DuoPulseLindblad(ctx, GroundDensity(3), probe, couple, PulseOptions{Dt: 1e-9})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.FinalPopulations()[Rydberg]).To(BeNumerically("~", 1, 1e-8))
	})

	It("integrates adaptively", func() {
		sys, _ := NewLossyRydberg(3, 0, 0, 1e6, 0)
		probe := &control.Square{Duration: 1e-6, Peak: omega}
		ev, err := sys.ProbePulseLindblad(ctx, GroundDensity(3), probe, 0, PulseOptions{Dt: 1e-9, Adaptive: true, Tolerance: 1e-10})
		Expect(err).NotTo(HaveOccurred())
		fixed, err := sys.ProbePulseLindblad(ctx, GroundDensity(3), probe, 0, PulseOptions{Dt: 1e-9, Integrator: integrators.NewRK4()})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.FinalPopulations()[Intermediate]).To(BeNumerically("~", fixed.FinalPopulations()[Intermediate], 1e-7))
	})

	It("needs three levels for duo pulses", func() {
		sys, _ := NewLossyRydberg(2, 0, 0, 0, 0)
		_, err := sys.DuoPulseLindblad(ctx, GroundDensity(2), &control.Square{}, &control.Square{}, PulseOptions{})
		Expect(err).To(MatchError(ErrLevels))
	})
})

var _ = Describe("Propagator", func() {
	It("reuses the operator while the drive is unchanged", func() {
		sys, _ := NewUnitaryRydberg(2, 0, 0)
		p := NewPropagator()
		x := qmath.PackVector(GroundState(2))

		x = p.Step(StateVector{sys}, x, dynamo.Control{omega}, 0, 1e-9)
		first := p.op
		p.Step(StateVector{sys}, x, dynamo.Control{omega}, 1e-9, 1e-9)
		Expect(p.op).To(BeIdenticalTo(first))
		p.Step(StateVector{sys}, x, dynamo.Control{2 * omega}, 2e-9, 1e-9)
		Expect(p.op).NotTo(BeIdenticalTo(first))
	})

	It("flags malformed state vectors", func() {
		sys, _ := NewUnitaryRydberg(3, 0, 0)
		for _, x := range []dynamo.State{{1, 0, 0}, {1, 0, 0, 0}} {
			dx := StateVector{sys}.Derive(x, dynamo.Control{omega, omega}, 0)
			Expect(dx).To(HaveLen(len(x)))
			Expect(dx.IsValid()).To(BeFalse())
		}
	})

	It("flags systems without a Hamiltonian", func() {
		p := NewPropagator()
		x := p.Step(nil, dynamo.State{1, 0}, nil, 0, 1)
		Expect(dynamo.State(x).IsValid()).To(BeFalse())
	})

	It("gives coherences of state vectors", func() {
		ev := &Evolution{Result: &dynamo.Result{States: []dynamo.State{qmath.PackVector([]complex128{complex(1/math.Sqrt2, 0), complex(0, 1/math.Sqrt2)})}}, Levels: 2, Vector: true}
		c := ev.Coherence(0, 1)
		Expect(real(c[0])).To(BeNumerically("~", 0, 1e-15))
		Expect(imag(c[0])).To(BeNumerically("~", -0.5, 1e-15))
	})
})
