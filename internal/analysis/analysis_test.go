package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mmwave/internal/control"
	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/integrators"
	"github.com/san-kum/mmwave/internal/physics"
	"github.com/san-kum/mmwave/internal/qmath"
)

func TestPowerSpectrumPeak(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Cos(2*math.Pi*5*float64(i)/float64(n))
	}
	ps := PowerSpectrum(data)
	require.Len(t, ps, n/2+1)
	assert.InDelta(t, 0, ps[0], 1e-18*float64(n))
	for k, p := range ps {
		if k == 5 {
			assert.InDelta(t, float64(n*n)/4, p, 1e-9)
		} else {
			assert.InDelta(t, 0, p, 1e-9, "bin %d", k)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	dt := 1e-3
	f0 := 12.3
	data := make([]float64, 1000)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * f0 * float64(i) * dt)
	}
	f, err := DominantFrequency(data, dt)
	require.NoError(t, err)
	assert.InDelta(t, f0, f, 0.5)

	_, err = DominantFrequency(data[:2], dt)
	assert.ErrorIs(t, err, ErrShortSeries)
}

func TestRabiFrequencyFromSimulation(t *testing.T) {
	omega := 2 * math.Pi * 2e6
	sys, err := physics.NewUnitaryRydberg(2, 0, 0)
	require.NoError(t, err)

	dt := 1e-9
	probe := &control.Square{Duration: 5e-6, Peak: omega}
	ev, err := sys.ProbePulseUnitary(context.Background(), physics.GroundState(2), probe, 0, physics.PulseOptions{Dt: dt})
	require.NoError(t, err)

	est, err := RabiFrequencyEstimate(ev.Population(physics.Intermediate), dt)
	require.NoError(t, err)
	assert.InEpsilon(t, omega, est, 0.01)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, 1, 3, 2})
	assert.Equal(t, 4, s.N)
	assert.InDelta(t, 2.5, s.Mean, 1e-15)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-12)
	assert.Contains(t, []float64{2, 3}, s.Median)

	assert.Zero(t, Summarize(nil))
	assert.Zero(t, Summarize([]float64{7}).Std)
}

func TestScanDetuning(t *testing.T) {
	omega := 2 * math.Pi * 1e6
	sys, err := physics.NewUnitaryRydberg(2, 0, 0)
	require.NoError(t, err)
	probe := &control.Square{Duration: math.Pi / omega, Peak: omega}
	sched := control.NewSchedule().Add("probe", probe)
	sim := dynamo.New(sys, integrators.NewRK4(), sched)

	detunings := []float64{-4 * omega, 0, 4 * omega}
	x0 := qmath.PackDensity(physics.GroundDensity(2))
	cfg := dynamo.Config{Dt: 1e-9, Duration: sched.End()}

	points, err := Scan(context.Background(), sim, "delta", detunings, x0, cfg, FinalPopulation(physics.Intermediate, 2))
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 1, points[1].Value, 1e-6)
	assert.Less(t, points[0].Value, 0.2)
	assert.InDelta(t, points[0].Value, points[2].Value, 1e-6)
	assert.Zero(t, sys.Delta)

	_, err = Scan(context.Background(), sim, "nope", detunings, x0, cfg, FinalPopulation(0, 2))
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestBlochVector(t *testing.T) {
	plus := qmath.Outer([]complex128{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)})
	b := BlochVector(qmath.PackDensity(plus), 2, 0, 1)
	assert.InDelta(t, 1, b.U, 1e-12)
	assert.InDelta(t, 0, b.V, 1e-12)
	assert.InDelta(t, 0, b.W, 1e-12)
	assert.InDelta(t, 1, b.Length(), 1e-12)

	mixed := qmath.PackDensity(qmath.Diagonal([]complex128{0.5, 0.5}))
	traj := BlochTrajectory([]dynamo.State{mixed, qmath.PackDensity(qmath.Outer(qmath.Basis(2, 1)))}, 2, 0, 1)
	assert.InDelta(t, 0, traj[0].Length(), 1e-12)
	assert.InDelta(t, 1, traj[1].W, 1e-12)
}
