package transition

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mmwave/internal/atom"
	"github.com/san-kum/mmwave/internal/units"
)

// shared so wavefunctions and radial elements are computed once
var cs = atom.Cesium(atom.WithStep(0.01))

func newDefault(t *testing.T) *Rydberg {
	t.Helper()
	r, err := NewRydberg(cs, DefaultParams())
	require.NoError(t, err)
	return r
}

func ptr(v float64) *float64 { return &v }

func TestNewRydbergValidates(t *testing.T) {
	p := DefaultParams()
	p.Rydberg = atom.Level{N: 47, L: 2, J: 3.5}
	_, err := NewRydberg(cs, p)
	assert.ErrorIs(t, err, atom.ErrUnknownLevel)

	p = DefaultParams()
	p.Waist = 0
	_, err = NewRydberg(cs, p)
	assert.ErrorIs(t, err, units.ErrNonPositive)

	p = DefaultParams()
	p.Q2 = 2
	_, err = NewRydberg(cs, p)
	assert.ErrorIs(t, err, atom.ErrSelectionRule)
}

func TestTransitionFrequencies(t *testing.T) {
	r := newDefault(t)

	bare, err := cs.TransitionFrequency(r.Ground, r.Intermediate)
	require.NoError(t, err)
	e, err := r.ETransitionFreq()
	require.NoError(t, err)
	assert.InDelta(t, -4021.776e6+87.176e6, e-bare, 1e5)

	rf, err := r.RTransitionFreq()
	require.NoError(t, err)
	lambda, err := units.Freq2Wavelength(rf)
	require.NoError(t, err)
	assert.InDelta(t, 1063.3e-9, lambda, 3e-9)
}

func TestRabiScalesWithSqrtPower(t *testing.T) {
	r := newDefault(t)
	w1, err := r.ERabiAngularFreq(1e-3)
	require.NoError(t, err)
	w4, err := r.ERabiAngularFreq(4e-3)
	require.NoError(t, err)
	assert.InEpsilon(t, 2*w1, w4, 1e-9)

	c1, err := r.RRabiAngularFreq(1)
	require.NoError(t, err)
	assert.Greater(t, c1, 0.0)
	// the Rydberg leg is far weaker per watt
	assert.Less(t, c1, w1*math.Sqrt(1000))
}

func TestBalancedLaserPower(t *testing.T) {
	r := newDefault(t)

	couple, err := r.BalancedLaserPower(ptr(10e-3), nil)
	require.NoError(t, err)
	want, err := r.ERabiAngularFreq(10e-3)
	require.NoError(t, err)
	got, err := r.RRabiAngularFreq(couple)
	require.NoError(t, err)
	assert.InEpsilon(t, want, got, 1e-9)

	probe, err := r.BalancedLaserPower(nil, &couple)
	require.NoError(t, err)
	assert.InEpsilon(t, 10e-3, probe, 1e-9)

	_, err = r.BalancedLaserPower(nil, nil)
	assert.ErrorIs(t, err, ErrAmbiguousPowers)
	_, err = r.BalancedLaserPower(ptr(1e-3), ptr(1))
	assert.ErrorIs(t, err, ErrAmbiguousPowers)
}

func TestOptimalDetuning(t *testing.T) {
	r := newDefault(t)

	d, err := r.OptimalDetuning(DetuningInput{
		ProbeRabi: ptr(3), CoupleRabi: ptr(4), Gamma2: ptr(2), Gamma3: ptr(1),
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, d, 1e-12)

	_, err = r.OptimalDetuning(DetuningInput{ProbePower: ptr(1e-3), CoupleRabi: ptr(1)})
	assert.ErrorIs(t, err, ErrMissingDrive)
}

func TestLinewidths(t *testing.T) {
	r := newDefault(t)
	g2, err := r.ELinewidth()
	require.NoError(t, err)
	g3, err := r.RLinewidth()
	require.NoError(t, err)

	// measured 7P3/2 lifetime is about 134 ns
	assert.InEpsilon(t, 1/134e-9, g2, 0.08)
	// 47D5/2 at 300 K lives about 40 µs
	assert.InEpsilon(t, 1/40.4e-6, g3, 0.15)
	assert.Equal(t, DefaultTemperature, r.Temperature())
}

func TestLinewidthTemperature(t *testing.T) {
	r := newDefault(t)
	cold, err := r.RLinewidthAt(0)
	require.NoError(t, err)
	warm, err := r.RLinewidthAt(300)
	require.NoError(t, err)
	// black-body transfer dominates the Rydberg width at room temperature
	assert.Greater(t, warm/cold, 1.3)

	c, err := NewRydberg(cs, DefaultParams(), WithTemperature(0))
	require.NoError(t, err)
	assert.Zero(t, c.Temperature())
	g3, err := c.RLinewidth()
	require.NoError(t, err)
	assert.Equal(t, cold, g3)

	// the 7P3/2 width is set by spontaneous decay at either temperature
	e0, err := r.ELinewidthAt(0)
	require.NoError(t, err)
	e300, err := r.ELinewidthAt(300)
	require.NoError(t, err)
	assert.InEpsilon(t, e0, e300, 0.05)
}

func TestRabiReference(t *testing.T) {
	r := newDefault(t)
	// 1 mW in a 25 µm waist on 6S1/2 -> 7P3/2 with the measured 0.574 e a0 element
	w1, err := r.ERabiAngularFreq(1e-3)
	require.NoError(t, err)
	assert.InEpsilon(t, 6.39e8, w1, 0.02)

	w2, err := r.RRabiAngularFreq(1)
	require.NoError(t, err)
	assert.InEpsilon(t, 2.92e9, w2, 0.05)

	d, err := cs.ReducedMatrixElementJ(atom.Level{N: 6, L: 0, J: 0.5}, atom.Level{N: 7, L: 1, J: 1.5})
	require.NoError(t, err)
	assert.InEpsilon(t, 0.576, math.Abs(d), 0.01)
}

func TestTotalRabiAndPiPulse(t *testing.T) {
	r := newDefault(t)
	w1, err := r.ERabiAngularFreq(10e-3)
	require.NoError(t, err)
	w2, err := r.RRabiAngularFreq(2)
	require.NoError(t, err)

	res, err := r.TotalRabiAngularFreq(10e-3, 2, true)
	require.NoError(t, err)
	assert.InEpsilon(t, 0.5*math.Hypot(w1, w2), res, 1e-12)

	off, err := r.TotalRabiAngularFreq(10e-3, 2, false)
	require.NoError(t, err)
	delta0, err := r.OptimalDetuning(DetuningInput{ProbeRabi: &w1, CoupleRabi: &w2})
	require.NoError(t, err)
	assert.InEpsilon(t, w1*w2/(2*delta0), off, 1e-12)

	tau, err := r.PiPulseDuration(10e-3, 2, false)
	require.NoError(t, err)
	assert.InEpsilon(t, math.Pi/off, tau, 1e-12)

	det, err := r.PiDetuning(10e-3, 2, tau)
	require.NoError(t, err)
	assert.InEpsilon(t, tau/(2*math.Pi)*w1*w2, det, 1e-12)
}

func TestStarkShiftsAgreeInPerturbativeLimit(t *testing.T) {
	r := newDefault(t)
	pert, err := r.DiffRydACStark(10e-3, 0)
	require.NoError(t, err)
	exact, err := r.BinDiffRydACStark(10e-3, 0)
	require.NoError(t, err)

	assert.Greater(t, pert, 0.0)
	assert.InEpsilon(t, pert, exact, 0.02)
	assert.Less(t, exact, pert)
}

func TestTweezerStarkShift(t *testing.T) {
	r := newDefault(t)
	rep, err := r.TweezerStark(10e-3)
	require.NoError(t, err)
	assert.Greater(t, rep.Detuning, 0.0)
	assert.InDelta(t, rep.Transition-rep.Tweezer, rep.Detuning, 1)
	assert.Greater(t, rep.StarkShift, 0.0)
}

func TestFastLookup(t *testing.T) {
	r := newDefault(t)
	direct, err := r.ERabiAngularFreq(50e-3)
	require.NoError(t, err)

	require.NoError(t, r.InitFastLookup())
	require.True(t, r.HasLookup())

	fast, err := r.ERabiAngularFreq(50e-3)
	require.NoError(t, err)
	assert.InEpsilon(t, direct, fast, 1e-3)

	_, err = r.ERabiAngularFreq(0.2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = r.RRabiAngularFreq(11)
	assert.ErrorIs(t, err, ErrOutOfRange)

	probe, err := r.ERabiAngularFreq(5e-3)
	require.NoError(t, err)
	couple, err := r.BalancedLaserPower(ptr(5e-3), nil)
	require.NoError(t, err)
	got, err := r.RRabiAngularFreq(couple)
	require.NoError(t, err)
	assert.InEpsilon(t, probe, got, 2e-2)
}

func TestSnapshotRoundTrip(t *testing.T) {
	r := newDefault(t)
	_, err := r.Snapshot()
	assert.ErrorIs(t, err, ErrNoLookup)

	require.NoError(t, r.InitFastLookup())
	snap, err := r.Snapshot()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, snap.Encode(&buf))
	decoded, err := DecodeSnapshot(&buf)
	require.NoError(t, err)

	fresh := newDefault(t)
	require.NoError(t, fresh.Restore(decoded))
	a, err := r.RRabiAngularFreq(3.3)
	require.NoError(t, err)
	b, err := fresh.RRabiAngularFreq(3.3)
	require.NoError(t, err)
	assert.InDelta(t, a, b, 1e-9*a)

	p := DefaultParams()
	p.Rydberg = atom.Level{N: 40, L: 0, J: 0.5}
	p.Q2 = -1
	other, err := NewRydberg(cs, p)
	require.NoError(t, err)
	assert.ErrorIs(t, other.Restore(decoded), ErrSnapshotMismatch)
}

func TestReports(t *testing.T) {
	r := newDefault(t)
	lr, err := r.LaserFrequencies(10e-3, 2, DefaultAOMProbe, DefaultAOMCouple)
	require.NoError(t, err)
	assert.InDelta(t, lr.OptimalDetuning, lr.OptimalProbeLaser-lr.ProbeLaser, 1)
	assert.InDelta(t, -lr.OptimalDetuning, lr.OptimalCoupleLaser-lr.CoupleLaser, 1)
	assert.Len(t, lr.Rows(), 13)

	sr, err := r.SaturationPowers()
	require.NoError(t, err)
	assert.Greater(t, sr.Probe, 0.0)
	assert.Greater(t, sr.Couple, 0.0)

	st, err := r.ACStarkShifts(10e-3, 2)
	require.NoError(t, err)
	assert.InDelta(t, st.Probe-st.Couple, st.Differential, 1e-6)
}

func TestOpticalLookup(t *testing.T) {
	o := NewOptical(cs)
	_, err := o.PowerFromRabi(1e6)
	assert.ErrorIs(t, err, ErrNoLookup)

	direct, err := o.RabiAngularFreq(20e-3)
	require.NoError(t, err)
	require.NoError(t, o.InitFastLookup(100e-3))

	p, err := o.PowerFromRabi(direct)
	require.NoError(t, err)
	assert.InEpsilon(t, 20e-3, p, 1e-2)
}
