package control

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mmwave/internal/dynamo"
)

func TestSquareWindow(t *testing.T) {
	s := &Square{Delay: 1, Duration: 2, Hold: 3, Peak: 5}

	tests := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{0.999, 0},
		{1, 5},
		{2.5, 5},
		{3, 0},
		{5.9, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Value(tt.t), "t=%v", tt.t)
	}
	assert.Equal(t, 6.0, s.End())
	assert.Equal(t, 10.0, s.Area())
	assert.Equal(t, []float64{1, 3}, s.Breakpoints())
}

func TestSquareValidate(t *testing.T) {
	assert.NoError(t, (&Square{Duration: 1}).Validate())
	assert.ErrorIs(t, (&Square{Delay: -1}).Validate(), ErrInvalidPulse)
}

func TestDuoSchedule(t *testing.T) {
	probe := &Square{Delay: 0, Duration: 1, Peak: 2}
	couple := &Square{Delay: 0.5, Duration: 2, Hold: 1, Peak: 3}
	s := NewDuo(probe, couple)

	assert.Equal(t, 2, s.Dim())
	assert.Equal(t, dynamo.Control{2, 0}, s.Compute(nil, 0.25))
	assert.Equal(t, dynamo.Control{2, 3}, s.Compute(nil, 0.75))
	assert.Equal(t, dynamo.Control{0, 3}, s.Compute(nil, 2))
	assert.Equal(t, 3.5, s.End())
	assert.ElementsMatch(t, []float64{0, 1, 0.5, 2.5}, s.Breakpoints())
}

func TestProbeScheduleParams(t *testing.T) {
	s := NewProbe(&Square{Duration: 1, Peak: 2}, 7)
	params := s.GetParams()
	assert.Equal(t, 7.0, params["couple"])
	assert.Equal(t, 2.0, params["probe_peak"])

	require.NoError(t, s.SetParam("probe_duration", 4))
	require.NoError(t, s.SetParam("couple", 9))
	assert.Equal(t, dynamo.Control{2, 9}, s.Compute(nil, 3.5))

	assert.Error(t, s.SetParam("probe_width", 1))
	assert.Error(t, s.SetParam("laser", 1))
	assert.ErrorIs(t, s.SetParam("probe_hold", -1), ErrInvalidPulse)
}

func TestSetParamRejectedKeepsPulse(t *testing.T) {
	probe := &Square{Delay: 1, Duration: 2, Hold: 0.5, Peak: 3}
	s := NewProbe(probe, 7)

	assert.ErrorIs(t, s.SetParam("probe_delay", -4), ErrInvalidPulse)
	assert.ErrorIs(t, s.SetParam("probe_duration", -1), ErrInvalidPulse)
	assert.Equal(t, Square{Delay: 1, Duration: 2, Hold: 0.5, Peak: 3}, *probe)
	assert.Equal(t, dynamo.Control{3, 7}, s.Compute(nil, 2))
	assert.Equal(t, 3.5, s.End())
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewProbe(&Square{Duration: 1, Peak: 2}, 7)
	c := s.Clone()
	require.NoError(t, c.SetParam("probe_peak", 100))
	assert.Equal(t, 2.0, s.GetParams()["probe_peak"])
	assert.Equal(t, 100.0, c.GetParams()["probe_peak"])
}

// integral accumulates dx/dt = u[0].
type integral struct{}

func (integral) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{u[0]}
}
func (integral) StateDim() int   { return 1 }
func (integral) ControlDim() int { return 2 }

type euler struct{}

func (euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	return dynamo.State{x[0] + dt*dyn.Derive(x, u, t)[0]}
}

func TestScheduleDrivesSimulator(t *testing.T) {
	probe := &Square{Delay: 0.13, Duration: 0.37, Hold: 0.2, Peak: math.Pi}
	s := NewProbe(probe, 0)

	sim := dynamo.New(integral{}, euler{}, s)
	res, err := sim.Run(context.Background(), dynamo.State{0}, dynamo.Config{Dt: 0.1, Duration: s.End()})
	require.NoError(t, err)
	assert.InDelta(t, probe.Area(), res.Final()[0], 1e-12)
}
