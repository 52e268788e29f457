package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/qmath"
)

// PulseArea integrates |Ω(t)| of one control channel in rad. The control
// reported with a step is the one applied since the previous observation.
type PulseArea struct {
	name    string
	channel int
	sum     float64
	lastT   float64
	started bool
}

func NewPulseArea(channel int) *PulseArea {
	return &PulseArea{
		name:    fmt.Sprintf("pulse_area_%d", channel),
		channel: channel,
	}
}

func (a *PulseArea) Name() string {
	return a.name
}

func (a *PulseArea) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if a.started && a.channel < len(u) {
		a.sum += math.Abs(u[a.channel]) * (t - a.lastT)
	}
	a.lastT = t
	a.started = true
}

func (a *PulseArea) Value() float64 {
	return a.sum
}

func (a *PulseArea) Reset() {
	a.sum = 0
	a.lastT = 0
	a.started = false
}

// hamiltonian is implemented by the ladder systems.
type hamiltonian interface {
	HamiltonianAt(u dynamo.Control) *qmath.Matrix
}

// Energy is the time average of <H> = Tr(ρH) in rad/s over the
// observations.
type Energy struct {
	name    string
	dyn     hamiltonian
	levels  int
	total   float64
	samples int
}

func NewEnergy(dyn hamiltonian, levels int) *Energy {
	return &Energy{name: "energy", dyn: dyn, levels: levels}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	var rho *qmath.Matrix
	if len(x) == 2*e.levels {
		psi, err := qmath.UnpackVector(x)
		if err != nil {
			return
		}
		rho = qmath.Outer(psi)
	} else {
		var err error
		if rho, err = qmath.UnpackDensity(x, e.levels); err != nil {
			return
		}
	}
	e.total += real(rho.Mul(e.dyn.HamiltonianAt(u)).Trace())
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}
