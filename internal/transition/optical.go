package transition

import (
	"github.com/san-kum/mmwave/internal/atom"
)

// Optical is a single laser-driven transition between two fine-structure
// levels.
type Optical struct {
	atom *atom.Atom

	Waist   float64
	Lower   atom.Level
	LowerMJ float64
	Upper   atom.Level
	Q       int

	lookup *Lookup
}

// NewOptical returns the 6S1/2 mj=1/2 -> 7P3/2 transition with π polarisation
// and a 25 µm waist; fields may be changed before first use.
func NewOptical(a *atom.Atom) *Optical {
	return &Optical{
		atom:    a,
		Waist:   25e-6,
		Lower:   atom.Level{N: 6, L: 0, J: 0.5},
		LowerMJ: 0.5,
		Upper:   atom.Level{N: 7, L: 1, J: 1.5},
		Q:       0,
	}
}

func (o *Optical) direct(power float64) (float64, error) {
	return o.atom.RabiFrequency(o.Lower, o.LowerMJ, o.Upper, o.Q, power, o.Waist)
}

// InitFastLookup tabulates the Rabi frequency for powers up to maxPower (W).
func (o *Optical) InitFastLookup(maxPower float64) error {
	l, err := BuildLookup(maxPower, DefaultSamples, o.direct)
	if err != nil {
		return err
	}
	o.lookup = l
	return nil
}

// RabiAngularFreq returns the Rabi angular frequency (rad/s) at power (W).
func (o *Optical) RabiAngularFreq(power float64) (float64, error) {
	if o.lookup != nil {
		return o.lookup.RabiAt(power)
	}
	return o.direct(power)
}

// PowerFromRabi inverts RabiAngularFreq; it needs the fast lookup.
func (o *Optical) PowerFromRabi(omega float64) (float64, error) {
	if o.lookup == nil {
		return 0, ErrNoLookup
	}
	return o.lookup.PowerAt(omega)
}
