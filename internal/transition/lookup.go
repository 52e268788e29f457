package transition

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

var (
	ErrOutOfRange = errors.New("transition: value outside lookup table")
	ErrNoLookup   = errors.New("transition: fast lookup not initialised")
)

// DefaultSamples is the number of grid points in a fast lookup table.
const DefaultSamples = 100

// Lookup maps laser power to Rabi angular frequency and back with natural
// cubic splines fitted on a fixed power grid.
type Lookup struct {
	Powers []float64 `msgpack:"powers" json:"powers"`
	Rabi   []float64 `msgpack:"rabi" json:"rabi"`

	forward interp.NaturalCubic
	inverse interp.NaturalCubic
}

// BuildLookup samples rabi on samples evenly spaced powers in [0, maxPower].
func BuildLookup(maxPower float64, samples int, rabi func(power float64) (float64, error)) (*Lookup, error) {
	if samples < 3 {
		return nil, fmt.Errorf("lookup needs at least 3 samples, got %d", samples)
	}
	powers := make([]float64, samples)
	floats.Span(powers, 0, maxPower)

	values := make([]float64, samples)
	for i, p := range powers {
		v, err := rabi(p)
		if err != nil {
			return nil, fmt.Errorf("sample %g W: %w", p, err)
		}
		values[i] = v
	}
	return NewLookup(powers, values)
}

// NewLookup fits the splines. Both columns must be strictly increasing.
func NewLookup(powers, rabi []float64) (*Lookup, error) {
	l := &Lookup{Powers: powers, Rabi: rabi}
	if err := l.fit(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Lookup) fit() error {
	if len(l.Powers) != len(l.Rabi) {
		return fmt.Errorf("lookup columns differ in length: %d vs %d", len(l.Powers), len(l.Rabi))
	}
	if err := l.forward.Fit(l.Powers, l.Rabi); err != nil {
		return fmt.Errorf("fit power->rabi: %w", err)
	}
	if err := l.inverse.Fit(l.Rabi, l.Powers); err != nil {
		return fmt.Errorf("fit rabi->power: %w", err)
	}
	return nil
}

func inRange(xs []float64, x float64) bool {
	return len(xs) > 0 && x >= xs[0] && x <= xs[len(xs)-1]
}

// RabiAt returns the interpolated Rabi angular frequency at power (W).
func (l *Lookup) RabiAt(power float64) (float64, error) {
	if !inRange(l.Powers, power) {
		return 0, fmt.Errorf("power %g W: %w", power, ErrOutOfRange)
	}
	return l.forward.Predict(power), nil
}

// PowerAt returns the interpolated power (W) giving Rabi angular frequency omega.
func (l *Lookup) PowerAt(omega float64) (float64, error) {
	if !inRange(l.Rabi, omega) {
		return 0, fmt.Errorf("rabi frequency %g rad/s: %w", omega, ErrOutOfRange)
	}
	return l.inverse.Predict(omega), nil
}

// MaxPower is the upper end of the table.
func (l *Lookup) MaxPower() float64 {
	if len(l.Powers) == 0 {
		return 0
	}
	return l.Powers[len(l.Powers)-1]
}
