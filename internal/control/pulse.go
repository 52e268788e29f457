package control

import (
	"errors"
	"fmt"
)

var ErrInvalidPulse = errors.New("control: invalid pulse")

// Channel is one time-dependent drive amplitude.
type Channel interface {
	Value(t float64) float64
	Breakpoints() []float64
	// End is the time after which the channel has nothing left to do.
	End() float64
}

// Square is a rectangular pulse. Times are in s, Peak in rad/s.
type Square struct {
	Delay    float64 `yaml:"delay" json:"delay"`
	Duration float64 `yaml:"duration" json:"duration"`
	Hold     float64 `yaml:"hold" json:"hold"`
	Peak     float64 `yaml:"peak" json:"peak"`
}

func (s *Square) Validate() error {
	if s.Delay < 0 || s.Duration < 0 || s.Hold < 0 {
		return fmt.Errorf("delay %g, duration %g, hold %g must be non-negative: %w", s.Delay, s.Duration, s.Hold, ErrInvalidPulse)
	}
	return nil
}

func (s *Square) Value(t float64) float64 {
	if t >= s.Delay && t < s.Delay+s.Duration {
		return s.Peak
	}
	return 0
}

func (s *Square) Breakpoints() []float64 {
	return []float64{s.Delay, s.Delay + s.Duration}
}

func (s *Square) End() float64 {
	return s.Delay + s.Duration + s.Hold
}

// Area returns the pulse area Peak·Duration in rad.
func (s *Square) Area() float64 {
	return s.Peak * s.Duration
}

// Constant is a continuous-wave drive.
type Constant float64

func (c Constant) Value(float64) float64  { return float64(c) }
func (c Constant) Breakpoints() []float64 { return nil }
func (c Constant) End() float64           { return 0 }
