package control

import (
	"fmt"
	"strings"

	"github.com/san-kum/mmwave/internal/dynamo"
)

// Schedule combines channels into a control vector in insertion order.
type Schedule struct {
	names    []string
	channels []Channel
}

func NewSchedule() *Schedule {
	return &Schedule{}
}

// Add appends a channel under name and returns the schedule.
func (s *Schedule) Add(name string, ch Channel) *Schedule {
	s.names = append(s.names, name)
	s.channels = append(s.channels, ch)
	return s
}

// NewProbe drives the probe with a square pulse and the couple laser
// continuously.
func NewProbe(probe *Square, couple float64) *Schedule {
	return NewSchedule().Add("probe", probe).Add("couple", Constant(couple))
}

// NewDuo pulses both lasers independently.
func NewDuo(probe, couple *Square) *Schedule {
	return NewSchedule().Add("probe", probe).Add("couple", couple)
}

func (s *Schedule) Compute(x dynamo.State, t float64) dynamo.Control {
	u := make(dynamo.Control, len(s.channels))
	for i, ch := range s.channels {
		u[i] = ch.Value(t)
	}
	return u
}

func (s *Schedule) Breakpoints() []float64 {
	var out []float64
	for _, ch := range s.channels {
		out = append(out, ch.Breakpoints()...)
	}
	return out
}

// End is the latest channel end; a run of this length covers every pulse
// and its hold.
func (s *Schedule) End() float64 {
	end := 0.0
	for _, ch := range s.channels {
		end = max(end, ch.End())
	}
	return end
}

func (s *Schedule) Dim() int { return len(s.channels) }

func (s *Schedule) Channel(name string) (Channel, bool) {
	for i, n := range s.names {
		if n == name {
			return s.channels[i], true
		}
	}
	return nil, false
}

// GetParams lists tunable values as "<channel>_<field>" for square pulses
// and "<channel>" for constant drives.
func (s *Schedule) GetParams() map[string]float64 {
	params := make(map[string]float64)
	for i, ch := range s.channels {
		name := s.names[i]
		switch c := ch.(type) {
		case *Square:
			params[name+"_delay"] = c.Delay
			params[name+"_duration"] = c.Duration
			params[name+"_hold"] = c.Hold
			params[name+"_peak"] = c.Peak
		case Constant:
			params[name] = float64(c)
		}
	}
	return params
}

func (s *Schedule) SetParam(param string, value float64) error {
	for i, ch := range s.channels {
		name := s.names[i]
		switch c := ch.(type) {
		case *Square:
			field, ok := strings.CutPrefix(param, name+"_")
			if !ok {
				continue
			}
			prev := *c
			switch field {
			case "delay":
				c.Delay = value
			case "duration":
				c.Duration = value
			case "hold":
				c.Hold = value
			case "peak":
				c.Peak = value
			default:
				return fmt.Errorf("unknown pulse field %q", field)
			}
			if err := c.Validate(); err != nil {
				*c = prev
				return err
			}
			return nil
		case Constant:
			if param == name {
				s.channels[i] = Constant(value)
				return nil
			}
		}
	}
	return fmt.Errorf("unknown parameter %q", param)
}

// Clone returns a schedule with copies of every square pulse, so sweeps can
// tune parameters per goroutine.
func (s *Schedule) Clone() *Schedule {
	c := &Schedule{names: append([]string(nil), s.names...)}
	for _, ch := range s.channels {
		if sq, ok := ch.(*Square); ok {
			cp := *sq
			ch = &cp
		}
		c.channels = append(c.channels, ch)
	}
	return c
}
