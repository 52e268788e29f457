package metrics

import (
	"math"

	"github.com/san-kum/mmwave/internal/dynamo"
)

// Stability is the fraction of observed states that are finite with every
// population inside [-threshold, 1+threshold].
type Stability struct {
	name       string
	levels     int
	threshold  float64
	violations int
	samples    int
}

func NewStability(levels int, threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		levels:    levels,
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, u dynamo.Control, t float64) {
	s.samples++
	if !x.IsValid() {
		s.violations++
		return
	}
	for _, p := range populations(x, s.levels) {
		if p < -s.threshold || p > 1+s.threshold || math.IsNaN(p) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
