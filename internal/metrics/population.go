package metrics

import (
	"math"

	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/qmath"
)

func populations(x dynamo.State, levels int) []float64 {
	if len(x) == 2*levels {
		return qmath.VectorPopulations(x)
	}
	return qmath.Populations(x, levels)
}

// Population reports the final population of one level, or its peak over
// the run.
type Population struct {
	name   string
	level  int
	levels int
	peak   bool
	value  float64
	seen   bool
}

func NewPopulation(level, levels int) *Population {
	return &Population{name: "population", level: level, levels: levels}
}

func NewPeakPopulation(level, levels int) *Population {
	return &Population{name: "peak_population", level: level, levels: levels, peak: true}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(x dynamo.State, u dynamo.Control, t float64) {
	v := populations(x, p.levels)[p.level]
	if p.peak && p.seen {
		p.value = math.Max(p.value, v)
	} else {
		p.value = v
	}
	p.seen = true
}

func (p *Population) Value() float64 { return p.value }

func (p *Population) Reset() {
	p.value = 0
	p.seen = false
}

// TraceDrift is the largest |Tr ρ - 1| seen.
type TraceDrift struct {
	levels int
	max    float64
}

func NewTraceDrift(levels int) *TraceDrift {
	return &TraceDrift{levels: levels}
}

func (d *TraceDrift) Name() string { return "trace_drift" }

func (d *TraceDrift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	tr := 0.0
	for _, p := range populations(x, d.levels) {
		tr += p
	}
	d.max = math.Max(d.max, math.Abs(tr-1))
}

func (d *TraceDrift) Value() float64 { return d.max }
func (d *TraceDrift) Reset()         { d.max = 0 }

// Purity is Tr ρ² of the last observed state.
type Purity struct {
	levels int
	value  float64
}

func NewPurity(levels int) *Purity {
	return &Purity{levels: levels}
}

func (p *Purity) Name() string { return "purity" }

func (p *Purity) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) == 2*p.levels {
		p.value = 1
		return
	}
	// Tr ρ² = Σ|ρ_ij|² for Hermitian ρ
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	p.value = sum
}

func (p *Purity) Value() float64 { return p.value }
func (p *Purity) Reset()         { p.value = 0 }
