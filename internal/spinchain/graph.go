package spinchain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxSites bounds chains to dense matrices of at most 2^10 rows.
const MaxSites = 10

var (
	ErrSites    = errors.New("spinchain: invalid number of sites")
	ErrOperator = errors.New("spinchain: invalid operator")
	ErrRange    = errors.New("spinchain: invalid interaction range")
)

// Strength is a coupling between sites i and j at time t. On-site terms are
// called with j == i.
type Strength func(t float64, i, j int) float64

// Const is a time- and site-independent strength.
func Const(v float64) Strength {
	return func(float64, int, int) float64 { return v }
}

// Steps is a piecewise-constant strength: step k of a pulse sequence, as
// passed to FloquetHamiltonian, uses values[k]. Times past the last value
// keep it.
func Steps(values ...float64) Strength {
	return func(t float64, _, _ int) float64 {
		if len(values) == 0 {
			return 0
		}
		k := min(max(int(t), 0), len(values)-1)
		return values[k]
	}
}

type rangeKind int

const (
	rangeNone rangeKind = iota
	rangeOnSite
	rangeNN
	rangeNNN
	rangePower
)

// Range selects which site pairs a term couples.
type Range struct {
	kind  rangeKind
	alpha float64
}

var (
	OnSite          = Range{kind: rangeOnSite}
	NearestNeighbor = Range{kind: rangeNN}
	NextNearest     = Range{kind: rangeNNN}
)

// PowerLaw couples every ordered pair of distinct sites with strength
// decaying as 1/|i-j|^alpha.
func PowerLaw(alpha float64) Range { return Range{kind: rangePower, alpha: alpha} }

// ParseRange reads "nn", "nnn", "inf" or a power-law exponent.
func ParseRange(s string) (Range, error) {
	switch strings.ToLower(s) {
	case "nn":
		return NearestNeighbor, nil
	case "nnn":
		return NextNearest, nil
	case "inf", "onsite":
		return OnSite, nil
	}
	alpha, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(alpha) {
		return Range{}, fmt.Errorf("%q: %w", s, ErrRange)
	}
	if math.IsInf(alpha, 1) {
		return OnSite, nil
	}
	return PowerLaw(alpha), nil
}

func (r Range) String() string {
	switch r.kind {
	case rangeOnSite:
		return "inf"
	case rangeNN:
		return "nn"
	case rangeNNN:
		return "nnn"
	case rangePower:
		return strconv.FormatFloat(r.alpha, 'g', -1, 64)
	}
	return "none"
}

func (r Range) sites() int {
	if r.kind == rangeOnSite {
		return 1
	}
	return 2
}

// Term is one interaction: an operator string such as "xx" or "z", its
// strength and its range.
type Term struct {
	Op       string
	Strength Strength
	Range    Range
}

// ParseTerm reads "op:s0[,s1...]:range", e.g. "xx:0.5:nn" or
// "z:0.1,0.4:inf". Several strengths give a Steps strength.
func ParseTerm(s string) (Term, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Term{}, fmt.Errorf("term %q: want op:strength:range: %w", s, ErrOperator)
	}
	rng, err := ParseRange(parts[2])
	if err != nil {
		return Term{}, err
	}
	var values []float64
	for _, raw := range strings.Split(parts[1], ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Term{}, fmt.Errorf("term %q: strength %q: %w", s, raw, ErrOperator)
		}
		values = append(values, v)
	}
	strength := Const(values[0])
	if len(values) > 1 {
		strength = Steps(values...)
	}
	return Term{Op: parts[0], Strength: strength, Range: rng}, nil
}

type coupling struct {
	sites    []int
	strength func(t float64) float64
}

// Graph is a chain of spin-1/2 sites with couplings grouped by operator.
type Graph struct {
	sites int
	ops   []string
	terms map[string][]coupling
}

// Bond is a coupling evaluated at one time.
type Bond struct {
	Sites    []int   `json:"sites"`
	Strength float64 `json:"strength"`
}

// FromInteractions expands terms over a chain of numSites sites. With pbc
// the nearest and next-nearest neighbour bonds wrap around.
func FromInteractions(numSites int, terms []Term, pbc bool) (*Graph, error) {
	if numSites < 1 || numSites > MaxSites {
		return nil, fmt.Errorf("%d sites, want 1..%d: %w", numSites, MaxSites, ErrSites)
	}
	g := &Graph{sites: numSites, terms: make(map[string][]coupling)}
	wrap := 0
	if pbc {
		wrap = 1
	}

	for _, term := range terms {
		op := strings.ToLower(term.Op)
		if err := checkOp(op); err != nil {
			return nil, err
		}
		if term.Range.kind == rangeNone {
			return nil, fmt.Errorf("term %q has no range: %w", term.Op, ErrRange)
		}
		if len(op) != term.Range.sites() {
			return nil, fmt.Errorf("%d-site operator %q with range %s: %w", len(op), op, term.Range, ErrOperator)
		}
		s := term.Strength
		if s == nil {
			return nil, fmt.Errorf("term %q has no strength: %w", term.Op, ErrOperator)
		}
		if _, ok := g.terms[op]; !ok {
			g.ops = append(g.ops, op)
		}

		var cs []coupling
		switch term.Range.kind {
		case rangeOnSite:
			for i := 0; i < numSites; i++ {
				cs = append(cs, coupling{sites: []int{i}, strength: func(t float64) float64 { return s(t, i, i) }})
			}
		case rangeNN, rangeNNN:
			d := 1
			if term.Range.kind == rangeNNN {
				d = 2
			}
			for i := 0; i < numSites-d+wrap; i++ {
				j := (i + d) % numSites
				cs = append(cs, coupling{sites: []int{i, j}, strength: func(t float64) float64 { return s(t, i, j) }})
			}
		case rangePower:
			alpha := term.Range.alpha
			for i := 0; i < numSites; i++ {
				for j := 0; j < numSites; j++ {
					if i == j {
						continue
					}
					decay := math.Pow(math.Abs(float64(i-j)), alpha)
					cs = append(cs, coupling{sites: []int{i, j}, strength: func(t float64) float64 { return s(t, i, j) / decay }})
				}
			}
		}
		g.terms[op] = append(g.terms[op], cs...)
	}
	return g, nil
}

func checkOp(op string) error {
	if op == "" {
		return fmt.Errorf("empty operator: %w", ErrOperator)
	}
	for _, c := range op {
		if !strings.ContainsRune(pauliOps, c) {
			return fmt.Errorf("operator %q: unknown factor %q: %w", op, c, ErrOperator)
		}
	}
	return nil
}

func (g *Graph) Sites() int { return g.sites }

// Dim is the Hilbert space dimension 2^sites.
func (g *Graph) Dim() int { return 1 << g.sites }

// Ops lists the operators in the order they were first added.
func (g *Graph) Ops() []string { return append([]string(nil), g.ops...) }

// At evaluates every coupling at time t.
func (g *Graph) At(t float64) map[string][]Bond {
	out := make(map[string][]Bond, len(g.terms))
	for op, cs := range g.terms {
		bonds := make([]Bond, len(cs))
		for k, c := range cs {
			bonds[k] = Bond{Sites: c.sites, Strength: c.strength(t)}
		}
		out[op] = bonds
	}
	return out
}
