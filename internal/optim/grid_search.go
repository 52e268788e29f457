package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

var ErrNoResult = errors.New("optim: no grid point evaluated")

// Objective evaluates one grid point and returns the named metrics of the
// run.
type Objective func(ctx context.Context, params map[string]float64) (map[string]float64, error)

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize selects the largest metric value instead of the smallest.
	Maximize bool
	// Workers bounds concurrent evaluations; zero means GOMAXPROCS.
	Workers int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Points enumerates the grid with the last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.enumerate(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, maps.Clone(current))
		return
	}
	for _, val := range g.ranges[depth] {
		current[g.paramNames[depth]] = val
		g.enumerate(depth+1, current, out)
	}
}

// Search evaluates every grid point concurrently and returns the best one by
// metricName along with all evaluated points in grid order. Failed
// evaluations are skipped; the first error is returned only when no point
// succeeded.
func (g *GridSearch) Search(ctx context.Context, objective Objective, metricName string) (Point, []Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Point{}, nil, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	grid := g.Points()
	values := make([]float64, len(grid))
	ok := make([]bool, len(grid))

	var mu sync.Mutex
	var firstErr error

	eg, ctx := errgroup.WithContext(ctx)
	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg.SetLimit(workers)

	for i, params := range grid {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := objective(ctx, params)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return nil
			}
			v, found := m[metricName]
			if !found || math.IsNaN(v) {
				return nil
			}
			values[i] = v
			ok[i] = true
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Point{}, nil, err
	}

	var points []Point
	best := Point{Value: math.Inf(1)}
	if g.Maximize {
		best.Value = math.Inf(-1)
	}
	for i, params := range grid {
		if !ok[i] {
			continue
		}
		p := Point{Params: params, Value: values[i]}
		points = append(points, p)
		if (g.Maximize && p.Value > best.Value) || (!g.Maximize && p.Value < best.Value) {
			best = p
		}
	}
	if best.Params == nil {
		if firstErr != nil {
			return Point{}, nil, firstErr
		}
		return Point{}, nil, ErrNoResult
	}
	return best, points, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
