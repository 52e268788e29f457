package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/qmath"
)

// ScanPoint is one parameter value and the reduced result of its run.
type ScanPoint struct {
	Param float64
	Value float64
}

// Tunable systems can be swept.
type Tunable interface {
	dynamo.System
	dynamo.Configurable
}

// Scan sets param to each value in turn, runs the simulator from x0 and
// reduces the result with reduce. The parameter is restored afterwards.
func Scan(
	ctx context.Context,
	sim *dynamo.Simulator,
	param string,
	values []float64,
	x0 dynamo.State,
	cfg dynamo.Config,
	reduce func(*dynamo.Result) float64,
) ([]ScanPoint, error) {
	tunable, ok := sim.System().(Tunable)
	if !ok {
		return nil, fmt.Errorf("system cannot be tuned: %w", dynamo.ErrInvalidConfig)
	}
	original, ok := tunable.GetParams()[param]
	if !ok {
		return nil, fmt.Errorf("unknown parameter %q: %w", param, dynamo.ErrInvalidConfig)
	}
	defer tunable.SetParam(param, original)

	points := make([]ScanPoint, 0, len(values))
	for _, v := range values {
		if err := tunable.SetParam(param, v); err != nil {
			return points, err
		}
		res, err := sim.Run(ctx, x0, cfg)
		if err != nil {
			return points, fmt.Errorf("%s=%g: %w", param, v, err)
		}
		points = append(points, ScanPoint{Param: v, Value: reduce(res)})
	}
	return points, nil
}

// FinalPopulation reduces a run to the last population of level. States
// may be packed density matrices or state vectors.
func FinalPopulation(level, levels int) func(*dynamo.Result) float64 {
	return func(r *dynamo.Result) float64 {
		x := r.Final()
		var pops []float64
		switch len(x) {
		case 0:
			return 0
		case 2 * levels:
			pops = qmath.VectorPopulations(x)
		default:
			pops = qmath.Populations(x, levels)
		}
		if level >= len(pops) {
			return 0
		}
		return pops[level]
	}
}
