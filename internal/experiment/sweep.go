package experiment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/san-kum/mmwave/internal/config"
	"github.com/san-kum/mmwave/internal/transition"
)

// Objective returns a function that runs base with the given parameters
// applied and reports the run metrics. The returned function is safe for
// concurrent use when r is.
func Objective(base *config.Config, r *transition.Rydberg, log zerolog.Logger) func(context.Context, map[string]float64) (map[string]float64, error) {
	return func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		cfg := *base
		for name, v := range params {
			if err := SetParam(&cfg, name, v); err != nil {
				return nil, err
			}
		}
		ev, err := New(&cfg, r, log).Run(ctx)
		if err != nil {
			return nil, err
		}
		return ev.Metrics, nil
	}
}
