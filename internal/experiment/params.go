package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/mmwave/internal/config"
)

// Params lists the names SetParam accepts. Powers are in W, times in s and
// detunings in Hz.
var Params = []string{
	"probe_power", "probe_delay", "probe_duration", "probe_hold",
	"couple_power", "couple_delay", "couple_duration", "couple_hold",
	"delta", "delta2", "evolve_time",
}

// SetParam writes a named parameter into cfg. Setting delta turns off the
// optimal detuning.
func SetParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "probe_power":
		cfg.Probe.Power = v
	case "probe_delay":
		cfg.Probe.Delay = v
	case "probe_duration":
		cfg.Probe.Duration = v
	case "probe_hold":
		cfg.Probe.Hold = v
	case "couple_power":
		cfg.Couple.Power = v
	case "couple_delay":
		cfg.Couple.Delay = v
	case "couple_duration":
		cfg.Couple.Duration = v
	case "couple_hold":
		cfg.Couple.Hold = v
	case "delta":
		cfg.Detuning.Intermediate = v
		cfg.Detuning.Optimal = false
	case "delta2":
		cfg.Detuning.TwoPhoton = v
	case "evolve_time":
		cfg.EvolveTime = v
	default:
		return fmt.Errorf("unknown parameter %q, want one of %v", name, Params)
	}
	return nil
}

func IsParam(name string) bool {
	return slices.Contains(Params, name)
}
