package config

import (
	"slices"

	"github.com/san-kum/mmwave/internal/atom"
)

var Presets = map[string]func() *Config{
	// the default 6S1/2 -> 7P3/2 -> 47D5/2 ladder with decay
	"cs47d": DefaultConfig,

	"cs40s": func() *Config {
		c := DefaultConfig()
		c.Transition.Rydberg = atom.Level{N: 40, L: 0, J: 0.5}
		c.Transition.Q2 = -1
		c.Transition.RydbergF = 4
		return c
	},

	// resonant drive with strong lasers, exact propagation
	"fast-pi": func() *Config {
		c := DefaultConfig()
		c.Model = "unitary"
		c.Integrator = "exact"
		c.Probe = PulseConfig{Delay: 5e-9, Duration: 200e-9, Hold: 50e-9, Power: 20e-3}
		c.Couple = PulseConfig{Power: 5}
		c.Detuning = DetuningConfig{}
		return c
	},

	"lossless": func() *Config {
		c := DefaultConfig()
		c.Model = "neumann"
		return c
	},

	// sequential probe then couple pulses
	"duo": func() *Config {
		c := DefaultConfig()
		c.Model = "duo"
		c.Probe = PulseConfig{Delay: 10e-9, Duration: 300e-9, Power: 5e-3}
		c.Couple = PulseConfig{Delay: 310e-9, Duration: 300e-9, Hold: 100e-9, Power: 2}
		c.Detuning = DetuningConfig{}
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
