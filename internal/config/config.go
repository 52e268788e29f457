package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mmwave/internal/transition"
)

const (
	DefaultDt          = 1e-10
	DefaultTolerance   = 1e-8
	DefaultTemperature = 300.0
	DefaultDataDir     = "./data"
	DefaultLogLevel    = "info"
	CacheFile          = "elements.db"
)

var (
	ErrInvalid = errors.New("config: invalid")

	Models      = []string{"unitary", "neumann", "lossy", "duo"}
	Integrators = []string{"euler", "rk4", "rk45", "exact"}
)

type Config struct {
	// Model is one of Models. unitary propagates a state vector exactly,
	// neumann and lossy integrate ρ with a continuous couple laser, duo
	// pulses both lasers.
	Model       string  `yaml:"model"`
	Integrator  string  `yaml:"integrator"`
	Levels      int     `yaml:"levels"`
	Dt          float64 `yaml:"dt"`
	EvolveTime  float64 `yaml:"evolve_time,omitempty"`
	Adaptive    bool    `yaml:"adaptive,omitempty"`
	Tolerance   float64 `yaml:"tolerance"`
	RecordEvery int     `yaml:"record_every,omitempty"`
	Temperature float64 `yaml:"temperature"`

	Transition transition.Params `yaml:"transition"`
	Probe      PulseConfig       `yaml:"probe"`
	Couple     PulseConfig       `yaml:"couple"`
	Detuning   DetuningConfig    `yaml:"detuning"`

	Env Env `yaml:"-"`
}

// PulseConfig is a square pulse in s with its peak laser power in W. For the
// neumann and lossy models only Power of the couple pulse is used.
type PulseConfig struct {
	Delay    float64 `yaml:"delay"`
	Duration float64 `yaml:"duration"`
	Hold     float64 `yaml:"hold"`
	Power    float64 `yaml:"power"`
}

// DetuningConfig holds detunings in Hz. Optimal replaces Intermediate with
// the detuning that balances intermediate and Rydberg decay.
type DetuningConfig struct {
	Intermediate float64 `yaml:"intermediate"`
	TwoPhoton    float64 `yaml:"two_photon"`
	Optimal      bool    `yaml:"optimal,omitempty"`
}

// Env is read from the process environment and an optional .env file by
// LoadEnv; it is never persisted.
type Env struct {
	DataDir  string
	LogLevel string
	// CachePath is the SQLite element cache; "off" disables it.
	CachePath string
}

func DefaultConfig() *Config {
	return &Config{
		Model:       "lossy",
		Integrator:  "rk4",
		Levels:      3,
		Dt:          DefaultDt,
		Tolerance:   DefaultTolerance,
		Temperature: DefaultTemperature,
		Transition:  transition.DefaultParams(),
		Probe:       PulseConfig{Delay: 10e-9, Duration: 1e-6, Hold: 100e-9, Power: 1e-3},
		Couple:      PulseConfig{Power: 1},
		Detuning:    DetuningConfig{Optimal: true},
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto decodes the file at path over base, so keys absent from the
// file keep base's values. base is not modified.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !slices.Contains(Models, c.Model) {
		return fmt.Errorf("model %q not in %v: %w", c.Model, Models, ErrInvalid)
	}
	if !slices.Contains(Integrators, c.Integrator) {
		return fmt.Errorf("integrator %q not in %v: %w", c.Integrator, Integrators, ErrInvalid)
	}
	if c.Levels != 2 && c.Levels != 3 {
		return fmt.Errorf("levels must be 2 or 3, got %d: %w", c.Levels, ErrInvalid)
	}
	if c.Model == "duo" && c.Levels != 3 {
		return fmt.Errorf("duo needs three levels: %w", ErrInvalid)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g: %w", c.Dt, ErrInvalid)
	}
	if c.Adaptive && c.Tolerance <= 0 {
		return fmt.Errorf("adaptive stepping needs a positive tolerance: %w", ErrInvalid)
	}
	if c.EvolveTime < 0 || c.Temperature < 0 {
		return fmt.Errorf("evolve time and temperature must be non-negative: %w", ErrInvalid)
	}
	for name, p := range map[string]PulseConfig{"probe": c.Probe, "couple": c.Couple} {
		if p.Delay < 0 || p.Duration < 0 || p.Hold < 0 || p.Power < 0 {
			return fmt.Errorf("%s pulse has negative fields: %w", name, ErrInvalid)
		}
	}
	if c.Probe.Duration == 0 && c.Probe.Hold == 0 && c.EvolveTime == 0 {
		return fmt.Errorf("empty simulation window: %w", ErrInvalid)
	}
	return nil
}

// LoadEnv reads MMWAVE_DATA_DIR, MMWAVE_LOG_LEVEL and MMWAVE_CACHE after
// loading files (default ".env") when present.
func LoadEnv(files ...string) Env {
	_ = godotenv.Load(files...)

	env := Env{
		DataDir:   getEnv("MMWAVE_DATA_DIR", DefaultDataDir),
		LogLevel:  getEnv("MMWAVE_LOG_LEVEL", DefaultLogLevel),
		CachePath: os.Getenv("MMWAVE_CACHE"),
	}
	if env.CachePath == "" {
		env.CachePath = filepath.Join(env.DataDir, CacheFile)
	}
	return env
}

func (e Env) CacheEnabled() bool {
	return e.CachePath != "off"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
