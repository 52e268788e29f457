// Package automation runs scripted sequences of pulse experiments and
// Monte Carlo studies of laser noise.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mmwave/internal/analysis"
	"github.com/san-kum/mmwave/internal/config"
	"github.com/san-kum/mmwave/internal/experiment"
	"github.com/san-kum/mmwave/internal/physics"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Runner executes one configured experiment.
type Runner func(ctx context.Context, cfg *config.Config) (*physics.Evolution, error)

// Scenario defines a scripted sequence of experiments.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults), optionally replaced
// by a config file, and applies Params through experiment.SetParam.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Config     string             `yaml:"config"`
	Model      string             `yaml:"model"`
	Integrator string             `yaml:"integrator"`
	Params     map[string]float64 `yaml:"params"`
	Save       bool               `yaml:"save"`
}

// StepResult pairs a step with the configuration it ran and its outcome.
type StepResult struct {
	Step      ScenarioStep
	Config    *config.Config
	Evolution *physics.Evolution
	Elapsed   time.Duration
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// Configure builds the validated configuration of a step.
func (s ScenarioStep) Configure() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
	}
	if s.Config != "" {
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if s.Model != "" {
		cfg.Model = s.Model
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	for name, v := range s.Params {
		if err := experiment.SetParam(cfg, name, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order and stops at the first failure,
// returning the steps completed so far.
func RunScenario(ctx context.Context, scenario *Scenario, run Runner, log zerolog.Logger) ([]StepResult, error) {
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if step.Name == "" {
			step.Name = fmt.Sprintf("step-%d", i+1)
		}
		cfg, err := step.Configure()
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}

		log.Info().Str("scenario", scenario.Name).Str("step", step.Name).Int("index", i+1).Int("of", len(scenario.Steps)).Msg("running step")
		start := time.Now()
		ev, err := run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, step.Name, err)
		}
		results = append(results, StepResult{Step: step, Config: cfg, Evolution: ev, Elapsed: time.Since(start)})
	}
	return results, nil
}

// MonteCarloConfig perturbs the laser powers and detunings of Base with
// Gaussian noise on every trial.
type MonteCarloConfig struct {
	Base *config.Config
	// PowerNoise is the relative standard deviation of both laser powers.
	PowerNoise float64
	// DetuningNoise is the standard deviation (Hz) added to the two-photon
	// detuning.
	DetuningNoise float64
	Trials        int
	Seed          uint64
}

// Trial is one perturbed run.
type Trial struct {
	ID      int
	Params  map[string]float64
	Metrics map[string]float64
}

// RunMonteCarlo executes cfg.Trials perturbed runs. Failed trials are logged
// and skipped.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, run Runner, log zerolog.Logger) ([]Trial, error) {
	if cfg.Base == nil || cfg.Trials < 1 {
		return nil, fmt.Errorf("monte carlo needs a base config and at least one trial: %w", config.ErrInvalid)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewPCG(seed, seed>>1|1)
	power := distuv.Normal{Mu: 1, Sigma: cfg.PowerNoise, Src: src}
	detuning := distuv.Normal{Mu: 0, Sigma: cfg.DetuningNoise, Src: src}

	trials := make([]Trial, 0, cfg.Trials)
	for id := 0; id < cfg.Trials; id++ {
		if err := ctx.Err(); err != nil {
			return trials, err
		}
		trialCfg := *cfg.Base
		params := map[string]float64{
			"probe_power":  cfg.Base.Probe.Power * math.Max(power.Rand(), 0),
			"couple_power": cfg.Base.Couple.Power * math.Max(power.Rand(), 0),
			"delta2":       cfg.Base.Detuning.TwoPhoton + detuning.Rand(),
		}
		for name, v := range params {
			if err := experiment.SetParam(&trialCfg, name, v); err != nil {
				return trials, err
			}
		}

		ev, err := run(ctx, &trialCfg)
		if err != nil {
			log.Warn().Err(err).Int("trial", id).Msg("trial failed")
			continue
		}
		trials = append(trials, Trial{ID: id, Params: params, Metrics: ev.Metrics})
		if (id+1)%10 == 0 {
			log.Info().Int("done", id+1).Int("of", cfg.Trials).Msg("monte carlo progress")
		}
	}
	return trials, nil
}

// MonteCarloStats summarises one metric over the trials that report it.
func MonteCarloStats(trials []Trial, metric string) analysis.Summary {
	values := make([]float64, 0, len(trials))
	for _, t := range trials {
		if v, ok := t.Metrics[metric]; ok && !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return analysis.Summarize(values)
}
