package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/mmwave/internal/automation"
	"github.com/san-kum/mmwave/internal/config"
	"github.com/san-kum/mmwave/internal/experiment"
	"github.com/san-kum/mmwave/internal/physics"
	"github.com/san-kum/mmwave/internal/storage"
	"github.com/san-kum/mmwave/internal/transition"
)

var (
	mcTrials        int
	mcPowerNoise    float64
	mcDetuningNoise float64
	mcSeed          uint64
)

// runner executes experiments, sharing one Rydberg calculator per ladder.
type runner struct {
	log     zerolog.Logger
	ladders map[transition.Params]*transition.Rydberg
	closers []func()
}

func newRunner(l zerolog.Logger) *runner {
	return &runner{log: l, ladders: make(map[transition.Params]*transition.Rydberg)}
}

func (rn *runner) run(ctx context.Context, cfg *config.Config) (*physics.Evolution, error) {
	r, ok := rn.ladders[cfg.Transition]
	if !ok {
		var closer func()
		var err error
		if r, closer, err = newRydberg(cfg); err != nil {
			return nil, err
		}
		rn.ladders[cfg.Transition] = r
		rn.closers = append(rn.closers, closer)
	}
	return experiment.New(cfg, r, rn.log).Run(ctx)
}

func (rn *runner) Close() {
	for _, c := range rn.closers {
		c()
	}
}

func scenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of experiments from YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	cmd.Flags().BoolVar(&fast, "fast", false, "use cached Rabi lookup tables")
	return cmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	rn := newRunner(log)
	defer rn.Close()

	ctx, cancel := signalContext()
	defer cancel()
	results, runErr := automation.RunScenario(ctx, sc, rn.run, log)

	store := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tLADDER\tPOPULATION\tPURITY\tELAPSED\tRUN ID")
	for _, res := range results {
		id := "-"
		if res.Step.Save {
			if id, err = saveEvolution(store, res.Config, res.Evolution); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.6f\t%.6f\t%v\t%s\n",
			res.Step.Name, res.Config.Model, ladder(res.Config.Transition),
			res.Evolution.Metrics["population"], res.Evolution.Metrics["purity"],
			res.Elapsed.Round(time.Millisecond), id)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func saveEvolution(store *storage.Store, cfg *config.Config, ev *physics.Evolution) (string, error) {
	if err := store.Init(); err != nil {
		return "", err
	}
	duration := 0.0
	if n := len(ev.Times); n > 0 {
		duration = ev.Times[n-1]
	}
	return store.Save(storage.RunMetadata{
		Model:      cfg.Model,
		Dt:         cfg.Dt,
		Duration:   duration,
		Integrator: cfg.Integrator,
		Levels:     ev.Levels,
		Vector:     ev.Vector,
		Transition: ladder(cfg.Transition),
	}, ev.Result)
}

func monteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run the experiment under Gaussian laser power and detuning noise",
		RunE:  runMonteCarlo,
	}
	configFlags(cmd)
	cmd.Flags().IntVar(&mcTrials, "trials", 100, "number of trials")
	cmd.Flags().Float64Var(&mcPowerNoise, "power-noise", 0.02, "relative standard deviation of the laser powers")
	cmd.Flags().Float64Var(&mcDetuningNoise, "detuning-noise", 50e3, "standard deviation of the two-photon detuning (Hz)")
	cmd.Flags().Uint64Var(&mcSeed, "seed", 0, "random seed (default from the clock)")
	cmd.Flags().StringVar(&metricName, "metric", "population", "metric to summarise")
	return cmd
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// one log line per trial would drown the progress messages
	rn := newRunner(log.Level(max(log.GetLevel(), zerolog.WarnLevel)))
	defer rn.Close()

	ctx, cancel := signalContext()
	defer cancel()
	trials, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		Base:          cfg,
		PowerNoise:    mcPowerNoise,
		DetuningNoise: mcDetuningNoise,
		Trials:        mcTrials,
		Seed:          mcSeed,
	}, rn.run, log)
	if err != nil {
		return err
	}

	s := automation.MonteCarloStats(trials, metricName)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "trials\t%d of %d\n", s.N, mcTrials)
	fmt.Fprintf(w, "%s mean\t%.6f\n", metricName, s.Mean)
	fmt.Fprintf(w, "%s std\t%.6f\n", metricName, s.Std)
	fmt.Fprintf(w, "min / median / max\t%.6f / %.6f / %.6f\n", s.Min, s.Median, s.Max)
	return w.Flush()
}
