package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/mmwave/internal/analysis"
	"github.com/san-kum/mmwave/internal/experiment"
	"github.com/san-kum/mmwave/internal/optim"
	"github.com/san-kum/mmwave/internal/storage"
	"github.com/san-kum/mmwave/internal/viz"
)

var (
	noSave     bool
	scanParam  string
	scanFrom   float64
	scanTo     float64
	scanPoints int
	gridParams []string
	metricName string
	maximize   bool
	workers    int
	stepsFrame int
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "simulate the configured pulse sequence",
		RunE:  runSimulation,
	}
	configFlags(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme")
	return cmd
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, closer, err := newRydberg(cfg)
	if err != nil {
		return err
	}
	defer closer()

	exp := experiment.New(cfg, r, log)
	setup, err := exp.Setup()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%s)...\n", cfg.Model, setup.Model.Description)
	start := time.Now()
	ev, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	t := viz.GetTheme(theme)
	st := viz.NewStyles(t)
	fmt.Printf("completed in %v, %d steps\n\n", elapsed, ev.StepsTaken)
	fmt.Println(viz.RenderPopulations(ev.FinalPopulations(), st))
	fmt.Println(viz.RenderMetrics(ev.Metrics, st))
	top := ev.Population(setup.Levels - 1)
	fmt.Printf("%s %s\n\n", st.Label.Render(viz.LevelName(setup.Levels-1)), st.Sparkline(top, 60, 0, 1))

	if noSave {
		return nil
	}
	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	id, err := store.Save(storage.RunMetadata{
		Model:      cfg.Model,
		Dt:         cfg.Dt,
		Duration:   setup.Config.Duration,
		Integrator: cfg.Integrator,
		Levels:     setup.Levels,
		Vector:     setup.Model.Vector,
		Transition: ladder(cfg.Transition),
		Params: map[string]float64{
			"probe_rabi":  setup.Drive.ProbeRabi,
			"couple_rabi": setup.Drive.CoupleRabi,
			"delta":       setup.Drive.Delta,
			"delta2":      setup.Drive.Delta2,
			"gamma2":      setup.Drive.Gamma2,
			"gamma3":      setup.Drive.Gamma3,
		},
	}, ev.Result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", id)
	return nil
}

func liveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "step the pulse sequence with a live population chart",
		RunE:  runLive,
	}
	configFlags(cmd)
	cmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme")
	cmd.Flags().IntVar(&stepsFrame, "steps-per-frame", 0, "integration steps per frame (default: whole run in ~10 s)")
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, closer, err := newRydberg(cfg)
	if err != nil {
		return err
	}
	defer closer()

	exp := experiment.New(cfg, r, log)
	setup, err := exp.Setup()
	if err != nil {
		return err
	}

	opts := []viz.LiveOption{
		viz.WithTheme(theme),
		viz.WithTitle(cfg.Model + " " + ladder(cfg.Transition)),
		viz.WithMetrics(exp.Registry().DefaultMetrics(setup.Levels)...),
	}
	if stepsFrame > 0 {
		opts = append(opts, viz.WithStepsPerFrame(stepsFrame))
	}
	// log lines would tear the alternate screen
	m, err := viz.NewLiveModel(setup, zerolog.Nop(), opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "final Rydberg population against a detuning",
		RunE:  runScan,
	}
	configFlags(cmd)
	cmd.Flags().StringVar(&scanParam, "param", "delta2", "detuning to scan: delta or delta2")
	cmd.Flags().Float64Var(&scanFrom, "from", -5e6, "first detuning (Hz)")
	cmd.Flags().Float64Var(&scanTo, "to", 5e6, "last detuning (Hz)")
	cmd.Flags().IntVar(&scanPoints, "points", 41, "number of detunings")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if scanParam != "delta" && scanParam != "delta2" {
		return fmt.Errorf("cannot scan %q, want delta or delta2", scanParam)
	}
	r, closer, err := newRydberg(cfg)
	if err != nil {
		return err
	}
	defer closer()

	setup, err := experiment.New(cfg, r, log).Setup()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	detunings := optim.Linspace(scanFrom, scanTo, scanPoints)
	angular := make([]float64, len(detunings))
	for i, d := range detunings {
		angular[i] = 2 * math.Pi * d
	}

	top := setup.Levels - 1
	points, err := analysis.Scan(ctx, setup.Simulator(log), scanParam, angular, setup.X0, setup.Config,
		analysis.FinalPopulation(top, setup.Levels))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s (MHz)\tP(%s)\n", strings.ToUpper(scanParam), viz.LevelName(top))
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
		fmt.Fprintf(w, "%.4f\t%.6f\n", p.Param/(2*math.Pi)/1e6, p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	if len(values) > 1 {
		fmt.Println(asciigraph.Plot(values,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s population vs %s, %.3g to %.3g MHz", viz.LevelName(top), scanParam, scanFrom/1e6, scanTo/1e6)),
		))
	}
	return nil
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over experiment parameters",
		Long: "Runs the experiment at every point of a parameter grid and reports the best one.\n" +
			"Parameters: " + strings.Join(experiment.Params, ", "),
		RunE: runSweep,
	}
	configFlags(cmd)
	cmd.Flags().StringArrayVar(&gridParams, "param", nil, "grid axis, name=lo:hi:n (repeatable)")
	cmd.Flags().StringVar(&metricName, "metric", "population", "metric to optimise")
	cmd.Flags().BoolVar(&maximize, "maximize", true, "maximise the metric instead of minimising it")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("param")
	return cmd
}

// parseAxis reads name=lo:hi:n.
func parseAxis(s string) (string, []float64, error) {
	name, rng, ok := strings.Cut(s, "=")
	if !ok || !experiment.IsParam(name) {
		return "", nil, fmt.Errorf("axis %q: want name=lo:hi:n with name in %v", s, experiment.Params)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("axis %q: want lo:hi:n", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("axis %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("axis %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("axis %q: bad point count", s)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	var names []string
	var ranges [][]float64
	for _, a := range gridParams {
		name, values, err := parseAxis(a)
		if err != nil {
			return err
		}
		if slices.Contains(names, name) {
			return fmt.Errorf("parameter %s given twice", name)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	r, closer, err := newRydberg(cfg)
	if err != nil {
		return err
	}
	defer closer()
	// resolve once so linewidths are cached before the workers start
	if _, err := experiment.New(cfg, r, log).Resolve(); err != nil {
		return err
	}

	gs := optim.NewGridSearch(names, ranges)
	gs.Maximize = maximize
	gs.Workers = workers
	fmt.Printf("sweeping %d points over %s...\n", gs.Size(), strings.Join(names, ", "))

	ctx, cancel := signalContext()
	defer cancel()
	quiet := log.Level(max(log.GetLevel(), zerolog.WarnLevel))
	best, points, err := gs.Search(ctx, experiment.Objective(cfg, r, quiet), metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, p := range points {
		for _, name := range names {
			fmt.Fprintf(w, "%.6g\t", p.Params[name])
		}
		fmt.Fprintf(w, "%.6f\n", p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6f at", metricName, best.Value)
	for _, name := range names {
		fmt.Printf(" %s=%.6g", name, best.Params[name])
	}
	fmt.Println()
	if skipped := gs.Size() - len(points); skipped > 0 {
		log.Warn().Int("failed", skipped).Msg("some grid points did not run")
	}
	return nil
}
