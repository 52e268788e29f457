package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/mmwave/internal/analysis"
	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/export"
	"github.com/san-kum/mmwave/internal/physics"
	"github.com/san-kum/mmwave/internal/storage"
	"github.com/san-kum/mmwave/internal/viz"
)

var (
	svgFile     string
	outFile     string
	spectrumLvl int
	samples     int
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tLADDER\tPOPULATION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fns\t%.3gs\t%s\t%s\t%.4f\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration*1e9,
			run.Dt,
			run.Integrator,
			run.Transition,
			run.Metrics["population"],
		)
	}
	return w.Flush()
}

// loadEvolution reads a stored run back as an evolution.
func loadEvolution(id string) (*storage.RunMetadata, *physics.Evolution, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	states, times, err := st.LoadStates(id)
	if err != nil {
		return nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, fmt.Errorf("run %s has no recorded states", id)
	}
	res := &dynamo.Result{States: make([]dynamo.State, len(states)), Times: times, Metrics: meta.Metrics}
	for i, s := range states {
		res.States[i] = s
	}
	return meta, &physics.Evolution{Result: res, Levels: meta.Levels, Vector: meta.Vector}, nil
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot level populations of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().StringVar(&svgFile, "svg", "", "also write the chart as SVG to this file")
	cmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme for the SVG traces")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, ev, err := loadEvolution(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s, %s\n", meta.Model, meta.Transition)
	fmt.Printf("samples: %d\n\n", len(ev.States))

	series := make([][]float64, meta.Levels)
	for level := range series {
		series[level] = ev.Population(level)
	}
	chart := viz.PlotPopulations(series, 80, 15, fmt.Sprintf("populations over %.1f ns", meta.Duration*1e9))
	if chart == "" {
		return fmt.Errorf("not enough samples to plot")
	}
	fmt.Println(chart)
	fmt.Println(viz.Legend(meta.Levels))

	if svgFile == "" {
		return nil
	}
	t := viz.GetTheme(theme)
	c := export.Chart{
		Title:  fmt.Sprintf("%s %s", meta.Model, meta.Transition),
		Times:  ev.Times,
		Series: series,
	}
	for level := range series {
		c.Labels = append(c.Labels, viz.LevelName(level))
		c.Colors = append(c.Colors, string(t.LevelColor(level)))
	}
	if err := c.WriteFile(svgFile); err != nil {
		return err
	}
	fmt.Printf("svg written to %s\n", svgFile)
	return nil
}

func spectrumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of a level population",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	cmd.Flags().IntVar(&spectrumLvl, "level", -1, "level to analyse (default the top level)")
	cmd.Flags().IntVar(&samples, "samples", 1024, "uniform resampling points")
	return cmd
}

// resample interpolates a population series onto n uniform times, since
// breakpoints and adaptive stepping leave the records unevenly spaced.
func resample(times, values []float64, n int) ([]float64, float64, error) {
	var xs, ys []float64
	for i, t := range times {
		if len(xs) > 0 && t <= xs[len(xs)-1] {
			continue
		}
		xs = append(xs, t)
		ys = append(ys, values[i])
	}
	if len(xs) < 2 || n < 2 {
		return nil, 0, analysis.ErrShortSeries
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, 0, err
	}
	t0, t1 := xs[0], xs[len(xs)-1]
	dt := (t1 - t0) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = pl.Predict(math.Min(t0+float64(i)*dt, t1))
	}
	return out, dt, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, ev, err := loadEvolution(args[0])
	if err != nil {
		return err
	}
	level := spectrumLvl
	if level < 0 {
		level = meta.Levels - 1
	}
	if level >= meta.Levels {
		return fmt.Errorf("level %d out of range for %d levels", level, meta.Levels)
	}

	data, dt, err := resample(ev.Times, ev.Population(level), samples)
	if err != nil {
		return err
	}
	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("level: %s, %d samples every %.3g ns\n\n", viz.LevelName(level), len(data), dt*1e9)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[1 : len(ps)/4+1]
	if len(plotData) > 1 {
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum of "+viz.LevelName(level)+" population"),
		))
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if f, err := analysis.DominantFrequency(data, dt); err == nil {
		fmt.Fprintf(w, "dominant frequency\t%.4f MHz\n", f/1e6)
		if f > 0 {
			fmt.Fprintf(w, "period\t%.3f ns\n", 1e9/f)
		}
	}
	if omega, err := analysis.RabiFrequencyEstimate(data, dt); err == nil {
		fmt.Fprintf(w, "rabi estimate\t2π × %.4f MHz\n", omega/(2*math.Pi)/1e6)
	}
	s := analysis.Summarize(data)
	fmt.Fprintf(w, "mean\t%.6f\n", s.Mean)
	fmt.Fprintf(w, "std\t%.6f\n", s.Std)
	fmt.Fprintf(w, "min / median / max\t%.6f / %.6f / %.6f\n", s.Min, s.Median, s.Max)
	if !meta.Vector && level > 0 {
		b := analysis.BlochVector(ev.Final(), meta.Levels, 0, level)
		fmt.Fprintf(w, "final bloch (u, v, w)\t(%.4f, %.4f, %.4f), |r| = %.4f\n", b.U, b.V, b.W, b.Length())
	}
	return w.Flush()
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(dataDir).Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}

func exportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export time and level populations to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, ev, err := loadEvolution(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)

	header := []string{"time"}
	for level := 0; level < ev.Levels; level++ {
		header = append(header, viz.LevelName(level))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, pops := range ev.Populations() {
		row := []string{strconv.FormatFloat(ev.Times[i], 'e', 9, 64)}
		for _, p := range pops {
			row = append(row, strconv.FormatFloat(p, 'f', 8, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run with its populations to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, ev, err := loadEvolution(args[0])
	if err != nil {
		return err
	}
	data := storage.NewExport(*meta, ev.Result, ev.Populations())
	if outFile == "" {
		return storage.ExportJSONStdout(data)
	}
	if err := storage.ExportJSON(outFile, data); err != nil {
		return err
	}
	log.Info().Str("run", meta.ID).Str("path", outFile).Msg("exported")
	return nil
}
