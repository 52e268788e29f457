package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/mmwave/internal/atom"
	"github.com/san-kum/mmwave/internal/config"
	"github.com/san-kum/mmwave/internal/transition"
	"github.com/san-kum/mmwave/internal/units"
	"github.com/san-kum/mmwave/internal/viz"
)

var (
	tweezerPower float64
	aomProbe     float64
	aomCouple    float64
	lifetimeUpTo int
	piTime       float64
	probePower   float64
	couplePower  float64
	waist        float64
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "laser frequencies, light shifts, saturation powers and lifetimes",
		RunE:  runReport,
	}
	configFlags(cmd)
	cmd.Flags().Float64Var(&tweezerPower, "tweezer-power", 20e-3, "tweezer power (W)")
	cmd.Flags().Float64Var(&aomProbe, "aom-probe", transition.DefaultAOMProbe, "probe AOM shift (Hz)")
	cmd.Flags().Float64Var(&aomCouple, "aom-couple", transition.DefaultAOMCouple, "couple AOM shift (Hz)")
	cmd.Flags().IntVar(&lifetimeUpTo, "lifetime-upto", 0, "highest n for black-body transfer (default rydberg n+5)")
	cmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme: "+fmt.Sprint(viz.ThemeNames()))
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, closer, err := newRydberg(cfg)
	if err != nil {
		return err
	}
	defer closer()

	laser, err := r.LaserFrequencies(cfg.Probe.Power, cfg.Couple.Power, aomProbe, aomCouple)
	if err != nil {
		return err
	}
	stark, err := r.ACStarkShifts(cfg.Probe.Power, cfg.Couple.Power)
	if err != nil {
		return err
	}
	tweezer, err := r.TweezerStark(tweezerPower)
	if err != nil {
		return err
	}
	sat, err := r.SaturationPowers()
	if err != nil {
		return err
	}

	upTo := lifetimeUpTo
	if upTo == 0 {
		upTo = cfg.Transition.Rydberg.N + 5
	}
	var lifetimes []transition.Row
	for _, lv := range []atom.Level{cfg.Transition.Intermediate, cfg.Transition.Rydberg} {
		tau, err := r.Atom().StateLifetime(lv, cfg.Temperature, upTo)
		if err != nil {
			return fmt.Errorf("%s lifetime: %w", lv, err)
		}
		lifetimes = append(lifetimes, transition.Row{Label: lv.String(), Value: fmt.Sprintf("%.4g µs", tau*1e6)})
	}

	t := viz.GetTheme(theme)
	st := viz.NewStyles(t)
	fmt.Println(viz.GradientText(ladder(cfg.Transition), t.Primary, t.Secondary))
	fmt.Println(viz.RenderRows("Laser", laser.Rows(), st))
	fmt.Println(viz.RenderRows("AC Stark", stark.Rows(), st))
	fmt.Println(viz.RenderRows(fmt.Sprintf("Tweezer %.0f mW", tweezerPower*1e3), tweezer.Rows(), st))
	fmt.Println(viz.RenderRows("Saturation", sat.Rows(), st))
	fmt.Println(viz.RenderRows(fmt.Sprintf("Lifetimes at %.0f K", cfg.Temperature), lifetimes, st))
	return nil
}

func rabiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rabi",
		Short: "single-leg and two-photon Rabi frequencies",
		RunE:  runRabi,
	}
	configFlags(cmd)
	return cmd
}

func runRabi(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, closer, err := newRydberg(cfg)
	if err != nil {
		return err
	}
	defer closer()

	probe, err := r.ERabiAngularFreq(cfg.Probe.Power)
	if err != nil {
		return err
	}
	couple, err := r.RRabiAngularFreq(cfg.Couple.Power)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tVALUE\t")
	fmt.Fprintf(w, "probe rabi (%.3g mW)\t2π × %.4f MHz\t\n", cfg.Probe.Power*1e3, probe/(2*math.Pi)/1e6)
	fmt.Fprintf(w, "couple rabi (%.3g W)\t2π × %.4f MHz\t\n", cfg.Couple.Power, couple/(2*math.Pi)/1e6)
	for _, res := range []bool{true, false} {
		label := "optimal detuning"
		if res {
			label = "resonance"
		}
		total, err := r.TotalRabiAngularFreq(cfg.Probe.Power, cfg.Couple.Power, res)
		if err != nil {
			return err
		}
		pi, err := r.PiPulseDuration(cfg.Probe.Power, cfg.Couple.Power, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "total rabi, %s\t2π × %.4f MHz\t\n", label, total/(2*math.Pi)/1e6)
		fmt.Fprintf(w, "π pulse, %s\t%.2f ns\t\n", label, pi*1e9)
	}
	return w.Flush()
}

func detuningCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detuning",
		Short: "intermediate-state detuning: optimal, or for a given π time",
		RunE:  runDetuning,
	}
	configFlags(cmd)
	cmd.Flags().Float64Var(&piTime, "pi-time", 0, "target π pulse duration (s)")
	return cmd
}

func runDetuning(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, closer, err := newRydberg(cfg)
	if err != nil {
		return err
	}
	defer closer()

	var delta float64
	if piTime > 0 {
		delta, err = r.PiDetuning(cfg.Probe.Power, cfg.Couple.Power, piTime)
	} else {
		p, c := cfg.Probe.Power, cfg.Couple.Power
		delta, err = r.OptimalDetuning(transition.DetuningInput{ProbePower: &p, CouplePower: &c})
	}
	if err != nil {
		return err
	}
	fmt.Printf("delta: 2π × %.4f MHz (%.6g rad/s)\n", delta/(2*math.Pi)/1e6, delta)
	return nil
}

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "laser power that matches the other leg's Rabi frequency",
		RunE:  runBalance,
	}
	configFlags(cmd)
	cmd.Flags().Float64Var(&probePower, "probe", 0, "probe power (W)")
	cmd.Flags().Float64Var(&couplePower, "couple", 0, "couple power (W)")
	cmd.MarkFlagsMutuallyExclusive("probe", "couple")
	cmd.MarkFlagsOneRequired("probe", "couple")
	return cmd
}

func runBalance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, closer, err := newRydberg(cfg)
	if err != nil {
		return err
	}
	defer closer()

	if cmd.Flags().Changed("probe") {
		p, err := r.BalancedLaserPower(&probePower, nil)
		if err != nil {
			return err
		}
		fmt.Printf("couple power: %.6g W\n", p)
		return nil
	}
	p, err := r.BalancedLaserPower(nil, &couplePower)
	if err != nil {
		return err
	}
	fmt.Printf("probe power: %.6g mW\n", p*1e3)
	return nil
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "convert [wavelength|frequency|power] value",
		Short:     "unit conversions: wavelength (m), frequency (Hz), power (W)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"wavelength", "frequency", "power"},
		RunE:      runConvert,
	}
	cmd.Flags().Float64Var(&waist, "waist", transition.DefaultParams().Waist, "beam waist (m) for power conversions")
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return err
	}
	switch args[0] {
	case "wavelength":
		f, err := units.Wavelength2Freq(v)
		if err != nil {
			return err
		}
		w, err := units.Wavelength2AngularFreq(v)
		if err != nil {
			return err
		}
		fmt.Printf("frequency: %.9g Hz\nangular frequency: %.9g rad/s\n", f, w)
	case "frequency":
		l, err := units.Freq2Wavelength(v)
		if err != nil {
			return err
		}
		fmt.Printf("wavelength: %.6f nm\n", l*1e9)
	case "power":
		e, err := units.Power2Field(v, waist)
		if err != nil {
			return err
		}
		fmt.Printf("peak intensity: %.6g W/m²\nfield amplitude: %.6g V/m\n", units.PeakIntensity(v, waist), e)
	default:
		return fmt.Errorf("unknown quantity %q", args[0])
	}
	return nil
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODEL\tLADDER\tPROBE\tCOUPLE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%.3g mW\t%.3g W\n", name, p.Model, ladder(p.Transition), p.Probe.Power*1e3, p.Couple.Power)
			}
			return w.Flush()
		},
	}
}
