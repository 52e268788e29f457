package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/mmwave/internal/atom"
	"github.com/san-kum/mmwave/internal/cache"
	"github.com/san-kum/mmwave/internal/config"
	"github.com/san-kum/mmwave/internal/experiment"
	"github.com/san-kum/mmwave/internal/logger"
	"github.com/san-kum/mmwave/internal/numerov"
	"github.com/san-kum/mmwave/internal/storage"
	"github.com/san-kum/mmwave/internal/transition"
)

var (
	env config.Env
	log zerolog.Logger

	dataDir  string
	logLevel string
	pretty   bool
	envFile  string

	configFile string
	preset     string
	model      string
	integrator string
	levels     int
	overrides  []string
	fast       bool
	theme      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mmwave",
		Short:         "Rydberg ladder calculator and pulse simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			env = config.LoadEnv(files...)
			if !cmd.Flags().Changed("data") {
				dataDir = env.DataDir
			}
			if !cmd.Flags().Changed("log-level") {
				logLevel = env.LogLevel
			}
			log = logger.New(logger.Config{Level: logLevel, Pretty: pretty})
			logger.SetGlobalLogger(log)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory (MMWAVE_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (MMWAVE_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "human readable logs instead of JSON")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")

	rootCmd.AddCommand(
		reportCmd(), rabiCmd(), detuningCmd(), balanceCmd(), convertCmd(), presetsCmd(),
		runCmd(), liveCmd(), scanCmd(), sweepCmd(),
		listCmd(), plotCmd(), spectrumCmd(), deleteCmd(), exportCSVCmd(), exportJSONCmd(),
		scenarioCmd(), monteCarloCmd(), chainCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// configFlags registers the flags every command that builds a ladder
// understands.
func configFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	cmd.Flags().StringVar(&model, "model", "", "model: "+strings.Join(config.Models, ", "))
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator: "+strings.Join(config.Integrators, ", "))
	cmd.Flags().IntVar(&levels, "levels", 0, "number of levels (2 or 3)")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter, name=value (repeatable)")
	cmd.Flags().BoolVar(&fast, "fast", false, "use cached Rabi lookup tables")
}

// loadConfig applies, in order, the preset, the config file, the model
// flags and --set overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("model") {
		cfg.Model = model
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("levels") {
		cfg.Levels = levels
	}
	for _, kv := range overrides {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("override %q: want name=value", kv)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("override %q: %w", kv, err)
		}
		if err := experiment.SetParam(cfg, name, v); err != nil {
			return nil, err
		}
	}
	cfg.Env = env
	return cfg, cfg.Validate()
}

// newRydberg builds the caesium ladder of cfg, backed by the element cache
// when enabled. The returned closer releases the cache.
func newRydberg(cfg *config.Config) (*transition.Rydberg, func(), error) {
	closer := func() {}
	opts := []atom.Option{atom.WithLogger(log)}
	if env.CacheEnabled() {
		c, err := cache.Open(env.CachePath, "Cs133", numerov.DefaultStep)
		if err != nil {
			log.Warn().Err(err).Str("path", env.CachePath).Msg("element cache unavailable")
		} else {
			opts = append(opts, atom.WithCache(c))
			closer = func() {
				if err := c.Close(); err != nil {
					log.Warn().Err(err).Msg("close element cache")
				}
			}
		}
	}

	r, err := transition.NewRydberg(atom.Cesium(opts...), cfg.Transition,
		transition.WithLogger(log), transition.WithTemperature(cfg.Temperature))
	if err != nil {
		closer()
		return nil, nil, err
	}
	if fast {
		if err := loadLookup(r, cfg.Transition); err != nil {
			closer()
			return nil, nil, err
		}
	}
	return r, closer, nil
}

// loadLookup restores the lookup tables saved for p, building and saving
// them on a miss.
func loadLookup(r *transition.Rydberg, p transition.Params) error {
	st := storage.New(dataDir)
	name := lookupName(p)
	snap, err := st.LoadLookup(name)
	if err == nil {
		if err = r.Restore(snap); err == nil {
			log.Debug().Str("lookup", name).Msg("lookup restored")
			return nil
		}
	}
	log.Info().Err(err).Str("lookup", name).Msg("building lookup tables")

	if err := r.InitFastLookup(); err != nil {
		return err
	}
	if snap, err = r.Snapshot(); err != nil {
		return err
	}
	if err := st.SaveLookup(name, snap); err != nil {
		log.Warn().Err(err).Msg("save lookup tables")
	}
	return nil
}

func lookupName(p transition.Params) string {
	name := fmt.Sprintf("cs_%s_%s_%s_q%d%d_w%.4g", p.Ground, p.Intermediate, p.Rydberg, p.Q1, p.Q2, p.Waist*1e6)
	return strings.ReplaceAll(name, "/", "_")
}

func ladder(p transition.Params) string {
	return fmt.Sprintf("%s -> %s -> %s", p.Ground, p.Intermediate, p.Rydberg)
}
