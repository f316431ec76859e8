package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/san-kum/drivesim/internal/config"
	"github.com/san-kum/drivesim/internal/control"
	"github.com/san-kum/drivesim/internal/experiment"
	"github.com/san-kum/drivesim/internal/export"
	"github.com/san-kum/drivesim/internal/logging"
	"github.com/san-kum/drivesim/internal/metrics"
	"github.com/san-kum/drivesim/internal/optim"
	"github.com/san-kum/drivesim/internal/sim"
	"github.com/san-kum/drivesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	seed       int64
	controller string
	fps        float64
	duration   float64
	rewards    int
	logLevel   string
	jsonLogs   bool
	// ensemble
	numRuns int
	// tune
	gridSpecs  []string
	tuneMetric string
	// drive
	theme string
	// run
	plotWidth int
	svgPath   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "drivesim",
		Short:         "bicycle-model driving simulator with reward collection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "scenario file (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset scenario")
	pf.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for marker placement")
	pf.StringVar(&controller, "controller", "pursuit", "controller")
	pf.Float64Var(&fps, "fps", config.DefaultFPS, "frames per second")
	pf.Float64Var(&duration, "time", config.DefaultDuration, "episode length in seconds")
	pf.IntVar(&rewards, "rewards", config.DefaultRewards, "number of random markers")
	pf.StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.BoolVar(&jsonLogs, "json", false, "log as json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one headless episode",
		RunE:  runEpisode,
	}
	runCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the episode as svg to this path")

	driveCmd := &cobra.Command{
		Use:   "drive",
		Short: "drive the car from the keyboard",
		RunE:  runDrive,
	}
	driveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run seeded episodes in parallel",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of episodes")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search over pursuit gains",
		RunE:  runTune,
	}
	tuneCmd.Flags().StringSliceVar(&gridSpecs, "grid", []string{"kp=0.5:4:4", "cruise=100:400:4"}, "parameter ranges as name=lo:hi:n")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "reward", "metric to maximize")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCONTROLLER\tMARKERS\tDURATION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				markers := fmt.Sprintf("%d random", cfg.Arena.Count)
				if len(cfg.Rewards) > 0 {
					markers = fmt.Sprintf("%d fixed", len(cfg.Rewards))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\n", name, cfg.Controller, markers, cfg.Duration)
			}
			return w.Flush()
		},
	}

	controllersCmd := &cobra.Command{
		Use:   "controllers",
		Short: "list available controllers",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListControllers() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, driveCmd, ensembleCmd, tuneCmd, presetsCmd, controllersCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	return logging.New(os.Stderr, logLevel, !jsonLogs)
}

// loadConfig layers the scenario: defaults, then preset, then config file,
// then any flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("controller") || cfg.Controller == "" {
		cfg.Controller = controller
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("rewards") {
		cfg.Rewards = nil
		cfg.Arena.Count = rewards
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return cfg, nil
}

func buildExperiment(cfg *config.Config, runSeed int64, logger zerolog.Logger) (*experiment.Experiment, error) {
	ctrl, err := experiment.NewRegistry().GetController(cfg.Controller, cfg, runSeed)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg, runSeed, logger)
	if err := exp.Setup(ctrl, metrics.Defaults()); err != nil {
		return nil, err
	}
	return exp, nil
}

func runEpisode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()

	exp, err := buildExperiment(cfg, cfg.Seed, logger)
	if err != nil {
		return err
	}

	initial := exp.GetSimulator().State().Rewards
	tr := newTrace(exp.GetSimulator().State())
	exp.GetSimulator().AddListener(tr)

	logger.Info().
		Str("scenario", cfg.Name).
		Str("controller", cfg.Controller).
		Int64("seed", cfg.Seed).
		Int("markers", len(initial)).
		Msg("running episode")

	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("episode failed: %w", err)
	}

	logger.Info().
		Dur("elapsed", time.Since(start)).
		Int("steps", result.StepsTaken).
		Float64("reward", result.TotalReward).
		Int("remaining", exp.GetSimulator().Remaining()).
		Msg("episode finished")

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, result.Metrics[name])
	}

	if len(tr.speeds) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(tr.speeds,
			asciigraph.Height(10),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("speed"),
		))
	}

	if len(tr.cumulative) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(tr.cumulative,
			asciigraph.Height(8),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("cumulative reward"),
		))
	}

	if svgPath != "" {
		scene := export.Scene{
			Viewport:  viz.DefaultViewport(),
			Radius:    cfg.Limits.CaptureRadius,
			Initial:   initial,
			Remaining: exp.GetSimulator().State().Rewards,
			Path:      result.States,
		}
		if err := export.WriteEpisodeSVG(svgPath, scene); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
		logger.Info().Str("path", svgPath).Msg("episode written")
	}

	return nil
}

func runDrive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// The alt screen owns the terminal; logs are held until it closes.
	var logs bytes.Buffer
	logger := logging.New(&logs, logLevel, !jsonLogs)
	err = viz.Drive(cfg, cfg.Seed,
		viz.WithTheme(viz.GetTheme(theme)),
		viz.WithDriveLogger(logger),
	)
	os.Stderr.Write(logs.Bytes())
	if err != nil {
		return fmt.Errorf("drive: %w", err)
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}
	logger := newLogger()

	ens := sim.NewEnsemble(func(ctx context.Context, runSeed int64) (*sim.Result, error) {
		exp, err := buildExperiment(cfg, runSeed, logger.With().Int64("seed", runSeed).Logger())
		if err != nil {
			return nil, err
		}
		return exp.Run(ctx)
	}, numRuns, cfg.Seed)

	start := time.Now()
	results, err := ens.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("ensemble failed: %w", err)
	}
	logger.Info().Int("runs", numRuns).Dur("elapsed", time.Since(start)).Msg("ensemble finished")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tREWARD\tCAPTURES\tDISTANCE\tEFFORT\tSTEPS")
	sum := 0.0
	for i, r := range results {
		sum += r.TotalReward
		fmt.Fprintf(w, "%d\t%.1f\t%.0f\t%.1f\t%.2f\t%d\n",
			cfg.Seed+int64(i), r.TotalReward, r.Metrics["captures"], r.Metrics["distance"],
			r.Metrics["control_effort"], r.StepsTaken)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nmean reward: %.2f\n", sum/float64(len(results)))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}
	logger := newLogger()

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		p := control.NewPursuit(cfg.Pursuit)
		for name, v := range params {
			if err := p.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg, cfg.Seed, zerolog.Nop())
		if err := exp.Setup(p, metrics.Defaults()); err != nil {
			return nil, err
		}
		return exp, nil
	}

	logger.Info().Strs("params", names).Str("metric", tuneMetric).Msg("starting grid search")
	best, value, err := optim.NewGridSearch(names, ranges).Search(cmd.Context(), build, tuneMetric)
	if err != nil {
		return fmt.Errorf("tune: %w", err)
	}

	fmt.Printf("best %s: %.4f\n", tuneMetric, value)
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, best[name])
	}
	return nil
}

// parseGrid turns "name=lo:hi:n" specs into parameter ranges.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, rng, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("invalid grid spec %q: want name=lo:hi:n", spec)
		}
		parts := strings.Split(rng, ":")
		if len(parts) != 3 {
			return nil, nil, fmt.Errorf("invalid grid spec %q: want name=lo:hi:n", spec)
		}
		lo, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("grid %s: %w", name, err)
		}
		hi, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("grid %s: %w", name, err)
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil || n <= 0 {
			return nil, nil, fmt.Errorf("grid %s: point count must be a positive integer", name)
		}
		names = append(names, name)
		ranges = append(ranges, optim.Linspace(lo, hi, n))
	}
	return names, ranges, nil
}
