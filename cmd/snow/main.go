package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/hawkgs/snow/internal/config"
	"github.com/hawkgs/snow/internal/metrics"
	"github.com/hawkgs/snow/internal/sim"
	"github.com/hawkgs/snow/internal/storage"
	"github.com/hawkgs/snow/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	mode       string
	intensity  int
	fps        int
	seed       int64
	ttlSecs    float64
	gravity    float64
	drag       float64
	windX      float64
	duration   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "snow",
		Short: "animated snow/rain particle effect for the terminal",
		RunE:  runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".snow", "data directory for recorded runs")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the animation with live tuning",
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record population samples",
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&duration, "time", 30.0, "simulated duration in seconds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list available presets for a mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for mode: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark tick throughput",
		RunE:  benchTicks,
	}

	for _, cmd := range []*cobra.Command{rootCmd, liveCmd, runCmd, benchCmd} {
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
		cmd.Flags().StringVar(&mode, "mode", config.ModeSnow, "snow or rain")
		cmd.Flags().IntVar(&intensity, "intensity", config.DefaultIntensity, "particles spawned per tick")
		cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
		cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = non-deterministic)")
		cmd.Flags().Float64Var(&ttlSecs, "ttl", config.DefaultTTLSeconds, "particle time-to-live in seconds")
		cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity constant")
		cmd.Flags().Float64Var(&drag, "drag", config.DefaultDrag, "drag coefficient")
		cmd.Flags().Float64Var(&windX, "wind", 0.02, "horizontal wind force")
	}

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCSVCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig merges, lowest priority first: defaults, preset, config
// file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(mode, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(mode))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("mode") {
		cfg.Mode = mode
	}
	if cmd.Flags().Changed("intensity") {
		cfg.Intensity = intensity
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = fps
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("ttl") {
		cfg.TTLSeconds = ttlSecs
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Forces.Gravity = gravity
	}
	if cmd.Flags().Changed("drag") {
		cfg.Forces.Drag = drag
	}
	if cmd.Flags().Changed("wind") {
		cfg.Forces.Wind.X = windX
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(cfg)
}

// runHeadless drives the population on a simulated clock (one frame interval
// per tick, no sleeping) and records per-tick samples.
func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	pop, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}

	count := metrics.NewCount()
	resting := metrics.NewRestingFraction()
	speed := metrics.NewMeanFallSpeed()
	pop.AddMetric(count)
	pop.AddMetric(resting)
	pop.AddMetric(speed)

	frame := cfg.FrameInterval()
	steps := int(duration * float64(cfg.FPS))
	samples := make([]storage.Sample, 0, steps)

	fmt.Printf("running %s simulation (%d ticks at %d fps)...\n", cfg.Mode, steps, cfg.FPS)
	start := time.Now()
	now := start

	for i := 0; i < steps; i++ {
		now = now.Add(frame)
		if err := pop.Tick(now); err != nil {
			return err
		}
		samples = append(samples, storage.Sample{
			Time:       float64(i+1) * frame.Seconds(),
			Population: pop.Len(),
			Resting:    pop.Resting(),
			MeanSpeed:  speed.Value(),
		})
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, duration, samples, map[string]float64{
		count.Name():     count.Value(),
		"population_max": count.Peak(),
		resting.Name():   resting.Value(),
		speed.Name():     speed.Value(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("final population: %d (%d resting)\n", pop.Len(), pop.Resting())
	fmt.Printf("peak population: %.0f\n", count.Peak())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tDURATION\tFPS\tINTENSITY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%d\t%d\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.DurationSeconds,
			run.FPS,
			run.Intensity,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s\n", meta.Mode)
	fmt.Printf("samples: %d\n\n", len(samples))

	population := make([]float64, len(samples))
	speeds := make([]float64, len(samples))
	for i, sm := range samples {
		population[i] = float64(sm.Population)
		speeds[i] = sm.MeanSpeed
	}

	fmt.Println(asciigraph.Plot(population,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("population vs time"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(speeds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("mean fall speed vs time"),
	))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return storage.WriteSamplesCSV(os.Stdout, samples)
}

func benchTicks(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	intensities := []int{1, 5, 10}
	const ticks = 2000

	fmt.Printf("benchmarking %s mode\n\n", cfg.Mode)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTENSITY\tTICKS\tPEAK POP\tTIME\tTICKS/SEC")

	for _, n := range intensities {
		c := *cfg
		c.Intensity = n
		c.Seed = 42

		pop, err := sim.FromConfig(&c)
		if err != nil {
			return err
		}
		count := metrics.NewCount()
		pop.AddMetric(count)

		frame := c.FrameInterval()
		now := time.Unix(0, 0)

		start := time.Now()
		for i := 0; i < ticks; i++ {
			now = now.Add(frame)
			if err := pop.Tick(now); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%.0f\t%v\t%.0f\n",
			n, ticks, count.Peak(), elapsed, float64(ticks)/elapsed.Seconds())
	}
	return w.Flush()
}
