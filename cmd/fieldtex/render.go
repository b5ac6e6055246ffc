package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/fieldtex/internal/config"
	"github.com/san-kum/fieldtex/internal/metrics"
	"github.com/san-kum/fieldtex/internal/sim"
	"github.com/san-kum/fieldtex/internal/storage"
	"github.com/san-kum/fieldtex/internal/viz"
)

const summaryMetric = "kinetic_energy"

// resolveConfig layers defaults, the preset, the config file and then any
// flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.LookupPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		if err := config.LoadInto(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Grid.Width = width
	}
	if flags.Changed("height") {
		cfg.Grid.Height = height
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("substeps") {
		cfg.Substeps = substeps
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("nodes") {
		cfg.Model.Nodes = nodes
	}
	if flags.Changed("node-radius") {
		cfg.Model.NodeRadius = nodeRadius
	}
	if flags.Changed("time-scale") {
		cfg.Model.TimeScale = timeScale
	}
	if flags.Changed("softening") {
		cfg.Model.Softening = softening
	}
	if flags.Changed("drag") {
		cfg.Model.Drag = drag
	}
	if flags.Changed("spring") {
		cfg.Model.Spring = spring
	}
	if flags.Changed("seed-amplitude") {
		cfg.Seed.Amplitude = seedAmp
	}
	if flags.Changed("seed-frequency") {
		cfg.Seed.Frequency = seedFreq
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("continue-on-error") {
		cfg.Output.ContinueOnSinkError = keepGoing
	}
	if cfg.Output.Dir == "" || cmd.Flags().Changed("data") {
		cfg.Output.Dir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	simCfg := cfg.ToSim()
	s, err := sim.New(simCfg)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	st := storage.New(cfg.Output.Dir)
	run, err := st.Begin(runName, simCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	var result *sim.Result
	if live {
		result, err = viz.RunLive(ctx, s, run, run.ID(), summaryMetric)
	} else {
		if !quiet {
			fmt.Fprintf(out, "%s %s (%dx%d, %d frames, %s)\n",
				viz.GradientTitle.Render("rendering"), run.ID(),
				simCfg.Width, simCfg.Height, simCfg.Frames, simCfg.Integrator)
			rep := viz.NewReporter(out)
			rep.RowInterval = rowEvery
			s.AddObserver(rep)
		}
		result, err = s.Run(ctx, run)
	}

	if ferr := run.Finish(result, err); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		return err
	}

	if !quiet {
		printSummary(cmd, run, result)
	}
	return nil
}

func printSummary(cmd *cobra.Command, run *storage.Run, result *sim.Result) {
	out := cmd.OutOrStdout()

	body := fmt.Sprintf("run: %s\ndir: %s\nframes: %d\nskipped: %d\nclock: %.4f\nelapsed: %s",
		run.ID(), run.Dir(), len(result.Frames), len(result.SkippedFrames),
		result.FinalClock, result.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(out, viz.GlassPanel.Render(body))

	series, err := viz.MetricSeries(result.Frames, summaryMetric)
	if err == nil && len(series) > 0 {
		fmt.Fprintln(out, viz.PlotMetric(series, summaryMetric, 60, 8))
	}
}
