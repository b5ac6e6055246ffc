package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/fieldtex/internal/config"
	"github.com/san-kum/fieldtex/internal/integrators"
	"github.com/san-kum/fieldtex/internal/storage"
	"github.com/san-kum/fieldtex/internal/viz"
)

var (
	dataDir string
	// Config file
	configFile string
	preset     string
	runName    string
	live       bool
	quiet      bool
	// Grid and timing
	width    int
	height   int
	frames   int
	substeps int
	dt       float64
	// Model
	nodes      int
	nodeRadius float64
	timeScale  float64
	softening  float64
	drag       float64
	spring     float64
	seedAmp    float64
	seedFreq   float64
	integrator string
	workers    int
	rowEvery   int
	keepGoing  bool
	// plot/export
	metricName string
	outFile    string
	initPreset string
	gifFile    string
	gifDelay   int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.StatusFailed.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fieldtex",
		Short:         "render force-field texture animations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultOutputDir, "data directory")

	def := config.DefaultConfig()

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "simulate the mass field and write one PNG per frame",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	f := renderCmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&runName, "name", "fieldtex", "run name prefix")
	f.BoolVar(&live, "live", false, "show live progress view")
	f.BoolVar(&quiet, "quiet", false, "suppress progress output")
	f.IntVar(&width, "width", def.Grid.Width, "grid width in masses (image width)")
	f.IntVar(&height, "height", def.Grid.Height, "grid height in masses (image height)")
	f.IntVar(&frames, "frames", def.Frames, "number of frames")
	f.IntVar(&substeps, "substeps", def.Substeps, "integrator steps per frame")
	f.Float64Var(&dt, "dt", def.Dt, "timestep")
	f.IntVar(&nodes, "nodes", def.Model.Nodes, "number of attractor nodes")
	f.Float64Var(&nodeRadius, "node-radius", def.Model.NodeRadius, "node ring radius")
	f.Float64Var(&timeScale, "time-scale", def.Model.TimeScale, "ring angle per unit clock")
	f.Float64Var(&softening, "softening", def.Model.Softening, "softening length")
	f.Float64Var(&drag, "drag", def.Model.Drag, "velocity damping")
	f.Float64Var(&spring, "spring", def.Model.Spring, "restoring spring")
	f.Float64Var(&seedAmp, "seed-amplitude", def.Seed.Amplitude, "initial velocity amplitude")
	f.Float64Var(&seedFreq, "seed-frequency", def.Seed.Frequency, "initial velocity frequency")
	f.StringVar(&integrator, "integrator", def.Integrator, fmt.Sprintf("integrator %v", integrators.Names()))
	f.IntVar(&workers, "workers", 0, "row workers (0 = GOMAXPROCS)")
	f.IntVar(&rowEvery, "row-interval", viz.DefaultRowInterval, "print progress every n rows")
	f.BoolVar(&keepGoing, "continue-on-error", false, "skip frames the sink fails to save")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-frame metrics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "plot only this metric")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and stats as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&gifFile, "gif", "", "also write the frames as an animated gif")
	exportCmd.Flags().IntVar(&gifDelay, "delay", storage.DefaultGIFDelay, "gif frame delay (1/100 s)")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&initPreset, "preset", config.DefaultPreset, "preset to start from")

	rootCmd.AddCommand(renderCmd, presetsCmd, listCmd, plotCmd, exportCmd, initCmd)
	return rootCmd
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tFRAMES\tSUBSTEPS\tDT\tSOFTENING")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%d\t%g\t%g\n",
			name, c.Grid.Width, c.Grid.Height, c.Frames, c.Substeps, c.Dt, c.Model.Softening)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nintegrators: %v\n", integrators.Names())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tGRID\tFRAMES\tINTEG\tELAPSED\tSTATUS")

	for _, run := range runs {
		status := runStatus(run)
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d/%d\t%s\t%.2fs\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Width, run.Config.Height,
			len(run.Files), run.Config.Frames,
			run.Config.Integrator,
			run.Elapsed,
			status,
		)
	}

	return w.Flush()
}

// runStatus reports incomplete runs first; skipped frames only qualify a
// run that finished.
func runStatus(run storage.RunMetadata) string {
	if !run.Complete {
		return "incomplete"
	}
	if len(run.SkippedFrames) > 0 {
		return fmt.Sprintf("%d skipped", len(run.SkippedFrames))
	}
	return "ok"
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}

	if len(stats) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "frames: %d\n\n", len(stats))

	names := []string{metricName}
	if metricName == "" {
		names = names[:0]
		for name := range stats[0].Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	for _, name := range names {
		data := make([]float64, len(stats))
		for i, s := range stats {
			v, ok := s.Metrics[name]
			if !ok {
				return fmt.Errorf("metric %q not recorded in run %s", name, runID)
			}
			data[i] = v
		}
		fmt.Fprintln(out, viz.PlotMetric(data, name, 80, 10))
		fmt.Fprintln(out)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	if gifFile != "" {
		if err := exportGIF(st, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", gifFile)
	}

	if outFile == "" {
		return st.Export(cmd.OutOrStdout(), args[0])
	}

	file, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := st.Export(file, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", outFile)
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LookupPreset(initPreset)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (preset %s)\n", args[0], initPreset)
	return nil
}

func exportGIF(st *storage.Store, runID string) error {
	file, err := os.Create(gifFile)
	if err != nil {
		return err
	}
	if err := st.ExportGIF(file, runID, gifDelay); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
