package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/chainsim/internal/analysis"
	"github.com/san-kum/chainsim/internal/automation"
	"github.com/san-kum/chainsim/internal/config"
	"github.com/san-kum/chainsim/internal/dynamo"
	"github.com/san-kum/chainsim/internal/experiment"
	"github.com/san-kum/chainsim/internal/export"
	"github.com/san-kum/chainsim/internal/optim"
	"github.com/san-kum/chainsim/internal/storage"
	"github.com/san-kum/chainsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	chains     int
	nodes      int
	spacing    float64
	tilt       float64
	friction   float64
	iterations int
	workers    int
	driver     string
	amplitude  float64
	frequency  float64
	axis       string
	// SVG output
	svgWidth  int
	svgHeight int
	outPath   string
	// Grid search
	gridParams []string
	metricName string
	// Lyapunov and Monte Carlo perturbations in degrees
	perturbation   float64
	mcPerturbation float64
	// Sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	seed       int64
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("chainsim: ")

	rootCmd := &cobra.Command{
		Use:   "chainsim",
		Short: "verlet chain simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chainsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot leaf height and stretch",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file (- for stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw leaf trajectories and final pose as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file (- for stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark solver ticks",
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "parallel workers")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "sway frequency of the first leaf",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [preset]",
		Short: "estimate sensitivity to the initial tilt",
		Args:  cobra.MaximumNArgs(1),
		RunE:  lyapunov,
	}
	addSceneFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-3, "tilt perturbation in degrees")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search config parameters minimising a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tune,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridParams, "param", nil, "param=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "max_stretch", "metric to minimise")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of presets from YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one config parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "friction", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "repeat a run with randomly perturbed tilt",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addSceneFlags(monteCarloCmd)
	monteCarloCmd.Flags().Float64Var(&mcPerturbation, "perturbation", 15, "max tilt perturbation in degrees")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		presetsCmd, benchCmd, analyzeCmd, lyapunovCmd, tuneCmd, scenarioCmd, sweepCmd, monteCarloCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.IntVar(&chains, "chains", config.DefaultChains, "number of chains")
	f.IntVar(&nodes, "nodes", config.DefaultNodes, "nodes per chain, root included")
	f.Float64Var(&spacing, "spacing", config.DefaultSpacing, "distance between nodes")
	f.Float64Var(&tilt, "tilt", config.DefaultTilt, "initial root tilt about Z in degrees")
	f.Float64Var(&friction, "friction", config.DefaultFriction, "damping factor in [0,1]")
	f.IntVar(&iterations, "iterations", config.DefaultIterations, "relaxation passes per tick")
	f.IntVar(&workers, "workers", config.DefaultWorkers, "parallel workers")
	f.StringVar(&driver, "driver", "none", "control driver (none, sway, manual)")
	f.Float64Var(&amplitude, "amplitude", 1.0, "sway amplitude")
	f.Float64Var(&frequency, "frequency", 0.5, "sway frequency in Hz")
	f.StringVar(&axis, "axis", "x", "sway axis")
}

// loadConfig resolves the preset argument, then the config file, then any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("chains") {
		cfg.Chains = chains
	}
	if flags.Changed("nodes") {
		cfg.Nodes = nodes
	}
	if flags.Changed("spacing") {
		cfg.Spacing = spacing
	}
	if flags.Changed("tilt") {
		cfg.Tilt = tilt
	}
	if flags.Changed("friction") {
		cfg.Friction = friction
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("driver") {
		cfg.Driver.Kind = driver
	}
	if flags.Changed("amplitude") {
		cfg.Driver.Amplitude = amplitude
	}
	if flags.Changed("frequency") {
		cfg.Driver.Frequency = frequency
	}
	if flags.Changed("axis") {
		cfg.Driver.Axis = axis
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry().DefaultMetrics()); err != nil {
		return err
	}

	fmt.Printf("running %s: %d chain(s) x %d nodes...\n", cfg.Name, cfg.Chains, cfg.Nodes)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		log.Printf("warning: %v", e)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for _, name := range experiment.NewRegistry().ListMetrics() {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tCHAINS\tNODES\tITER\tSTRETCH")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%d\t%.4f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Chains,
			run.Nodes,
			run.Iterations,
			run.Metrics["max_stretch"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.State, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, states, times, nil
}

// coord returns one coordinate of a node from a flat state.
func coord(s dynamo.State, nodes, chain, node, axis int) float64 {
	return s[3*(chain*nodes+node)+axis]
}

// stretchSeries measures every sample's worst link stretch against the
// link lengths of the first sample, which bake records as rest lengths.
func stretchSeries(states []dynamo.State, nodes int) []float64 {
	chainCount := len(states[0]) / (3 * nodes)
	link := func(s dynamo.State, c, n int) float64 {
		var d float64
		for a := 0; a < 3; a++ {
			v := coord(s, nodes, c, n, a) - coord(s, nodes, c, n-1, a)
			d += v * v
		}
		return math.Sqrt(d)
	}

	out := make([]float64, len(states))
	for i, s := range states {
		for c := 0; c < chainCount; c++ {
			for n := 1; n < nodes; n++ {
				rest := link(states[0], c, n)
				if rest == 0 {
					continue
				}
				out[i] = math.Max(out[i], math.Abs(link(s, c, n)-rest)/rest)
			}
		}
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if meta.Nodes < 1 || len(states[0]) != 3*meta.Chains*meta.Nodes {
		return fmt.Errorf("run %s: state does not match %d chains of %d nodes", meta.ID, meta.Chains, meta.Nodes)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(states))

	const maxPlots = 4
	for c := 0; c < meta.Chains && c < maxPlots; c++ {
		data := make([]float64, len(states))
		for i, s := range states {
			data[i] = coord(s, meta.Nodes, c, meta.Nodes-1, 1)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("chain %d leaf height", c)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	graph := asciigraph.Plot(stretchSeries(states, meta.Nodes),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("max stretch"),
	)
	fmt.Println(graph)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(args[0], outPath)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := storage.WriteStates(w, states, times, meta.Nodes); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg, err := export.RunToSVG(states, meta.Nodes, svgWidth, svgHeight)
	if err != nil {
		return err
	}
	if outPath == "" || outPath == "-" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCHAINS\tNODES\tSPACING\tFRICTION\tITER\tDRIVER")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.3f\t%d\t%s\n",
			name, p.Chains, p.Nodes, p.Spacing, p.Friction, p.Iterations, p.Driver.Kind)
	}
	return w.Flush()
}

func benchSolver(cmd *cobra.Command, args []string) error {
	const (
		benchChains = 8
		benchTicks  = 300
	)
	sizes := []int{8, 32, 128}
	passes := []int{1, 4, 16}

	fmt.Printf("benchmarking %d chains, %d ticks, %d workers\n\n", benchChains, benchTicks, workers)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODES\tITER\tTIME\tTICKS/SEC\tNODES/SEC")

	for _, n := range sizes {
		for _, it := range passes {
			cfg := config.DefaultConfig()
			cfg.Chains = benchChains
			cfg.Nodes = n
			cfg.Iterations = it
			cfg.Workers = workers

			solver, _, err := cfg.Build()
			if err != nil {
				return err
			}
			solver.DriveRoots()

			start := time.Now()
			for i := 0; i < benchTicks; i++ {
				if err := solver.Tick(float32(cfg.Dt)); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)

			ticksPerSec := float64(benchTicks) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.0f\n",
				n, it, elapsed, ticksPerSec, ticksPerSec*float64(benchChains*(n-1)))
		}
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if meta.Nodes < 1 || len(states[0]) < 3*meta.Nodes {
		return fmt.Errorf("run %s: state too short for %d nodes", meta.ID, meta.Nodes)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s\n\n", meta.Preset)

	data := make([]float64, len(states))
	for i, s := range states {
		data[i] = coord(s, meta.Nodes, 0, meta.Nodes-1, 0)
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)
	ps := analysis.PowerSpectrum(padded)

	graph := asciigraph.Plot(ps[:max(len(ps)/4, 1)],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (leaf x)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, _ := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	lambda, err := analysis.LyapunovExponent(cfg, perturbation)
	if err != nil {
		return err
	}

	fmt.Printf("%s: lyapunov exponent %.4f /s\n", cfg.Name, lambda)
	if lambda > 0 {
		fmt.Println("motion is sensitive to the initial tilt")
	}
	return nil
}

// parseGrid reads "name=v1,v2,..." flags.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
		}
		values := make([]float64, 0)
		for _, v := range strings.Split(list, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad --param %q: %w", spec, err)
			}
			values = append(values, f)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(gridParams) == 0 {
		return fmt.Errorf("at least one --param is required (available: %v)", optim.ParamNames())
	}

	names, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	start := time.Now()
	best, value, err := g.Search(context.Background(), cfg, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f (searched in %v)\n", metricName, value, time.Since(start))
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	results, err := automation.RunScenario(context.Background(), sc, st)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tNAME\tSTEPS\tSTRETCH\tSAG\tRUN")
	for i, r := range results {
		for _, e := range r.Result.Errors {
			log.Printf("step %d: warning: %v", i+1, e)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.4f\t%.4f\t%s\n",
			i+1, r.Config.Name, r.Result.StepsTaken, r.Result.Metrics["max_stretch"], r.Result.Metrics["leaf_sag"], r.RunID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTRETCH\tSAG\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\n", r.ParamValue, r.MaxStretch, r.LeafSag)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: mcPerturbation,
		NumTrials:    trials,
		Seed:         seed,
	})
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("%s: %d trials, %d stable, %d unstable\n", cfg.Name, len(results), stable, unstable)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
