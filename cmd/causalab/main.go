package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/causalab/internal/analysis"
	"github.com/san-kum/causalab/internal/config"
	"github.com/san-kum/causalab/internal/discover"
	"github.com/san-kum/causalab/internal/experiment"
	"github.com/san-kum/causalab/internal/models"
	"github.com/san-kum/causalab/internal/optim"
	"github.com/san-kum/causalab/internal/score"
	"github.com/san-kum/causalab/internal/sim"
	"github.com/san-kum/causalab/internal/storage"
	"github.com/san-kum/causalab/internal/trace"
	"github.com/san-kum/causalab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir      string
	dt           float64
	duration     float64
	stride       int
	obsSteps     string
	samples      int
	perturbScale float64
	perturbVars  string
	noiseSigma   float64
	seed         int64
	integrator   string
	alpha        float64
	maxCond      int
	initState    string
	// Config file
	configFile string
	// Preset name
	preset string
	// Tuning grids
	alphaGrid   string
	maxCondGrid string
	// Graph selection for graph/plot commands
	which    string
	asMatrix bool
	column   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "causalab",
		Short: "causal discovery benchmark on simulated dynamical systems",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".causalab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run the full benchmark pipeline",
		Args:  cobra.ExactArgs(1),
		RunE:  runBenchmark,
	}
	addPipelineFlags(runCmd)

	simulateCmd := &cobra.Command{
		Use:   "simulate [model]",
		Short: "simulate a single trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulate,
	}
	simulateCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	simulateCmd.Flags().Float64Var(&duration, "time", 1.0, "duration")
	simulateCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	simulateCmd.Flags().StringVar(&initState, "init", "", "initial state, comma separated")

	traceCmd := &cobra.Command{
		Use:   "trace [model]",
		Short: "trace the ground-truth dependency graph",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrace,
	}
	traceCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	traceCmd.Flags().Float64Var(&duration, "time", 1.0, "duration")
	traceCmd.Flags().IntVar(&stride, "stride", 10, "integrator steps per save")
	traceCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	traceCmd.Flags().StringVar(&initState, "init", "", "initial state, comma separated")

	discoverCmd := &cobra.Command{
		Use:   "discover [run_id]",
		Short: "rerun discovery on a stored dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runDiscover,
	}
	discoverCmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "CI test significance level")
	discoverCmd.Flags().IntVar(&maxCond, "max-cond", config.DefaultMaxCond, "max conditioning set size")

	scoreCmd := &cobra.Command{
		Use:   "score [run_id]",
		Short: "score a stored run against its traced truth",
		Args:  cobra.ExactArgs(1),
		RunE:  runScore,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot dataset columns across samples",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "plot only the named column")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [model]",
		Short: "stability and frequency analysis of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeModel,
	}
	analyzeCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	analyzeCmd.Flags().Float64Var(&duration, "time", 10.0, "duration")
	analyzeCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")

	tuneCmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "grid-search discovery hyperparameters",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneModel,
	}
	addPipelineFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&alphaGrid, "alphas", "0.001,0.01,0.05,0.1", "alpha candidates")
	tuneCmd.Flags().StringVar(&maxCondGrid, "max-conds", "1,2,3", "max conditioning set candidates")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run the pipeline with a live progress view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addPipelineFlags(liveCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's dataset to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as one JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	graphCmd := &cobra.Command{
		Use:   "graph [run_id]",
		Short: "print a run's graph in DOT format",
		Args:  cobra.ExactArgs(1),
		RunE:  printGraph,
	}
	graphCmd.Flags().StringVar(&which, "which", "recovered", "truth or recovered")
	graphCmd.Flags().BoolVar(&asMatrix, "matrix", false, "print adjacency matrix instead of DOT")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, simulateCmd, traceCmd, discoverCmd, scoreCmd, listCmd,
		plotCmd, analyzeCmd, tuneCmd, liveCmd, exportCSVCmd, exportJSONCmd, graphCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&stride, "stride", config.DefaultStride, "integrator steps per save")
	cmd.Flags().StringVar(&obsSteps, "obs", "0,5,10", "observed save steps, comma separated")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "ensemble size")
	cmd.Flags().Float64Var(&perturbScale, "scale", config.DefaultPerturbScale, "initial condition perturbation scale")
	cmd.Flags().StringVar(&perturbVars, "perturb-vars", "", "perturbed variable indices, comma separated (default all)")
	cmd.Flags().Float64Var(&noiseSigma, "noise", 0, "measurement noise sigma")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "CI test significance level")
	cmd.Flags().IntVar(&maxCond, "max-cond", config.DefaultMaxCond, "max conditioning set size")
	cmd.Flags().StringVar(&initState, "init", "", "initial state, comma separated")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// pipelineConfig resolves the effective configuration for a run:
// preset values first, then the config file, then explicit flags.
func pipelineConfig(cmd *cobra.Command, model string) (experiment.Config, error) {
	fileCfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return experiment.Config{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		fileCfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return experiment.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = loaded
	}

	cfg := fileCfg.ToExperiment()
	cfg.Model = model

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("stride") {
		cfg.Stride = stride
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("samples") {
		cfg.Samples = samples
	}
	if cmd.Flags().Changed("scale") {
		cfg.PerturbScale = perturbScale
	}
	if cmd.Flags().Changed("noise") {
		cfg.NoiseSigma = noiseSigma
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("alpha") {
		cfg.Alpha = alpha
	}
	if cmd.Flags().Changed("max-cond") {
		cfg.MaxCond = maxCond
	}
	if cmd.Flags().Changed("obs") {
		steps, err := parseInts(obsSteps)
		if err != nil {
			return experiment.Config{}, fmt.Errorf("bad --obs: %w", err)
		}
		cfg.ObsSteps = steps
	}
	if cmd.Flags().Changed("perturb-vars") {
		vars, err := parseInts(perturbVars)
		if err != nil {
			return experiment.Config{}, fmt.Errorf("bad --perturb-vars: %w", err)
		}
		cfg.PerturbVars = vars
	}
	if cmd.Flags().Changed("init") {
		init, err := parseFloats(initState)
		if err != nil {
			return experiment.Config{}, fmt.Errorf("bad --init: %w", err)
		}
		cfg.InitState = init
	}

	return cfg, nil
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s benchmark (%d samples)...\n", cfg.Model, cfg.Samples)
	start := time.Now()

	res, err := experiment.NewPipeline(cfg, experiment.NewRegistry()).Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(res)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ci tests: %d\n\n", res.Recovered.Tests)

	fmt.Println(viz.RenderReport(res.Report))
	fmt.Println(viz.HeaderStyle.Render("recovered"))
	fmt.Println(viz.RenderEdges(res.Recovered.Graph))

	if len(res.Recovered.Ambiguous) > 0 {
		fmt.Printf("ambiguous edges: %d\n", len(res.Recovered.Ambiguous))
	}
	if len(res.Recovered.Latent) > 0 {
		fmt.Printf("latent candidates: %d\n", len(res.Recovered.Latent))
	}

	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	dyn, err := registry.GetModel(args[0])
	if err != nil {
		return err
	}
	integ, err := registry.GetIntegrator(integrator)
	if err != nil {
		return err
	}

	x0 := dyn.DefaultInit()
	if initState != "" {
		init, err := parseFloats(initState)
		if err != nil {
			return fmt.Errorf("bad --init: %w", err)
		}
		x0 = sim.State(init)
	}

	s := sim.New(dyn, integ)
	result, err := s.Run(context.Background(), x0, sim.Config{
		Dt:            dt,
		Duration:      duration,
		ValidateState: true,
	})
	if err != nil {
		return err
	}

	fmt.Printf("simulated %s: %d steps\n\n", args[0], result.StepsTaken)

	names := dyn.VarNames()
	maxPlots := 6
	for i, name := range names {
		if i >= maxPlots {
			break
		}
		data := make([]float64, len(result.States))
		for k := range result.States {
			data[k] = result.States[k][i]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	final := result.States[len(result.States)-1]
	fmt.Print("final state:")
	for i, name := range names {
		fmt.Printf(" %s=%.6f", name, final[i])
	}
	fmt.Println()

	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	dyn, err := registry.GetModel(args[0])
	if err != nil {
		return err
	}

	x0 := dyn.DefaultInit()
	if initState != "" {
		init, err := parseFloats(initState)
		if err != nil {
			return fmt.Errorf("bad --init: %w", err)
		}
		x0 = sim.State(init)
	}

	tracer, err := trace.NewTracer(dyn, integrator)
	if err != nil {
		return err
	}

	saves := int(duration/dt+0.5) / stride
	g, err := tracer.Run(x0, dt, saves, stride)
	if err != nil {
		return err
	}

	fmt.Printf("traced %s over %d save steps (%d edges)\n\n", args[0], saves, g.NumEdges())
	fmt.Println(viz.RenderEdges(g))
	return nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	ds, err := st.LoadDataset(args[0])
	if err != nil {
		return err
	}

	res, err := discover.Run(ds.Rows, ds.Columns, discover.Options{Alpha: alpha, MaxCond: maxCond})
	if err != nil {
		return err
	}

	fmt.Printf("discovery on %s: %d CI tests\n\n", args[0], res.Tests)
	fmt.Println(viz.RenderEdges(res.Graph))

	truth, _, err := st.LoadGraphs(args[0])
	if err == nil {
		fmt.Println(viz.RenderReport(score.Compare(truth, res.Graph)))
	}

	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	truth, recovered, err := st.LoadGraphs(args[0])
	if err != nil {
		return err
	}

	report := score.Compare(truth, recovered)
	fmt.Println(viz.RenderReport(report))
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSAMPLES\tF1\tSHD\tTESTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%d\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Samples,
			run.Report.AdjacencyF1,
			run.Report.SHD,
			run.Tests,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	ds, err := st.LoadDataset(args[0])
	if err != nil {
		return err
	}
	if len(ds.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	cols := ds.Columns
	if column != "" {
		cols = []string{column}
	}

	maxPlots := 6
	plotted := 0
	for _, name := range cols {
		if plotted >= maxPlots {
			break
		}
		data, ok := ds.Column(name)
		if !ok {
			return fmt.Errorf("unknown column: %s", name)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" across samples"),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}

	return nil
}

func analyzeModel(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	dyn, err := registry.GetModel(args[0])
	if err != nil {
		return err
	}
	integ, err := registry.GetIntegrator(integrator)
	if err != nil {
		return err
	}

	x0 := dyn.DefaultInit()

	fmt.Printf("analyzing %s\n\n", args[0])

	lambda := analysis.LyapunovExponent(dyn, integ, x0, dt, duration, 1e-8)
	fmt.Printf("largest lyapunov exponent: %.4f", lambda)
	if lambda > 0.01 {
		fmt.Print("  (chaotic)")
	}
	fmt.Println()

	spectrum := analysis.LyapunovSpectrum(dyn, integ, x0, dt, duration, 1e-8)
	names := dyn.VarNames()
	for i, l := range spectrum {
		fmt.Printf("  %s: %.4f\n", names[i], l)
	}
	fmt.Println()

	s := sim.New(dyn, integ)
	data := make([]float64, 0, int(duration/dt+0.5)+1)
	err = s.RunWithCallback(context.Background(), x0, sim.Config{Dt: dt, Duration: duration, ValidateState: true},
		func(x sim.State, t float64) bool {
			data = append(data, x[0])
			return true
		})
	if err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", names[0])),
	)
	fmt.Println(graph)
	fmt.Println()

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(plotData); i++ {
		if plotData[i] > maxPower {
			maxPower = plotData[i]
			maxIdx = i
		}
	}

	freq := float64(maxIdx) / duration
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if sweep, ok := sweepFor(args[0]); ok {
		fmt.Println()
		points := analysis.Bifurcation(sweep.build, integ, x0, sweep.min, sweep.max, 40, 0, dt, duration, duration/2)

		spread := make([]float64, len(points))
		for i, pt := range points {
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, v := range pt.Values {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
			if len(pt.Values) > 0 {
				spread[i] = hi - lo
			}
		}

		sweepPlot := asciigraph.Plot(spread,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("attractor spread of %s over %s in [%g, %g]",
				names[0], sweep.name, sweep.min, sweep.max)),
		)
		fmt.Println(sweepPlot)
	}

	return nil
}

type paramSweep struct {
	name     string
	min, max float64
	build    func(param float64) sim.System
}

// sweepFor picks the parameter each model is most sensitive to.
func sweepFor(model string) (paramSweep, bool) {
	switch model {
	case "pendulum":
		return paramSweep{"damping", 0.0, 1.0, func(p float64) sim.System {
			m := models.NewPendulum()
			m.Damping = p
			return m
		}}, true
	case "lotka_volterra":
		return paramSweep{"alpha", 0.5, 2.0, func(p float64) sim.System {
			m := models.NewLotkaVolterra()
			m.Alpha = p
			return m
		}}, true
	case "sir":
		return paramSweep{"beta", 0.05, 0.5, func(p float64) sim.System {
			m := models.NewSIR()
			m.Beta = p
			return m
		}}, true
	case "hiv":
		return paramSweep{"n_t", 50.0, 200.0, func(p float64) sim.System {
			m := models.NewHIV()
			m.NT = p
			return m
		}}, true
	}
	return paramSweep{}, false
}

func tuneModel(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd, args[0])
	if err != nil {
		return err
	}

	alphas, err := parseFloats(alphaGrid)
	if err != nil {
		return fmt.Errorf("bad --alphas: %w", err)
	}
	maxConds, err := parseInts(maxCondGrid)
	if err != nil {
		return fmt.Errorf("bad --max-conds: %w", err)
	}

	fmt.Printf("tuning %s over %d combinations...\n", cfg.Model, len(alphas)*len(maxConds))
	start := time.Now()

	tuned, f1, err := optim.TuneDiscovery(context.Background(), cfg, experiment.NewRegistry(), alphas, maxConds)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))
	fmt.Printf("best alpha: %g\n", tuned.Alpha)
	fmt.Printf("best max-cond: %d\n", tuned.MaxCond)
	fmt.Printf("adjacency f1: %.3f\n", f1)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd, args[0])
	if err != nil {
		return err
	}

	m := viz.NewLiveModel(cfg, experiment.NewRegistry())
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func printGraph(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	truth, recovered, err := st.LoadGraphs(args[0])
	if err != nil {
		return err
	}

	g := recovered
	switch which {
	case "truth":
		g = truth
	case "recovered":
	default:
		return fmt.Errorf("unknown graph: %s (want truth or recovered)", which)
	}

	if asMatrix {
		fmt.Println(viz.RenderAdjacency(g))
		return nil
	}
	fmt.Println(g.DOT(which))
	return nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
