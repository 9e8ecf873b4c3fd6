package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/symgrad/internal/config"
	"github.com/san-kum/symgrad/internal/driver"
	"github.com/san-kum/symgrad/internal/export"
	"github.com/san-kum/symgrad/internal/initcond"
	"github.com/san-kum/symgrad/internal/metrics"
	"github.com/san-kum/symgrad/internal/nbody"
	"github.com/san-kum/symgrad/internal/store"
	"github.com/san-kum/symgrad/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	scheme     string
	h          float64
	tmax       float64
	format     string
	outFile    string
	body       int
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "symgrad",
		Short: "symplectic n-body integration with state-transition gradients",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".symgrad", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run an integration",
		RunE:  runIntegration,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "preset name")
	runCmd.Flags().StringVar(&scheme, "scheme", "", "step scheme override")
	runCmd.Flags().Float64Var(&h, "h", 0, "step size override")
	runCmd.Flags().Float64Var(&tmax, "tmax", 0, "end time override")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "twobody", "preset name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&body, "body", 1, "body index to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	exportCmd.Flags().StringVar(&outFile, "out", "", "output path (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tH\tTMAX")
			for name, cfg := range config.Presets {
				fmt.Fprintf(w, "%s\t%d\t%g\t%g\n", name, len(cfg.Bodies), cfg.H, cfg.Tmax)
			}
			return w.Flush()
		},
	}

	jacobianCmd := &cobra.Command{
		Use:   "jacobian",
		Short: "integrate and report jacobian diagnostics",
		RunE:  jacobianReport,
	}
	jacobianCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	jacobianCmd.Flags().StringVar(&preset, "preset", "twobody", "preset name")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd, jacobianCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, badStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func resolveConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		p, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		cp := *p
		cfg = &cp
	default:
		return nil, fmt.Errorf("one of --config or --preset is required")
	}
	if scheme != "" {
		cfg.Scheme = scheme
	}
	if h > 0 {
		cfg.H = h
	}
	if tmax > 0 {
		cfg.Tmax = tmax
	}
	return cfg, cfg.Validate()
}

func buildSystem(cfg *config.Config) (*nbody.State, *nbody.Derivatives, [][]bool, error) {
	s, err := initcond.Setup(cfg.G, cfg.InitBodies())
	if err != nil {
		return nil, nil, nil, err
	}
	s.T[0] = cfg.T0
	return s, nbody.NewDerivatives(s.N), cfg.PairMatrix(), nil
}

func openStore() (*store.DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return store.Open(filepath.Join(dataDir, "runs.db"))
}

// sampler persists every Nth state to the store.
type sampler struct {
	db    *store.DB
	runID string
	every int
	err   error
}

func (sm *sampler) OnStep(s *nbody.State, step int) {
	if sm.every <= 0 || step%sm.every != 0 || sm.err != nil {
		return
	}
	sm.err = sm.db.SaveSample(sm.runID, step, s)
}

func runIntegration(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	stepFn, ok := driver.Schemes[cfg.Scheme]
	if !ok {
		return fmt.Errorf("unknown scheme %q", cfg.Scheme)
	}
	s, d, pair, err := buildSystem(cfg)
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	runID := store.NewRunID()
	log := slog.With("run", runID[:8], "scheme", cfg.Scheme, "bodies", s.N)
	log.Info("starting integration", "h", cfg.H, "tmax", cfg.Tmax)

	runner := driver.New(driver.Integrator{Scheme: stepFn, H: cfg.H, T0: cfg.T0, Tmax: cfg.Tmax})
	drift := metrics.NewEnergyDrift()
	runner.AddMetric(drift)
	sm := &sampler{db: db, runID: runID, every: cfg.SampleEvery}
	runner.AddObserver(sm)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, runErr := runner.Run(ctx, s, d, pair)
	wall := time.Since(start)
	if sm.err != nil {
		log.Warn("sample persistence failed", "err", sm.err)
	}

	run := &store.Run{
		ID:          runID,
		Scheme:      cfg.Scheme,
		Bodies:      s.N,
		H:           cfg.H,
		T0:          cfg.T0,
		Tmax:        cfg.Tmax,
		Steps:       res.StepsTaken,
		WallMS:      wall.Milliseconds(),
		EnergyDrift: drift.Value(),
		JacDet:      s.JacStep.Det(),
		Finite:      res.Finite,
	}
	if err := db.SaveRun(run); err != nil {
		return err
	}
	printSummary(run, wall)
	if runErr != nil {
		return runErr
	}
	return nil
}

func printSummary(run *store.Run, wall time.Duration) {
	status := okStyle.Render("finite")
	if !run.Finite {
		status = badStyle.Render("NON-FINITE")
	}
	fmt.Println(titleStyle.Render("run " + run.ID[:8]))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "steps\t%s\n", humanize.Comma(int64(run.Steps)))
	fmt.Fprintf(w, "wall time\t%s\n", wall.Round(time.Millisecond))
	fmt.Fprintf(w, "energy drift\t%.3e\n", run.EnergyDrift)
	fmt.Fprintf(w, "jacobian det\t%.12f\n", run.JacDet)
	fmt.Fprintf(w, "state\t%s\n", status)
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	s, d, pair, err := buildSystem(cfg)
	if err != nil {
		return err
	}
	return tui.Run(s, d, pair, cfg.H, cfg.Tmax)
}

func listRuns(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	runs, err := db.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println(dimStyle.Render("no runs yet"))
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tSCHEME\tBODIES\tSTEPS\tDRIFT\tFINITE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.2e\t%v\n",
			r.ID[:8], humanize.Time(r.CreatedAt), r.Scheme, r.Bodies,
			humanize.Comma(int64(r.Steps)), r.EnergyDrift, r.Finite)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	run, samples, err := findRun(db, args[0])
	if err != nil {
		return err
	}
	if body < 0 || body >= run.Bodies {
		return fmt.Errorf("body %d out of range (run has %d)", body, run.Bodies)
	}
	var xs, ys []float64
	for _, s := range samples {
		if s.Body == body {
			xs = append(xs, s.X)
			ys = append(ys, s.Y)
		}
	}
	if len(xs) < 2 {
		return fmt.Errorf("run %s has too few samples to plot", args[0])
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("body %d x(t)", body)))
	fmt.Println(asciigraph.Plot(xs, asciigraph.Height(12), asciigraph.Width(70)))
	fmt.Println(titleStyle.Render(fmt.Sprintf("body %d y(t)", body)))
	fmt.Println(asciigraph.Plot(ys, asciigraph.Height(12), asciigraph.Width(70)))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	run, samples, err := findRun(db, args[0])
	if err != nil {
		return err
	}
	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	switch format {
	case "csv":
		return export.CSV(out, samples)
	case "json":
		return export.JSON(out, run, samples)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// findRun resolves a possibly-abbreviated run ID.
func findRun(db *store.DB, id string) (*store.Run, []store.Sample, error) {
	runs, err := db.ListRuns()
	if err != nil {
		return nil, nil, err
	}
	for _, r := range runs {
		if r.ID == id || (len(id) >= 4 && len(r.ID) >= len(id) && r.ID[:len(id)] == id) {
			samples, err := db.LoadSamples(r.ID)
			if err != nil {
				return nil, nil, err
			}
			return &r, samples, nil
		}
	}
	return nil, nil, fmt.Errorf("run %q not found", id)
}

func jacobianReport(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	s, d, pair, err := buildSystem(cfg)
	if err != nil {
		return err
	}
	runner := driver.New(driver.Integrator{Scheme: nbody.Step, H: cfg.H, T0: cfg.T0, Tmax: cfg.Tmax})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := runner.Run(ctx, s, d, pair)
	if err != nil {
		return err
	}

	det := s.JacStep.Det()
	massOK := true
	for i := 0; i < s.N && massOK; i++ {
		row := 7*i + 6
		for c := 0; c < 7*s.N; c++ {
			want := 0.0
			if c == row {
				want = 1
			}
			if s.JacStep.At(row, c) != want {
				massOK = false
				break
			}
		}
	}

	fmt.Println(titleStyle.Render("jacobian diagnostics"))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "steps\t%s\n", humanize.Comma(int64(res.StepsTaken)))
	fmt.Fprintf(w, "determinant\t%.15f\n", det)
	fmt.Fprintf(w, "mass rows identity\t%v\n", massOK)
	fmt.Fprintf(w, "finite\t%v\n", s.JacStep.IsFinite())
	return w.Flush()
}
