// Package main provides the CLI entrypoint for splitlog.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/splitlog/internal/browser"
	"github.com/verte-zerg/splitlog/internal/chart"
	"github.com/verte-zerg/splitlog/internal/collection"
	"github.com/verte-zerg/splitlog/internal/config"
	"github.com/verte-zerg/splitlog/internal/export"
	"github.com/verte-zerg/splitlog/internal/generator"
	"github.com/verte-zerg/splitlog/internal/logging"
	"github.com/verte-zerg/splitlog/internal/logparse"
	"github.com/verte-zerg/splitlog/internal/metrics"
	"github.com/verte-zerg/splitlog/internal/model"
	"github.com/verte-zerg/splitlog/internal/series"
	"github.com/verte-zerg/splitlog/internal/stats"
	"github.com/verte-zerg/splitlog/internal/store"
)

const (
	defaultHistoryLimit = 20
	defaultSampleCount  = 60
	defaultSuccessPct   = 0.3
	defaultPlotHeight   = 16
	defaultChartOutput  = "splitlog.html"
)

var (
	logLevel string

	listFastest int

	plotHeight int

	chartOutput string

	exportFormat string

	historyLimit int

	sampleCount   int
	sampleGrammar string
	sampleSuccess float64
	sampleSeed    int64
	sampleCaves   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "splitlog [paths...]",
		Short:         "Browse Inferno and Fight Caves split logs",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBrowseCmd,
	}

	addViewFlags(rootCmd)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "diagnostic log level: debug, info, warn or error")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newPlotCmd())
	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newViewsCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// env carries what every log-reading command needs.
type env struct {
	logger *slog.Logger
	store  *store.Store
	view   model.ViewConfig
	paths  []string
	loader *collection.Loader
}

// setup loads the config file, opens the database and resolves the view.
// A database that cannot be opened only disables history and saved views.
func setup(ctx context.Context, cmd *cobra.Command, args []string, logOut io.Writer) (*env, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	logger, err := logging.New(logLevel, logOut)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.Warn("failed to open db; history and saved views disabled", "err", err)
		st = nil
	}

	view, err := resolveView(ctx, cmd, fileCfg, st)
	if err != nil {
		closeStore(st)
		return nil, err
	}

	paths := args
	if len(paths) == 0 {
		dir := config.DefaultLogDir()
		if fileCfg.Logs.Dir != nil && *fileCfg.Logs.Dir != "" {
			dir = *fileCfg.Logs.Dir
		}
		paths = []string{dir}
	}
	for i, p := range paths {
		paths[i] = config.ExpandHome(p)
	}

	return &env{
		logger: logger,
		store:  st,
		view:   view,
		paths:  paths,
		loader: collection.NewLoader(collection.NewBuilder(logger)),
	}, nil
}

func (e *env) close() {
	closeStore(e.store)
}

func closeStore(st *store.Store) {
	if st == nil {
		return
	}
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// load reads the logs and fills an empty wave selection with every wave.
func (e *env) load(ctx context.Context) (model.Collection, error) {
	started := time.Now()
	attempts, st, err := e.loader.Load(ctx, e.paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}
	e.recordImport(ctx, started, st)
	if len(e.view.Selected) == 0 {
		e.view.Selected = model.NewWaveSet(series.AllWaves(attempts)...)
	}
	return attempts, nil
}

func (e *env) recordImport(ctx context.Context, started time.Time, st collection.Stats) {
	e.logger.Info("loaded logs", "files", st.Files, "parsed", st.Parsed, "skipped", st.Skipped, "elapsed", st.Elapsed)
	if e.store == nil {
		return
	}
	rec := model.ImportRecord{
		StartedAt:  started,
		Source:     strings.Join(e.paths, ", "),
		Files:      st.Files,
		Parsed:     st.Parsed,
		Skipped:    st.Skipped,
		DurationMs: st.Elapsed.Milliseconds(),
	}
	if _, err := e.store.RecordImport(ctx, rec); err != nil {
		e.logger.Warn("failed to record import", "err", err)
	}
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logOut, closeLog := diagnosticsOutput()
	defer closeLog()

	e, err := setup(ctx, cmd, args, logOut)
	if err != nil {
		return err
	}
	defer e.close()

	session := collection.NewSession(e.loader)
	m := browser.NewModel(browser.Options{
		Source: session,
		Paths:  e.paths,
		View:   e.view,
		OnLoad: func(st collection.Stats) {
			e.recordImport(context.Background(), time.Now().Add(-st.Elapsed), st)
		},
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	saveViewIfRequested(ctx, e.store, m.ViewConfig())
	return nil
}

// diagnosticsOutput sends slog output to a file while the alternate screen
// is active. It falls back to discarding.
func diagnosticsOutput() (io.Writer, func()) {
	path := config.DefaultDiagnosticsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of the diagnostics file.
			_ = cerr
		}
	}
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "Show a summary and every attempt",
		RunE:  runListCmd,
	}
	cmd.Flags().IntVar(&listFastest, "fastest", 0, "only list the N fastest completions")
	return cmd
}

func runListCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx, cmd, args, os.Stderr)
	if err != nil {
		return err
	}
	defer e.close()

	attempts, err := e.load(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, stats.BuildReport(attempts)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	rows := attempts
	if listFastest > 0 {
		rows = model.Collection(stats.FastestAttempts(attempts, listFastest))
	}
	if err := stats.RenderAttempts(out, rows, tableWaves(e.view.Selected)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	saveViewIfRequested(ctx, e.store, e.view)
	return nil
}

// tableWaves drops "last", which the table shows as the duration column.
func tableWaves(selected model.WaveSet) []model.WaveID {
	var waves []model.WaveID
	for _, w := range selected.Sorted() {
		if w != model.LastWave {
			waves = append(waves, w)
		}
	}
	return waves
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [paths...]",
		Short: "Plot the view in the terminal",
		RunE:  runPlotCmd,
	}
	cmd.Flags().IntVar(&plotHeight, "height", defaultPlotHeight, "plot height in rows")
	return cmd
}

func runPlotCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx, cmd, args, os.Stderr)
	if err != nil {
		return err
	}
	defer e.close()

	attempts, err := e.load(ctx)
	if err != nil {
		return err
	}
	if err := stats.RenderView(cmd.OutOrStdout(), attempts, e.view, stats.PlotOptions{Height: plotHeight}); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	saveViewIfRequested(ctx, e.store, e.view)
	return nil
}

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart [paths...]",
		Short: "Write the view as an HTML chart",
		RunE:  runChartCmd,
	}
	cmd.Flags().StringVarP(&chartOutput, "output", "o", defaultChartOutput, "output HTML file")
	return cmd
}

func runChartCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx, cmd, args, os.Stderr)
	if err != nil {
		return err
	}
	defer e.close()

	attempts, err := e.load(ctx)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		logErrln("No attempts found.")
		return nil
	}
	if err := writeChart(chartOutput, attempts, e.view); err != nil {
		return err
	}
	logErrf("Wrote %s\n", chartOutput)
	saveViewIfRequested(ctx, e.store, e.view)
	return nil
}

func writeChart(path string, attempts model.Collection, view model.ViewConfig) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := chart.Render(f, attempts, view); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close chart file: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [paths...]",
		Short: "Print parsed attempts as JSON or YAML",
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", string(export.FormatJSON), "output format: json or yaml")
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	e, err := setup(ctx, cmd, args, os.Stderr)
	if err != nil {
		return err
	}
	defer e.close()

	attempts, err := e.load(ctx)
	if err != nil {
		return err
	}
	attempts = metrics.ExcludeAbove(attempts, e.view.ExcludeLimit())
	return export.Write(cmd.OutOrStdout(), attempts, format)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent log imports",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of imports to show (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	records, err := st.ListImports(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list imports: %w", err)
	}
	return stats.RenderImports(cmd.OutOrStdout(), records)
}

func newViewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "List saved views",
		Args:  cobra.NoArgs,
		RunE:  runViewsCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved view",
		Args:  cobra.ExactArgs(1),
		RunE:  runViewsDeleteCmd,
	})
	return cmd
}

func runViewsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	views, err := st.ListViews(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list views: %w", err)
	}
	return stats.RenderViews(cmd.OutOrStdout(), views)
}

func runViewsDeleteCmd(cmd *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	if err := st.DeleteView(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	logErrf("Deleted view %q\n", args[0])
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample DIR",
		Short: "Write synthetic split logs",
		Args:  cobra.ExactArgs(1),
		RunE:  runSampleCmd,
	}
	cmd.Flags().IntVar(&sampleCount, "count", defaultSampleCount, "number of attempts")
	cmd.Flags().StringVar(&sampleGrammar, "grammar", "both", "log format: splits, killcount or both")
	cmd.Flags().Float64Var(&sampleSuccess, "success", defaultSuccessPct, "probability an attempt completes (0-1)")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (0 uses the clock)")
	cmd.Flags().BoolVar(&sampleCaves, "caves", false, "use Fight Caves waves")
	return cmd
}

func runSampleCmd(_ *cobra.Command, args []string) error {
	if sampleCount <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	if sampleSuccess < 0 || sampleSuccess > 1 {
		return fmt.Errorf("--success must be between 0 and 1")
	}
	grammars, err := sampleGrammars(sampleGrammar)
	if err != nil {
		return err
	}
	gen := generator.New()
	if sampleSeed != 0 {
		gen = generator.NewSeeded(sampleSeed)
	}
	waves := generator.InfernoWaves
	if sampleCaves {
		waves = generator.FightCavesWaves
	}

	start := time.Now().Add(-time.Duration(sampleCount) * time.Hour).Truncate(time.Second)
	var files []logparse.File
	for i, grammar := range grammars {
		n := sampleCount / len(grammars)
		if i == 0 {
			n += sampleCount % len(grammars)
		}
		opts := generator.Options{
			Grammar:    grammar,
			Waves:      waves,
			SuccessPct: sampleSuccess,
			Start:      start.Add(time.Duration(i) * 30 * time.Minute),
			Spacing:    time.Duration(len(grammars)) * time.Hour,
		}
		files = append(files, gen.Generate(opts, n)...)
	}
	if err := generator.WriteDir(args[0], files); err != nil {
		return err
	}
	logErrf("Wrote %d logs to %s\n", len(files), args[0])
	return nil
}

func sampleGrammars(s string) ([]model.Grammar, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return []model.Grammar{model.GrammarSplits, model.GrammarKillCount}, nil
	case "splits":
		return []model.Grammar{model.GrammarSplits}, nil
	case "killcount", "kc":
		return []model.Grammar{model.GrammarKillCount}, nil
	default:
		return nil, fmt.Errorf("unknown grammar %q (use splits, killcount or both)", s)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
