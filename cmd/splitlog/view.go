package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/splitlog/internal/config"
	"github.com/verte-zerg/splitlog/internal/model"
	"github.com/verte-zerg/splitlog/internal/store"
	"github.com/verte-zerg/splitlog/internal/timecode"
)

var (
	viewMode     string
	viewDeltas   bool
	viewWaves    string
	viewMin      string
	viewMax      string
	viewExclude  string
	viewByDate   bool
	viewTheme    string
	viewLoad     string
	viewSaveName string
)

func addViewFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&viewMode, "mode", string(model.ModeRaw), "view mode: raw, pb or ema")
	flags.BoolVar(&viewDeltas, "deltas", false, "plot wave deltas instead of splits")
	flags.StringVar(&viewWaves, "waves", "all", "comma-separated waves, e.g. 9,18,last")
	flags.StringVar(&viewMin, "min", "", "lower display bound (m:ss or seconds)")
	flags.StringVar(&viewMax, "max", "", "upper display bound (m:ss or seconds)")
	flags.StringVar(&viewExclude, "exclude-above", "", "drop attempts longer than this before deriving")
	flags.BoolVar(&viewByDate, "by-date", false, "plot every attempt against its date")
	flags.StringVar(&viewTheme, "theme", string(model.ThemeDark), "chart theme: light or dark")
	flags.StringVar(&viewLoad, "view", "", "start from a saved view")
	flags.StringVar(&viewSaveName, "save-view", "", "save the resulting view under this name")
}

// applyViewConfig fills view flags the user did not set from the config file.
func applyViewConfig(cmd *cobra.Command, fileCfg config.ViewConfig) {
	applyStringConfig(cmd, "mode", &viewMode, fileCfg.Mode)
	applyStringConfig(cmd, "waves", &viewWaves, fileCfg.Waves)
	applyStringConfig(cmd, "min", &viewMin, fileCfg.Min)
	applyStringConfig(cmd, "max", &viewMax, fileCfg.Max)
	applyStringConfig(cmd, "exclude-above", &viewExclude, fileCfg.ExcludeAbove)
	applyStringConfig(cmd, "theme", &viewTheme, fileCfg.Theme)
	applyBoolConfig(cmd, "by-date", &viewByDate, fileCfg.ByDate)
	if fileCfg.Splits != nil && !cmd.Flags().Changed("deltas") {
		viewDeltas = !*fileCfg.Splits
	}
}

type viewFlags struct {
	Mode         string
	Deltas       bool
	Waves        string
	Min          string
	Max          string
	ExcludeAbove string
	ByDate       bool
	Theme        string
}

func currentViewFlags() viewFlags {
	return viewFlags{
		Mode:         viewMode,
		Deltas:       viewDeltas,
		Waves:        viewWaves,
		Min:          viewMin,
		Max:          viewMax,
		ExcludeAbove: viewExclude,
		ByDate:       viewByDate,
		Theme:        viewTheme,
	}
}

// parseView validates the flag values. An empty wave set means all waves.
func parseView(f viewFlags) (model.ViewConfig, error) {
	mode, err := model.ParseMode(f.Mode)
	if err != nil {
		return model.ViewConfig{}, err
	}
	theme, err := model.ParseTheme(f.Theme)
	if err != nil {
		return model.ViewConfig{}, err
	}
	lo, err := parseSeconds("--min", f.Min)
	if err != nil {
		return model.ViewConfig{}, err
	}
	hi, err := parseSeconds("--max", f.Max)
	if err != nil {
		return model.ViewConfig{}, err
	}
	if hi > 0 && hi < lo {
		return model.ViewConfig{}, fmt.Errorf("--max must not be below --min")
	}
	exclude, err := parseSeconds("--exclude-above", f.ExcludeAbove)
	if err != nil {
		return model.ViewConfig{}, err
	}
	selected := model.WaveSet{}
	if w := strings.TrimSpace(strings.ToLower(f.Waves)); w != "" && w != "all" {
		selected = model.ParseWaveSet(w)
	}
	return model.ViewConfig{
		Mode:         mode,
		ShowSplits:   !f.Deltas,
		Selected:     selected,
		MinBound:     lo,
		MaxBound:     hi,
		ExcludeAbove: exclude,
		IndexByDate:  f.ByDate,
		Theme:        theme,
	}, nil
}

func parseSeconds(flag, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if v, ok := timecode.Parse(s); ok {
		return v, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be m:ss, h:mm:ss or seconds, got %q", flag, s)
	}
	return v, nil
}

// overlayView replaces fields of base with the ones set explicitly on the
// command line.
func overlayView(cmd *cobra.Command, base, flags model.ViewConfig) model.ViewConfig {
	changed := cmd.Flags().Changed
	if changed("mode") {
		base.Mode = flags.Mode
	}
	if changed("deltas") {
		base.ShowSplits = flags.ShowSplits
	}
	if changed("waves") {
		base.Selected = flags.Selected
	}
	if changed("min") {
		base.MinBound = flags.MinBound
	}
	if changed("max") {
		base.MaxBound = flags.MaxBound
	}
	if changed("exclude-above") {
		base.ExcludeAbove = flags.ExcludeAbove
	}
	if changed("by-date") {
		base.IndexByDate = flags.IndexByDate
	}
	if changed("theme") {
		base.Theme = flags.Theme
	}
	return base
}

// resolveView applies defaults, the config file, a saved view and explicit
// flags, in that order of precedence.
func resolveView(ctx context.Context, cmd *cobra.Command, fileCfg config.FileConfig, st *store.Store) (model.ViewConfig, error) {
	applyViewConfig(cmd, fileCfg.View)
	view, err := parseView(currentViewFlags())
	if err != nil {
		return model.ViewConfig{}, err
	}
	if viewLoad == "" {
		return view, nil
	}
	if st == nil {
		return model.ViewConfig{}, fmt.Errorf("cannot load view %q without a database", viewLoad)
	}
	saved, err := st.LoadView(ctx, viewLoad)
	if err != nil {
		return model.ViewConfig{}, fmt.Errorf("failed to load view: %w", err)
	}
	return overlayView(cmd, saved.View, view), nil
}

func saveViewIfRequested(ctx context.Context, st *store.Store, view model.ViewConfig) {
	if viewSaveName == "" {
		return
	}
	if st == nil {
		logErrf("cannot save view %q without a database\n", viewSaveName)
		return
	}
	if err := st.SaveView(ctx, viewSaveName, view); err != nil {
		logErrf("failed to save view: %v\n", err)
		return
	}
	logErrf("Saved view %q\n", viewSaveName)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
