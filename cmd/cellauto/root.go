// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cellauto/config"
	"github.com/katalvlaran/cellauto/store"
	"github.com/katalvlaran/cellauto/telemetry"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	cfg        config.Config
	logger     *slog.Logger

	// automaton overrides
	rule          int
	columns       int
	rows          int
	pattern       string
	seed          int64
	boost         bool
	centralLine   int
	layout        string
	patternLength int
	top           int
	cache         bool
	cachePath     string
	telemetry     string

	shutdown func(context.Context) error
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cellauto",
		Short: "Generate and analyze elementary cellular automata",
		Long: `cellauto evolves a one-dimensional binary automaton from an initial row,
reports the growth of its live population and recognizes the segments each
neighbourhood window produces.

Settings come from --config (YAML), then CELLAUTO_* environment variables,
then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.shutdown == nil {
				return nil
			}
			return a.shutdown(context.Background())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to a YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.IntVar(&a.rule, "rule", 30, "Elementary rule number (0-255)")
	pf.IntVar(&a.columns, "columns", 101, "Canvas width")
	pf.IntVar(&a.rows, "rows", 0, "Canvas depth (0 = columns/2+1)")
	pf.StringVar(&a.pattern, "pattern", "standard", "Initial row: standard, right, alternating, random")
	pf.Int64Var(&a.seed, "seed", 1, "Seed for the random pattern")
	pf.BoolVar(&a.boost, "boost", true, "Compute only the light cone of the central line")
	pf.IntVar(&a.centralLine, "central-line", -1, "Boost column (-1 = derived from the pattern)")
	pf.StringVar(&a.layout, "layout", "contiguous", "Canvas layout: contiguous, row-by-row")
	pf.IntVar(&a.patternLength, "pattern-length", 5, "Segment length for recognition (0 = off)")
	pf.IntVar(&a.top, "top", 10, "Number of segments to list")
	pf.BoolVar(&a.cache, "cache", false, "Cache canvases in BadgerDB")
	pf.StringVar(&a.cachePath, "cache-path", "", "Cache directory")
	pf.StringVar(&a.telemetry, "telemetry", "none", "OpenTelemetry exporter: none, stdout")

	root.AddCommand(
		newGenerateCmd(a),
		newStatsCmd(a),
		newRecognizeCmd(a),
		newBatchCmd(a),
		newBenchCmd(a),
	)

	return root
}

// setup loads the configuration, applies changed flags and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("rule") {
		cfg.Automaton.Rule = a.rule
		cfg.Automaton.RuleSpec = nil
	}
	if f.Changed("columns") {
		cfg.Automaton.Columns = a.columns
	}
	if f.Changed("rows") {
		cfg.Automaton.Rows = a.rows
	}
	if f.Changed("pattern") {
		cfg.Automaton.Pattern = a.pattern
	}
	if f.Changed("seed") {
		cfg.Automaton.Seed = a.seed
	}
	if f.Changed("boost") {
		cfg.Automaton.Boost = a.boost
	}
	if f.Changed("central-line") {
		cfg.Automaton.CentralLine = a.centralLine
	}
	if f.Changed("layout") {
		cfg.Automaton.Layout = a.layout
	}
	if f.Changed("pattern-length") {
		cfg.Recognition.PatternLength = a.patternLength
	}
	if f.Changed("top") {
		cfg.Recognition.Top = a.top
	}
	if f.Changed("cache") {
		cfg.Cache.Enabled = a.cache
	}
	if f.Changed("cache-path") {
		cfg.Cache.Path = a.cachePath
	}
	if f.Changed("telemetry") {
		cfg.Telemetry.Exporter = a.telemetry
	}
	if f.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lvl, _ := cfg.Log.SlogLevel()
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	a.cfg = cfg

	tcfg := telemetry.DefaultConfig()
	tcfg.Exporter = cfg.Telemetry.Exporter
	tcfg.Writer = cmd.ErrOrStderr()
	if a.shutdown, err = telemetry.Init(cmd.Context(), tcfg); err != nil {
		return err
	}
	a.logger.Debug("configuration loaded",
		slog.String("config", a.configPath),
		slog.Int("rule", cfg.Automaton.Rule),
		slog.Int("columns", cfg.Automaton.Columns),
	)

	return nil
}

// openStore opens the cache when enabled; the returned store may be nil.
func (a *app) openStore() (*store.Store, error) {
	if !a.cfg.Cache.Enabled {
		return nil, nil
	}
	s, err := store.Open(a.cfg.Cache.StoreConfig(a.logger))
	if err != nil {
		return nil, err
	}
	a.logger.Info("canvas cache enabled", slog.String("path", a.cfg.Cache.Path))

	return s, nil
}
