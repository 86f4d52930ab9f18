// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cellauto/batch"
	"github.com/katalvlaran/cellauto/evolve"
	"github.com/katalvlaran/cellauto/growth"
	"github.com/katalvlaran/cellauto/handoff"
	"github.com/katalvlaran/cellauto/kernel"
	"github.com/katalvlaran/cellauto/recognize"
	"github.com/katalvlaran/cellauto/rule"
)

func newGenerateCmd(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a canvas and print it with its row sums",
		Example: `  cellauto generate --rule 90 --columns 9 --rows 5
  cellauto generate --pattern random --seed 7 --boost=false --cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := a.cfg.Job()
			if err != nil {
				return err
			}
			job.PatternLength = 0
			s, err := a.openStore()
			if err != nil {
				return err
			}
			if s != nil {
				defer s.Close()
			}

			out, err := batch.NewRunner(batch.WithStore(s), batch.WithLogger(a.logger)).RunJob(cmd.Context(), job)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !quiet {
				fmt.Fprint(w, out.Result.Canvas)
			}
			fmt.Fprintf(w, "sums: %v\n", out.Result.Sums)
			printStats(w, out.Stats, out.StatsErr)
			a.logger.Info("canvas generated",
				slog.String("job_id", out.JobID),
				slog.Bool("cached", out.Cached),
				slog.Duration("duration", out.Duration),
			)

			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the canvas")

	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the growth statistics of a canvas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := kernel.New()
			ch, err := a.generate(k)
			if err != nil {
				return err
			}
			defer a.release(k, ch.Canvas, ch.Sums)

			sums, err := k.Sums(ch.Sums)
			if err != nil {
				return err
			}
			res, err := k.Stats(sums)
			if errors.Is(err, growth.ErrNoGrowthData) {
				printStats(cmd.OutOrStdout(), growth.Stats{Mean: res.Mean, StdDev: res.StdDev}, err)
				return nil
			}
			if err != nil {
				return err
			}
			defer a.release(k, res.Samples)

			samples, err := k.Samples(res.Samples)
			if err != nil {
				return err
			}
			st := growth.Stats{Samples: samples, Mean: res.Mean, StdDev: res.StdDev}
			printStats(cmd.OutOrStdout(), st, nil)

			return nil
		},
	}
}

func newRecognizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recognize",
		Short: "List the most frequent segments and the number of windows scanned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := kernel.New()
			ch, err := a.generate(k)
			if err != nil {
				return err
			}
			defer a.release(k, ch.Canvas, ch.Sums)

			job, err := a.cfg.Job()
			if err != nil {
				return err
			}
			rec, err := k.Recognize(kernel.RecognizeRequest{
				Canvas:        ch.Canvas,
				Rows:          ch.Rows,
				Columns:       ch.Columns,
				PatternLength: a.cfg.Recognition.PatternLength,
				Boost:         job.Boost,
				CentralLine:   job.CentralLine,
			})
			if err != nil {
				return err
			}
			defer a.release(k, rec.Frequencies, rec.Derivations)

			raw, err := k.Document(rec.Frequencies)
			if err != nil {
				return err
			}
			res := &recognize.Result{SegmentCount: rec.SegmentCount}
			if err := json.Unmarshal(raw, &res.Frequencies); err != nil {
				return fmt.Errorf("decode frequencies: %w", err)
			}
			if raw, err = k.Document(rec.Derivations); err != nil {
				return err
			}
			if err := json.Unmarshal(raw, &res.Derivations); err != nil {
				return fmt.Errorf("decode derivations: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "segments: %d (distinct %d, parents %d)\n",
				res.SegmentCount, len(res.Frequencies), len(res.Derivations))
			for _, c := range res.Top(a.cfg.Recognition.Top) {
				fmt.Fprintf(w, "%8d  %s\n", c.Count, c.Key)
			}

			return res.Check()
		},
	}
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		rules       []int
		concurrency int
	)
	cmd := &cobra.Command{
		Use:     "batch",
		Short:   "Run several rules concurrently with the same settings",
		Example: `  cellauto batch --rules 30,90,110,184 --concurrency 4 --cache`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("concurrency") {
				a.cfg.Batch.Concurrency = concurrency
			}
			jobs, err := a.cfg.Jobs(rules)
			if err != nil {
				return err
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			if s != nil {
				defer s.Close()
			}

			runner := batch.NewRunner(
				batch.WithConcurrency(a.cfg.Batch.Concurrency),
				batch.WithStore(s),
				batch.WithLogger(a.logger),
			)
			outs, err := runner.Run(cmd.Context(), jobs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-10s %6s %8s %10s %10s %9s %6s %12s\n",
				"job", "rows", "columns", "mean", "stddev", "segments", "cached", "duration")
			for _, o := range outs {
				segments := 0
				if o.Recognition != nil {
					segments = o.Recognition.SegmentCount
				}
				fmt.Fprintf(w, "%-10s %6d %8d %10.4f %10.4f %9d %6t %12s\n",
					o.JobID, o.Result.Canvas.Rows(), o.Result.Canvas.Cols(),
					o.Stats.Mean, o.Stats.StdDev, segments, o.Cached, o.Duration)
			}

			return nil
		},
	}
	cmd.Flags().IntSliceVar(&rules, "rules", nil, "Elementary rules to run (default: batch.rules from the config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Jobs run in parallel")

	return cmd
}

func newBenchCmd(a *app) *cobra.Command {
	var sizes []int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time generation for growing canvas widths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := a.cfg.Automaton.Spec()
			if err != nil {
				return err
			}
			tbl, err := rule.New(spec)
			if err != nil {
				return err
			}
			layout, err := evolve.ParseLayout(a.cfg.Automaton.Layout)
			if err != nil {
				return err
			}
			sort.Ints(sizes)
			timings, err := batch.Benchmark(cmd.Context(), tbl, sizes, layout)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%8s %6s %-11s %6s %12s\n", "columns", "rows", "layout", "boost", "duration")
			for _, t := range timings {
				fmt.Fprintf(w, "%8d %6d %-11s %6t %12s\n", t.Columns, t.Rows, t.Layout, t.Boost, t.Duration)
			}

			return nil
		},
	}
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{100, 200, 400, 800}, "Canvas widths to time")

	return cmd
}

// generate runs the configured automaton through k.
func (a *app) generate(k *kernel.Kernel) (kernel.CanvasHandles, error) {
	job, err := a.cfg.Job()
	if err != nil {
		return kernel.CanvasHandles{}, err
	}

	return k.Generate(kernel.GenerateRequest{
		Initial:     job.Initial,
		Rows:        job.Rows,
		Columns:     len(job.Initial),
		RuleSpec:    job.RuleSpec,
		Boost:       job.Boost,
		CentralLine: job.CentralLine,
		Layout:      job.Layout,
	})
}

// release hands buffers back to k, logging failures.
func (a *app) release(k *kernel.Kernel, hs ...handoff.Handle) {
	for _, h := range hs {
		if err := k.Release(h); err != nil {
			a.logger.Warn("release failed", slog.Uint64("handle", uint64(h)), slog.String("error", err.Error()))
		}
	}
}

// printStats writes the growth moments and sigma bands.
func printStats(w io.Writer, st growth.Stats, err error) {
	if errors.Is(err, growth.ErrNoGrowthData) || math.IsNaN(st.Mean) {
		fmt.Fprintln(w, "growth: no live cells")
		return
	}
	fmt.Fprintf(w, "growth: mean %.6f stddev %.6f over %d samples\n", st.Mean, st.StdDev, len(st.Samples))
	for k := 3; k >= -3; k-- {
		if k == 0 {
			continue
		}
		fmt.Fprintf(w, "  %+dσ  %.6f\n", k, st.Band(k))
	}
}
