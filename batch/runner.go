// SPDX-License-Identifier: MIT

// Package batch runs independent automaton jobs concurrently.
//
// Each job builds its rule table, generates (or loads from the cache) its
// canvas, computes growth statistics and optionally recognizes segments.
// Jobs share nothing, so they run in parallel up to the configured limit;
// a single job is synchronous from start to end. The first failing job
// cancels those not yet started and Run returns its error.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/cellauto/cell"
	"github.com/katalvlaran/cellauto/evolve"
	"github.com/katalvlaran/cellauto/growth"
	"github.com/katalvlaran/cellauto/recognize"
	"github.com/katalvlaran/cellauto/rule"
	"github.com/katalvlaran/cellauto/store"
)

// Job describes one generation. PatternLength 0 skips recognition.
type Job struct {
	ID            string
	RuleSpec      []byte
	Initial       []cell.Cell
	Rows          int
	Boost         bool
	CentralLine   int
	Layout        evolve.Layout
	PatternLength int
}

// options returns the engine options of the job.
func (j Job) options() []evolve.Option {
	opts := []evolve.Option{evolve.WithLayout(j.Layout)}
	if j.Boost {
		opts = append(opts, evolve.WithBoost(j.CentralLine))
	}

	return opts
}

// Outcome is the result of one job. StatsErr carries growth.ErrNoGrowthData
// for canvases that die out; it does not fail the job.
type Outcome struct {
	JobID       string
	Result      *evolve.Result
	Stats       growth.Stats
	StatsErr    error
	Recognition *recognize.Result
	Cached      bool
	Duration    time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency limits the number of jobs in flight. n < 1 selects GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		r.concurrency = n
	}
}

// WithStore serves and records canvases through s.
func WithStore(s *store.Store) Option {
	return func(r *Runner) {
		r.store = s
	}
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		r.logger = l
	}
}

// Runner executes jobs. It is safe for concurrent use.
type Runner struct {
	concurrency int
	store       *store.Store
	logger      *slog.Logger
	flight      singleflight.Group
}

// NewRunner returns a Runner with GOMAXPROCS workers, no cache and no logging.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		concurrency: runtime.GOMAXPROCS(0),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes jobs and returns their outcomes in job order.
// Jobs without an ID are given a random UUID.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			out, err := r.RunJob(gCtx, job)
			if err != nil {
				return fmt.Errorf("batch: job %s: %w", job.ID, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logger.Info("batch finished", slog.Int("jobs", len(jobs)))

	return outcomes, nil
}

// RunJob executes a single job.
func (r *Runner) RunJob(ctx context.Context, job Job) (out Outcome, err error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	ctx, span := startJobSpan(ctx, job)
	defer func() {
		endJobSpan(span, out.Cached, err)
		recordRun(ctx, out.Cached, err != nil)
	}()

	start := time.Now()
	tbl, err := rule.New(job.RuleSpec)
	if err != nil {
		return Outcome{}, err
	}
	res, cached, err := r.generate(ctx, job, tbl)
	if err != nil {
		return Outcome{}, err
	}

	out = Outcome{JobID: job.ID, Result: res, Cached: cached}
	out.Stats, out.StatsErr = growth.Compute(res.Sums)
	if out.StatsErr != nil && !errors.Is(out.StatsErr, growth.ErrNoGrowthData) {
		return Outcome{}, out.StatsErr
	}
	if job.PatternLength > 0 {
		var ropts []recognize.Option
		if job.Boost {
			ropts = append(ropts, recognize.WithBoost(job.CentralLine))
		}
		if out.Recognition, err = recognize.Recognize(res.Canvas, job.PatternLength, ropts...); err != nil {
			return Outcome{}, err
		}
	}
	out.Duration = time.Since(start)

	r.logger.Debug("job done",
		slog.String("job_id", job.ID),
		slog.Int("rows", res.Canvas.Rows()),
		slog.Int("columns", res.Canvas.Cols()),
		slog.Bool("cached", cached),
		slog.Duration("duration", out.Duration),
	)

	return out, nil
}

// generate loads the canvas from the store or runs the engine and caches it.
// Concurrent jobs with the same key share one generation; the shared Result
// must be treated as read-only.
func (r *Runner) generate(ctx context.Context, job Job, tbl *rule.Table) (*evolve.Result, bool, error) {
	opts := job.options()
	if err := evolve.Validate(job.Initial, job.Rows, tbl, opts...); err != nil {
		return nil, false, err
	}

	key := store.KeyFor(tbl, job.Initial, job.Rows)
	v, err, shared := r.flight.Do(string(key), func() (any, error) {
		return r.load(ctx, key, job, tbl, opts)
	})
	if err != nil {
		return nil, false, err
	}
	l := v.(loaded)
	if shared {
		r.logger.Debug("generation shared", slog.String("job_id", job.ID))
	}

	return l.res, l.cached, nil
}

// loaded is the value shared through the flight group.
type loaded struct {
	res    *evolve.Result
	cached bool
}

// load reads key from the store, or generates and writes it.
func (r *Runner) load(ctx context.Context, key []byte, job Job, tbl *rule.Table, opts []evolve.Option) (loaded, error) {
	if r.store != nil {
		res, ok, err := r.store.Get(ctx, key)
		if err != nil {
			r.logger.Warn("cache read failed", slog.String("job_id", job.ID), slog.String("error", err.Error()))
		} else if ok {
			return loaded{res: res, cached: true}, nil
		}
	}

	start := time.Now()
	res, err := evolve.Generate(job.Initial, job.Rows, tbl, opts...)
	if err != nil {
		return loaded{}, err
	}
	recordGenerate(ctx, time.Since(start), job.Layout.String(), job.Boost)

	if r.store != nil {
		if err := r.store.Put(ctx, key, res); err != nil {
			return loaded{}, err
		}
	}

	return loaded{res: res}, nil
}
