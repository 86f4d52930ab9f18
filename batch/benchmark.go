// SPDX-License-Identifier: MIT

package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/cellauto/evolve"
	"github.com/katalvlaran/cellauto/rule"
	"github.com/katalvlaran/cellauto/seed"
)

// Timing is one measured generation.
type Timing struct {
	Columns  int
	Rows     int
	Layout   evolve.Layout
	Boost    bool
	Duration time.Duration
}

// Benchmark times table on standard-seed canvases of each width in sizes,
// seed.DefaultRows(n) deep, unboosted and boosted. Sizes run one after the
// other; ctx is checked between them.
func Benchmark(ctx context.Context, table *rule.Table, sizes []int, layout evolve.Layout) ([]Timing, error) {
	timings := make([]Timing, 0, 2*len(sizes))
	for _, n := range sizes {
		initial, err := seed.Build(seed.Standard, n)
		if err != nil {
			return nil, fmt.Errorf("batch: benchmark size %d: %w", n, err)
		}
		rows := seed.DefaultRows(n)
		cl, _ := seed.CentralLine(seed.Standard, n)

		for _, boost := range []bool{false, true} {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			opts := []evolve.Option{evolve.WithLayout(layout)}
			if boost {
				opts = append(opts, evolve.WithBoost(cl))
			}
			start := time.Now()
			if _, err := evolve.Generate(initial, rows, table, opts...); err != nil {
				return nil, fmt.Errorf("batch: benchmark size %d: %w", n, err)
			}
			d := time.Since(start)
			recordGenerate(ctx, d, layout.String(), boost)
			timings = append(timings, Timing{Columns: n, Rows: rows, Layout: layout, Boost: boost, Duration: d})
		}
	}

	return timings, nil
}
