// SPDX-License-Identifier: MIT

package evolve

import (
	"fmt"

	"github.com/katalvlaran/cellauto/canvas"
	"github.com/katalvlaran/cellauto/cell"
	"github.com/katalvlaran/cellauto/lightcone"
	"github.com/katalvlaran/cellauto/rule"
)

// Generate evolves initial for rows generations (row 0 included) under table.
// The column count is len(initial).
//
// All validation happens before generation starts; on any error no canvas is
// returned.
//
// Example:
//
//	tbl, _ := rule.FromNumber(90)
//	res, err := Generate([]cell.Cell{0, 0, 1, 0, 0}, 3, tbl)
func Generate(initial []cell.Cell, rows int, table *rule.Table, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := validate(initial, rows, table, o); err != nil {
		return nil, err
	}

	if o.Layout == RowByRow {
		return generateByRow(initial, rows, table, o)
	}

	return generateContiguous(initial, rows, table, o)
}

// Validate runs every check Generate performs before generating, without
// generating. Callers holding a cached canvas use it to reject the same
// inputs Generate would.
func Validate(initial []cell.Cell, rows int, table *rule.Table, opts ...Option) error {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return o.err
	}

	return validate(initial, rows, table, o)
}

// validate checks every input contract up front.
func validate(initial []cell.Cell, rows int, table *rule.Table, o Options) error {
	if table == nil {
		return ErrNilTable
	}
	if rows < 1 || len(initial) == 0 {
		return fmt.Errorf("evolve: %d rows of %d columns: %w", rows, len(initial), canvas.ErrBadShape)
	}
	if err := cell.Validate(initial); err != nil {
		return fmt.Errorf("evolve: initial row: %w", err)
	}
	if o.Boost {
		if !table.Quiescent() {
			return ErrNonQuiescentRule
		}
		if err := lightcone.CheckSeed(initial, o.CentralLine); err != nil {
			return fmt.Errorf("evolve: %w", err)
		}
	}

	return nil
}

// active returns the interval of columns to compute when deriving the row
// after prev.
func active(o Options, prev, columns int) lightcone.Interval {
	if !o.Boost {
		return lightcone.Full(columns)
	}

	return lightcone.Window(o.CentralLine, prev, columns)
}

// generateContiguous builds the canvas in one flat buffer, reading row r-1
// and writing row r in place.
func generateContiguous(initial []cell.Cell, rows int, table *rule.Table, o Options) (*Result, error) {
	columns := len(initial)
	cv, err := canvas.New(rows, columns)
	if err != nil {
		return nil, err
	}
	data := cv.Data()
	sums := make([]uint32, rows)

	copy(data[:columns], initial)
	sums[0] = uint32(cell.Count(initial))

	for r := 1; r < rows; r++ {
		prev := data[(r-1)*columns : r*columns]
		next := data[r*columns : (r+1)*columns]
		sum, err := step(table, prev, next, active(o, r-1, columns))
		if err != nil {
			return nil, fmt.Errorf("evolve: row %d: %w", r, err)
		}
		sums[r] = sum
	}

	return &Result{Canvas: cv, Sums: sums}, nil
}

// generateByRow builds each row as its own slice from the previous row only,
// then flattens the list.
func generateByRow(initial []cell.Cell, rows int, table *rule.Table, o Options) (*Result, error) {
	columns := len(initial)
	working := make([][]cell.Cell, 0, rows)
	sums := make([]uint32, rows)

	first := make([]cell.Cell, columns)
	copy(first, initial)
	working = append(working, first)
	sums[0] = uint32(cell.Count(first))

	for r := 1; r < rows; r++ {
		next := make([]cell.Cell, columns)
		sum, err := step(table, working[r-1], next, active(o, r-1, columns))
		if err != nil {
			return nil, fmt.Errorf("evolve: row %d: %w", r, err)
		}
		working = append(working, next)
		sums[r] = sum
	}

	cv, err := canvas.FromRows(working)
	if err != nil {
		return nil, err
	}

	return &Result{Canvas: cv, Sums: sums}, nil
}

// step derives out from in over the columns of iv and returns the number of
// live cells written. Columns outside iv are left untouched.
func step(table *rule.Table, in, out []cell.Cell, iv lightcone.Interval) (uint32, error) {
	n := len(in)
	if len(out) != n || iv.Start < 0 || iv.Stop > n || iv.Start > iv.Stop {
		return 0, fmt.Errorf("window [%d,%d) over %d columns: %w", iv.Start, iv.Stop, n, cell.ErrOutOfRange)
	}

	var sum uint32
	for c := iv.Start; c < iv.Stop; c++ {
		left := cell.Dead
		if c > 0 {
			left = in[c-1]
		}
		right := cell.Dead
		if c < n-1 {
			right = in[c+1]
		}
		if v, ok := table.Lookup(left, in[c], right); ok {
			out[c] = v
			sum += uint32(v)
		}
	}

	return sum, nil
}
