// SPDX-License-Identifier: MIT

// Package recognize scans a generated canvas for fixed-length segments and
// records which parent window produced each of them.
//
// For every row r ≥ 1 and every admissible column c:
//
//	segment = row[r][c   : c+L]      (L = pattern length)
//	parent  = row[r-1][c-1 : c+L+1]  (L+2 cells, the segment's neighbourhood)
//
// Frequencies counts segment occurrences, Derivations maps each parent to the
// segment it produced (the last one seen wins), and SegmentCount totals the
// windows examined. Columns run over [1, C-L) so that the parent stays inside
// the canvas; with WithBoost they are further limited to the light-cone
// window of the row.
package recognize

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/cellauto/canvas"
	"github.com/katalvlaran/cellauto/cell"
	"github.com/katalvlaran/cellauto/lightcone"
)

var (
	// ErrPatternLength indicates a pattern length below 1.
	ErrPatternLength = errors.New("recognize: pattern length must be at least 1")

	// ErrMalformedKey indicates a key that Decode cannot parse.
	ErrMalformedKey = errors.New("recognize: malformed key")

	// ErrNilCanvas is returned when no canvas is supplied.
	ErrNilCanvas = errors.New("recognize: canvas is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("recognize: invalid option supplied")

	// ErrInconsistent is returned by Result.Check.
	ErrInconsistent = errors.New("recognize: derivation without a counted segment")
)

// Option configures Recognize.
type Option func(*Options)

// Options holds the resolved scan parameters.
type Options struct {
	Boost       bool
	CentralLine int
	err         error
}

// WithBoost limits each row's scan to its light-cone window around centralLine.
func WithBoost(centralLine int) Option {
	return func(o *Options) {
		if centralLine < 0 {
			o.err = fmt.Errorf("%w: central line cannot be negative (%d)", ErrOptionViolation, centralLine)
			return
		}
		o.Boost = true
		o.CentralLine = centralLine
	}
}

// Result holds the tables of one scan.
type Result struct {
	Frequencies  map[Key]int
	Derivations  map[Key]Key
	SegmentCount int
}

// Recognize scans c with segments of patternLength cells.
// Windows that do not fit the canvas are skipped, so a pattern longer than
// the canvas yields an empty result rather than an error.
// Complexity: O(R·C·L).
func Recognize(c *canvas.Canvas, patternLength int, opts ...Option) (*Result, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if c == nil {
		return nil, ErrNilCanvas
	}
	if patternLength < 1 {
		return nil, fmt.Errorf("%d: %w", patternLength, ErrPatternLength)
	}
	columns := c.Cols()
	if o.Boost && o.CentralLine >= columns {
		return nil, fmt.Errorf("recognize: central line %d for %d columns: %w", o.CentralLine, columns, cell.ErrOutOfRange)
	}

	res := &Result{
		Frequencies: make(map[Key]int),
		Derivations: make(map[Key]Key),
	}
	for r := 1; r < c.Rows(); r++ {
		start, stop := bounds(o, r, columns, patternLength)
		for col := start; col < stop; col++ {
			seg, err := c.Segment(r, col, patternLength)
			if err != nil {
				return nil, fmt.Errorf("recognize: segment: %w", err)
			}
			parent, err := c.Segment(r-1, col-1, patternLength+2)
			if err != nil {
				return nil, fmt.Errorf("recognize: parent: %w", err)
			}
			k := Encode(seg)
			res.Frequencies[k]++
			res.Derivations[Encode(parent)] = k
			res.SegmentCount++
		}
	}

	return res, nil
}

// bounds returns the column range [start, stop) scanned on row r.
func bounds(o Options, r, columns, patternLength int) (int, int) {
	start, stop := 1, columns-patternLength
	if o.Boost {
		iv := lightcone.Window(o.CentralLine, r, columns)
		if iv.Start > start {
			start = iv.Start
		}
		if iv.Stop < stop {
			stop = iv.Stop
		}
	}

	return start, stop
}

// Count is one entry of Top.
type Count struct {
	Key   Key
	Count int
}

// Top returns the n most frequent segments, ties ordered by key.
// n ≤ 0 or n past the table size returns every segment.
func (r *Result) Top(n int) []Count {
	out := make([]Count, 0, len(r.Frequencies))
	for k, v := range r.Frequencies {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}

	return out
}

// Check verifies that every derived segment was counted and that the counts
// add up to SegmentCount.
func (r *Result) Check() error {
	for parent, seg := range r.Derivations {
		if r.Frequencies[seg] < 1 {
			return fmt.Errorf("%s→%s: %w", parent, seg, ErrInconsistent)
		}
	}
	total := 0
	for _, v := range r.Frequencies {
		total += v
	}
	if total != r.SegmentCount {
		return fmt.Errorf("frequencies total %d, segment count %d: %w", total, r.SegmentCount, ErrInconsistent)
	}

	return nil
}
