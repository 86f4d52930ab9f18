// SPDX-License-Identifier: MIT

package evolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/cellauto/canvas"
)

// Sentinel errors for generation.
var (
	// ErrNilTable is returned when no rule table is supplied.
	ErrNilTable = errors.New("evolve: rule table is nil")

	// ErrNonQuiescentRule is returned when boosting with a rule that turns an
	// all-dead neighbourhood alive; such a rule lights columns outside any window.
	ErrNonQuiescentRule = errors.New("evolve: boost requires a rule mapping 000 to 0")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("evolve: invalid option supplied")

	// ErrUnknownLayout is returned by ParseLayout for unrecognized names.
	ErrUnknownLayout = errors.New("evolve: unknown layout")
)

// Layout selects how the canvas is materialized. Both layouts produce
// identical output.
//
//   - Contiguous: one rows×cols buffer; each row is written in place from
//     the row above it.
//   - RowByRow: each row is its own slice built only from the previous
//     row and appended to a list, flattened once generation completes.
type Layout int

const (
	// Contiguous writes every row into a single flat buffer.
	Contiguous Layout = iota

	// RowByRow builds rows independently and flattens them at the end.
	RowByRow
)

// String returns the canonical layout name.
func (l Layout) String() string {
	switch l {
	case Contiguous:
		return "contiguous"
	case RowByRow:
		return "row-by-row"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout maps a name ("contiguous"/"whole", "row-by-row"/"rows") to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "contiguous", "whole":
		return Contiguous, nil
	case "row-by-row", "row_by_row", "rows":
		return RowByRow, nil
	default:
		return Contiguous, fmt.Errorf("%q: %w", s, ErrUnknownLayout)
	}
}

// Option configures Generate via functional arguments.
// Invalid options are recorded and surfaced as ErrOptionViolation.
type Option func(*Options)

// Options holds the resolved generation parameters.
type Options struct {
	// Boost restricts each row to its light-cone window around CentralLine.
	Boost bool

	// CentralLine is the reference column of the light cone. Used only when Boost is set.
	CentralLine int

	// Layout selects the materialization strategy.
	Layout Layout

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns unboosted, contiguous generation.
func DefaultOptions() Options {
	return Options{Layout: Contiguous}
}

// WithBoost enables light-cone windowing around centralLine.
// A negative centralLine is an option violation.
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

// WithLayout selects the materialization strategy.
func WithLayout(l Layout) Option {
	return func(o *Options) {
		switch l {
		case Contiguous, RowByRow:
			o.Layout = l
		default:
			o.err = fmt.Errorf("%w: %v", ErrOptionViolation, l)
		}
	}
}

// Result holds a finished generation.
//   - Canvas: rows×cols grid, row 0 equal to the initial row.
//   - Sums:   live-cell count of every row; len(Sums) == Canvas.Rows().
type Result struct {
	Canvas *canvas.Canvas
	Sums   []uint32
}
