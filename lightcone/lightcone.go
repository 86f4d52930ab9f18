// SPDX-License-Identifier: MIT

// Package lightcone computes the "boost" window: the bounded column range of
// a row that can differ from the quiescent default, given a reference column
// (the central line) from which all initial activity starts.
//
// Information travels at most one column per generation, so the window
// widens by one column on each side per row. Generation and recognition both
// derive their windows from Window, which keeps the two scans in lockstep.
//
// The window is only exact when the initial row keeps its live cells inside
// the seed cone [centralLine-1, centralLine+1) and the rule leaves an empty
// neighbourhood empty. CheckSeed enforces the first condition; the engine
// checks quiescence of the rule.
package lightcone

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/cellauto/cell"
)

// ErrSeedOutsideCone indicates an initial row with live cells the boost window
// would never reach.
var ErrSeedOutsideCone = errors.New("lightcone: initial row has live cells outside the seed cone")

// Interval is a half-open column range [Start, Stop).
type Interval struct {
	Start, Stop int
}

// Len returns the number of columns in the interval (0 when empty).
func (iv Interval) Len() int {
	if iv.Stop <= iv.Start {
		return 0
	}

	return iv.Stop - iv.Start
}

// Contains reports whether column c lies inside the interval.
func (iv Interval) Contains(c int) bool {
	return c >= iv.Start && c < iv.Stop
}

// Full returns the unboosted interval [0, columns).
func Full(columns int) Interval {
	return Interval{Start: 0, Stop: columns}
}

// Window returns the columns worth computing for the row that follows row,
// clamped to [0, columns):
//
//	[max(0, centralLine-(row+2)), min(centralLine+row+2, columns))
//
// Deriving row r from row r-1 uses Window(cl, r-1, C), i.e. [cl-(r+1), cl+r+1).
// The recognizer scanning row r uses Window(cl, r, C), one column wider on
// each side, because a parent window reaches one column past its segment.
func Window(centralLine, row, columns int) Interval {
	start := centralLine - (row + 2)
	if start < 0 {
		start = 0
	}
	stop := centralLine + row + 2
	if stop > columns {
		stop = columns
	}
	if stop < start {
		stop = start
	}

	return Interval{Start: start, Stop: stop}
}

// Seed returns the cone of row 0 itself: Window(centralLine, -1, columns),
// that is [centralLine-1, centralLine+1).
func Seed(centralLine, columns int) Interval {
	return Window(centralLine, -1, columns)
}

// CheckSeed verifies that centralLine addresses a column of initial and that
// every live cell of initial lies inside Seed(centralLine, len(initial)).
func CheckSeed(initial []cell.Cell, centralLine int) error {
	if centralLine < 0 || centralLine >= len(initial) {
		return fmt.Errorf("central line %d for %d columns: %w", centralLine, len(initial), cell.ErrOutOfRange)
	}
	cone := Seed(centralLine, len(initial))
	for c, v := range initial {
		if v != cell.Dead && !cone.Contains(c) {
			return fmt.Errorf("column %d outside [%d,%d): %w", c, cone.Start, cone.Stop, ErrSeedOutsideCone)
		}
	}

	return nil
}
