// SPDX-License-Identifier: MIT

// Package cell defines the binary automaton state and the two error kinds
// shared by every package of cellauto.
//
// What:
//
//   - Cell is a byte alias holding 0 (Dead) or 1 (Alive).
//   - Validate rejects any sequence holding another value.
//   - Count returns the live population of a sequence.
//
// Errors:
//
//   - ErrInvalidCellValue: an input sequence holds a value other than 0/1.
//   - ErrOutOfRange: an index computation would leave an allocated buffer.
//
// Both are unrecoverable for the current call; callers match them with
// errors.Is after any amount of %w wrapping.
package cell

import (
	"errors"
	"fmt"
)

// Cell is a single automaton state. It aliases byte so that caller-owned
// byte buffers can be borrowed as []Cell without a copy.
type Cell = byte

const (
	// Dead is the quiescent state and the default of every unwritten cell.
	Dead Cell = 0
	// Alive is the live state.
	Alive Cell = 1
)

var (
	// ErrInvalidCellValue indicates a cell (or rule value) other than 0 or 1.
	ErrInvalidCellValue = errors.New("cell: value must be either 0 or 1")

	// ErrOutOfRange indicates an index outside an allocated buffer.
	ErrOutOfRange = errors.New("cell: index out of range")
)

// IsBinary reports whether v is a legal Cell value.
func IsBinary(v byte) bool {
	return v == Dead || v == Alive
}

// Validate checks that every element of cells is 0 or 1.
// The returned error wraps ErrInvalidCellValue and names the first offender.
// Complexity: O(n).
func Validate(cells []Cell) error {
	for i, v := range cells {
		if !IsBinary(v) {
			return fmt.Errorf("index %d holds %d: %w", i, v, ErrInvalidCellValue)
		}
	}

	return nil
}

// Count returns the number of live cells. Values other than 0/1 are not
// expected here; validate first.
// Complexity: O(n).
func Count(cells []Cell) int {
	n := 0
	for _, v := range cells {
		n += int(v)
	}

	return n
}
