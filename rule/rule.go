// SPDX-License-Identifier: MIT

// Package rule decodes a flat rule specification into a lookup table mapping
// a (left, center, right) neighbourhood to the next-generation cell.
//
// A specification is a sequence of quadruplets (left, center, right, result).
// Duplicate neighbourhoods overwrite earlier ones (last write wins).
// Neighbourhoods absent from the specification are undefined: the engine
// leaves the output cell at its default (0) for them.
//
// Elementary rules can also be built from their Wolfram number via FromNumber.
package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/cellauto/cell"
)

// Sentinel errors for rule construction.
var (
	// ErrSpecLength indicates a specification whose length is not a multiple of 4.
	ErrSpecLength = errors.New("rule: specification length must be a multiple of 4")

	// ErrRuleNumber indicates an elementary rule number outside 0..255.
	ErrRuleNumber = errors.New("rule: elementary rule number must be within 0..255")
)

const (
	// quad is the width of one specification entry: three inputs, one output.
	quad = 4
	// neighbourhoods is the number of distinct binary triples.
	neighbourhoods = 8
)

// entry is one slot of the table; defined distinguishes "maps to 0" from "absent".
type entry struct {
	value   cell.Cell
	defined bool
}

// Table maps a neighbourhood to its resulting cell. It is immutable after
// construction and safe for concurrent lookups.
type Table struct {
	slots [neighbourhoods]entry
}

// index packs a neighbourhood into 0..7 as l<<2 | c<<1 | r.
func index(l, c, r cell.Cell) int {
	return int(l)<<2 | int(c)<<1 | int(r)
}

// New builds a Table from a flat specification of quadruplets.
// Every value must be 0 or 1; any other value aborts construction with
// cell.ErrInvalidCellValue.
// Complexity: O(len(spec)).
func New(spec []byte) (*Table, error) {
	if len(spec)%quad != 0 {
		return nil, fmt.Errorf("length %d: %w", len(spec), ErrSpecLength)
	}
	t := &Table{}
	for i := 0; i < len(spec); i += quad {
		for j := i; j < i+quad; j++ {
			if !cell.IsBinary(spec[j]) {
				return nil, fmt.Errorf("pattern rules must be either 0 or 1 (index %d holds %d): %w",
					j, spec[j], cell.ErrInvalidCellValue)
			}
		}
		t.slots[index(spec[i], spec[i+1], spec[i+2])] = entry{value: spec[i+3], defined: true}
	}

	return t, nil
}

// FromNumber builds the complete table of an elementary rule. Bit k of n is
// the result for the neighbourhood whose packed index is k (so rule 30 maps
// 100, 011, 010 and 001 to 1).
func FromNumber(n int) (*Table, error) {
	spec, err := ElementarySpec(n)
	if err != nil {
		return nil, err
	}

	return New(spec)
}

// ElementarySpec returns the 32-byte flat specification of elementary rule n,
// listing neighbourhoods from 111 down to 000.
func ElementarySpec(n int) ([]byte, error) {
	if n < 0 || n > 255 {
		return nil, fmt.Errorf("rule %d: %w", n, ErrRuleNumber)
	}
	spec := make([]byte, 0, neighbourhoods*quad)
	for k := neighbourhoods - 1; k >= 0; k-- {
		spec = append(spec,
			byte(k>>2&1), byte(k>>1&1), byte(k&1),
			byte(n>>k&1),
		)
	}

	return spec, nil
}

// Lookup returns the result for (l, c, r) and whether the neighbourhood is defined.
// Inputs must be binary; callers validate rows before the hot loop.
func (t *Table) Lookup(l, c, r cell.Cell) (cell.Cell, bool) {
	e := t.slots[index(l, c, r)]

	return e.value, e.defined
}

// Len returns the number of defined neighbourhoods.
func (t *Table) Len() int {
	n := 0
	for _, e := range t.slots {
		if e.defined {
			n++
		}
	}

	return n
}

// Quiescent reports whether an all-dead neighbourhood stays dead, i.e. 000
// maps to 0 or is undefined. Only quiescent rules can be windowed.
func (t *Table) Quiescent() bool {
	e := t.slots[0]

	return !e.defined || e.value == cell.Dead
}

// Spec returns the canonical flat specification of the defined entries,
// ordered from 000 up to 111. New(t.Spec()) rebuilds an equal table.
func (t *Table) Spec() []byte {
	spec := make([]byte, 0, neighbourhoods*quad)
	for k, e := range t.slots {
		if !e.defined {
			continue
		}
		spec = append(spec, byte(k>>2&1), byte(k>>1&1), byte(k&1), e.value)
	}

	return spec
}

// Number returns the elementary rule number when all eight neighbourhoods
// are defined, and false otherwise.
func (t *Table) Number() (int, bool) {
	n := 0
	for k, e := range t.slots {
		if !e.defined {
			return 0, false
		}
		n |= int(e.value) << k
	}

	return n, true
}

// String lists the defined entries as "lcr→v", highest neighbourhood first.
func (t *Table) String() string {
	var parts []string
	for k := neighbourhoods - 1; k >= 0; k-- {
		e := t.slots[k]
		if !e.defined {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d%d%d→%d", k>>2&1, k>>1&1, k&1, e.value))
	}

	return "rule{" + strings.Join(parts, " ") + "}"
}
