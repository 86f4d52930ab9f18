// SPDX-License-Identifier: MIT

// Package seed builds the initial row of a canvas from a named pattern.
//
// Patterns:
//   - Standard:    one live cell at columns/2.
//   - Right:       one live cell at columns-1.
//   - Alternating: every odd column live (0101…).
//   - Random:      uniform 0/1 cells from a seeded RNG.
//
// Random rows are reproducible: the same seed yields the same row. Without
// WithSeed or WithRand a fixed default seed is used, never the clock.
package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/katalvlaran/cellauto/canvas"
	"github.com/katalvlaran/cellauto/cell"
)

// ErrUnknownPattern is returned by ParsePattern and Build for unknown patterns.
var ErrUnknownPattern = errors.New("seed: unknown pattern")

// defaultSeed is used when no RNG option is given.
const defaultSeed int64 = 1

// Pattern names an initial-row layout.
type Pattern int

const (
	// Standard places a single live cell in the middle column.
	Standard Pattern = iota
	// Right places a single live cell in the last column.
	Right
	// Alternating makes every odd column live.
	Alternating
	// Random draws every cell uniformly.
	Random
)

var patternNames = [...]string{"standard", "right", "alternating", "random"}

// String returns the lower-case pattern name.
func (p Pattern) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return fmt.Sprintf("Pattern(%d)", int(p))
	}

	return patternNames[p]
}

// ParsePattern maps a case-insensitive name to its Pattern.
func ParsePattern(s string) (Pattern, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range patternNames {
		if n == name {
			return Pattern(i), nil
		}
	}

	return Standard, fmt.Errorf("%q: %w", s, ErrUnknownPattern)
}

// Option configures Build.
type Option func(*config)

type config struct {
	rng *rand.Rand
}

// WithSeed draws Random rows from a fresh RNG seeded with seed.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand draws Random rows from r. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("seed: WithRand(nil)")
	}
	return func(c *config) {
		c.rng = r
	}
}

// Build returns a fresh initial row of p over columns cells.
// Returns canvas.ErrBadShape for columns < 1 and ErrUnknownPattern for p
// outside the declared patterns.
func Build(p Pattern, columns int, opts ...Option) ([]cell.Cell, error) {
	if columns < 1 {
		return nil, fmt.Errorf("seed: %d columns: %w", columns, canvas.ErrBadShape)
	}
	row := make([]cell.Cell, columns)
	switch p {
	case Standard:
		row[columns/2] = cell.Alive
	case Right:
		row[columns-1] = cell.Alive
	case Alternating:
		for c := 1; c < columns; c += 2 {
			row[c] = cell.Alive
		}
	case Random:
		cfg := config{}
		for _, opt := range opts {
			opt(&cfg)
		}
		if cfg.rng == nil {
			cfg.rng = rand.New(rand.NewSource(defaultSeed))
		}
		for c := range row {
			row[c] = cell.Cell(cfg.rng.Intn(2))
		}
	default:
		return nil, fmt.Errorf("%v: %w", p, ErrUnknownPattern)
	}

	return row, nil
}

// CentralLine returns the boost column for single-cell patterns.
// Alternating and Random rows spread over the whole canvas and report false.
func CentralLine(p Pattern, columns int) (int, bool) {
	if columns < 1 {
		return 0, false
	}
	switch p {
	case Standard:
		return columns / 2, true
	case Right:
		return columns - 1, true
	default:
		return 0, false
	}
}

// DefaultRows returns the canvas depth used when none is given: columns/2+1,
// the row at which a cone from the middle column reaches both edges.
func DefaultRows(columns int) int {
	return columns/2 + 1
}
