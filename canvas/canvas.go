// SPDX-License-Identifier: MIT

package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/cellauto/cell"
)

// ErrBadShape indicates invalid dimensions or a buffer that does not match them.
var ErrBadShape = errors.New("canvas: invalid shape")

// Rendering glyphs used by String.
const (
	glyphAlive = '#'
	glyphDead  = '.'
)

// canvasErrorf wraps an error with Canvas method context and coordinates.
func canvasErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Canvas.%s(%d,%d): %w", method, row, col, err)
}

// Canvas is a row-major grid of cells.
// rows and cols are fixed at construction; data holds rows*cols cells.
type Canvas struct {
	rows, cols int
	data       []cell.Cell
}

// New creates a rows×cols canvas with every cell Dead.
// Returns ErrBadShape if rows or cols is not positive.
func New(rows, cols int) (*Canvas, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%d×%d: %w", rows, cols, ErrBadShape)
	}

	return &Canvas{rows: rows, cols: cols, data: make([]cell.Cell, rows*cols)}, nil
}

// View wraps data as a rows×cols canvas without copying.
// The canvas aliases data; writes through either are visible to both.
func View(data []cell.Cell, rows, cols int) (*Canvas, error) {
	if rows <= 0 || cols <= 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%d×%d over %d cells: %w", rows, cols, len(data), ErrBadShape)
	}

	return &Canvas{rows: rows, cols: cols, data: data}, nil
}

// FromRows flattens a list of equally sized rows into a new canvas.
// The input rows are copied, so the caller may reuse them.
func FromRows(rows [][]cell.Cell) (*Canvas, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty row list: %w", ErrBadShape)
	}
	cols := len(rows[0])
	data := make([]cell.Cell, 0, len(rows)*cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", r, len(row), cols, ErrBadShape)
		}
		data = append(data, row...)
	}

	return &Canvas{rows: len(rows), cols: cols, data: data}, nil
}

// Rows returns the number of rows.
func (c *Canvas) Rows() int { return c.rows }

// Cols returns the number of columns.
func (c *Canvas) Cols() int { return c.cols }

// Data returns the flat row-major backing slice (no copy).
func (c *Canvas) Data() []cell.Cell { return c.data }

// inBounds reports whether (row, col) addresses a cell of the grid.
func (c *Canvas) inBounds(row, col int) bool {
	return row >= 0 && row < c.rows && col >= 0 && col < c.cols
}

// Row returns row r as a no-copy slice, or nil when r is out of range.
func (c *Canvas) Row(r int) []cell.Cell {
	if r < 0 || r >= c.rows {
		return nil
	}

	return c.data[r*c.cols : (r+1)*c.cols : (r+1)*c.cols]
}

// At returns the cell at (row, col).
func (c *Canvas) At(row, col int) (cell.Cell, error) {
	if !c.inBounds(row, col) {
		return cell.Dead, canvasErrorf("At", row, col, cell.ErrOutOfRange)
	}

	return c.data[row*c.cols+col], nil
}

// Set writes v at (row, col).
func (c *Canvas) Set(row, col int, v cell.Cell) error {
	if !c.inBounds(row, col) {
		return canvasErrorf("Set", row, col, cell.ErrOutOfRange)
	}
	if !cell.IsBinary(v) {
		return canvasErrorf("Set", row, col, cell.ErrInvalidCellValue)
	}
	c.data[row*c.cols+col] = v

	return nil
}

// Segment returns the n cells of row starting at col as a no-copy slice.
// The whole window must lie inside the row.
func (c *Canvas) Segment(row, col, n int) ([]cell.Cell, error) {
	if n <= 0 || !c.inBounds(row, col) || col+n > c.cols {
		return nil, canvasErrorf("Segment", row, col, cell.ErrOutOfRange)
	}
	base := row*c.cols + col

	return c.data[base : base+n : base+n], nil
}

// RowSums counts the live cells of every row.
// Complexity: O(rows×cols).
func (c *Canvas) RowSums() []uint32 {
	sums := make([]uint32, c.rows)
	for r := 0; r < c.rows; r++ {
		sums[r] = uint32(cell.Count(c.Row(r)))
	}

	return sums
}

// Clone returns a deep copy that owns its storage.
func (c *Canvas) Clone() *Canvas {
	data := make([]cell.Cell, len(c.data))
	copy(data, c.data)

	return &Canvas{rows: c.rows, cols: c.cols, data: data}
}

// Equal reports whether both canvases have the same shape and cells.
func (c *Canvas) Equal(other *Canvas) bool {
	if c == nil || other == nil {
		return c == other
	}

	return c.rows == other.rows && c.cols == other.cols && bytes.Equal(c.data, other.data)
}

// String renders one line per row, '#' for live and '.' for dead cells.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.rows * (c.cols + 1))
	for i, v := range c.data {
		if v == cell.Alive {
			sb.WriteByte(glyphAlive)
		} else {
			sb.WriteByte(glyphDead)
		}
		if (i+1)%c.cols == 0 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
