// Package canvas stores the generated automaton grid as a dense, row-major
// buffer of cells.
//
// What:
//
//   - Canvas owns (or borrows) rows×cols cells in one flat slice; cell (r,c)
//     lives at index r*cols + c.
//   - New allocates a zeroed canvas; View wraps a caller-owned buffer without
//     copying; FromRows flattens independently built rows.
//   - Row and Segment hand out no-copy windows for hot loops; At/Set are the
//     bounds-checked accessors.
//
// Ownership:
//
//   - A canvas returned by View borrows the caller's slice. It must not be
//     retained beyond the call that received the slice.
//   - Once a canvas is handed to the recognizer it is treated as immutable.
//
// Errors:
//
//   - ErrBadShape: non-positive dimensions, ragged rows or a buffer whose
//     length does not equal rows*cols.
//   - cell.ErrOutOfRange: index outside the grid.
//   - cell.ErrInvalidCellValue: Set with a value other than 0/1.
//
// Complexity:
//
//   - New, Clone, FromRows: O(rows×cols); View, Row, At, Set, Segment: O(1).
package canvas
