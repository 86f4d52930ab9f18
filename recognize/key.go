// SPDX-License-Identifier: MIT

package recognize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/cellauto/cell"
)

// Key identifies a cell sequence in Frequencies and Derivations.
// Its form is "<length>:<bits>", e.g. "5:00011". The length prefix keeps
// sequences of different lengths apart, so equal keys imply equal sequences.
type Key string

// Encode returns the key of cells. Cells must be binary.
func Encode(cells []cell.Cell) Key {
	var sb strings.Builder
	sb.Grow(len(cells) + 4)
	sb.WriteString(strconv.Itoa(len(cells)))
	sb.WriteByte(':')
	for _, v := range cells {
		sb.WriteByte('0' + v)
	}

	return Key(sb.String())
}

// Decode parses a key back into its cells.
// Returns ErrMalformedKey when the prefix is missing, the length disagrees
// with the body or the body holds anything but '0' and '1'.
func Decode(k Key) ([]cell.Cell, error) {
	head, body, ok := strings.Cut(string(k), ":")
	if !ok {
		return nil, fmt.Errorf("%q: missing length prefix: %w", k, ErrMalformedKey)
	}
	n, err := strconv.Atoi(head)
	if err != nil || n != len(body) {
		return nil, fmt.Errorf("%q: length %q does not match %d cells: %w", k, head, len(body), ErrMalformedKey)
	}
	out := make([]cell.Cell, n)
	for i := 0; i < n; i++ {
		switch body[i] {
		case '0':
			out[i] = cell.Dead
		case '1':
			out[i] = cell.Alive
		default:
			return nil, fmt.Errorf("%q: byte %d is %q: %w", k, i, body[i], ErrMalformedKey)
		}
	}

	return out, nil
}

// Len returns the sequence length stored in the prefix, or -1 if malformed.
func (k Key) Len() int {
	head, _, ok := strings.Cut(string(k), ":")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(head)
	if err != nil {
		return -1
	}

	return n
}
