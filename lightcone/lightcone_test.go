package lightcone_test

import (
	"testing"

	"github.com/katalvlaran/cellauto/cell"
	"github.com/katalvlaran/cellauto/lightcone"
	"github.com/stretchr/testify/assert"
)

// TestWindow covers widening and clamping at both edges.
func TestWindow(t *testing.T) {
	cases := []struct {
		name                string
		central, row, width int
		want                lightcone.Interval
	}{
		{"FirstTransition", 4, 0, 9, lightcone.Interval{Start: 2, Stop: 6}},
		{"Widens", 4, 1, 9, lightcone.Interval{Start: 1, Stop: 7}},
		{"ClampLeft", 4, 3, 9, lightcone.Interval{Start: 0, Stop: 9}},
		{"ClampRight", 8, 0, 9, lightcone.Interval{Start: 6, Stop: 9}},
		{"SeedRow", 4, -1, 9, lightcone.Interval{Start: 3, Stop: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, lightcone.Window(tc.central, tc.row, tc.width))
		})
	}
}

// TestWindow_MatchesTargetFormula checks [cl-(r+1), cl+r+1) for target row r.
func TestWindow_MatchesTargetFormula(t *testing.T) {
	const cl, width = 20, 41
	for r := 1; r < 15; r++ {
		iv := lightcone.Window(cl, r-1, width)
		assert.Equal(t, cl-(r+1), iv.Start, "row %d", r)
		assert.Equal(t, cl+r+1, iv.Stop, "row %d", r)
		assert.Equal(t, 2*r+2, iv.Len())
	}
}

func TestInterval(t *testing.T) {
	iv := lightcone.Interval{Start: 2, Stop: 5}
	assert.Equal(t, 3, iv.Len())
	assert.True(t, iv.Contains(2))
	assert.False(t, iv.Contains(5))
	assert.Equal(t, 0, lightcone.Interval{Start: 4, Stop: 4}.Len())
	assert.Equal(t, lightcone.Interval{Start: 0, Stop: 7}, lightcone.Full(7))
}

func TestCheckSeed(t *testing.T) {
	row := []cell.Cell{0, 0, 0, 1, 1, 0, 0}

	assert.NoError(t, lightcone.CheckSeed(row, 4), "live cells at 3 and 4 sit in [3,5)")
	assert.ErrorIs(t, lightcone.CheckSeed(row, 3), lightcone.ErrSeedOutsideCone, "column 4 is outside [2,4)")
	assert.ErrorIs(t, lightcone.CheckSeed(row, 7), cell.ErrOutOfRange)
	assert.ErrorIs(t, lightcone.CheckSeed(row, -1), cell.ErrOutOfRange)
	assert.NoError(t, lightcone.CheckSeed(make([]cell.Cell, 5), 0), "an empty row fits any cone")
}
