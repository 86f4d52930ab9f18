package seed_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/cellauto/canvas"
	"github.com/katalvlaran/cellauto/cell"
	"github.com/katalvlaran/cellauto/lightcone"
	"github.com/katalvlaran/cellauto/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_FixedPatterns(t *testing.T) {
	cases := []struct {
		p       seed.Pattern
		columns int
		want    []cell.Cell
	}{
		{seed.Standard, 10, []cell.Cell{0, 0, 0, 0, 0, 1, 0, 0, 0, 0}},
		{seed.Standard, 9, []cell.Cell{0, 0, 0, 0, 1, 0, 0, 0, 0}},
		{seed.Right, 5, []cell.Cell{0, 0, 0, 0, 1}},
		{seed.Alternating, 10, []cell.Cell{0, 1, 0, 1, 0, 1, 0, 1, 0, 1}},
		{seed.Standard, 1, []cell.Cell{1}},
	}
	for _, tc := range cases {
		t.Run(tc.p.String(), func(t *testing.T) {
			row, err := seed.Build(tc.p, tc.columns)
			require.NoError(t, err)
			assert.Equal(t, tc.want, row)
		})
	}
}

func TestBuild_RandomIsReproducible(t *testing.T) {
	a, err := seed.Build(seed.Random, 64, seed.WithSeed(42))
	require.NoError(t, err)
	b, err := seed.Build(seed.Random, 64, seed.WithRand(rand.New(rand.NewSource(42))))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NoError(t, cell.Validate(a))

	c, err := seed.Build(seed.Random, 64)
	require.NoError(t, err)
	d, err := seed.Build(seed.Random, 64)
	require.NoError(t, err)
	assert.Equal(t, c, d, "default seed is fixed")
}

func TestBuild_Errors(t *testing.T) {
	_, err := seed.Build(seed.Standard, 0)
	assert.ErrorIs(t, err, canvas.ErrBadShape)
	_, err = seed.Build(seed.Pattern(9), 4)
	assert.ErrorIs(t, err, seed.ErrUnknownPattern)
	assert.Panics(t, func() { seed.WithRand(nil) })
}

func TestParsePattern(t *testing.T) {
	p, err := seed.ParsePattern(" Alternating ")
	require.NoError(t, err)
	assert.Equal(t, seed.Alternating, p)

	_, err = seed.ParsePattern("spiral")
	assert.ErrorIs(t, err, seed.ErrUnknownPattern)
	assert.Equal(t, "Pattern(9)", seed.Pattern(9).String())
}

// TestCentralLine checks boostable patterns keep their seed inside the cone.
func TestCentralLine(t *testing.T) {
	for _, p := range []seed.Pattern{seed.Standard, seed.Right} {
		for _, cols := range []int{1, 2, 9, 10} {
			cl, ok := seed.CentralLine(p, cols)
			require.True(t, ok)
			row, err := seed.Build(p, cols)
			require.NoError(t, err)
			assert.NoError(t, lightcone.CheckSeed(row, cl), "%v/%d", p, cols)
		}
	}
	_, ok := seed.CentralLine(seed.Alternating, 10)
	assert.False(t, ok)
	_, ok = seed.CentralLine(seed.Random, 10)
	assert.False(t, ok)
}

func TestDefaultRows(t *testing.T) {
	assert.Equal(t, 6, seed.DefaultRows(10))
	assert.Equal(t, 5, seed.DefaultRows(9))
}
