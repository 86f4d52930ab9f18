package evolve_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/cellauto/canvas"
	"github.com/katalvlaran/cellauto/cell"
	"github.com/katalvlaran/cellauto/evolve"
	"github.com/katalvlaran/cellauto/lightcone"
	"github.com/katalvlaran/cellauto/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var layouts = []evolve.Layout{evolve.Contiguous, evolve.RowByRow}

// mustRule builds an elementary rule table or fails the test.
func mustRule(t testing.TB, n int) *rule.Table {
	t.Helper()
	tbl, err := rule.FromNumber(n)
	require.NoError(t, err)
	return tbl
}

//----------------------------------------------------------------------------//
// Fixed scenarios
//----------------------------------------------------------------------------//

// TestGenerate_Rule90 checks a single seed under rule 90 by hand.
func TestGenerate_Rule90(t *testing.T) {
	initial := []cell.Cell{0, 0, 0, 0, 1, 0, 0, 0, 0}
	want := []cell.Cell{
		0, 0, 0, 0, 1, 0, 0, 0, 0,
		0, 0, 0, 1, 0, 1, 0, 0, 0,
		0, 0, 1, 0, 0, 0, 1, 0, 0,
		0, 1, 0, 1, 0, 1, 0, 1, 0,
		1, 0, 0, 0, 0, 0, 0, 0, 1,
	}
	for _, layout := range layouts {
		t.Run(layout.String(), func(t *testing.T) {
			res, err := evolve.Generate(initial, 5, mustRule(t, 90), evolve.WithLayout(layout))
			require.NoError(t, err)
			assert.Equal(t, want, res.Canvas.Data())
			assert.Equal(t, []uint32{1, 2, 2, 4, 2}, res.Sums)
		})
	}
}

// TestGenerate_QuadrupletListIsRule104 runs the literal quadruplet list
// 111→0 110→1 101→1 100→0 011→1 010→0 001→0 000→0, which is elementary rule
// 104: a lone live cell dies immediately.
func TestGenerate_QuadrupletListIsRule104(t *testing.T) {
	spec := []byte{1, 1, 1, 0, 1, 1, 0, 1, 1, 0, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0}
	tbl, err := rule.New(spec)
	require.NoError(t, err)
	n, ok := tbl.Number()
	require.True(t, ok)
	assert.Equal(t, 104, n)

	res, err := evolve.Generate([]cell.Cell{0, 0, 0, 0, 1, 0, 0, 0, 0}, 5, tbl)
	require.NoError(t, err)
	assert.Equal(t, []cell.Cell{0, 0, 0, 0, 0, 0, 0, 0, 0}, res.Canvas.Row(1))
	assert.Equal(t, []uint32{1, 0, 0, 0, 0}, res.Sums)
}

// rule30Fixtures are 5-row rule 30 canvases for the standard, right and
// alternating seeds, with the central line used when boosting (-1: none).
var rule30Fixtures = []struct {
	name    string
	cols    int
	central int
	want    []cell.Cell
	sums    []uint32
}{
	{
		name: "Standard", cols: 10, central: 5,
		want: []cell.Cell{
			0, 0, 0, 0, 0, 1, 0, 0, 0, 0,
			0, 0, 0, 0, 1, 1, 1, 0, 0, 0,
			0, 0, 0, 1, 1, 0, 0, 1, 0, 0,
			0, 0, 1, 1, 0, 1, 1, 1, 1, 0,
			0, 1, 1, 0, 0, 1, 0, 0, 0, 1,
		},
		sums: []uint32{1, 3, 3, 6, 4},
	},
	{
		name: "Right", cols: 5, central: 4,
		want: []cell.Cell{
			0, 0, 0, 0, 1,
			0, 0, 0, 1, 1,
			0, 0, 1, 1, 0,
			0, 1, 1, 0, 1,
			1, 1, 0, 0, 1,
		},
		sums: []uint32{1, 2, 2, 3, 3},
	},
	{
		name: "Alternating", cols: 10, central: -1,
		want: []cell.Cell{
			0, 1, 0, 1, 0, 1, 0, 1, 0, 1,
			1, 1, 0, 1, 0, 1, 0, 1, 0, 1,
			1, 0, 0, 1, 0, 1, 0, 1, 0, 1,
			1, 1, 1, 1, 0, 1, 0, 1, 0, 1,
			1, 0, 0, 0, 0, 1, 0, 1, 0, 1,
		},
		sums: []uint32{5, 6, 5, 7, 4},
	},
}

// TestGenerate_Rule30Fixtures checks every fixture in both layouts, boosted
// whenever the seed allows it.
func TestGenerate_Rule30Fixtures(t *testing.T) {
	tbl := mustRule(t, 30)
	for _, fx := range rule30Fixtures {
		for _, layout := range layouts {
			t.Run(fx.name+"/"+layout.String(), func(t *testing.T) {
				initial := append([]cell.Cell(nil), fx.want[:fx.cols]...)
				opts := []evolve.Option{evolve.WithLayout(layout)}
				if fx.central >= 0 {
					opts = append(opts, evolve.WithBoost(fx.central))
				}
				res, err := evolve.Generate(initial, 5, tbl, opts...)
				require.NoError(t, err)
				assert.Equal(t, fx.want, res.Canvas.Data())
				assert.Equal(t, fx.sums, res.Sums)
			})
		}
	}
}

// TestGenerate_SingleRow returns just the validated initial row.
func TestGenerate_SingleRow(t *testing.T) {
	res, err := evolve.Generate([]cell.Cell{1, 0, 1}, 1, mustRule(t, 30))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Canvas.Rows())
	assert.Equal(t, []uint32{2}, res.Sums)
}

// TestGenerate_UndefinedNeighbourhoodStaysDead uses a table defining only 010.
func TestGenerate_UndefinedNeighbourhoodStaysDead(t *testing.T) {
	tbl, err := rule.New([]byte{0, 1, 0, 1})
	require.NoError(t, err)
	res, err := evolve.Generate([]cell.Cell{0, 1, 1, 0}, 2, tbl)
	require.NoError(t, err)
	assert.Equal(t, []cell.Cell{0, 0, 0, 0}, res.Canvas.Row(1), "011 and 110 are undefined")
	assert.Equal(t, []uint32{2, 0}, res.Sums)
}

// TestGenerate_DoesNotRetainInitial checks the initial row is copied.
func TestGenerate_DoesNotRetainInitial(t *testing.T) {
	initial := []cell.Cell{0, 1, 0}
	for _, layout := range layouts {
		res, err := evolve.Generate(initial, 2, mustRule(t, 30), evolve.WithLayout(layout))
		require.NoError(t, err)
		initial[1] = 0
		assert.Equal(t, cell.Alive, res.Canvas.Row(0)[1], layout.String())
		initial[1] = 1
	}
}

//----------------------------------------------------------------------------//
// Errors
//----------------------------------------------------------------------------//

func TestGenerate_Errors(t *testing.T) {
	r30 := mustRule(t, 30)
	cases := []struct {
		name    string
		initial []cell.Cell
		rows    int
		table   *rule.Table
		opts    []evolve.Option
		err     error
	}{
		{"NilTable", []cell.Cell{0, 1, 0}, 3, nil, nil, evolve.ErrNilTable},
		{"ZeroRows", []cell.Cell{0, 1, 0}, 0, r30, nil, canvas.ErrBadShape},
		{"EmptyRow", nil, 3, r30, nil, canvas.ErrBadShape},
		{"BadCell", []cell.Cell{0, 2, 0}, 3, r30, nil, cell.ErrInvalidCellValue},
		{"NegativeCentral", []cell.Cell{0, 1, 0}, 3, r30, []evolve.Option{evolve.WithBoost(-1)}, evolve.ErrOptionViolation},
		{"CentralPastEdge", []cell.Cell{0, 1, 0}, 3, r30, []evolve.Option{evolve.WithBoost(3)}, cell.ErrOutOfRange},
		{"SeedOutsideCone", []cell.Cell{1, 0, 0, 0, 1}, 3, r30, []evolve.Option{evolve.WithBoost(4)}, lightcone.ErrSeedOutsideCone},
		{"NonQuiescent", []cell.Cell{0, 1, 0}, 3, mustRule(t, 1), []evolve.Option{evolve.WithBoost(1)}, evolve.ErrNonQuiescentRule},
		{"BadLayout", []cell.Cell{0, 1, 0}, 3, r30, []evolve.Option{evolve.WithLayout(evolve.Layout(7))}, evolve.ErrOptionViolation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := evolve.Generate(tc.initial, tc.rows, tc.table, tc.opts...)
			assert.ErrorIs(t, err, tc.err)
			assert.Nil(t, res, "no partial result on error")
		})
	}
}

// TestGenerate_NonQuiescentUnboosted is fine: only boosting needs quiescence.
func TestGenerate_NonQuiescentUnboosted(t *testing.T) {
	res, err := evolve.Generate([]cell.Cell{0, 0, 0}, 2, mustRule(t, 1))
	require.NoError(t, err)
	assert.Equal(t, []cell.Cell{1, 1, 1}, res.Canvas.Row(1))
}

func TestParseLayout(t *testing.T) {
	l, err := evolve.ParseLayout("whole")
	require.NoError(t, err)
	assert.Equal(t, evolve.Contiguous, l)

	l, err = evolve.ParseLayout("Row-By-Row")
	require.NoError(t, err)
	assert.Equal(t, evolve.RowByRow, l)

	_, err = evolve.ParseLayout("diagonal")
	assert.ErrorIs(t, err, evolve.ErrUnknownLayout)
}

//----------------------------------------------------------------------------//
// Properties
//----------------------------------------------------------------------------//

// randomQuiescentSpec returns a partial specification with 000 never mapping to 1.
func randomQuiescentSpec(rng *rand.Rand) []byte {
	var spec []byte
	for k := 0; k < 8; k++ {
		if rng.Intn(4) == 0 {
			continue // leave undefined
		}
		v := byte(rng.Intn(2))
		if k == 0 {
			v = 0
		}
		spec = append(spec, byte(k>>2&1), byte(k>>1&1), byte(k&1), v)
	}
	return spec
}

// TestGenerate_BoostMatchesFull asserts boosting never changes the output
// when the seed sits inside the cone, and that both layouts agree.
func TestGenerate_BoostMatchesFull(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		tbl, err := rule.New(randomQuiescentSpec(rng))
		require.NoError(t, err)

		cols := 1 + rng.Intn(40)
		rows := 1 + rng.Intn(30)
		central := rng.Intn(cols)
		initial := make([]cell.Cell, cols)
		for c := central - 1; c <= central; c++ {
			if c >= 0 {
				initial[c] = cell.Cell(rng.Intn(2))
			}
		}

		full, err := evolve.Generate(initial, rows, tbl)
		require.NoError(t, err)
		for _, layout := range layouts {
			boosted, err := evolve.Generate(initial, rows, tbl, evolve.WithBoost(central), evolve.WithLayout(layout))
			require.NoError(t, err)
			require.True(t, full.Canvas.Equal(boosted.Canvas), "trial %d %s: %v", trial, layout, tbl)
			require.Equal(t, full.Sums, boosted.Sums)
		}
	}
}

// TestGenerate_LayoutsAgree compares layouts on arbitrary rows and full rules.
func TestGenerate_LayoutsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 100; trial++ {
		tbl := mustRule(t, rng.Intn(256))
		initial := make([]cell.Cell, 1+rng.Intn(50))
		for i := range initial {
			initial[i] = cell.Cell(rng.Intn(2))
		}
		rows := 1 + rng.Intn(25)

		a, err := evolve.Generate(initial, rows, tbl, evolve.WithLayout(evolve.Contiguous))
		require.NoError(t, err)
		b, err := evolve.Generate(initial, rows, tbl, evolve.WithLayout(evolve.RowByRow))
		require.NoError(t, err)
		require.True(t, a.Canvas.Equal(b.Canvas), "trial %d", trial)
		require.Equal(t, a.Sums, b.Sums)
	}
}

// TestGenerate_DeterministicAndSumsConsistent checks repeatability and that
// each sum equals the live count actually written.
func TestGenerate_DeterministicAndSumsConsistent(t *testing.T) {
	initial := make([]cell.Cell, 61)
	initial[30] = cell.Alive
	tbl := mustRule(t, 110)

	a, err := evolve.Generate(initial, 31, tbl, evolve.WithBoost(30))
	require.NoError(t, err)
	b, err := evolve.Generate(initial, 31, tbl, evolve.WithBoost(30))
	require.NoError(t, err)

	assert.Equal(t, a.Canvas.Data(), b.Canvas.Data())
	assert.Equal(t, a.Sums, b.Sums)
	assert.Equal(t, a.Canvas.RowSums(), a.Sums)
}

// TestValidate agrees with Generate on accepted and rejected inputs.
func TestValidate(t *testing.T) {
	tbl := mustRule(t, 30)
	assert.NoError(t, evolve.Validate([]cell.Cell{0, 1, 0}, 3, tbl, evolve.WithBoost(1)))
	assert.ErrorIs(t, evolve.Validate([]cell.Cell{1, 0, 0, 0}, 3, tbl, evolve.WithBoost(3)), lightcone.ErrSeedOutsideCone)
	assert.ErrorIs(t, evolve.Validate([]cell.Cell{0, 5}, 3, tbl), cell.ErrInvalidCellValue)
	assert.ErrorIs(t, evolve.Validate([]cell.Cell{0, 1}, 3, tbl, evolve.WithBoost(-4)), evolve.ErrOptionViolation)
}
