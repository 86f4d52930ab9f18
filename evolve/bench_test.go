package evolve_test

import (
	"testing"

	"github.com/katalvlaran/cellauto/cell"
	"github.com/katalvlaran/cellauto/evolve"
	"github.com/katalvlaran/cellauto/rule"
)

// benchmarkGenerate runs rule 30 from a single central seed on a
// (cols/2+1)×cols canvas with opts.
func benchmarkGenerate(b *testing.B, cols int, opts ...evolve.Option) {
	tbl, err := rule.FromNumber(30)
	if err != nil {
		b.Fatal(err)
	}
	initial := make([]cell.Cell, cols)
	initial[cols/2] = cell.Alive
	rows := cols/2 + 1

	b.ResetTimer() // ignore setup time
	for i := 0; i < b.N; i++ {
		if _, err := evolve.Generate(initial, rows, tbl, opts...); err != nil {
			b.Fatalf("Generate failed: %v", err)
		}
	}
}

// BenchmarkGenerate_Contiguous1001 benchmarks the flat layout without boosting.
func BenchmarkGenerate_Contiguous1001(b *testing.B) {
	benchmarkGenerate(b, 1001)
}

// BenchmarkGenerate_RowByRow1001 benchmarks the per-row layout without boosting.
func BenchmarkGenerate_RowByRow1001(b *testing.B) {
	benchmarkGenerate(b, 1001, evolve.WithLayout(evolve.RowByRow))
}

// BenchmarkGenerate_Boosted1001 benchmarks the flat layout inside the light cone.
func BenchmarkGenerate_Boosted1001(b *testing.B) {
	benchmarkGenerate(b, 1001, evolve.WithBoost(500))
}

// BenchmarkGenerate_BoostedWide shows the cone saving on a canvas far wider than tall.
func BenchmarkGenerate_BoostedWide(b *testing.B) {
	tbl, _ := rule.FromNumber(30)
	initial := make([]cell.Cell, 20001)
	initial[10000] = cell.Alive

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := evolve.Generate(initial, 200, tbl, evolve.WithBoost(10000)); err != nil {
			b.Fatalf("Generate failed: %v", err)
		}
	}
}
