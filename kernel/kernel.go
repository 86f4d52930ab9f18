// SPDX-License-Identifier: MIT

// Package kernel exposes the four host operations of the automaton core:
// generate, stats, recognize and release.
//
// Every buffer the kernel hands out (canvas cells, row sums, samples, JSON
// documents) is registered in a handoff.Registry and returned as a Handle.
// The host reads it through the typed accessors and must Release it exactly
// once. Releasing the null handle or an already-released one is a no-op.
//
// Recognize reads a canvas the kernel produced directly from its handle, so
// the buffer never has to leave the kernel between the two calls.
package kernel

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/cellauto/canvas"
	"github.com/katalvlaran/cellauto/cell"
	"github.com/katalvlaran/cellauto/evolve"
	"github.com/katalvlaran/cellauto/growth"
	"github.com/katalvlaran/cellauto/handoff"
	"github.com/katalvlaran/cellauto/recognize"
	"github.com/katalvlaran/cellauto/rule"
)

// ErrNoCanvas indicates a RecognizeRequest carrying neither cells nor a handle.
var ErrNoCanvas = errors.New("kernel: recognize request has no canvas")

// document is a JSON buffer; its own type keeps it apart from canvas cells,
// which are also bytes.
type document []byte

// Kernel serves host requests. The zero value is not usable; call New.
type Kernel struct {
	reg *handoff.Registry
}

// New returns a Kernel with an empty registry.
func New() *Kernel {
	return &Kernel{reg: handoff.NewRegistry()}
}

// GenerateRequest carries the inputs of one generation.
type GenerateRequest struct {
	Initial     []cell.Cell
	Rows        int
	Columns     int
	RuleSpec    []byte
	Boost       bool
	CentralLine int
	Layout      evolve.Layout
}

// CanvasHandles references a generated canvas (rows×columns cells, row-major)
// and its row sums.
type CanvasHandles struct {
	Canvas  handoff.Handle
	Sums    handoff.Handle
	Rows    int
	Columns int
}

// Generate validates req, runs the engine and hands out the canvas and sums.
func (k *Kernel) Generate(req GenerateRequest) (CanvasHandles, error) {
	if req.Columns != len(req.Initial) {
		return CanvasHandles{}, fmt.Errorf("kernel: %d columns for an initial row of %d: %w",
			req.Columns, len(req.Initial), cell.ErrOutOfRange)
	}
	tbl, err := rule.New(req.RuleSpec)
	if err != nil {
		return CanvasHandles{}, fmt.Errorf("kernel: %w", err)
	}
	opts := []evolve.Option{evolve.WithLayout(req.Layout)}
	if req.Boost {
		opts = append(opts, evolve.WithBoost(req.CentralLine))
	}
	res, err := evolve.Generate(req.Initial, req.Rows, tbl, opts...)
	if err != nil {
		return CanvasHandles{}, err
	}

	return CanvasHandles{
		Canvas:  k.reg.Put(res.Canvas.Data()),
		Sums:    k.reg.Put(res.Sums),
		Rows:    res.Canvas.Rows(),
		Columns: res.Canvas.Cols(),
	}, nil
}

// StatsResult holds the growth moments and a handle to the samples.
type StatsResult struct {
	Mean    float64
	StdDev  float64
	Samples handoff.Handle
	Len     int
}

// Stats computes growth statistics over sums.
// When every sum is zero it returns NaN moments, the null samples handle and
// growth.ErrNoGrowthData.
func (k *Kernel) Stats(sums []uint32) (StatsResult, error) {
	st, err := growth.Compute(sums)
	if err != nil {
		return StatsResult{Mean: math.NaN(), StdDev: math.NaN()}, err
	}

	return StatsResult{
		Mean:    st.Mean,
		StdDev:  st.StdDev,
		Samples: k.reg.Put(st.Samples),
		Len:     len(st.Samples),
	}, nil
}

// RecognizeRequest names the canvas to scan. Cells, when set, is borrowed for
// the duration of the call; otherwise the canvas behind Canvas is read.
type RecognizeRequest struct {
	Cells         []cell.Cell
	Canvas        handoff.Handle
	Rows          int
	Columns       int
	PatternLength int
	Boost         bool
	CentralLine   int
}

// RecognitionResult references the JSON-encoded frequency table
// (segment key → count) and derivation table (parent key → segment key).
type RecognitionResult struct {
	Frequencies  handoff.Handle
	Derivations  handoff.Handle
	SegmentCount int
}

// Recognize scans the requested canvas and hands out both tables as JSON.
func (k *Kernel) Recognize(req RecognizeRequest) (RecognitionResult, error) {
	cells := req.Cells
	if cells == nil {
		if req.Canvas == handoff.Null {
			return RecognitionResult{}, ErrNoCanvas
		}
		var err error
		if cells, err = handoff.Get[[]cell.Cell](k.reg, req.Canvas); err != nil {
			return RecognitionResult{}, fmt.Errorf("kernel: %w", err)
		}
	}
	if err := cell.Validate(cells); err != nil {
		return RecognitionResult{}, fmt.Errorf("kernel: canvas: %w", err)
	}
	cv, err := canvas.View(cells, req.Rows, req.Columns)
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("kernel: %w", err)
	}
	var opts []recognize.Option
	if req.Boost {
		opts = append(opts, recognize.WithBoost(req.CentralLine))
	}
	res, err := recognize.Recognize(cv, req.PatternLength, opts...)
	if err != nil {
		return RecognitionResult{}, err
	}

	freq, err := json.Marshal(res.Frequencies)
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("kernel: encode frequencies: %w", err)
	}
	deriv, err := json.Marshal(res.Derivations)
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("kernel: encode derivations: %w", err)
	}

	return RecognitionResult{
		Frequencies:  k.reg.Put(document(freq)),
		Derivations:  k.reg.Put(document(deriv)),
		SegmentCount: res.SegmentCount,
	}, nil
}

// Release frees a buffer handed out by this kernel.
func (k *Kernel) Release(h handoff.Handle) error {
	return k.reg.Release(h)
}

// Outstanding returns the number of buffers not yet released.
func (k *Kernel) Outstanding() int {
	return k.reg.Outstanding()
}

// Cells borrows a canvas buffer.
func (k *Kernel) Cells(h handoff.Handle) ([]cell.Cell, error) {
	return handoff.Get[[]cell.Cell](k.reg, h)
}

// Sums borrows a row-sums buffer.
func (k *Kernel) Sums(h handoff.Handle) ([]uint32, error) {
	return handoff.Get[[]uint32](k.reg, h)
}

// Samples borrows a growth-samples buffer.
func (k *Kernel) Samples(h handoff.Handle) ([]float64, error) {
	return handoff.Get[[]float64](k.reg, h)
}

// Document borrows a JSON document.
func (k *Kernel) Document(h handoff.Handle) ([]byte, error) {
	doc, err := handoff.Get[document](k.reg, h)

	return doc, err
}
