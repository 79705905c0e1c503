// SPDX-License-Identifier: MIT

// Package regress: the sketch-and-solve path.
package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sketch/dmat"
	"github.com/katalvlaran/sketch/grid"
	"github.com/katalvlaran/sketch/randstream"
	"github.com/katalvlaran/sketch/sketch"
)

// SketchedSolver compresses the problem once and solves the compressed
// system exactly. The compressed r x n system must fit in one member's
// memory; this is not checked.
type SketchedSolver struct {
	prob *Problem
	r    int
	ctx  *randstream.Context
}

// NewSketchedSolver prepares a sketch-and-solve run with sketch size r.
// A non-positive sketchSize selects the default r = 4*n. The constructor
// reserves nothing from the stream; transforms are drawn inside Solve.
func NewSketchedSolver(p *Problem, sketchSize int, ctx *randstream.Context) (*SketchedSolver, error) {
	if p == nil {
		return nil, ErrNilProblem
	}
	if ctx == nil {
		return nil, ErrNilContext
	}
	r := sketchSize
	if r <= 0 {
		r = 4 * p.width
	}
	if r < p.width {
		return nil, ErrInvalidDimensions
	}

	return &SketchedSolver{prob: p, r: r, ctx: ctx}, nil
}

// SketchSize returns the resolved sketch size r.
func (s *SketchedSolver) SketchSize() int { return s.r }

// drawTransform picks the sketching family by layout: the Hadamard-based
// FJLT for resident data, CWT for partitioned data (FJLT cannot run the
// partial-then-reduce path a row-partitioned input needs).
func drawTransform(m, r int, layout dmat.Layout, ctx *randstream.Context) (sketch.Transform, error) {
	if layout == dmat.Local || layout == dmat.Star {
		return sketch.NewFJLT(m, r, ctx)
	}

	return sketch.NewCWT(m, r, ctx)
}

// Solve computes X = argmin ||A*X - B|| column by column over the sketched
// system. Only the Normal orientation is implemented; Adjoint fails with
// ErrUnsupportedOperation before any stream reservation. B must share A's
// layout; X may use any layout and receives the full solution on every
// member.
func (s *SketchedSolver) Solve(orient Orientation, B, X *dmat.Matrix) error {
	if orient != Normal {
		return ErrUnsupportedOperation
	}
	if B == nil || X == nil {
		return ErrNilMatrix
	}
	a := s.prob.a
	if B.Rows() != s.prob.height || X.Rows() != s.prob.width || B.Cols() != X.Cols() {
		return ErrDimension
	}
	if B.Layout() != a.Layout() {
		return ErrUnsupportedDistribution
	}

	tr, err := drawTransform(s.prob.height, s.r, a.Layout(), s.ctx)
	if err != nil {
		return err
	}

	// Star inputs sketch to Star replicas (no collective needed afterwards);
	// everything else compresses onto rank 0.
	newOut := func(rows, cols int) (*dmat.Matrix, error) {
		if a.Layout() == dmat.Star {
			return dmat.NewStar(rows, cols, a.Comm())
		}

		return dmat.NewLocal(rows, cols)
	}
	sa, err := newOut(s.r, s.prob.width)
	if err != nil {
		return err
	}
	sb, err := newOut(s.r, B.Cols())
	if err != nil {
		return err
	}
	if err = tr.Apply(a, sa, sketch.Columnwise); err != nil {
		return err
	}
	if err = tr.Apply(B, sb, sketch.Columnwise); err != nil {
		return err
	}

	// The compressed system is solved wherever it materialized: on every
	// Star replica, or on rank 0 for the gathered layouts.
	var sol *mat.Dense
	if a.Layout() == dmat.Star || a.Comm().Rank() == 0 {
		var qr mat.QR
		qr.Factorize(sa.LocalData())
		sol = mat.NewDense(s.prob.width, B.Cols(), nil)
		if err = qr.SolveTo(sol, false, sb.LocalData()); err != nil {
			return fmt.Errorf("regress: solving sketched system: %w", err)
		}
	}
	if a.Layout() == dmat.Star {
		return assignSolution(X, sol)
	}

	return broadcastSolution(a.Comm(), sol, X)
}

// broadcastSolution delivers rank 0's solution to every member and writes
// each member's share of X.
func broadcastSolution(comm grid.Communicator, sol *mat.Dense, x *dmat.Matrix) error {
	var packed [][]float64
	if sol != nil {
		r, c := sol.Dims()
		packed = make([][]float64, r)
		for i := 0; i < r; i++ {
			packed[i] = make([]float64, c)
			for j := 0; j < c; j++ {
				packed[i][j] = sol.At(i, j)
			}
		}
	}
	rows, err := comm.BcastRows(packed, 0)
	if err != nil {
		return fmt.Errorf("regress: broadcasting solution: %w", err)
	}
	full := mat.NewDense(x.Rows(), x.Cols(), nil)
	for i := range rows {
		for j := range rows[i] {
			full.Set(i, j, rows[i][j])
		}
	}

	return assignSolution(x, full)
}

// assignSolution writes the replicated n x k solution into x's local block
// according to x's layout.
func assignSolution(x *dmat.Matrix, sol *mat.Dense) error {
	var i, j int
	for i = 0; i < x.LocalRows(); i++ {
		for j = 0; j < x.LocalCols(); j++ {
			if err := x.Set(i, j, sol.At(x.RowOffset()+i, x.ColOffset()+j)); err != nil {
				return err
			}
		}
	}

	return nil
}
