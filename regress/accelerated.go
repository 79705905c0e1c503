// SPDX-License-Identifier: MIT

// Package regress: the sketch-to-precondition path.
package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sketch/dmat"
	"github.com/katalvlaran/sketch/grid"
	"github.com/katalvlaran/sketch/randstream"
	"github.com/katalvlaran/sketch/sketch"
)

// Tunables of the accelerated solver; single source of truth for the
// option defaults.
const (
	// DefaultSketchFactor sizes the preconditioning sketch at
	// DefaultSketchFactor * n rows.
	DefaultSketchFactor = 4.0
	// DefaultTolerance is the LSQR stopping tolerance.
	DefaultTolerance = 1e-14
)

// Stable panic messages for programmer errors in option constructors.
const (
	panicSketchFactor = "regress: sketch factor must be at least 1"
	panicTolerance    = "regress: tolerance must be positive"
	panicMaxIter      = "regress: iteration limit must be positive"
)

// solveOptions is the resolved option set; maxIter 0 means "derive from
// the problem shape at Solve time".
type solveOptions struct {
	factor  float64
	tol     float64
	maxIter int
}

// Option configures an AcceleratedSolver.
type Option func(*solveOptions)

// WithSketchFactor sets the sketch size to factor * n rows.
// Panics if factor < 1: a sketch thinner than the column space cannot
// precondition it.
func WithSketchFactor(factor float64) Option {
	if factor < 1 {
		panic(panicSketchFactor)
	}

	return func(o *solveOptions) { o.factor = factor }
}

// WithTolerance sets the LSQR stopping tolerance. Panics if tol <= 0.
func WithTolerance(tol float64) Option {
	if tol <= 0 {
		panic(panicTolerance)
	}

	return func(o *solveOptions) { o.tol = tol }
}

// WithMaxIter caps the LSQR iteration count. Panics if k < 1.
func WithMaxIter(k int) Option {
	if k < 1 {
		panic(panicMaxIter)
	}

	return func(o *solveOptions) { o.maxIter = k }
}

// gatherOptions resolves the defaults and applies the caller's overrides.
func gatherOptions(opts []Option) solveOptions {
	o := solveOptions{factor: DefaultSketchFactor, tol: DefaultTolerance}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// AcceleratedSolver solves the full least-squares problem to near machine
// precision: a sketch of A is QR-factored once and its R factor
// right-preconditions LSQR on the unsketched problem.
type AcceleratedSolver struct {
	prob *Problem
	ctx  *randstream.Context
	opts solveOptions
}

// NewAcceleratedSolver prepares a sketch-preconditioned run. The
// constructor reserves nothing from the stream; the transform is drawn
// inside Solve.
func NewAcceleratedSolver(p *Problem, ctx *randstream.Context, opts ...Option) (*AcceleratedSolver, error) {
	if p == nil {
		return nil, ErrNilProblem
	}
	if ctx == nil {
		return nil, ErrNilContext
	}

	return &AcceleratedSolver{prob: p, ctx: ctx, opts: gatherOptions(opts)}, nil
}

// Solve computes X = argmin ||A*X - B|| column by column. Only the Normal
// orientation is implemented; Adjoint fails with ErrUnsupportedOperation
// before any stream reservation. The design matrix and B must be Local,
// Star or RowDist with matching layouts; every member finishes holding the
// full solution in its share of X.
//
// Stage 1: sketch A to r = ceil(factor*n) rows and QR-factor the sketch.
// Stage 2: replicate the n x n R factor on every member.
// Stage 3: run right-preconditioned LSQR per column of B.
func (s *AcceleratedSolver) Solve(orient Orientation, B, X *dmat.Matrix) error {
	if orient != Normal {
		return ErrUnsupportedOperation
	}
	if B == nil || X == nil {
		return ErrNilMatrix
	}
	a := s.prob.a
	m, n := s.prob.height, s.prob.width
	if B.Rows() != m || X.Rows() != n || B.Cols() != X.Cols() {
		return ErrDimension
	}
	if B.Layout() != a.Layout() {
		return ErrUnsupportedDistribution
	}
	switch a.Layout() {
	case dmat.Local, dmat.Star, dmat.RowDist:
	default:
		return ErrUnsupportedDistribution
	}

	rMat, err := s.preconditioner()
	if err != nil {
		return err
	}

	// Row-space operations reduce over the grid only for partitioned rows;
	// Star replicas run the identical full-size iteration independently.
	ops := rowOps{
		a:      a.LocalData(),
		comm:   a.Comm(),
		cols:   n,
		reduce: a.Layout() == dmat.RowDist,
	}
	op := linOp{
		matVec: func(z []float64) ([]float64, error) {
			return ops.mul(solveUpper(rMat, z)), nil
		},
		matTVec: func(u []float64) ([]float64, error) {
			t, errT := ops.tmul(u)
			if errT != nil {
				return nil, errT
			}

			return solveUpperTrans(rMat, t), nil
		},
		dot: ops.dotRows,
	}

	maxIter := s.opts.maxIter
	if maxIter == 0 {
		maxIter = 100 * ((m + n - 1) / n)
		if maxIter > 2*m {
			maxIter = 2 * m
		}
	}

	bLocal := B.LocalData()
	sol := mat.NewDense(n, B.Cols(), nil)

	var j, i int
	for j = 0; j < B.Cols(); j++ {
		col := make([]float64, B.LocalRows())
		for i = 0; i < B.LocalRows(); i++ {
			col[i] = bLocal.At(i, j)
		}
		z, _, errL := lsqr(op, col, n, s.opts.tol, maxIter)
		if errL != nil {
			return errL
		}
		// Undo the right preconditioner: x = R^{-1} z.
		x := solveUpper(rMat, z)
		for i = 0; i < n; i++ {
			sol.Set(i, j, x[i])
		}
	}

	return assignSolution(X, sol)
}

// preconditioner sketches A, QR-factors the sketch and returns the top
// n x n R factor replicated on every member.
func (s *AcceleratedSolver) preconditioner() (*mat.Dense, error) {
	a := s.prob.a
	m, n := s.prob.height, s.prob.width

	r := int(math.Ceil(s.opts.factor * float64(n)))
	if r > m {
		r = m
	}

	tr, err := drawTransform(m, r, a.Layout(), s.ctx)
	if err != nil {
		return nil, err
	}

	factorR := func(block *mat.Dense) *mat.Dense {
		var qr mat.QR
		qr.Factorize(block)
		var full mat.Dense
		qr.RTo(&full)
		top := mat.NewDense(n, n, nil)
		top.Copy(full.Slice(0, n, 0, n))

		return top
	}

	switch a.Layout() {
	case dmat.Star:
		sa, errS := dmat.NewStar(r, n, a.Comm())
		if errS != nil {
			return nil, errS
		}
		if errA := tr.Apply(a, sa, sketch.Columnwise); errA != nil {
			return nil, errA
		}

		return factorR(sa.LocalData()), nil

	case dmat.Local:
		sa, errS := dmat.NewLocal(r, n)
		if errS != nil {
			return nil, errS
		}
		if errA := tr.Apply(a, sa, sketch.Columnwise); errA != nil {
			return nil, errA
		}

		return factorR(sa.LocalData()), nil

	default: // RowDist
		sa, errS := dmat.NewLocal(r, n)
		if errS != nil {
			return nil, errS
		}
		if errA := tr.Apply(a, sa, sketch.Columnwise); errA != nil {
			return nil, errA
		}

		return replicateR(a.Comm(), sa, n)
	}
}

// replicateR broadcasts rank 0's R factor so every member holds the same
// preconditioner.
func replicateR(comm grid.Communicator, sa *dmat.Matrix, n int) (*mat.Dense, error) {
	var packed [][]float64
	if comm.Rank() == 0 {
		var qr mat.QR
		qr.Factorize(sa.LocalData())
		var full mat.Dense
		qr.RTo(&full)
		packed = make([][]float64, n)
		for i := 0; i < n; i++ {
			packed[i] = make([]float64, n)
			for j := 0; j < n; j++ {
				packed[i][j] = full.At(i, j)
			}
		}
	}
	rows, err := comm.BcastRows(packed, 0)
	if err != nil {
		return nil, fmt.Errorf("regress: broadcasting preconditioner: %w", err)
	}
	out := mat.NewDense(n, n, nil)
	for i := range rows {
		for j := range rows[i] {
			out.Set(i, j, rows[i][j])
		}
	}

	return out, nil
}
