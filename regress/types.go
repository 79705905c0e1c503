// SPDX-License-Identifier: MIT

// Package regress: problem definition, tags and sentinel errors.
package regress

import (
	"errors"

	"github.com/katalvlaran/sketch/dmat"
)

// ErrNilMatrix is returned when a problem or solve receives a nil matrix.
var ErrNilMatrix = errors.New("regress: nil matrix")

// ErrNilContext is returned by solver constructors given a nil random
// stream context.
var ErrNilContext = errors.New("regress: nil random stream context")

// ErrNilProblem is returned by solver constructors given a nil problem.
var ErrNilProblem = errors.New("regress: nil problem")

// ErrInvalidDimensions is returned for design matrices that are not
// overdetermined (fewer rows than columns) or for degenerate sketch sizes.
var ErrInvalidDimensions = errors.New("regress: invalid dimensions")

// ErrDimension is returned when the right-hand side or solution shapes do
// not match the problem.
var ErrDimension = errors.New("regress: dimension mismatch")

// ErrUnsupportedOperation is returned when Solve is called with an
// orientation the solver does not implement. The check runs before any
// sketching work, so the stream counter is untouched.
var ErrUnsupportedOperation = errors.New("regress: unsupported operation")

// ErrUnsupportedDistribution is returned when the design matrix layout has
// no solver path.
var ErrUnsupportedDistribution = errors.New("regress: unsupported matrix distribution")

// ErrDidNotConverge is returned when the iterative solver exhausts its
// iteration budget before reaching the requested tolerance.
var ErrDidNotConverge = errors.New("regress: iteration limit reached before convergence")

// Orientation selects which operator the solver inverts.
type Orientation int

const (
	// Normal solves min ||A*X - B||.
	Normal Orientation = iota
	// Adjoint would solve min ||A^T*X - B||; not implemented by the
	// solvers in this package.
	Adjoint
)

// ModelTag identifies the regression model family.
type ModelTag int

// LinearModel is the only model tag: X enters through A*X.
const LinearModel ModelTag = iota

// LossTag identifies the loss the solvers minimize.
type LossTag int

// L2Loss is the only loss tag: squared euclidean residual.
const L2Loss LossTag = iota

// RegTag identifies the regularization term.
type RegTag int

// NoReg is the only regularization tag.
const NoReg RegTag = iota

// Problem is an immutable least-squares problem description: the design
// matrix plus the (model, loss, regularization) triple.
type Problem struct {
	height int
	width  int
	a      *dmat.Matrix
	model  ModelTag
	loss   LossTag
	reg    RegTag
}

// NewProblem wraps an m x n design matrix, m >= n, as a linear l2 problem.
// Returns ErrNilMatrix for a nil matrix and ErrInvalidDimensions for an
// underdetermined one.
func NewProblem(a *dmat.Matrix) (*Problem, error) {
	if a == nil {
		return nil, ErrNilMatrix
	}
	if a.Rows() < a.Cols() {
		return nil, ErrInvalidDimensions
	}

	return &Problem{
		height: a.Rows(),
		width:  a.Cols(),
		a:      a,
		model:  LinearModel,
		loss:   L2Loss,
		reg:    NoReg,
	}, nil
}

// Height returns m, the design matrix row count.
func (p *Problem) Height() int { return p.height }

// Width returns n, the design matrix column count.
func (p *Problem) Width() int { return p.width }

// Matrix returns the design matrix.
func (p *Problem) Matrix() *dmat.Matrix { return p.a }

// Model returns the model tag.
func (p *Problem) Model() ModelTag { return p.model }

// Loss returns the loss tag.
func (p *Problem) Loss() LossTag { return p.loss }

// Reg returns the regularization tag.
func (p *Problem) Reg() RegTag { return p.reg }
