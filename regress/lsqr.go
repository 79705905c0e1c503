// SPDX-License-Identifier: MIT

// Package regress: LSQR, the iterative core of the accelerated solver.
//
// This is the Paige-Saunders Golub-Kahan bidiagonalization written against
// an abstract operator, so the same loop serves local and row-partitioned
// design matrices: the operator's forward product and inner product are
// distributed, the transposed product returns a replicated n-vector, and
// every member executes the identical scalar recurrence.
package regress

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sketch/grid"
)

// linOp is the operator contract LSQR iterates against. Row-dimension
// vectors hold only the member's local rows; column-dimension vectors are
// replicated on every member.
type linOp struct {
	// matVec computes the forward product into a local-rows vector.
	matVec func(v []float64) ([]float64, error)
	// matTVec computes the transposed product into a replicated n-vector.
	matTVec func(u []float64) ([]float64, error)
	// dot is the inner product of two local-rows vectors, reduced over the
	// grid.
	dot func(u, v []float64) (float64, error)
}

// lsqr minimizes ||Op*x - b|| with x of length n. It stops when the
// residual norm drops below tol*||b|| (consistent systems) or when the
// normal-equations residual drops below tol relative to the accumulated
// operator norm (least-squares convergence). Returns the iterate, the
// iteration count, and ErrDidNotConverge when maxIter is exhausted first.
func lsqr(op linOp, b []float64, n int, tol float64, maxIter int) ([]float64, int, error) {
	x := make([]float64, n)

	// Stage 1: initialize the bidiagonalization. u spans the row space,
	// v the column space.
	u := make([]float64, len(b))
	copy(u, b)
	bb, err := op.dot(u, u)
	if err != nil {
		return nil, 0, err
	}
	beta := math.Sqrt(bb)
	if beta == 0 {
		return x, 0, nil // zero right-hand side, zero solution
	}
	floats.Scale(1/beta, u)

	v, err := op.matTVec(u)
	if err != nil {
		return nil, 0, err
	}
	alpha := floats.Norm(v, 2)
	if alpha != 0 {
		floats.Scale(1/alpha, v)
	}
	w := make([]float64, n)
	copy(w, v)

	bnorm := beta
	phibar := beta
	rhobar := alpha
	normA2 := alpha * alpha

	var iter, i int
	for iter = 1; iter <= maxIter; iter++ {
		// Stage 2: extend the bidiagonalization by one step.
		au, errM := op.matVec(v)
		if errM != nil {
			return nil, iter, errM
		}
		for i = range u {
			u[i] = au[i] - alpha*u[i]
		}
		ub, errD := op.dot(u, u)
		if errD != nil {
			return nil, iter, errD
		}
		beta = math.Sqrt(ub)
		if beta != 0 {
			floats.Scale(1/beta, u)
		}
		normA2 += beta * beta

		atu, errT := op.matTVec(u)
		if errT != nil {
			return nil, iter, errT
		}
		for i = range v {
			v[i] = atu[i] - beta*v[i]
		}
		alpha = floats.Norm(v, 2)
		if alpha != 0 {
			floats.Scale(1/alpha, v)
		}
		normA2 += alpha * alpha

		// Stage 3: the plane rotation that updates the iterate.
		rho := math.Hypot(rhobar, beta)
		c := rhobar / rho
		s := beta / rho
		theta := s * alpha
		rhobar = -c * alpha
		phi := c * phibar
		phibar = s * phibar

		floats.AddScaled(x, phi/rho, w)
		for i = range w {
			w[i] = v[i] - (theta/rho)*w[i]
		}

		// Stage 4: convergence. phibar tracks ||r||; phibar*alpha*|c|
		// tracks ||A^T r||.
		normr := phibar
		normar := math.Abs(phibar * alpha * c)
		if normr <= tol*bnorm {
			return x, iter, nil
		}
		if normar <= tol*math.Sqrt(normA2)*normr {
			return x, iter, nil
		}
	}

	return x, maxIter, ErrDidNotConverge
}

// rowOps binds the abstract operator to a local row block of a design
// matrix, reducing over comm when the rows are partitioned.
type rowOps struct {
	a      *mat.Dense
	comm   grid.Communicator
	cols   int
	reduce bool
}

// mul computes the local rows of a*y. Complexity: O(localRows * n).
func (o rowOps) mul(y []float64) []float64 {
	lr, _ := o.a.Dims()
	out := make([]float64, lr)

	var i int
	for i = 0; i < lr; i++ {
		out[i] = floats.Dot(o.a.RawRowView(i), y)
	}

	return out
}

// tmul computes the replicated a^T*u from local row contributions.
func (o rowOps) tmul(u []float64) ([]float64, error) {
	lr, _ := o.a.Dims()
	t := make([]float64, o.cols)

	var i int
	for i = 0; i < lr; i++ {
		floats.AddScaled(t, u[i], o.a.RawRowView(i))
	}
	if !o.reduce {
		return t, nil
	}

	return o.comm.AllReduceSum(t)
}

// dotRows is the grid-wide inner product over local-rows vectors.
func (o rowOps) dotRows(u, v []float64) (float64, error) {
	local := floats.Dot(u, v)
	if !o.reduce {
		return local, nil
	}
	sum, err := o.comm.AllReduceSum([]float64{local})
	if err != nil {
		return 0, err
	}

	return sum[0], nil
}

// solveUpper solves r*x = b by back substitution for an upper-triangular
// n x n matrix. Complexity: O(n^2).
func solveUpper(r *mat.Dense, b []float64) []float64 {
	n := len(b)
	x := make([]float64, n)

	var i, j int
	var s float64
	for i = n - 1; i >= 0; i-- {
		s = b[i]
		for j = i + 1; j < n; j++ {
			s -= r.At(i, j) * x[j]
		}
		x[i] = s / r.At(i, i)
	}

	return x
}

// solveUpperTrans solves r^T*x = b by forward substitution.
func solveUpperTrans(r *mat.Dense, b []float64) []float64 {
	n := len(b)
	x := make([]float64, n)

	var i, j int
	var s float64
	for i = 0; i < n; i++ {
		s = b[i]
		for j = 0; j < i; j++ {
			s -= r.At(j, i) * x[j]
		}
		x[i] = s / r.At(i, i)
	}

	return x
}
