// SPDX-License-Identifier: MIT

// Package regress solves overdetermined least-squares problems with
// randomized sketching, over local or grid-partitioned design matrices.
//
// # Overview
//
// A Problem fixes the design matrix A (m x n, m >= n) together with its
// model, loss and regularization tags; the tags currently admit one value
// each (linear model, l2 loss, no regularization), which pins the problem
// family the solvers are written for. Two solvers are provided:
//
//   - SketchedSolver (sketch-and-solve): compress A and the right-hand
//     side to r rows with one sketching transform, then solve the small
//     r x n system directly by QR. One pass, coarse accuracy — the
//     residual lands within a modest constant factor of the optimum.
//   - AcceleratedSolver (sketch-to-precondition): sketch A to c*n rows,
//     QR-factor the sketch and use its R factor as a right preconditioner
//     for LSQR on the full problem. Accuracy to near machine precision at
//     the cost of a few tens of iterations.
//
// Both solvers draw their transforms from a randstream.Context inside
// Solve, so a failed call that rejects its arguments leaves the stream
// counter untouched and every grid member stays synchronized.
//
// # Distributed operation
//
// The design matrix may be Local, Star or RowDist. The sketched path
// compresses any of these onto rank 0 and broadcasts the solution; the
// accelerated path runs LSQR as an SPMD iteration over row blocks, so
// every member finishes holding the full solution. Column-distributed
// design matrices are not supported by the accelerated solver.
//
// The sketched path assumes the compressed r x n system fits in one
// member's memory; this is the caller's responsibility and is not checked.
//
// # Errors
//
//   - ErrUnsupportedOperation: Solve called with the Adjoint orientation.
//   - ErrDidNotConverge: LSQR hit its iteration cap before the tolerance.
//   - ErrDimension, ErrNilMatrix, ErrNilContext, ErrInvalidDimensions:
//     argument validation, before any sketching work.
//
// # Complexity
//
// Sketch-and-solve: one transform application plus O(r*n^2) for the QR of
// the compressed system. Accelerated: one transform application, one
// O(c*n^3) QR, then O(nnz(A)) per LSQR iteration.
package regress
