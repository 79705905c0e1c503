// Package sketch is a randomized numerical linear algebra toolkit — fast
// dimensionality reduction and sketching-accelerated least squares over
// local and grid-partitioned matrices.
//
// 🚀 What is sketch?
//
//	A deterministic, reproducible sketching library that brings together:
//		• Counter-based random streams: one seed, bit-identical draws on
//		  every process, no communication
//		• Distributed matrices: Local, RowDist, ColDist and Star layouts
//		  over a pluggable communicator
//		• Sketching transforms: JLT, FJLT, CWT, WZT and RFT, all drawn
//		  from one stream in a documented order
//		• Regression solvers: one-shot sketch-and-solve and Blendenpik-style
//		  sketch-preconditioned LSQR
//
// ✨ Why choose sketch?
//
//   - Reproducible by construction – a transform is a pure function of
//     (seed, stream position); persist five scalars, rebuild the exact map
//   - Grid-safe failure handling – member-local errors become collective
//     errors before anyone blocks in a reduction
//   - Pure Go – gonum underneath, no cgo, no MPI runtime required
//
// Everything is organized under five subpackages:
//
//	randstream/ — splittable counter-based random streams & distributions
//	grid/       — the Communicator contract, in-process process groups
//	dmat/       — distributed dense matrices + local CSR
//	sketch/     — the transform families and the parameter tree
//	regress/    — least-squares problems and the two sketching solvers
//
// Quick sketch of a sketch:
//
//	    A (1000000 x 50)          S*A (200 x 50)
//	    ┌──────────┐              ┌──┐
//	    │          │   ──S──▶     │  │
//	    │          │              └──┘
//	    └──────────┘
//
//	the tall matrix collapses to a short one that preserves its geometry.
//
// Dive into the per-package documentation for the layout/orientation
// matrix, the draw-order contracts and the solver accuracy guarantees.
//
//	go get github.com/katalvlaran/sketch
package sketch
