// Package sketch implements randomized sketching transforms: linear maps
// that project a matrix to a much lower dimension while approximately
// preserving norms and distances, specialized per distribution layout of the
// input and output matrices.
//
// Overview:
//
//   - Five transform families are provided:
//     JLT  — dense Gaussian projection (classic Johnson-Lindenstrauss).
//     FJLT — Fast Johnson-Lindenstrauss: Rademacher diagonal, normalized
//     Walsh-Hadamard mixing, uniform coordinate sampling.
//     CWT  — Clarkson-Woodruff hashing: one bucket per input coordinate
//     with a +/-1 diagonal; the sparse-friendly workhorse.
//     WZT  — Woodruff-Zhang: CWT with reciprocal-exponential diagonal,
//     suited to l_p regression for 1 <= p <= 2.
//     RFT  — Random Features: Gaussian projection followed by an
//     elementwise cosine with random phase shifts (kernel features).
//   - Every transform draws its random parameters exactly once, in a fixed
//     documented order, from a randstream.Context. Parameters are immutable
//     after construction: two applies of one instance are identical, and a
//     transform can be reconstructed from its serialized parameter tree plus
//     the same seed (the bulk arrays are never serialized).
//
// Orientation:
//
//	Apply(A, out, Columnwise) treats the map as acting on A's rows
//	(height N -> S); Apply(A, out, Rowwise) acts on A's columns
//	(width N -> S). The governing input dimension must equal N and the
//	output must be S along the active axis; the passive dimensions must
//	match. The output is fully overwritten, never accumulated.
//
// Layout specializations:
//
//	Three strategy paths cover all supported (input, output) layout pairs:
//	 1. local apply — Local->Local and Star->Star; also each block of
//	    ColDist->ColDist (columnwise) and RowDist->RowDist (rowwise),
//	    which are embarrassingly parallel over the distributed dimension.
//	 2. apply-then-gather — ColDist->Local (columnwise) and
//	    RowDist->Local (rowwise): per-block application into a distributed
//	    intermediate, then exactly one collective gather; only rank 0 holds
//	    the materialized output.
//	 3. partial-then-reduce — RowDist->Local (columnwise) and
//	    ColDist->Local (rowwise): each member applies the slice of the map
//	    covering its global index range, then an elementwise sum-reduction
//	    combines the partial sketches. Requires a map that decomposes over
//	    the governing axis; FJLT does not and reports
//	    ErrUnsupportedDistribution.
//	Any other combination returns ErrUnsupportedDistribution before any
//	work is performed.
//
// Error handling (sentinel errors and tagged failures):
//
//   - ErrParameterRange: distribution-specific constraint violated at
//     construction (e.g. WZT exponent outside [1,2]).
//   - ErrDimension: governing dimension contract violated.
//   - ErrUnsupportedOrientation / ErrUnsupportedDistribution: requested
//     combination not implemented.
//   - ErrCollectiveAborted: a member of the grid failed before a collective;
//     all members observe this error instead of deadlocking.
//   - BackendError: a lower-level linear-algebra or communication failure,
//     re-signaled with the original message preserved and tagged by origin
//     so callers can tell a local numerical fault from a grid fault.
//
// Determinism: all members of a communicator constructing the same
// transform with the same seed and call sequence derive bit-identical
// parameters without communicating them. See package randstream.
package sketch
