// Package dmat provides the matrix model consumed by the sketching layer:
// dense matrices that are either local to one member or block-partitioned
// across a process grid, plus a compressed-sparse-row local format.
//
// Overview:
//
//   - A Matrix pairs global dimensions with a distribution Layout and a
//     local dense block (gonum mat.Dense). The four layouts are:
//     Local (one member owns everything), RowDist (rows block-partitioned
//     in rank order), ColDist (columns block-partitioned in rank order) and
//     Star (every member holds a full replica).
//   - Block partitioning is contiguous with the remainder spread over the
//     low ranks: for 10 rows over 3 members the local heights are 4, 3, 3.
//   - Gather is the one collective redistribution the sketching layer needs:
//     it consolidates a distributed matrix onto a single member (the root),
//     which is where a small sketch gets factored.
//
// Local coordinates:
//
//	At and Set address the local block, not the global matrix; RowOffset and
//	ColOffset translate between the two. This mirrors how every kernel in
//	the sketching layer iterates: always over the local block, with global
//	indices recovered only where a transform parameter is indexed.
//
// Error handling (sentinel errors):
//
//   - ErrInvalidDimensions: non-positive global dimensions.
//   - ErrIndexOutOfBounds: local index outside the local block.
//   - ErrNilComm: distributed constructor called with a nil communicator.
//   - ErrLayout: operation not defined for the matrix's layout.
//
// Complexity: accessors are O(1); Gather moves O(rows*cols) values through
// the communicator.
package dmat
