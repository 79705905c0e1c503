// SPDX-License-Identifier: MIT

// Package dmat: the Matrix type, layouts and constructors.
package dmat

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sketch/grid"
)

// ErrInvalidDimensions is returned for non-positive global dimensions.
var ErrInvalidDimensions = errors.New("dmat: dimensions must be > 0")

// ErrIndexOutOfBounds is returned for local indices outside the local block.
var ErrIndexOutOfBounds = errors.New("dmat: index out of bounds")

// ErrNilComm is returned by distributed constructors given a nil communicator.
var ErrNilComm = errors.New("dmat: nil communicator")

// ErrLayout is returned when an operation is not defined for the layout.
var ErrLayout = errors.New("dmat: operation not defined for this layout")

// Layout tags how a matrix is partitioned across the communicator.
type Layout int

const (
	// Local: a single member owns the full matrix (communicator of size 1).
	Local Layout = iota
	// RowDist: rows are block-partitioned across members in rank order.
	RowDist
	// ColDist: columns are block-partitioned across members in rank order.
	ColDist
	// Star: every member holds a full replica.
	Star
)

// String returns the layout tag name.
func (l Layout) String() string {
	switch l {
	case Local:
		return "Local"
	case RowDist:
		return "RowDist"
	case ColDist:
		return "ColDist"
	case Star:
		return "Star"
	default:
		return "Unknown"
	}
}

// Matrix is a dense matrix with an explicit distribution layout. The local
// block is always a gonum Dense; for Local and Star it spans the full
// global shape.
type Matrix struct {
	rows, cols int
	layout     Layout
	comm       grid.Communicator
	local      *mat.Dense
	rowOff     int
	colOff     int
}

// blockRange computes the contiguous block [off, off+n) owned by rank when
// total items are partitioned over size members, remainder to low ranks.
// Complexity: O(1).
func blockRange(total, size, rank int) (off, n int) {
	base := total / size
	rem := total % size
	n = base
	if rank < rem {
		n++
	}
	off = rank*base + min(rank, rem)

	return off, n
}

// NewLocal allocates a zeroed rows x cols matrix owned by a single member.
func NewLocal(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Matrix{
		rows:   rows,
		cols:   cols,
		layout: Local,
		comm:   grid.Single(),
		local:  mat.NewDense(rows, cols, nil),
	}, nil
}

// NewRowDist allocates a zeroed rows x cols matrix with rows
// block-partitioned across comm.
func NewRowDist(rows, cols int, comm grid.Communicator) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if comm == nil {
		return nil, ErrNilComm
	}
	if rows < comm.Size() {
		// Every member must own at least one row; emptier grids make no
		// sense for the sketch sizes this library targets.
		return nil, ErrInvalidDimensions
	}
	off, n := blockRange(rows, comm.Size(), comm.Rank())

	return &Matrix{
		rows:   rows,
		cols:   cols,
		layout: RowDist,
		comm:   comm,
		local:  mat.NewDense(n, cols, nil),
		rowOff: off,
	}, nil
}

// NewColDist allocates a zeroed rows x cols matrix with columns
// block-partitioned across comm.
func NewColDist(rows, cols int, comm grid.Communicator) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if comm == nil {
		return nil, ErrNilComm
	}
	if cols < comm.Size() {
		return nil, ErrInvalidDimensions
	}
	off, n := blockRange(cols, comm.Size(), comm.Rank())

	return &Matrix{
		rows:   rows,
		cols:   cols,
		layout: ColDist,
		comm:   comm,
		local:  mat.NewDense(rows, n, nil),
		colOff: off,
	}, nil
}

// NewStar allocates a zeroed rows x cols matrix fully replicated on every
// member of comm.
func NewStar(rows, cols int, comm grid.Communicator) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if comm == nil {
		return nil, ErrNilComm
	}

	return &Matrix{
		rows:   rows,
		cols:   cols,
		layout: Star,
		comm:   comm,
		local:  mat.NewDense(rows, cols, nil),
	}, nil
}

// Rows returns the global row count. Complexity: O(1).
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the global column count. Complexity: O(1).
func (m *Matrix) Cols() int { return m.cols }

// Layout returns the distribution tag. Complexity: O(1).
func (m *Matrix) Layout() Layout { return m.layout }

// Comm returns the communicator the matrix is partitioned over.
func (m *Matrix) Comm() grid.Communicator { return m.comm }

// LocalRows returns the local block height.
func (m *Matrix) LocalRows() int { r, _ := m.local.Dims(); return r }

// LocalCols returns the local block width.
func (m *Matrix) LocalCols() int { _, c := m.local.Dims(); return c }

// RowOffset returns the global row index of local row 0.
func (m *Matrix) RowOffset() int { return m.rowOff }

// ColOffset returns the global column index of local column 0.
func (m *Matrix) ColOffset() int { return m.colOff }

// LocalData exposes the local block for kernels. The caller must not
// resize it; elementwise mutation is the intended use.
func (m *Matrix) LocalData() *mat.Dense { return m.local }

// At retrieves the local block element (i, j).
// Returns ErrIndexOutOfBounds on invalid local indices. Complexity: O(1).
func (m *Matrix) At(i, j int) (float64, error) {
	if i < 0 || i >= m.LocalRows() || j < 0 || j >= m.LocalCols() {
		return 0, ErrIndexOutOfBounds
	}

	return m.local.At(i, j), nil
}

// Set assigns the local block element (i, j).
// Returns ErrIndexOutOfBounds on invalid local indices. Complexity: O(1).
func (m *Matrix) Set(i, j int, v float64) error {
	if i < 0 || i >= m.LocalRows() || j < 0 || j >= m.LocalCols() {
		return ErrIndexOutOfBounds
	}
	m.local.Set(i, j, v)

	return nil
}
