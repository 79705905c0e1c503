// SPDX-License-Identifier: MIT

// Package dmat: collective redistribution onto a single member.
package dmat

import "gonum.org/v1/gonum/mat"

// Gather consolidates the matrix on root: root receives the fully
// materialized global matrix, every other member receives nil. Collective
// for RowDist/ColDist/Star; trivial for Local.
//
// Stage 1: pack the local block into rank-ordered row (or column) slices.
// Stage 2: one GatherRows collective; block partitioning is contiguous in
// rank order, so concatenation is already the global order.
// Stage 3: root rebuilds the Dense; non-roots return nil.
//
// Complexity: O(rows*cols) moved through the communicator, exactly once.
func (m *Matrix) Gather(root int) (*mat.Dense, error) {
	switch m.layout {
	case Local:
		if root != 0 {
			return nil, ErrLayout
		}
		out := mat.NewDense(m.rows, m.cols, nil)
		out.Copy(m.local)

		return out, nil

	case Star:
		// Every member already holds a replica; only root materializes.
		if root < 0 || root >= m.comm.Size() {
			return nil, ErrLayout
		}
		if m.comm.Rank() != root {
			return nil, nil
		}
		out := mat.NewDense(m.rows, m.cols, nil)
		out.Copy(m.local)

		return out, nil

	case RowDist:
		packed := packRows(m.local)
		all, err := m.comm.GatherRows(packed, root)
		if err != nil {
			return nil, err
		}
		if all == nil {
			return nil, nil
		}

		return denseFromRows(m.rows, m.cols, all), nil

	case ColDist:
		// Columns travel as row slices; rank order keeps the global order.
		packed := packCols(m.local)
		all, err := m.comm.GatherRows(packed, root)
		if err != nil {
			return nil, err
		}
		if all == nil {
			return nil, nil
		}

		return denseFromCols(m.rows, m.cols, all), nil

	default:
		return nil, ErrLayout
	}
}

// packRows copies the block's rows into freestanding slices.
func packRows(d *mat.Dense) [][]float64 {
	r, c := d.Dims()
	out := make([][]float64, r)

	var i, j int
	for i = 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j = 0; j < c; j++ {
			out[i][j] = d.At(i, j)
		}
	}

	return out
}

// packCols copies the block's columns into freestanding slices.
func packCols(d *mat.Dense) [][]float64 {
	r, c := d.Dims()
	out := make([][]float64, c)

	var i, j int
	for j = 0; j < c; j++ {
		out[j] = make([]float64, r)
		for i = 0; i < r; i++ {
			out[j][i] = d.At(i, j)
		}
	}

	return out
}

// denseFromRows assembles a rows x cols Dense from row slices.
func denseFromRows(rows, cols int, data [][]float64) *mat.Dense {
	out := mat.NewDense(rows, cols, nil)

	var i, j int
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			out.Set(i, j, data[i][j])
		}
	}

	return out
}

// denseFromCols assembles a rows x cols Dense from column slices.
func denseFromCols(rows, cols int, data [][]float64) *mat.Dense {
	out := mat.NewDense(rows, cols, nil)

	var i, j int
	for j = 0; j < cols; j++ {
		for i = 0; i < rows; i++ {
			out.Set(i, j, data[j][i])
		}
	}

	return out
}
