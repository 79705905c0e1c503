// Package dmat: compressed-sparse-row local matrix.
//
// CSR is the local sparse input format accepted by the sketching layer.
// It is read-only after construction; kernels consume it through NonZeros,
// which visits entries in row-major order.
package dmat

import "gonum.org/v1/gonum/mat"

// CSR is a sparse matrix in compressed-sparse-row form.
type CSR struct {
	values   []float64
	colIndex []int
	rowPtr   []int
	rows     int
	cols     int
}

// FromDense builds a CSR from a dense matrix, dropping exact zeros.
// Complexity: O(rows*cols).
func FromDense(d *mat.Dense) *CSR {
	r, c := d.Dims()
	csr := &CSR{rows: r, cols: c, rowPtr: make([]int, 1, r+1)}

	var i, j int
	var v float64
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			v = d.At(i, j)
			if v != 0 {
				csr.values = append(csr.values, v)
				csr.colIndex = append(csr.colIndex, j)
			}
		}
		csr.rowPtr = append(csr.rowPtr, len(csr.values))
	}

	return csr
}

// Rows returns the row count. Complexity: O(1).
func (c *CSR) Rows() int { return c.rows }

// Cols returns the column count. Complexity: O(1).
func (c *CSR) Cols() int { return c.cols }

// NNZ returns the number of stored entries. Complexity: O(1).
func (c *CSR) NNZ() int { return len(c.values) }

// NonZeros visits every stored entry in row-major order.
// Complexity: O(nnz).
func (c *CSR) NonZeros(fn func(i, j int, v float64)) {
	var i, k int
	for i = 0; i < c.rows; i++ {
		for k = c.rowPtr[i]; k < c.rowPtr[i+1]; k++ {
			fn(i, c.colIndex[k], c.values[k])
		}
	}
}

// MulDenseTo computes dst = c * b for a dense b.
// Returns ErrInvalidDimensions when shapes do not line up.
// Complexity: O(nnz * b.cols).
func (c *CSR) MulDenseTo(dst, b *mat.Dense) error {
	br, bc := b.Dims()
	dr, dc := dst.Dims()
	if br != c.cols || dr != c.rows || dc != bc {
		return ErrInvalidDimensions
	}
	dst.Zero()
	c.NonZeros(func(i, j int, v float64) {
		for k := 0; k < bc; k++ {
			dst.Set(i, k, dst.At(i, k)+v*b.At(j, k))
		}
	})

	return nil
}
