// SPDX-License-Identifier: MIT

// Package sketch: the dense-projection family.
//
// denseCore holds a fully materialized S x N projection and implements the
// kernel contract shared by JLT (Gaussian entries scaled by 1/sqrt(S)) and
// RFT (unit Gaussian entries with a cosine post-step, see rft.go). The
// projection decomposes over the governing axis by column slicing, so the
// partial-then-reduce strategy is available.
package sketch

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sketch/dmat"
	"github.com/katalvlaran/sketch/randstream"
)

// denseCore is the shared dense-projection kernel: omega is S x N,
// immutable after construction.
type denseCore struct {
	omega *mat.Dense
}

// newDenseCore draws S*N samples in row-major order — the documented draw
// order for the dense family — and scales each entry by entryScale once, at
// construction, so applies never recompute it.
func newDenseCore(n, s int, d randstream.Distribution, entryScale float64, ctx *randstream.Context) (denseCore, error) {
	samples, err := ctx.ReserveSamples(s*n, d)
	if err != nil {
		return denseCore{}, err
	}
	data := make([]float64, s*n)

	var i int
	for i = 0; i < s*n; i++ {
		data[i] = entryScale * samples.At(i)
	}

	return denseCore{omega: mat.NewDense(s, n, data)}, nil
}

// applyPartial accumulates dst += omega[:, off:off+k] * src (Columnwise)
// or dst += src * omega[:, off:off+k]^T (Rowwise), where k is src's
// governing extent. Complexity: O(S * k * passive).
func (c denseCore) applyPartial(dst, src *mat.Dense, off int, o Orientation) error {
	s, _ := c.omega.Dims()
	srcR, srcC := src.Dims()

	var tmp mat.Dense
	if o == Columnwise {
		view := c.omega.Slice(0, s, off, off+srcR)
		tmp.Mul(view, src)
	} else {
		view := c.omega.Slice(0, s, off, off+srcC)
		tmp.Mul(src, view.T())
	}
	dst.Add(dst, &tmp)

	return nil
}

// applySparse accumulates the projection of a CSR block, visiting each
// stored entry once. Complexity: O(nnz * S).
func (c denseCore) applySparse(dst *mat.Dense, src *dmat.CSR, o Orientation) error {
	s, _ := c.omega.Dims()

	if o == Columnwise {
		src.NonZeros(func(i, j int, v float64) {
			for k := 0; k < s; k++ {
				dst.Set(k, j, dst.At(k, j)+c.omega.At(k, i)*v)
			}
		})
	} else {
		src.NonZeros(func(r, i int, v float64) {
			for k := 0; k < s; k++ {
				dst.Set(r, k, dst.At(r, k)+v*c.omega.At(k, i))
			}
		})
	}

	return nil
}

// partialOK: the projection slices cleanly over the governing axis.
func (denseCore) partialOK() bool { return true }

// post: the plain dense family is purely linear.
func (denseCore) post(*mat.Dense, Orientation) {}

// JLT is the classic dense Gaussian sketching transform: entries are
// N(0, 1/S) so the map preserves squared norms in expectation.
type JLT struct {
	baseTransform
	denseCore
}

// NewJLT draws a JLT of shape S x N from ctx.
// Draw order: S*N Gaussian(0,1) samples, row-major.
func NewJLT(n, s int, ctx *randstream.Context) (*JLT, error) {
	if n <= 0 || s <= 0 {
		return nil, ErrInvalidDimensions
	}
	if ctx == nil {
		return nil, ErrNilContext
	}
	core, err := newDenseCore(n, s, randstream.Gaussian{Mean: 0, Sigma: 1}, 1.0/math.Sqrt(float64(s)), ctx)
	if err != nil {
		return nil, err
	}

	return &JLT{
		baseTransform: baseTransform{kind: KindJLT, n: n, s: s},
		denseCore:     core,
	}, nil
}

// Apply implements Transform.
func (t *JLT) Apply(A, out *dmat.Matrix, o Orientation) error {
	return apply(t, &t.baseTransform, A, out, o)
}

// ApplySparse implements Transform.
func (t *JLT) ApplySparse(A *dmat.CSR, out *mat.Dense, o Orientation) error {
	return applySparseLocal(t, &t.baseTransform, A, out, o)
}

// Params implements Transform.
func (t *JLT) Params() *ParamTree {
	return &ParamTree{Sketch: ParamNode{Type: KindJLT, N: t.n, S: t.s}}
}
