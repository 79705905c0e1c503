// SPDX-License-Identifier: MIT

// Package sketch: the hashing family.
//
// hashCore realizes S x N maps of the form out = P * D: every input
// coordinate i is assigned one output bucket rowIdx[i] and one diagonal
// weight rowVal[i]. Application touches each input entry exactly once,
// which is what makes this family the sparse-friendly workhorse, and the
// map trivially decomposes over the governing axis, so every distributed
// strategy is available.
package sketch

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sketch/dmat"
	"github.com/katalvlaran/sketch/randstream"
)

// hashCore holds the bucket assignment and diagonal of a hashing transform.
// Both arrays have length N and are immutable after construction.
type hashCore struct {
	rowIdx []int
	rowVal []float64
}

// newHashBuckets draws the N bucket assignments — always the first draw of
// the hashing family's documented order.
func newHashBuckets(n, s int, ctx *randstream.Context) ([]int, error) {
	samples, err := ctx.ReserveSamples(n, randstream.UniformInt{N: s})
	if err != nil {
		return nil, err
	}
	idx := make([]int, n)

	var i int
	for i = 0; i < n; i++ {
		idx[i] = int(samples.At(i))
	}

	return idx, nil
}

// applyPartial scatters src's entries into their buckets:
// Columnwise dst[rowIdx[g], j] += rowVal[g] * src[i, j] with g = off + i;
// Rowwise mirrors over columns. Complexity: O(len(src)).
func (c hashCore) applyPartial(dst, src *mat.Dense, off int, o Orientation) error {
	srcR, srcC := src.Dims()

	var i, j, g int
	if o == Columnwise {
		for i = 0; i < srcR; i++ {
			g = off + i
			for j = 0; j < srcC; j++ {
				dst.Set(c.rowIdx[g], j, dst.At(c.rowIdx[g], j)+c.rowVal[g]*src.At(i, j))
			}
		}
	} else {
		for i = 0; i < srcR; i++ {
			for j = 0; j < srcC; j++ {
				g = off + j
				dst.Set(i, c.rowIdx[g], dst.At(i, c.rowIdx[g])+c.rowVal[g]*src.At(i, j))
			}
		}
	}

	return nil
}

// applySparse scatters the stored entries only. Complexity: O(nnz).
func (c hashCore) applySparse(dst *mat.Dense, src *dmat.CSR, o Orientation) error {
	if o == Columnwise {
		src.NonZeros(func(i, j int, v float64) {
			dst.Set(c.rowIdx[i], j, dst.At(c.rowIdx[i], j)+c.rowVal[i]*v)
		})
	} else {
		src.NonZeros(func(i, j int, v float64) {
			dst.Set(i, c.rowIdx[j], dst.At(i, c.rowIdx[j])+c.rowVal[j]*v)
		})
	}

	return nil
}

// partialOK: bucket scattering is indexed by global coordinate.
func (hashCore) partialOK() bool { return true }

// post: the hashing family is purely linear.
func (hashCore) post(*mat.Dense, Orientation) {}

// CWT is the Clarkson-Woodruff transform: one bucket per input coordinate
// with a +/-1 diagonal. Subspace embedding with a single pass over the
// input.
type CWT struct {
	baseTransform
	hashCore
}

// NewCWT draws a CWT of shape S x N from ctx.
// Draw order: N uniform-int bucket assignments in [0,S), then N Rademacher
// signs.
func NewCWT(n, s int, ctx *randstream.Context) (*CWT, error) {
	if n <= 0 || s <= 0 {
		return nil, ErrInvalidDimensions
	}
	if ctx == nil {
		return nil, ErrNilContext
	}
	idx, err := newHashBuckets(n, s, ctx)
	if err != nil {
		return nil, err
	}
	signs, err := ctx.ReserveSamples(n, randstream.Rademacher{})
	if err != nil {
		return nil, err
	}

	return &CWT{
		baseTransform: baseTransform{kind: KindCWT, n: n, s: s},
		hashCore:      hashCore{rowIdx: idx, rowVal: signs.Materialize()},
	}, nil
}

// Apply implements Transform.
func (t *CWT) Apply(A, out *dmat.Matrix, o Orientation) error {
	return apply(t, &t.baseTransform, A, out, o)
}

// ApplySparse implements Transform.
func (t *CWT) ApplySparse(A *dmat.CSR, out *mat.Dense, o Orientation) error {
	return applySparseLocal(t, &t.baseTransform, A, out, o)
}

// Params implements Transform.
func (t *CWT) Params() *ParamTree {
	return &ParamTree{Sketch: ParamNode{Type: KindCWT, N: t.n, S: t.s}}
}

// WZT is the Woodruff-Zhang transform: CWT with the +/-1 diagonal replaced
// by reciprocal-exponential entries, suited to l_p regression for
// 1 <= p <= 2.
type WZT struct {
	baseTransform
	hashCore
	p float64
}

// NewWZT draws a WZT of shape S x N with exponent p from ctx.
// The exponent must satisfy 1 <= p <= 2; violation fails with
// ErrParameterRange before any stream reservation, so a failed construction
// never perturbs the shared counter.
// Draw order: N uniform-int bucket assignments in [0,S), then N unit-rate
// exponential draws, then N Rademacher signs folded into the diagonal as
// sign * (1/e)^(1/p).
func NewWZT(n, s int, p float64, ctx *randstream.Context) (*WZT, error) {
	if n <= 0 || s <= 0 {
		return nil, ErrInvalidDimensions
	}
	if ctx == nil {
		return nil, ErrNilContext
	}
	if p < 1 || p > 2 {
		return nil, ErrParameterRange
	}

	idx, err := newHashBuckets(n, s, ctx)
	if err != nil {
		return nil, err
	}
	exps, err := ctx.ReserveSamples(n, randstream.Exponential{Rate: 1})
	if err != nil {
		return nil, err
	}
	signs, err := ctx.ReserveSamples(n, randstream.Rademacher{})
	if err != nil {
		return nil, err
	}

	vals := make([]float64, n)
	invP := 1.0 / p

	var i int
	for i = 0; i < n; i++ {
		vals[i] = signs.At(i) * math.Pow(1.0/exps.At(i), invP)
	}

	return &WZT{
		baseTransform: baseTransform{kind: KindWZT, n: n, s: s},
		hashCore:      hashCore{rowIdx: idx, rowVal: vals},
		p:             p,
	}, nil
}

// P returns the exponent the transform was drawn for.
func (t *WZT) P() float64 { return t.p }

// Apply implements Transform.
func (t *WZT) Apply(A, out *dmat.Matrix, o Orientation) error {
	return apply(t, &t.baseTransform, A, out, o)
}

// ApplySparse implements Transform.
func (t *WZT) ApplySparse(A *dmat.CSR, out *mat.Dense, o Orientation) error {
	return applySparseLocal(t, &t.baseTransform, A, out, o)
}

// Params implements Transform.
func (t *WZT) Params() *ParamTree {
	return &ParamTree{Sketch: ParamNode{Type: KindWZT, N: t.n, S: t.s, P: t.p}}
}
