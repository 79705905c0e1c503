// SPDX-License-Identifier: MIT

// Package sketch: the fast Johnson-Lindenstrauss transform.
//
// FJLT is the subsampled randomized Hadamard map S_r * H * D: a +/-1
// diagonal D flattens the input's coordinates, a normalized Walsh-Hadamard
// transform H mixes them, and S_r keeps S uniformly sampled rows. The
// Hadamard step couples every coordinate of the governing axis, so the map
// does not decompose into per-block partials; partial-then-reduce is
// rejected with ErrUnsupportedDistribution.
package sketch

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sketch/dmat"
	"github.com/katalvlaran/sketch/randstream"
)

// FJLT holds the drawn diagonal and row sample of a subsampled randomized
// Hadamard transform. Immutable after construction.
type FJLT struct {
	baseTransform
	d     []float64 // +/-1 diagonal, length N
	idx   []int     // sampled Hadamard rows, length S, in [0, npad)
	npad  int       // next power of two >= N
	scale float64   // sqrt(npad/S) / sqrt(npad), folded into sampling
}

// NewFJLT draws an FJLT of shape S x N from ctx.
// Draw order: N Rademacher diagonal signs, then S uniform-int row indices
// in [0, Npad) where Npad is the next power of two >= N.
func NewFJLT(n, s int, ctx *randstream.Context) (*FJLT, error) {
	if n <= 0 || s <= 0 {
		return nil, ErrInvalidDimensions
	}
	if ctx == nil {
		return nil, ErrNilContext
	}

	npad := 1
	for npad < n {
		npad <<= 1
	}

	signs, err := ctx.ReserveSamples(n, randstream.Rademacher{})
	if err != nil {
		return nil, err
	}
	rows, err := ctx.ReserveSamples(s, randstream.UniformInt{N: npad})
	if err != nil {
		return nil, err
	}

	idx := make([]int, s)

	var i int
	for i = 0; i < s; i++ {
		idx[i] = int(rows.At(i))
	}

	return &FJLT{
		baseTransform: baseTransform{kind: KindFJLT, n: n, s: s},
		d:             signs.Materialize(),
		idx:           idx,
		npad:          npad,
		scale:         math.Sqrt(float64(npad)/float64(s)) / math.Sqrt(float64(npad)),
	}, nil
}

// fwht runs the unnormalized in-place Walsh-Hadamard butterfly over a
// power-of-two-length vector. Complexity: O(len * log(len)).
func fwht(v []float64) {
	var h, i, j int
	var a, b float64
	for h = 1; h < len(v); h <<= 1 {
		for i = 0; i < len(v); i += h << 1 {
			for j = i; j < i+h; j++ {
				a, b = v[j], v[j+h]
				v[j], v[j+h] = a+b, a-b
			}
		}
	}
}

// mixColumn loads one governing-axis fiber into the padded work vector with
// the diagonal applied, mixes it, and accumulates the sampled entries.
func (t *FJLT) mixColumn(work []float64, load func(i int) float64, store func(k int, v float64)) {
	var i int
	for i = 0; i < t.n; i++ {
		work[i] = t.d[i] * load(i)
	}
	for i = t.n; i < t.npad; i++ {
		work[i] = 0
	}
	fwht(work)
	for i = 0; i < t.s; i++ {
		store(i, t.scale*work[t.idx[i]])
	}
}

// applyPartial accumulates the full map; the Hadamard mixing needs the
// complete governing extent, so off is always 0 here.
// Complexity: O(passive * Npad * log(Npad)).
func (t *FJLT) applyPartial(dst, src *mat.Dense, off int, o Orientation) error {
	srcR, srcC := src.Dims()
	work := make([]float64, t.npad)

	var j int
	if o == Columnwise {
		for j = 0; j < srcC; j++ {
			c := j
			t.mixColumn(work,
				func(i int) float64 { return src.At(i, c) },
				func(k int, v float64) { dst.Set(k, c, dst.At(k, c)+v) })
		}
	} else {
		for j = 0; j < srcR; j++ {
			r := j
			t.mixColumn(work,
				func(i int) float64 { return src.At(r, i) },
				func(k int, v float64) { dst.Set(r, k, dst.At(r, k)+v) })
		}
	}

	return nil
}

// applySparse scatters the CSR input into a padded dense work block with
// the diagonal applied, then mixes and samples fiber by fiber.
func (t *FJLT) applySparse(dst *mat.Dense, src *dmat.CSR, o Orientation) error {
	var passive int
	if o == Columnwise {
		passive = src.Cols()
	} else {
		passive = src.Rows()
	}

	// One padded column per passive fiber; sparse inputs pay the dense
	// mixing cost regardless, that is inherent to the Hadamard step.
	scatter := mat.NewDense(t.npad, passive, nil)
	if o == Columnwise {
		src.NonZeros(func(i, j int, v float64) {
			scatter.Set(i, j, t.d[i]*v)
		})
	} else {
		src.NonZeros(func(i, j int, v float64) {
			scatter.Set(j, i, t.d[j]*v)
		})
	}

	work := make([]float64, t.npad)

	var p, i int
	for p = 0; p < passive; p++ {
		for i = 0; i < t.npad; i++ {
			work[i] = scatter.At(i, p)
		}
		fwht(work)
		for i = 0; i < t.s; i++ {
			if o == Columnwise {
				dst.Set(i, p, dst.At(i, p)+t.scale*work[t.idx[i]])
			} else {
				dst.Set(p, i, dst.At(p, i)+t.scale*work[t.idx[i]])
			}
		}
	}

	return nil
}

// partialOK: the Hadamard step mixes the entire governing axis.
func (*FJLT) partialOK() bool { return false }

// post: FJLT is purely linear.
func (*FJLT) post(*mat.Dense, Orientation) {}

// Apply implements Transform.
func (t *FJLT) Apply(A, out *dmat.Matrix, o Orientation) error {
	return apply(t, &t.baseTransform, A, out, o)
}

// ApplySparse implements Transform.
func (t *FJLT) ApplySparse(A *dmat.CSR, out *mat.Dense, o Orientation) error {
	return applySparseLocal(t, &t.baseTransform, A, out, o)
}

// Params implements Transform.
func (t *FJLT) Params() *ParamTree {
	return &ParamTree{Sketch: ParamNode{Type: KindFJLT, N: t.n, S: t.s}}
}
