// SPDX-License-Identifier: MIT

// Package sketch: the random Fourier transform.
//
// RFT approximates the Gaussian kernel feature map: a dense Gaussian
// projection followed by the elementwise cosine step
// sqrt(2/S) * cos(v / sigma + shift), with one phase shift per output
// coordinate. The linear stage is a plain dense projection and decomposes
// over the governing axis; the cosine step runs only once the complete
// linear output is assembled, which is why it lives in post rather than in
// the kernel.
package sketch

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sketch/dmat"
	"github.com/katalvlaran/sketch/randstream"
)

// RFT is a random-feature sketch for the Gaussian kernel with bandwidth
// sigma. Immutable after construction.
type RFT struct {
	baseTransform
	denseCore
	shifts   []float64 // per-output-coordinate phases, length S, in [0, 2*pi)
	scale    float64   // sqrt(2/S)
	valScale float64   // 1/sigma
	sigma    float64
}

// NewRFT draws an RFT of shape S x N with kernel bandwidth sigma from ctx.
// The bandwidth must be positive; violation fails with ErrParameterRange
// before any stream reservation.
// Draw order: S*N Gaussian(0,1) projection entries, row-major, then S
// uniform phase shifts in [0, 2*pi).
func NewRFT(n, s int, sigma float64, ctx *randstream.Context) (*RFT, error) {
	if n <= 0 || s <= 0 {
		return nil, ErrInvalidDimensions
	}
	if ctx == nil {
		return nil, ErrNilContext
	}
	if sigma <= 0 {
		return nil, ErrParameterRange
	}

	core, err := newDenseCore(n, s, randstream.Gaussian{Mean: 0, Sigma: 1}, 1, ctx)
	if err != nil {
		return nil, err
	}
	phases, err := ctx.ReserveSamples(s, randstream.Uniform{Lo: 0, Hi: 2 * math.Pi})
	if err != nil {
		return nil, err
	}

	return &RFT{
		baseTransform: baseTransform{kind: KindRFT, n: n, s: s},
		denseCore:     core,
		shifts:        phases.Materialize(),
		scale:         math.Sqrt(2 / float64(s)),
		valScale:      1 / sigma,
		sigma:         sigma,
	}, nil
}

// Sigma returns the kernel bandwidth the transform was drawn for.
func (t *RFT) Sigma() float64 { return t.sigma }

// post applies the cosine feature step. The phase is indexed along the
// sketch axis: the row index Columnwise, the column index Rowwise.
func (t *RFT) post(dst *mat.Dense, o Orientation) {
	r, c := dst.Dims()

	var i, j int
	if o == Columnwise {
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				dst.Set(i, j, t.scale*math.Cos(dst.At(i, j)*t.valScale+t.shifts[i]))
			}
		}
	} else {
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				dst.Set(i, j, t.scale*math.Cos(dst.At(i, j)*t.valScale+t.shifts[j]))
			}
		}
	}
}

// Apply implements Transform.
func (t *RFT) Apply(A, out *dmat.Matrix, o Orientation) error {
	return apply(t, &t.baseTransform, A, out, o)
}

// ApplySparse implements Transform.
func (t *RFT) ApplySparse(A *dmat.CSR, out *mat.Dense, o Orientation) error {
	return applySparseLocal(t, &t.baseTransform, A, out, o)
}

// Params implements Transform.
func (t *RFT) Params() *ParamTree {
	return &ParamTree{Sketch: ParamNode{Type: KindRFT, N: t.n, S: t.s, Sigma: t.sigma}}
}
