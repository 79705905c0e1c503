// SPDX-License-Identifier: MIT

// Package sketch: the Transform contract and the shared layout-strategy
// machinery. Individual transforms only implement a kernel (full-block,
// partial-block and sparse application plus optional post-processing); the
// three strategy paths here — local apply, apply-then-gather,
// partial-then-reduce — are shared across all of them rather than
// duplicated per type.
package sketch

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sketch/dmat"
	"github.com/katalvlaran/sketch/grid"
)

// gatherRoot is the member that materializes a Local output of a
// distributed apply. Rank 0 by convention: it is where the sketch gets
// factored afterwards.
const gatherRoot = 0

// Transform applies a fixed randomized linear map to matrices.
// Implementations carry immutable parameters drawn once at construction.
type Transform interface {
	// Kind returns the type tag as persisted in the parameter tree.
	Kind() string

	// InputDim returns N, the governing input dimension.
	InputDim() int

	// OutputDim returns S, the sketch dimension.
	OutputDim() int

	// Apply computes out = map(A) along the given orientation. The output
	// is fully overwritten. See the package documentation for the
	// supported layout combinations and the error taxonomy.
	Apply(A, out *dmat.Matrix, o Orientation) error

	// ApplySparse computes out = map(A) for a local CSR input and a local
	// dense output.
	ApplySparse(A *dmat.CSR, out *mat.Dense, o Orientation) error

	// Params returns the serializable parameter tree for this transform.
	Params() *ParamTree
}

// kernel is the per-transform computational core consumed by the shared
// strategy paths. dst is always pre-zeroed by the caller.
type kernel interface {
	// applyPartial accumulates into dst the contribution of src, a block
	// of the input whose governing-axis range starts at global offset off.
	// A full local apply is applyPartial with off == 0 and a full-height
	// (resp. full-width) src.
	applyPartial(dst, src *mat.Dense, off int, o Orientation) error

	// applySparse accumulates into dst the contribution of a local CSR
	// input (always a full block).
	applySparse(dst *mat.Dense, src *dmat.CSR, o Orientation) error

	// partialOK reports whether the map decomposes over the governing
	// axis, enabling the partial-then-reduce strategy.
	partialOK() bool

	// post applies elementwise post-processing to a finished linear
	// output (RFT's cosine step); a no-op for purely linear transforms.
	post(dst *mat.Dense, o Orientation)
}

// baseTransform carries the identity shared by all transforms.
type baseTransform struct {
	kind string
	n, s int
}

// Kind returns the transform's type tag.
func (b *baseTransform) Kind() string { return b.kind }

// InputDim returns N.
func (b *baseTransform) InputDim() int { return b.n }

// OutputDim returns S.
func (b *baseTransform) OutputDim() int { return b.s }

// govDim returns the governing dimension of a matrix under o:
// height for Columnwise, width for Rowwise.
func govDim(rows, cols int, o Orientation) (gov, other int) {
	if o == Columnwise {
		return rows, cols
	}

	return cols, rows
}

// apply is the single entry point behind every transform's Apply method.
//
// Stage 1: validate orientation and the dimension contract on global shapes.
// Stage 2: select the strategy from (input layout, output layout,
// orientation); unsupported combinations fail before any work.
// Stage 3: run the strategy; local linear-algebra panics are re-signaled as
// OriginLinAlg backend errors, communicator failures as OriginComm, and any
// member-local failure is agreed upon before a collective proceeds.
func apply(k kernel, b *baseTransform, A, out *dmat.Matrix, o Orientation) (err error) {
	if A == nil || out == nil {
		return ErrNilMatrix
	}
	if o != Columnwise && o != Rowwise {
		return ErrUnsupportedOrientation
	}

	govIn, otherIn := govDim(A.Rows(), A.Cols(), o)
	govOut, otherOut := govDim(out.Rows(), out.Cols(), o)
	if govIn != b.n || govOut != b.s || otherIn != otherOut {
		return ErrDimension
	}

	// The linear-algebra back-end signals misuse by panicking; convert to
	// the tagged error contract at this boundary.
	defer func() {
		if r := recover(); r != nil {
			err = &BackendError{Origin: OriginLinAlg, Err: fmt.Errorf("%v", r)}
		}
	}()

	switch {
	case A.Layout() == dmat.Local && out.Layout() == dmat.Local,
		A.Layout() == dmat.Star && out.Layout() == dmat.Star:
		return applyLocal(k, A, out, o)

	case o == Columnwise && A.Layout() == dmat.ColDist && out.Layout() == dmat.ColDist,
		o == Rowwise && A.Layout() == dmat.RowDist && out.Layout() == dmat.RowDist:
		return applyDistSame(k, A, out, o)

	case o == Columnwise && A.Layout() == dmat.ColDist && out.Layout() == dmat.Local,
		o == Rowwise && A.Layout() == dmat.RowDist && out.Layout() == dmat.Local:
		return applyDistToLocal(k, b, A, out, o)

	case o == Columnwise && A.Layout() == dmat.RowDist && out.Layout() == dmat.Local,
		o == Rowwise && A.Layout() == dmat.ColDist && out.Layout() == dmat.Local:
		return applyDistReduce(k, b, A, out, o)

	default:
		return ErrUnsupportedDistribution
	}
}

// applyLocal is strategy 1: direct application on a full local block
// (identical on every Star replica).
func applyLocal(k kernel, A, out *dmat.Matrix, o Orientation) error {
	dst := out.LocalData()
	dst.Zero()
	if err := k.applyPartial(dst, A.LocalData(), 0, o); err != nil {
		return err
	}
	k.post(dst, o)

	return nil
}

// applyDistSame is strategy 1 on matching distributed blocks: the
// distributed dimension is the passive one, so each member's block is a
// full-governing-dimension slab and no communication is needed.
func applyDistSame(k kernel, A, out *dmat.Matrix, o Orientation) error {
	// The passive-axis partitioning of input and output must line up.
	if o == Columnwise && (A.LocalCols() != out.LocalCols() || A.ColOffset() != out.ColOffset()) {
		return ErrDimension
	}
	if o == Rowwise && (A.LocalRows() != out.LocalRows() || A.RowOffset() != out.RowOffset()) {
		return ErrDimension
	}

	return applyLocal(k, A, out, o)
}

// applyDistToLocal is strategy 2: per-block application into a distributed
// intermediate, then exactly one collective gather onto gatherRoot. Only
// the root's out block is written; other members leave theirs untouched.
func applyDistToLocal(k kernel, b *baseTransform, A, out *dmat.Matrix, o Orientation) error {
	comm := A.Comm()

	var tmp *dmat.Matrix
	var err error
	if o == Columnwise {
		tmp, err = dmat.NewColDist(b.s, A.Cols(), comm)
	} else {
		tmp, err = dmat.NewRowDist(A.Rows(), b.s, comm)
	}
	if err == nil {
		err = applyDistSame(k, A, tmp, o)
	}
	if err = agreeOn(comm, err); err != nil {
		return err
	}

	full, gerr := tmp.Gather(gatherRoot)
	if gerr != nil {
		return &BackendError{Origin: OriginComm, Err: gerr}
	}
	if comm.Rank() == gatherRoot {
		out.LocalData().Copy(full)
	}

	return nil
}

// applyDistReduce is strategy 3: each member applies the slice of the map
// covering its global governing-axis range, partial sketches are
// sum-reduced, and post-processing runs on the root after the reduction
// (the nonlinear step must see the complete linear output).
func applyDistReduce(k kernel, b *baseTransform, A, out *dmat.Matrix, o Orientation) error {
	if !k.partialOK() {
		return ErrUnsupportedDistribution
	}
	comm := A.Comm()

	var buf *mat.Dense
	var off int
	if o == Columnwise {
		buf = mat.NewDense(b.s, A.Cols(), nil)
		off = A.RowOffset()
	} else {
		buf = mat.NewDense(A.Rows(), b.s, nil)
		off = A.ColOffset()
	}
	err := k.applyPartial(buf, A.LocalData(), off, o)
	if err = agreeOn(comm, err); err != nil {
		return err
	}

	sum, rerr := comm.AllReduceSum(rawData(buf))
	if rerr != nil {
		return &BackendError{Origin: OriginComm, Err: rerr}
	}
	if comm.Rank() == gatherRoot {
		r, c := buf.Dims()
		dst := out.LocalData()
		dst.Copy(mat.NewDense(r, c, sum))
		k.post(dst, o)
	}

	return nil
}

// agreeOn converts a member-local failure into a failure observed by every
// member before any of them proceeds to a collective. The local error wins
// on the member that produced it; peers see ErrCollectiveAborted.
func agreeOn(comm grid.Communicator, local error) error {
	agreed, cerr := comm.AllAgree(local == nil)
	if cerr != nil {
		return &BackendError{Origin: OriginComm, Err: cerr}
	}
	if local != nil {
		return local
	}
	if !agreed {
		return ErrCollectiveAborted
	}

	return nil
}

// rawData flattens a Dense into a row-major slice aliasing its storage.
func rawData(d *mat.Dense) []float64 {
	return d.RawMatrix().Data
}

// applySparseLocal is the shared ApplySparse path: validate, zero, run the
// kernel, post-process.
func applySparseLocal(k kernel, b *baseTransform, A *dmat.CSR, out *mat.Dense, o Orientation) error {
	if A == nil || out == nil {
		return ErrNilMatrix
	}
	if o != Columnwise && o != Rowwise {
		return ErrUnsupportedOrientation
	}
	govIn, otherIn := govDim(A.Rows(), A.Cols(), o)
	outR, outC := out.Dims()
	govOut, otherOut := govDim(outR, outC, o)
	if govIn != b.n || govOut != b.s || otherIn != otherOut {
		return ErrDimension
	}

	out.Zero()
	if err := k.applySparse(out, A, o); err != nil {
		return err
	}
	k.post(out, o)

	return nil
}
