// Package sketch_test: distributed application over an in-process grid.
// Each test runs one goroutine per member; every member rebuilds the same
// transform from its own same-seed context and the collective result is
// compared against a single-process reference.
package sketch_test

import (
	"sync"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sketch/dmat"
	"github.com/katalvlaran/sketch/grid"
	"github.com/katalvlaran/sketch/randstream"
	"github.com/katalvlaran/sketch/sketch"
)

const gridMembers = 3

// buildTransform dispatches on the kind tag so grid tests can iterate kinds.
func buildTransform(kind string, n, s int, ctx *randstream.Context) (sketch.Transform, error) {
	switch kind {
	case sketch.KindJLT:
		return sketch.NewJLT(n, s, ctx)
	case sketch.KindFJLT:
		return sketch.NewFJLT(n, s, ctx)
	case sketch.KindCWT:
		return sketch.NewCWT(n, s, ctx)
	case sketch.KindWZT:
		return sketch.NewWZT(n, s, 1.5, ctx)
	case sketch.KindRFT:
		return sketch.NewRFT(n, s, 1.0, ctx)
	default:
		return nil, sketch.ErrUnknownKind
	}
}

// fillDistributed writes the global fill into a distributed matrix's local
// block using its offsets.
func fillDistributed(t *testing.T, m *dmat.Matrix) {
	t.Helper()
	for i := 0; i < m.LocalRows(); i++ {
		for j := 0; j < m.LocalCols(); j++ {
			if err := m.Set(i, j, entry(m.RowOffset()+i, m.ColOffset()+j)); err != nil {
				t.Errorf("Set(%d,%d): %v", i, j, err)

				return
			}
		}
	}
}

// localReference computes the single-process sketch of the same global data.
func localReference(t *testing.T, kind string, n, s, c int) *mat.Dense {
	t.Helper()
	tr, err := buildTransform(kind, n, s, solo(t))
	if err != nil {
		t.Fatal(err)
	}
	A := localMatrix(t, n, c)
	out, err := dmat.NewLocal(s, c)
	if err != nil {
		t.Fatal(err)
	}
	if err = tr.Apply(A, out, sketch.Columnwise); err != nil {
		t.Fatal(err)
	}

	return out.LocalData()
}

// runMembers runs fn on one goroutine per member and collects per-rank errors.
func runMembers(t *testing.T, g *grid.Group, fn func(rank int, comm grid.Communicator) error) []error {
	t.Helper()
	errs := make([]error, gridMembers)
	var wg sync.WaitGroup
	wg.Add(gridMembers)
	for r := 0; r < gridMembers; r++ {
		comm, err := g.Member(r)
		if err != nil {
			t.Fatal(err)
		}
		go func(rank int, c grid.Communicator) {
			defer wg.Done()
			errs[rank] = fn(rank, c)
		}(r, comm)
	}
	wg.Wait()

	return errs
}

// ------------------------------------------------------------------------
// 1. Apply-then-gather: a column-distributed input sketched onto a Local
//    output must equal the single-process sketch, for every family.
// ------------------------------------------------------------------------

func TestApply_ColDistToLocal(t *testing.T) {
	const n, s, c = 8, 4, 6

	for _, kind := range []string{sketch.KindJLT, sketch.KindFJLT, sketch.KindCWT, sketch.KindWZT, sketch.KindRFT} {
		t.Run(kind, func(t *testing.T) {
			g, err := grid.NewGroup(gridMembers)
			if err != nil {
				t.Fatal(err)
			}

			rootOut := mat.NewDense(s, c, nil)
			errs := runMembers(t, g, func(rank int, comm grid.Communicator) error {
				ctx, errN := randstream.New(testSeed, comm)
				if errN != nil {
					return errN
				}
				tr, errT := buildTransform(kind, n, s, ctx)
				if errT != nil {
					return errT
				}
				A, errA := dmat.NewColDist(n, c, comm)
				if errA != nil {
					return errA
				}
				fillDistributed(t, A)
				out, errO := dmat.NewLocal(s, c)
				if errO != nil {
					return errO
				}
				if errAp := tr.Apply(A, out, sketch.Columnwise); errAp != nil {
					return errAp
				}
				if rank == 0 {
					rootOut.Copy(out.LocalData())
				}

				return nil
			})
			for r, e := range errs {
				if e != nil {
					t.Fatalf("member %d: %v", r, e)
				}
			}

			want := localReference(t, kind, n, s, c)
			if !mat.EqualApprox(want, rootOut, 1e-12) {
				t.Fatalf("distributed %s sketch diverged from the local reference", kind)
			}
		})
	}
}

// ------------------------------------------------------------------------
// 2. Partial-then-reduce: a row-distributed input sketched columnwise onto
//    a Local output. The Hadamard family cannot decompose and must refuse.
// ------------------------------------------------------------------------

func TestApply_RowDistReduce(t *testing.T) {
	const n, s, c = 8, 4, 6

	for _, kind := range []string{sketch.KindJLT, sketch.KindCWT, sketch.KindWZT, sketch.KindRFT} {
		t.Run(kind, func(t *testing.T) {
			g, err := grid.NewGroup(gridMembers)
			if err != nil {
				t.Fatal(err)
			}

			rootOut := mat.NewDense(s, c, nil)
			errs := runMembers(t, g, func(rank int, comm grid.Communicator) error {
				ctx, errN := randstream.New(testSeed, comm)
				if errN != nil {
					return errN
				}
				tr, errT := buildTransform(kind, n, s, ctx)
				if errT != nil {
					return errT
				}
				A, errA := dmat.NewRowDist(n, c, comm)
				if errA != nil {
					return errA
				}
				fillDistributed(t, A)
				out, errO := dmat.NewLocal(s, c)
				if errO != nil {
					return errO
				}
				if errAp := tr.Apply(A, out, sketch.Columnwise); errAp != nil {
					return errAp
				}
				if rank == 0 {
					rootOut.Copy(out.LocalData())
				}

				return nil
			})
			for r, e := range errs {
				if e != nil {
					t.Fatalf("member %d: %v", r, e)
				}
			}

			// The reduction reassociates the sum, so compare with a tolerance
			// instead of bit equality.
			want := localReference(t, kind, n, s, c)
			if !mat.EqualApprox(want, rootOut, 1e-10) {
				t.Fatalf("reduced %s sketch diverged from the local reference", kind)
			}
		})
	}
}

func TestApply_FJLTRefusesReduce(t *testing.T) {
	const n, s, c = 8, 4, 6
	g, err := grid.NewGroup(gridMembers)
	if err != nil {
		t.Fatal(err)
	}

	errs := runMembers(t, g, func(rank int, comm grid.Communicator) error {
		ctx, errN := randstream.New(testSeed, comm)
		if errN != nil {
			return errN
		}
		tr, errT := sketch.NewFJLT(n, s, ctx)
		if errT != nil {
			return errT
		}
		A, errA := dmat.NewRowDist(n, c, comm)
		if errA != nil {
			return errA
		}
		out, errO := dmat.NewLocal(s, c)
		if errO != nil {
			return errO
		}

		return tr.Apply(A, out, sketch.Columnwise)
	})

	// Refusal happens before any collective, so every member sees the same
	// error and nobody is left blocked.
	for r, e := range errs {
		if e != sketch.ErrUnsupportedDistribution {
			t.Fatalf("member %d: got %v; want ErrUnsupportedDistribution", r, e)
		}
	}
}

// ------------------------------------------------------------------------
// 3. Matching distributed layouts: no communication, each member's output
//    block is the sketch of its input block.
// ------------------------------------------------------------------------

func TestApply_ColDistToColDist(t *testing.T) {
	const n, s, c = 8, 4, 6
	g, err := grid.NewGroup(gridMembers)
	if err != nil {
		t.Fatal(err)
	}

	gathered := mat.NewDense(s, c, nil)
	errs := runMembers(t, g, func(rank int, comm grid.Communicator) error {
		ctx, errN := randstream.New(testSeed, comm)
		if errN != nil {
			return errN
		}
		tr, errT := sketch.NewJLT(n, s, ctx)
		if errT != nil {
			return errT
		}
		A, errA := dmat.NewColDist(n, c, comm)
		if errA != nil {
			return errA
		}
		fillDistributed(t, A)
		out, errO := dmat.NewColDist(s, c, comm)
		if errO != nil {
			return errO
		}
		if errAp := tr.Apply(A, out, sketch.Columnwise); errAp != nil {
			return errAp
		}
		full, errG := out.Gather(0)
		if errG != nil {
			return errG
		}
		if rank == 0 {
			gathered.Copy(full)
		}

		return nil
	})
	for r, e := range errs {
		if e != nil {
			t.Fatalf("member %d: %v", r, e)
		}
	}

	want := localReference(t, sketch.KindJLT, n, s, c)
	if !mat.EqualApprox(want, gathered, 1e-12) {
		t.Fatal("block-local sketch diverged from the local reference")
	}
}

// ------------------------------------------------------------------------
// 4. Star replicas: every member computes the identical full sketch.
// ------------------------------------------------------------------------

func TestApply_StarToStar(t *testing.T) {
	const n, s, c = 8, 4, 6
	g, err := grid.NewGroup(gridMembers)
	if err != nil {
		t.Fatal(err)
	}

	outputs := make([]*mat.Dense, gridMembers)
	errs := runMembers(t, g, func(rank int, comm grid.Communicator) error {
		ctx, errN := randstream.New(testSeed, comm)
		if errN != nil {
			return errN
		}
		tr, errT := sketch.NewCWT(n, s, ctx)
		if errT != nil {
			return errT
		}
		A, errA := dmat.NewStar(n, c, comm)
		if errA != nil {
			return errA
		}
		fillDistributed(t, A)
		out, errO := dmat.NewStar(s, c, comm)
		if errO != nil {
			return errO
		}
		if errAp := tr.Apply(A, out, sketch.Columnwise); errAp != nil {
			return errAp
		}
		cp := mat.NewDense(s, c, nil)
		cp.Copy(out.LocalData())
		outputs[rank] = cp

		return nil
	})
	for r, e := range errs {
		if e != nil {
			t.Fatalf("member %d: %v", r, e)
		}
	}

	want := localReference(t, sketch.KindCWT, n, s, c)
	for r := 0; r < gridMembers; r++ {
		if !mat.EqualApprox(want, outputs[r], 1e-12) {
			t.Fatalf("member %d replica diverged from the local reference", r)
		}
	}

	// Replicas agree bitwise with each other: same seed, same stream.
	for r := 1; r < gridMembers; r++ {
		if !mat.Equal(outputs[0], outputs[r]) {
			t.Fatalf("member %d replica is not bit-identical to member 0", r)
		}
	}
}
