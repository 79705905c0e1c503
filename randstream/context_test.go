// Package randstream_test contains unit tests for the Context reservation
// contract: counter discipline, determinism of the stream, and cross-member
// consistency over an in-process grid.
package randstream_test

import (
	"sync"
	"testing"

	"github.com/katalvlaran/sketch/grid"
	"github.com/katalvlaran/sketch/randstream"
)

const testSeed = 42

// ------------------------------------------------------------------------
// 1. Validation: reservation argument and construction errors.
// ------------------------------------------------------------------------

func TestReserveSamples_NegativeCount(t *testing.T) {
	ctx, err := randstream.New(testSeed, grid.Single())
	if err != nil {
		t.Fatal(err)
	}
	_, err = ctx.ReserveSamples(-1, randstream.Uniform{Lo: 0, Hi: 1})
	if err != randstream.ErrNegativeCount {
		t.Fatalf("Expected ErrNegativeCount, got %v", err)
	}
}

func TestNew_NilComm(t *testing.T) {
	_, err := randstream.New(testSeed, nil)
	if err != randstream.ErrNilComm {
		t.Fatalf("Expected ErrNilComm, got %v", err)
	}
}

// ------------------------------------------------------------------------
// 2. Counter discipline: reservations advance by exactly the window size.
// ------------------------------------------------------------------------

func TestReserveSamples_CounterAdvances(t *testing.T) {
	ctx, _ := randstream.New(testSeed, grid.Single())
	if got := ctx.Counter(); got != 0 {
		t.Fatalf("fresh counter = %d; want 0", got)
	}

	_, err := ctx.ReserveSamples(10, randstream.Rademacher{})
	if err != nil {
		t.Fatal(err)
	}
	if got := ctx.Counter(); got != 10 {
		t.Fatalf("counter after 10-window = %d; want 10", got)
	}

	// NextRandomInt reserves exactly one slot.
	_ = ctx.NextRandomInt()
	if got := ctx.Counter(); got != 11 {
		t.Fatalf("counter after NextRandomInt = %d; want 11", got)
	}
}

// ------------------------------------------------------------------------
// 3. Determinism: same seed, same offsets => bit-identical values.
// ------------------------------------------------------------------------

func TestSamples_DeterministicAcrossContexts(t *testing.T) {
	a, _ := randstream.New(testSeed, grid.Single())
	b, _ := randstream.New(testSeed, grid.Single())

	sa, _ := a.ReserveSamples(256, randstream.Gaussian{Mean: 0, Sigma: 1})
	sb, _ := b.ReserveSamples(256, randstream.Gaussian{Mean: 0, Sigma: 1})

	for i := 0; i < sa.Len(); i++ {
		if sa.At(i) != sb.At(i) {
			t.Fatalf("sample %d differs: %v vs %v", i, sa.At(i), sb.At(i))
		}
	}
}

func TestSamples_DifferentSeedsDiffer(t *testing.T) {
	a, _ := randstream.New(1, grid.Single())
	b, _ := randstream.New(2, grid.Single())

	sa, _ := a.ReserveSamples(64, randstream.Uniform{Lo: 0, Hi: 1})
	sb, _ := b.ReserveSamples(64, randstream.Uniform{Lo: 0, Hi: 1})

	same := 0
	for i := 0; i < 64; i++ {
		if sa.At(i) == sb.At(i) {
			same++
		}
	}
	if same == 64 {
		t.Fatal("two seeds produced identical 64-sample windows")
	}
}

// Repeated addressing of the same element must be stable (lazy, not cached).
func TestSamples_RandomAddressingStable(t *testing.T) {
	ctx, _ := randstream.New(testSeed, grid.Single())
	s, _ := ctx.ReserveSamples(16, randstream.Exponential{Rate: 1})

	first := s.At(7)
	_ = s.At(3)
	_ = s.At(15)
	if s.At(7) != first {
		t.Fatal("re-addressing element 7 changed its value")
	}
}

// ------------------------------------------------------------------------
// 4. Cross-member consistency: a grid of contexts with the same seed and the
//    same reservation sequence agrees element-for-element with a
//    single-process reconstruction.
// ------------------------------------------------------------------------

func TestContext_CrossMemberConsistency(t *testing.T) {
	const members = 3
	g, err := grid.NewGroup(members)
	if err != nil {
		t.Fatal(err)
	}

	results := make([][]float64, members)
	var wg sync.WaitGroup
	wg.Add(members)
	for r := 0; r < members; r++ {
		comm, errM := g.Member(r)
		if errM != nil {
			t.Fatal(errM)
		}
		go func(rank int, c grid.Communicator) {
			defer wg.Done()
			ctx, errN := randstream.New(testSeed, c)
			if errN != nil {
				return
			}
			// Same sequence on every member: a throwaway window, then the
			// window under test.
			_, _ = ctx.ReserveSamples(5, randstream.Rademacher{})
			s, _ := ctx.ReserveSamples(100, randstream.Gaussian{Mean: 0, Sigma: 1})
			results[rank] = s.Materialize()
		}(r, comm)
	}
	wg.Wait()

	// Single-process reconstruction with the same seed and sequence.
	solo, _ := randstream.New(testSeed, grid.Single())
	_, _ = solo.ReserveSamples(5, randstream.Rademacher{})
	want, _ := solo.ReserveSamples(100, randstream.Gaussian{Mean: 0, Sigma: 1})

	for r := 0; r < members; r++ {
		if results[r] == nil {
			t.Fatalf("member %d produced no samples", r)
		}
		for i := 0; i < 100; i++ {
			if results[r][i] != want.At(i) {
				t.Fatalf("member %d sample %d = %v; want %v", r, i, results[r][i], want.At(i))
			}
		}
	}
}
