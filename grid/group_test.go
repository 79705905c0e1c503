// Package grid_test contains unit tests for the in-process group and the
// trivial single-member communicator.
package grid_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sketch/grid"
)

// runMembers runs fn once per rank on its own goroutine and waits for all.
func runMembers(t *testing.T, g *grid.Group, size int, fn func(rank int, c grid.Communicator)) {
	t.Helper()
	var wg sync.WaitGroup
	wg.Add(size)
	for r := 0; r < size; r++ {
		c, err := g.Member(r)
		require.NoError(t, err) // member handle must exist
		go func(rank int, comm grid.Communicator) {
			defer wg.Done()
			fn(rank, comm)
		}(r, c)
	}
	wg.Wait()
}

// ------------------------------------------------------------------------
// 1. Construction and validation.
// ------------------------------------------------------------------------

func TestNewGroup_SizeValidation(t *testing.T) {
	_, err := grid.NewGroup(0)
	require.ErrorIs(t, err, grid.ErrGroupSize) // size < 1 rejected

	_, err = grid.NewGroup(-3)
	require.ErrorIs(t, err, grid.ErrGroupSize)
}

func TestGroup_MemberRankValidation(t *testing.T) {
	g, err := grid.NewGroup(2)
	require.NoError(t, err)

	_, err = g.Member(2)
	require.ErrorIs(t, err, grid.ErrRankOutOfRange) // rank == size rejected

	_, err = g.Member(-1)
	require.ErrorIs(t, err, grid.ErrRankOutOfRange)
}

func TestSingle_Identity(t *testing.T) {
	c := grid.Single()
	require.Equal(t, 0, c.Rank()) // the only member is rank 0
	require.Equal(t, 1, c.Size()) // of a size-1 group
}

// ------------------------------------------------------------------------
// 2. Collectives.
// ------------------------------------------------------------------------

func TestGroup_AllAgree(t *testing.T) {
	const size = 4
	g, _ := grid.NewGroup(size)

	// One dissenting member must flip the outcome on every member.
	var mu sync.Mutex
	outcomes := make(map[int]bool)
	runMembers(t, g, size, func(rank int, c grid.Communicator) {
		ok, err := c.AllAgree(rank != 2) // member 2 votes false
		require.NoError(t, err)
		mu.Lock()
		outcomes[rank] = ok
		mu.Unlock()
	})
	for r := 0; r < size; r++ {
		require.False(t, outcomes[r], "member %d did not observe the dissent", r)
	}

	// Unanimous agreement passes on every member.
	runMembers(t, g, size, func(rank int, c grid.Communicator) {
		ok, err := c.AllAgree(true)
		require.NoError(t, err)
		require.True(t, ok)
	})
}

func TestGroup_GatherRowsRankOrder(t *testing.T) {
	const size = 3
	g, _ := grid.NewGroup(size)

	var mu sync.Mutex
	var rootRows [][]float64
	nonRootNil := true
	runMembers(t, g, size, func(rank int, c grid.Communicator) {
		local := [][]float64{{float64(rank)}, {float64(rank) + 0.5}}
		rows, err := c.GatherRows(local, 0)
		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		if rank == 0 {
			rootRows = rows
		} else if rows != nil {
			nonRootNil = false
		}
	})

	require.True(t, nonRootNil)     // only the root materializes the result
	require.Len(t, rootRows, 6)     // 2 rows from each of 3 members
	for r := 0; r < size; r++ {     // concatenated in rank order
		require.Equal(t, float64(r), rootRows[2*r][0])
		require.Equal(t, float64(r)+0.5, rootRows[2*r+1][0])
	}
}

func TestGroup_BcastRows(t *testing.T) {
	const size = 3
	g, _ := grid.NewGroup(size)

	runMembers(t, g, size, func(rank int, c grid.Communicator) {
		var payload [][]float64
		if rank == 1 {
			payload = [][]float64{{3, 1, 4}}
		}
		rows, err := c.BcastRows(payload, 1)
		require.NoError(t, err)
		require.Equal(t, [][]float64{{3, 1, 4}}, rows) // root's rows everywhere
	})
}

func TestGroup_AllReduceSum(t *testing.T) {
	const size = 4
	g, _ := grid.NewGroup(size)

	runMembers(t, g, size, func(rank int, c grid.Communicator) {
		sum, err := c.AllReduceSum([]float64{1, float64(rank)})
		require.NoError(t, err)
		require.Equal(t, []float64{4, 6}, sum) // 1*4 and 0+1+2+3
	})
}

func TestGroup_RootValidation(t *testing.T) {
	g, _ := grid.NewGroup(2)
	c, _ := g.Member(0)
	_, err := c.GatherRows(nil, 5)
	require.ErrorIs(t, err, grid.ErrRootOutOfRange)
	_, err = c.BcastRows(nil, -1)
	require.ErrorIs(t, err, grid.ErrRootOutOfRange)
}

// ------------------------------------------------------------------------
// 3. Duplication and teardown.
// ------------------------------------------------------------------------

func TestGroup_DupIsolation(t *testing.T) {
	const size = 2
	g, _ := grid.NewGroup(size)

	runMembers(t, g, size, func(rank int, c grid.Communicator) {
		dup, err := c.Dup()
		require.NoError(t, err)
		require.Equal(t, rank, dup.Rank()) // same rank on the duplicate
		require.Equal(t, size, dup.Size()) // same size on the duplicate

		// The duplicate must be a working communicator of its own.
		sum, err := dup.AllReduceSum([]float64{1})
		require.NoError(t, err)
		require.Equal(t, []float64{2}, sum)
	})
}

func TestGroup_CloseUnblocksWaiters(t *testing.T) {
	g, _ := grid.NewGroup(2)
	c0, _ := g.Member(0)

	done := make(chan error, 1)
	go func() {
		// Member 1 never arrives; Close must release member 0.
		done <- c0.Barrier()
	}()
	g.Close()
	require.ErrorIs(t, <-done, grid.ErrCommClosed)
}
