package grid

// single is the degenerate one-member communicator. Every collective is a
// local no-op, which keeps single-process code paths identical to the
// distributed ones.
type single struct{}

// Single returns the process-local communicator (rank 0 of 1).
// Complexity: O(1); no allocation beyond the empty struct.
func Single() Communicator { return single{} }

// Rank always reports 0.
func (single) Rank() int { return 0 }

// Size always reports 1.
func (single) Size() int { return 1 }

// Dup returns a fresh single-member communicator; there is no shared state
// to isolate, but the contract is honored.
func (single) Dup() (Communicator, error) { return single{}, nil }

// Barrier is a no-op for a single member.
func (single) Barrier() error { return nil }

// AllAgree reduces over one member: the member's own vote.
func (single) AllAgree(ok bool) (bool, error) { return ok, nil }

// GatherRows on a single member is a defensive deep copy so the caller may
// mutate the result without aliasing the input.
func (single) GatherRows(local [][]float64, root int) ([][]float64, error) {
	if root != 0 {
		return nil, ErrRootOutOfRange
	}

	return copyRows(local), nil
}

// BcastRows on a single member returns a deep copy of the input.
func (single) BcastRows(rows [][]float64, root int) ([][]float64, error) {
	if root != 0 {
		return nil, ErrRootOutOfRange
	}

	return copyRows(rows), nil
}

// AllReduceSum over one member is the identity (copied).
func (single) AllReduceSum(buf []float64) ([]float64, error) {
	out := make([]float64, len(buf))
	copy(out, buf)

	return out, nil
}

// copyRows deep-copies a row block. Shared by single and group paths so the
// aliasing guarantee is uniform across implementations.
func copyRows(rows [][]float64) [][]float64 {
	if rows == nil {
		return nil
	}
	out := make([][]float64, len(rows))

	var i int
	for i = range rows {
		out[i] = make([]float64, len(rows[i]))
		copy(out[i], rows[i])
	}

	return out
}
