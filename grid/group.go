// SPDX-License-Identifier: MIT

// Package grid: in-process process group.
//
// Group emulates a fixed-size process grid inside one OS process: each member
// is expected to run on its own goroutine and to call collectives in the same
// order (the SPMD contract). All collectives are built on one rendezvous
// primitive, collect: members deposit a contribution, the last member to
// arrive reduces all contributions, and every member leaves with the reduced
// result. A member that has not yet read the previous result cannot have
// entered the next collective, so a single result slot per generation is safe.
package grid

import "sync"

// groupState is the state shared by all members of one Group.
type groupState struct {
	size int

	mu      sync.Mutex
	cond    *sync.Cond
	arrived int
	gen     uint64
	slots   []interface{}
	result  interface{}
	closed  bool
}

// Group is an in-process communicator group of fixed size.
type Group struct {
	state *groupState
}

// member is one rank's handle on a shared groupState.
type member struct {
	state *groupState
	rank  int
}

// NewGroup creates an in-process group of the given size.
// Returns ErrGroupSize when size < 1.
// Complexity: O(size) allocation.
func NewGroup(size int) (*Group, error) {
	if size < 1 {
		return nil, ErrGroupSize
	}

	return &Group{state: newGroupState(size)}, nil
}

func newGroupState(size int) *groupState {
	st := &groupState{
		size:  size,
		slots: make([]interface{}, size),
	}
	st.cond = sync.NewCond(&st.mu)

	return st
}

// Member returns the Communicator handle for the given rank.
// Returns ErrRankOutOfRange for ranks outside [0, size).
func (g *Group) Member(rank int) (Communicator, error) {
	if rank < 0 || rank >= g.state.size {
		return nil, ErrRankOutOfRange
	}

	return &member{state: g.state, rank: rank}, nil
}

// Close marks the group closed and wakes every member blocked in a
// collective; those members observe ErrCommClosed. Intended for test
// teardown after a member has failed.
func (g *Group) Close() {
	g.state.mu.Lock()
	g.state.closed = true
	g.state.cond.Broadcast()
	g.state.mu.Unlock()
}

// collect is the rendezvous primitive behind every collective.
//
// Stage 1: deposit this member's contribution into its slot.
// Stage 2: the last member to arrive reduces all slots into the shared
// result, resets the slots for the next generation and wakes everyone.
// Stage 3: every other member waits for the generation to advance, then
// reads the shared result under the same lock.
func (s *groupState) collect(rank int, in interface{}, reduce func(slots []interface{}) interface{}) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrCommClosed
	}

	myGen := s.gen
	s.slots[rank] = in
	s.arrived++

	if s.arrived == s.size {
		s.result = reduce(s.slots)
		s.slots = make([]interface{}, s.size)
		s.arrived = 0
		s.gen++
		s.cond.Broadcast()

		return s.result, nil
	}

	for s.gen == myGen && !s.closed {
		s.cond.Wait()
	}
	if s.closed && s.gen == myGen {
		return nil, ErrCommClosed
	}

	return s.result, nil
}

// Rank reports this member's rank.
func (m *member) Rank() int { return m.rank }

// Size reports the group size.
func (m *member) Size() int { return m.state.size }

// Dup is a collective: the last member to arrive allocates a fresh shared
// state, and every member leaves holding a handle on it at the same rank.
func (m *member) Dup() (Communicator, error) {
	res, err := m.state.collect(m.rank, nil, func([]interface{}) interface{} {
		return newGroupState(m.state.size)
	})
	if err != nil {
		return nil, err
	}

	return &member{state: res.(*groupState), rank: m.rank}, nil
}

// Barrier blocks until all members arrive.
func (m *member) Barrier() error {
	_, err := m.state.collect(m.rank, nil, func([]interface{}) interface{} { return nil })

	return err
}

// AllAgree AND-reduces the members' votes.
func (m *member) AllAgree(ok bool) (bool, error) {
	res, err := m.state.collect(m.rank, ok, func(slots []interface{}) interface{} {
		all := true
		for _, s := range slots {
			all = all && s.(bool)
		}

		return all
	})
	if err != nil {
		return false, err
	}

	return res.(bool), nil
}

// GatherRows concatenates row blocks in rank order; only root receives the
// result, everyone else receives nil.
func (m *member) GatherRows(local [][]float64, root int) ([][]float64, error) {
	if root < 0 || root >= m.state.size {
		return nil, ErrRootOutOfRange
	}

	res, err := m.state.collect(m.rank, local, func(slots []interface{}) interface{} {
		var all [][]float64
		for _, s := range slots {
			all = append(all, copyRows(s.([][]float64))...)
		}

		return all
	})
	if err != nil {
		return nil, err
	}
	if m.rank != root {
		return nil, nil
	}

	return res.([][]float64), nil
}

// BcastRows delivers root's rows to all members.
func (m *member) BcastRows(rows [][]float64, root int) ([][]float64, error) {
	if root < 0 || root >= m.state.size {
		return nil, ErrRootOutOfRange
	}

	res, err := m.state.collect(m.rank, rows, func(slots []interface{}) interface{} {
		return copyRows(slots[root].([][]float64))
	})
	if err != nil {
		return nil, err
	}

	// Each member takes its own deep copy so no two members alias storage.
	return copyRows(res.([][]float64)), nil
}

// AllReduceSum sums buffers elementwise; all members receive the sum.
// Members must pass equal-length buffers (caller contract).
func (m *member) AllReduceSum(buf []float64) ([]float64, error) {
	res, err := m.state.collect(m.rank, buf, func(slots []interface{}) interface{} {
		sum := make([]float64, len(slots[0].([]float64)))
		for _, s := range slots {
			part := s.([]float64)
			for i := range part {
				sum[i] += part[i]
			}
		}

		return sum
	})
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(res.([]float64)))
	copy(out, res.([]float64))

	return out, nil
}
