// SPDX-License-Identifier: MIT

// Package grid: communicator contract and sentinel errors.
// Concrete implementations live in single.go (trivial) and group.go
// (in-process shared-memory group).
package grid

import "errors"

// ErrCommClosed is returned when a collective is attempted on, or interrupted
// by, a closed group.
var ErrCommClosed = errors.New("grid: communicator closed")

// ErrRootOutOfRange is returned when a rooted collective names a root rank
// outside [0, Size).
var ErrRootOutOfRange = errors.New("grid: root rank out of range")

// ErrRankOutOfRange is returned by Group.Member for ranks outside [0, Size).
var ErrRankOutOfRange = errors.New("grid: rank out of range")

// ErrGroupSize is returned by NewGroup when size < 1.
var ErrGroupSize = errors.New("grid: group size must be >= 1")

// Communicator is the communication back-end contract. Rank and Size are
// fixed after construction; every collective must be called by all members
// in the same order (caller contract, not enforced).
type Communicator interface {
	// Rank returns this member's index in [0, Size).
	// Complexity: O(1).
	Rank() int

	// Size returns the number of cooperating members.
	// Complexity: O(1).
	Size() int

	// Dup duplicates the communicator so the caller owns an isolated
	// channel. Collective: every member must call Dup together.
	Dup() (Communicator, error)

	// Barrier blocks until every member has entered it.
	Barrier() error

	// AllAgree reduces ok across all members with logical AND and returns
	// the reduced value to every member. Collective.
	AllAgree(ok bool) (bool, error)

	// GatherRows concatenates the members' row blocks on root, in rank
	// order. Root receives the concatenation; every other member receives
	// nil. Collective.
	GatherRows(local [][]float64, root int) ([][]float64, error)

	// BcastRows delivers root's rows to every member. The argument is
	// ignored on non-root members. Collective.
	BcastRows(rows [][]float64, root int) ([][]float64, error)

	// AllReduceSum sums buf elementwise across members and returns the sum
	// to every member. All members must pass equal-length buffers.
	// Collective.
	AllReduceSum(buf []float64) ([]float64, error)
}
