// SPDX-License-Identifier: MIT

// Package randstream: Context and Samples.
package randstream

import (
	"errors"

	"github.com/katalvlaran/sketch/grid"
)

// ErrNegativeCount is returned by ReserveSamples when n < 0.
var ErrNegativeCount = errors.New("randstream: negative sample count")

// ErrNilComm is returned by New when the communicator is nil.
var ErrNilComm = errors.New("randstream: nil communicator")

// maxRandomInt bounds NextRandomInt to the positive int32 range so the value
// is portable across word sizes.
const maxRandomInt = 1 << 31

// Context is the process-wide random stream state: a fixed seed, a monotone
// counter into the stream, and a duplicated communicator so the context owns
// an isolated communication channel.
//
// Every member of the communicator must call context-consuming operations in
// the same order with the same requested sizes, or their streams
// desynchronize. This is a caller contract, not enforced here.
type Context struct {
	seed    uint64
	counter uint64
	comm    grid.Communicator
}

// New creates a Context with the given seed. The communicator is duplicated,
// which is a collective: all members must call New together.
func New(seed uint64, comm grid.Communicator) (*Context, error) {
	if comm == nil {
		return nil, ErrNilComm
	}
	dup, err := comm.Dup()
	if err != nil {
		return nil, err
	}

	return &Context{seed: seed, comm: dup}, nil
}

// Seed returns the seed fixed at construction.
func (c *Context) Seed() uint64 { return c.seed }

// Counter returns the next unreserved stream offset. The counter only grows.
func (c *Context) Counter() uint64 { return c.counter }

// Comm returns the context's duplicated communicator.
func (c *Context) Comm() grid.Communicator { return c.comm }

// ReserveSamples atomically reserves a window of n consecutive offsets in
// the stream, advances the counter by n and returns the lazily evaluated
// sample array over that window. It never blocks and fails only on n < 0.
//
// Reservation must be performed by every member of the communicator in the
// same order (caller contract); the returned values themselves require no
// communication.
//
// Complexity: O(1).
func (c *Context) ReserveSamples(n int, d Distribution) (Samples, error) {
	if n < 0 {
		return Samples{}, ErrNegativeCount
	}
	s := Samples{seed: c.seed, offset: c.counter, n: n, dist: d}
	c.counter += uint64(n)

	return s, nil
}

// NextRandomInt reserves exactly one sample from a uniform-integer
// distribution and returns it. Convenience for single-draw call sites.
func (c *Context) NextRandomInt() int {
	s, _ := c.ReserveSamples(1, UniformInt{N: maxRandomInt}) // n==1 cannot fail

	return int(s.At(0))
}

// panicSamplesRange is the stable message for out-of-window access, which is
// a programmer error, not a runtime condition.
const panicSamplesRange = "randstream: sample index out of reserved window"

// Samples is a lazily evaluated, randomly addressable view of one reserved
// window of the stream. Element i is deterministically
// dist.Transform(prf(seed, offset+i)); no value is stored.
type Samples struct {
	seed   uint64
	offset uint64
	n      int
	dist   Distribution
}

// Len returns the window size.
func (s Samples) Len() int { return s.n }

// At evaluates element i. Panics on indices outside [0, Len).
// Complexity: O(1).
func (s Samples) At(i int) float64 {
	if i < 0 || i >= s.n {
		panic(panicSamplesRange)
	}

	return s.dist.Transform(prf(s.seed, s.offset+uint64(i)))
}

// Materialize evaluates the whole window into a fresh slice.
// Complexity: O(n).
func (s Samples) Materialize() []float64 {
	out := make([]float64, s.n)

	var i int
	for i = 0; i < s.n; i++ {
		out[i] = s.At(i)
	}

	return out
}
