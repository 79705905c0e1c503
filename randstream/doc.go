// Package randstream provides the process-wide, seed-derived, splittable
// random number source that keeps sketching transforms consistent across a
// process grid without communicating random values.
//
// Overview:
//
//   - A Context owns a fixed seed and a monotone counter into an unbounded
//     logical stream of 2^64 samples. ReserveSamples(n, d) reserves the
//     window [counter, counter+n), advances the counter by n, and returns a
//     lazily evaluated, randomly addressable Samples array whose element i
//     is a pure function of (seed, offset+i, d).
//   - Because element values depend only on seed and absolute offset, any
//     member of the communicator that performs the same sequence of
//     reservations derives bit-identical values with zero communication.
//     This is the core correctness invariant of the whole framework:
//     diverging the reservation order across members is a correctness bug,
//     not a performance one. The invariant is a caller contract and is not
//     enforced internally.
//
// Construction of the underlying generator:
//
//   - Each sample word is prf(seed, offset): the 16-byte (seed, offset)
//     block is hashed with xxhash64 and the digest is passed through a
//     SplitMix64 finalizer for full avalanche. Distributions then transform
//     the uniform word by inverse CDF (or bit selection), so a draw never
//     consumes more than one counter slot.
//
// When to use:
//
//   - Create exactly one Context per run with a fixed seed; pass it by
//     reference to every constructor that needs randomness. Never create
//     ad-hoc contexts mid-computation: ownership and synchronization
//     obligations must be visible at every call site.
//
// Error handling (sentinel errors):
//
//   - ErrNegativeCount: ReserveSamples called with n < 0.
//   - ErrNilComm: New called with a nil communicator.
//
// Concurrency:
//
//   - A Context is confined to its owning member goroutine, mirroring the
//     single-threaded-per-process model; it is not goroutine-safe.
//
// Complexity: ReserveSamples is O(1) — no values are generated until the
// Samples array is addressed; Samples.At is O(1) per element.
package randstream
