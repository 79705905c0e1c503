// Package grid defines the communication back-end contract consumed by the
// sketching and regression layers, together with two concrete process groups:
// a trivial single-process communicator and an in-process group built on a
// shared condition-variable rendezvous for tests and single-node
// multi-worker runs.
//
// Overview:
//
//   - All higher layers are SPMD: every member of a Communicator executes the
//     same logical sequence of operations in lockstep. The only suspension
//     points are the collective calls below; a member entering a collective
//     blocks until every other member reaches the same call.
//   - The Communicator is used for two things only: keeping random-stream
//     state consistent across members (see package randstream) and moving
//     matrix blocks during gather/reduce redistributions (see package dmat).
//     There is no point-to-point messaging in the core.
//
// Collectives:
//
//   - Barrier: rendezvous with no payload.
//   - AllAgree: logical AND across members; the canonical way to convert a
//     failure observed on a subset of members into a failure observed by all
//     of them before anyone proceeds past the collective point.
//   - GatherRows: concatenates per-member row blocks on a designated root in
//     rank order; non-roots receive nil.
//   - BcastRows: root's row block is delivered to every member.
//   - AllReduceSum: elementwise sum across members, result on every member.
//
// When to use:
//
//   - Use Single() for purely local computations; every collective is a
//     no-op and Rank/Size are 0/1.
//   - Use NewGroup(size) in tests or single-node experiments to emulate a
//     process grid: run one goroutine per member, each holding the
//     Communicator returned by Member(rank).
//
// Error handling (sentinel errors):
//
//   - ErrCommClosed: the group was closed while a collective was in flight,
//     or a collective was attempted on a closed group.
//   - ErrRootOutOfRange: root rank outside [0, Size).
//   - ErrRankOutOfRange: Member called with a rank outside [0, Size).
//   - ErrGroupSize: NewGroup called with size < 1.
//
// Concurrency:
//
//   - A Communicator is safe for use by its owning member goroutine only;
//     collectives synchronize between members internally.
package grid
