// Package link implements the bilateral transit link: endpoints bound to
// world addresses that can be dialed together, after which objects sent at
// the originating side are buffered, delayed and materialized at the
// receiving side.
//
// Key concepts:
// - Endpoint: one side of a link; Inactive, PendingOpen (scheduled dial) or
//   Active with a Role (Originator or Receiver)
// - Network: owns the endpoints of one world, resolves peers by address on
//   demand and drives every endpoint once per discrete step
// - Iris: per-endpoint arrival filter that destroys instead of materializing
// - External hold: reference count that suppresses idle auto-close
//
// The model is a single-threaded discrete-step simulation. A Network and its
// endpoints must only be used from the simulation goroutine; Dial and Close
// mutate both sides of a link before returning, so no step ever observes a
// half-open or half-closed link. The address registry is the only shared
// structure and carries its own lock.
package link
