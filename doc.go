// Package sessionguard provides a Redis-backed session security engine:
// unforgeable opaque session tokens, hijack detection heuristics, token
// rotation, per-user concurrency caps, and individual/bulk revocation.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build], and any number of process instances may share one Redis
// store; there is no in-process session state to desynchronize.
//
// # Architecture boundaries
//
// sessionguard is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (Decision, SessionInfo, MetricsSnapshot, etc.).
// Session encoding and store access live under session/; token generation
// and fingerprint helpers under internal/.
//
// # What this package must NOT do
//
//   - Expose Redis clients, store internals, or encoding details in its
//     public API.
//   - Hold any in-process lock across a store round trip.
//   - Persist raw User-Agent strings or log full session tokens.
//
// # Performance contract
//
// ValidateSession is the hot path: it completes in one to three store round
// trips (lookup, optional flag persist, activity touch or rotation) and
// allocates only the returned Decision and record. Every public entry point
// is synchronous and bounded; retry and timeout policy belong to the Redis
// client, surfacing here as session.ErrRedisUnavailable.
package sessionguard
