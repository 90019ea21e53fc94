// Package session provides Redis-backed session persistence and compact
// binary session encoding for the validation hot path.
//
// # Binary encoding
//
// Session records are stored in Redis as a compact versioned binary format.
// The encoder is append-only: new versions add fields but never reinterpret
// old ones.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Record] model.
// It does NOT apply hijacking heuristics, expiry policy, or concurrency
// caps; those responsibilities belong to the Engine. Every Store method is
// a single logical round trip (one command, pipeline, or script execution)
// and performs no retries; retry policy belongs to the Redis client layer.
//
// # What this package must NOT do
//
//   - Import sessionguard (no upward imports).
//   - Make accept/reject decisions about a session.
//   - Store raw User-Agent strings in [Record] fields.
package session
