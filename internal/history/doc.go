// Package history provides SQLite-backed storage for completed practice
// sessions.
//
// The store is an append-only log: one row per completed session plus its
// per-question answer sheet. Sessions are keyed by their UUIDv7 token, so
// recording is idempotent and listing in token order is listing in time
// order.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: answers cannot outlive their session
//
// SQLite allows one writer at a time, so the pool is capped at a single
// connection.
package history
