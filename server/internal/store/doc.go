// Package store manages the in-memory device state. It provides a
// thread-safe latest-sample store with TTL eviction plus a capped per-device
// history ring with time-range query support.
package store
