// Package cache holds the read-through cache for single-post reads.
//
// Store is the byte-oriented cache abstraction; Memory backs it with an
// in-process sturdyc client. CachedPostReader is the orchestrator that sits
// between the HTTP layer and the query dispatcher: a hit short-circuits the
// dispatch entirely, a miss dispatches the query and then populates the
// cache best-effort.
package cache

import "context"

// Store is a byte-value cache keyed by string. Implementations must be safe
// for concurrent use.
type Store interface {
	// Exists reports whether key currently has a live entry.
	Exists(ctx context.Context, key string) bool

	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key. Failures are reported, not guaranteed to
	// be retried; callers treat population as best-effort.
	Set(ctx context.Context, key string, value []byte) error

	// Delete drops key if present.
	Delete(ctx context.Context, key string)
}
