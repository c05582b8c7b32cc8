package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Memory is an in-process Store backed by a sharded sturdyc client. Entries
// expire after the configured TTL; when a shard fills up, the configured
// percentage of its entries is evicted.
type Memory struct {
	client *sturdyc.Client[[]byte]
}

// NewMemory builds a Memory store. Capacity is the maximum entry count across
// shards, ttl bounds entry lifetime, and evictPercent (1-100) controls how
// aggressively a full shard sheds entries.
func NewMemory(capacity, shards int, ttl time.Duration, evictPercent int) *Memory {
	return &Memory{
		client: sturdyc.New[[]byte](capacity, shards, ttl, evictPercent),
	}
}

// Exists implements Store.
func (m *Memory) Exists(_ context.Context, key string) bool {
	_, ok := m.client.Get(key)
	return ok
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	return m.client.Get(key)
}

// Set implements Store. The in-process backend cannot fail; the error return
// exists for Store implementations that can.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.client.Set(key, value)
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, key string) {
	m.client.Delete(key)
}
