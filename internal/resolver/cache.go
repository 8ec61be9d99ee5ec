package resolver

import "sync"

// Cache holds the most recent Resolve outcome for one Context, so a
// transaction that starts while the cache is still fresh can
// short-circuit straight to connecting (§4.7: idle → connecting).
type Cache struct {
	mu     sync.Mutex
	result Result
	valid  bool
}

// Get returns the cached result and whether it is present.
func (c *Cache) Get() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.valid
}

// Set stores a fresh Resolve outcome, replacing whatever was cached.
func (c *Cache) Set(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = r
	c.valid = true
}

// Invalidate clears the cache, forcing the next transaction to resolve
// again rather than reuse stale addresses.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = Result{}
	c.valid = false
}

// Addresses returns the cached addresses ordered IPv6-first, matching
// the interleave rule transport.InterleaveAddresses applies to a fresh
// Resolve outcome.
func (c *Cache) Addresses() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.result.IPv6)+len(c.result.IPv4))
	out = append(out, c.result.IPv6...)
	out = append(out, c.result.IPv4...)
	return out
}
