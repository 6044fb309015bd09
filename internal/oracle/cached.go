package oracle

import (
	"context"
	"crypto/sha256"
	"sync"
)

// Cached memoises verdicts of another oracle by the SHA-256 of the text.
// Errors are not cached. Safe for concurrent use.
type Cached struct {
	inner Oracle

	mu     sync.Mutex
	memo   map[[32]byte]bool
	hits   int
	misses int
}

func NewCached(inner Oracle) *Cached {
	return &Cached{inner: inner, memo: make(map[[32]byte]bool)}
}

func (c *Cached) String() string { return "cached(" + Name(c.inner) + ")" }

// Unwrap returns the wrapped oracle.
func (c *Cached) Unwrap() Oracle { return c.inner }

func (c *Cached) Valid(ctx context.Context, src string) (bool, error) {
	key := sha256.Sum256([]byte(src))

	c.mu.Lock()
	v, ok := c.memo[key]
	if ok {
		c.hits++
	}
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	v, err := c.inner.Valid(ctx, src)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	c.memo[key] = v
	c.misses++
	c.mu.Unlock()
	return v, nil
}

// Stats returns cache hits and misses so far.
func (c *Cached) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cached) Balance(src string) Balance {
	if b, ok := c.inner.(Balancer); ok {
		return b.Balance(src)
	}
	return Balance{}
}
