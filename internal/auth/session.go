package auth

import (
	"sync"
	"time"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/domain"
)

// SessionCache holds authenticated wallets with a fixed TTL.
// Each cache is an explicit value owned by its caller, nothing is shared
// at package level. Keys are lowercased wallet addresses.
type SessionCache struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	ttl      time.Duration
	clock    adapter.Clock
}

// NewSessionCache creates a session cache with the given TTL
func NewSessionCache(ttl time.Duration, clock adapter.Clock) *SessionCache {
	return &SessionCache{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		clock:    clock,
	}
}

// Put records a fresh authentication for wallet
func (c *SessionCache) Put(wallet string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[domain.CacheKeyAddress(wallet)] = c.clock.Now()
}

// Valid reports whether wallet has an unexpired session.
// Expired entries are dropped on access.
func (c *SessionCache) Valid(wallet string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := domain.CacheKeyAddress(wallet)
	authedAt, ok := c.sessions[key]
	if !ok {
		return false
	}

	if c.clock.Since(authedAt) > c.ttl {
		delete(c.sessions, key)
		return false
	}

	return true
}

// Invalidate drops the session for wallet
func (c *SessionCache) Invalidate(wallet string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, domain.CacheKeyAddress(wallet))
}

// Len returns the number of cached sessions, expired ones included
func (c *SessionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
