package tokencache

import (
	"sync"
	"time"

	ierrors "github.com/jrsteele09/go-implicit-auth/internal/errors"
	"golang.org/x/oauth2"
)

// MemoryCache is an in-memory Cache. Entries live for the process lifetime.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]entry // clientID -> username -> entry
	ttl     time.Duration
	now     func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Set(key Key, token *oauth2.Token) error {
	if err := key.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key.ClientID]; !ok {
		c.entries[key.ClientID] = make(map[string]entry)
	}
	c.entries[key.ClientID][key.Username] = newEntry(token, c.now(), c.ttl)
	return nil
}

func (c *MemoryCache) Get(key Key) (*oauth2.Token, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key.ClientID][key.Username]
	if !ok {
		return nil, ierrors.Wrapf(ErrNotFound, "[MemoryCache Get] %s", key.ClientID)
	}
	if e.expired(c.now()) {
		return nil, ierrors.Wrapf(ErrExpired, "[MemoryCache Get] %s", key.ClientID)
	}
	return e.Token, nil
}

func (c *MemoryCache) Delete(key Key) error {
	if err := key.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	users, ok := c.entries[key.ClientID]
	if !ok {
		return nil
	}
	delete(users, key.Username)
	if len(users) == 0 {
		delete(c.entries, key.ClientID)
	}
	return nil
}
