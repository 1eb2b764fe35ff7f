package artwork

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/llehouerou/airwaves/internal/metadata"
)

// Store persists lookup results. An empty url records a lookup that found
// nothing. found is false when the key is unknown or expired.
type Store interface {
	GetArtwork(key string) (rawURL string, found bool, err error)
	PutArtwork(key, rawURL string) error
}

// maxMemo bounds the in-memory memo; the oldest half is dropped when full.
const maxMemo = 512

// Cached memoizes another resolver's results in memory and optionally in a
// Store. Misses are memoized in memory only without a Store, so the Store's
// shorter miss expiry applies. Failed lookups are not cached.
type Cached struct {
	next  Resolver
	store Store

	mu    sync.Mutex
	mem   map[string]string
	order []string
}

// NewCached wraps next. store may be nil.
func NewCached(next Resolver, store Store) *Cached {
	return &Cached{
		next:  next,
		store: store,
		mem:   make(map[string]string),
	}
}

// CacheKey normalizes metadata into a lookup key.
func CacheKey(md metadata.Metadata) string {
	return strings.ToLower(md.Artist) + "\x1f" + strings.ToLower(md.Track)
}

// Resolve implements Resolver.
func (c *Cached) Resolve(ctx context.Context, md metadata.Metadata) (*url.URL, error) {
	if md.IsEmpty() {
		return nil, nil
	}
	key := CacheKey(md)

	c.mu.Lock()
	raw, ok := c.mem[key]
	c.mu.Unlock()
	if ok {
		return parseURL(raw)
	}

	if c.store != nil {
		if raw, found, err := c.store.GetArtwork(key); err == nil && found {
			c.remember(key, raw)
			return parseURL(raw)
		}
	}

	u, err := c.next.Resolve(ctx, md)
	if err != nil {
		return nil, err
	}
	raw = ""
	if u != nil {
		raw = u.String()
	}
	c.remember(key, raw)
	if c.store != nil {
		_ = c.store.PutArtwork(key, raw) //nolint:errcheck // a failed write means a repeat lookup later
	}
	return u, nil
}

func (c *Cached) remember(key, raw string) {
	if raw == "" && c.store != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.mem[key]; ok {
		c.mem[key] = raw
		return
	}
	if len(c.order) >= maxMemo {
		drop := c.order[:maxMemo/2]
		for _, k := range drop {
			delete(c.mem, k)
		}
		c.order = append([]string(nil), c.order[maxMemo/2:]...)
	}
	c.mem[key] = raw
	c.order = append(c.order, key)
}

// memoLen returns the number of memoized keys.
func (c *Cached) memoLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mem)
}
