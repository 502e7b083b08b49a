package media

import (
	"time"

	"github.com/karlseguin/ccache/v2"
)

const (
	// DefaultCacheSize bounds the number of distinct header values kept by
	// a ParseCache before least recently used entries are pruned.
	DefaultCacheSize = 1024

	// DefaultCacheTTL bounds how long a parsed header value stays cached.
	DefaultCacheTTL = time.Hour
)

// ParseCache memoizes Parse results. Clients send a small set of distinct
// Accept headers, so parsing each value once per TTL window is enough.
// Callers must treat returned slices as read only.
type ParseCache struct {
	lru *ccache.Cache
	ttl time.Duration
}

// NewParseCache builds a cache holding up to maxSize distinct header values
// for ttl each. Non positive arguments fall back to the defaults.
func NewParseCache(maxSize int64, ttl time.Duration) *ParseCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ParseCache{
		lru: ccache.New(ccache.Configure().
			MaxSize(maxSize).
			ItemsToPrune(uint32(max(int64(1), maxSize/16)))),
		ttl: ttl,
	}
}

// Parse is equivalent to the package level Parse but serves repeated header
// values from the cache.
func (c *ParseCache) Parse(header string) []Type {
	if header == "" {
		return []Type{All}
	}
	if item := c.lru.Get(header); item != nil && !item.Expired() {
		return item.Value().([]Type)
	}
	types := Parse(header)
	c.lru.Set(header, types, c.ttl)
	return types
}
