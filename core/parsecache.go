package core

import "time"

// ParseCache memoizes ParseRules over identical raw line-batch text,
// keyed by the joined text itself. Hosts that reload the same rule
// file across many State instances (e.g. one per player session) hit
// this instead of re-running the grammar every time.
type ParseCache struct {
	cache *Cache
}

// NewParseCache builds a cache holding up to limit entries, each
// valid for ttl. A non-positive limit disables caching (every Parse
// call always re-parses).
func NewParseCache(limit int, ttl time.Duration) *ParseCache {
	return &ParseCache{cache: NewCache(limit, ttl)}
}

// Parse returns the ParseRules result for key, computing and caching
// it on a miss.
func (c *ParseCache) Parse(key string, lines []string) ParsedRules {
	x, _ := c.cache.GetWith(key, func() (interface{}, error) {
		return ParseRules(lines), nil
	})
	if x == nil {
		return ParseRules(lines)
	}
	return x.(ParsedRules)
}

// Purge discards every cached parse result.
func (c *ParseCache) Purge() {
	c.cache.Purge()
}
