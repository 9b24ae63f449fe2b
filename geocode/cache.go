package geocode

import (
	"strings"
	"time"

	"github.com/bluele/gcache"
)

// Cache memoizes geocode responses, including authoritative-empty ones,
// keyed by the normalized query. A nil *Cache is a valid no-op cache.
type Cache struct {
	lru gcache.Cache
}

func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{
		lru: gcache.New(size).LRU().Expiration(ttl).Build(),
	}
}

// cacheKey collapses case and interior whitespace so retries of the same
// phrase hit the same entry.
func cacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func (c *Cache) get(key string) ([]Place, bool) {
	if c == nil {
		return nil, false
	}
	v, err := c.lru.Get(key)
	if err != nil {
		return nil, false
	}
	places, ok := v.([]Place)
	return places, ok
}

func (c *Cache) set(key string, places []Place) {
	if c == nil {
		return
	}
	_ = c.lru.Set(key, places)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len(true)
}
