package cache

import (
	"encoding/json"
	"time"
)

// Substrate is the backing key/value store. Implementations are best-effort:
// a failed Store is ignored and a failed Load reads as a miss, so a broken
// substrate degrades the cache to a pass-through, never to an error.
type Substrate interface {
	Load(key string) ([]byte, bool)
	Store(key string, data []byte) error
}

// entry is the persisted envelope: write time plus the cached value.
type entry struct {
	T int64           `json:"t"`
	V json.RawMessage `json:"v"`
}

// Cache is a TTL cache over a Substrate. TTL is supplied per Get call so one
// cache instance serves stages with different freshness requirements.
type Cache struct {
	sub Substrate
	now func() time.Time
}

// New creates a Cache over the given substrate.
func New(sub Substrate) *Cache {
	return &Cache{sub: sub, now: time.Now}
}

// Get loads key into out and reports whether a live entry was found.
// Entries older than ttl, missing entries and undecodable entries all
// read as a miss.
func (c *Cache) Get(key string, ttl time.Duration, out any) bool {
	raw, ok := c.sub.Load(key)
	if !ok {
		return false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return false
	}
	if c.now().Sub(time.UnixMilli(e.T)) > ttl {
		return false
	}
	if err := json.Unmarshal(e.V, out); err != nil {
		return false
	}
	return true
}

// Set stores v under key, stamped with the current time. Serialization or
// substrate failures are swallowed; a lost write is just a future miss.
func (c *Cache) Set(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	data, err := json.Marshal(entry{T: c.now().UnixMilli(), V: raw})
	if err != nil {
		return
	}
	_ = c.sub.Store(key, data)
}
