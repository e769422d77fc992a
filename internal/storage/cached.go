package storage

import (
	"context"
	"encoding/json"
	"time"

	"finboard/internal/cache"
)

// Cached is a read-through cache in front of another provider. Writes go to
// the inner provider and drop the cached copy, so the next read reflects what
// the inner provider actually kept.
type Cached struct {
	inner Provider
	cache cache.Cache[[]Record]
}

// NewCached wraps inner with an LRU cache whose entries expire after ttl.
// The returned *cache.LRUCache can be registered with a cache.Manager.
func NewCached(inner Provider, ttl time.Duration) (*Cached, *cache.LRUCache[[]Record]) {
	lru := cache.NewLRUCache[[]Record](len(Collections()), ttl)
	return &Cached{inner: inner, cache: lru}, lru
}

func (c *Cached) Kind() Kind { return c.inner.Kind() }

// Unwrap returns the decorated provider.
func (c *Cached) Unwrap() Provider { return c.inner }

func (c *Cached) Read(ctx context.Context, coll Collection) ([]Record, bool, error) {
	if records, ok := c.cache.Get(coll.Key()); ok {
		return clone(records), true, nil
	}

	records, found, err := c.inner.Read(ctx, coll)
	if err != nil || !found {
		return records, found, err
	}
	c.cache.Set(coll.Key(), clone(records))
	return records, true, nil
}

func (c *Cached) Write(ctx context.Context, coll Collection, records []Record) error {
	err := c.inner.Write(ctx, coll, records)
	c.cache.Delete(coll.Key())
	return err
}

func (c *Cached) Close() error { return c.inner.Close() }

func clone(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Record{ID: r.ID, Data: append(json.RawMessage(nil), r.Data...)}
	}
	return out
}
