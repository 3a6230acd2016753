package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a read-through, write-through LRU in front of a Store. Get serves
// recent keys from memory and falls back to the store; Put writes the store
// before the LRU. All methods are safe for concurrent use.
type Cache struct {
	store Store
	lru   *lru.Cache[string, []byte]
}

// NewCache creates a Cache holding up to size entries in memory. A size of
// zero or less uses the default.
func NewCache(store Store, size int) (*Cache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}

	l, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	return &Cache{store: store, lru: l}, nil
}

// Bootstrap warms the LRU with stored entries whose keys start with one of
// the prefixes. With no prefixes it loads nothing.
func (c *Cache) Bootstrap(ctx context.Context, prefixes ...string) error {
	if len(prefixes) == 0 {
		return nil
	}

	keys, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap index: %w", err)
	}

	var toLoad []string
	for _, key := range keys {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				toLoad = append(toLoad, key)
				break
			}
		}
	}

	if len(toLoad) == 0 {
		return nil
	}

	entries, err := c.store.Load(ctx, toLoad...)
	if err != nil {
		return fmt.Errorf("bootstrap load: %w", err)
	}

	for _, e := range entries {
		c.lru.Add(e.Key, e.Value)
	}

	return nil
}

// Get returns the value for key. A key missing from both the LRU and the
// store reports false with a nil error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if val, ok := c.lru.Get(key); ok {
		return slices.Clone(val), true, nil
	}

	entries, err := c.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	val := entries[0].Value
	c.lru.Add(key, val)
	return slices.Clone(val), true, nil
}

// Put persists value under key and records it in the LRU.
func (c *Cache) Put(ctx context.Context, key string, value []byte) error {
	val := slices.Clone(value)
	if err := c.store.Save(ctx, Entry{Key: key, Value: val}); err != nil {
		return err
	}
	c.lru.Add(key, val)
	return nil
}

// Delete removes keys from the store and the LRU.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.lru.Remove(key)
	}
	return c.store.Delete(ctx, keys...)
}

// Contains reports whether key is held in memory, without touching the store
// or the recency order.
func (c *Cache) Contains(key string) bool {
	return c.lru.Contains(key)
}

// Len returns the number of in-memory entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Clear deletes every stored entry whose key starts with prefix, along with
// its in-memory copy, and returns the number removed.
func (c *Cache) Clear(ctx context.Context, prefix string) (int, error) {
	keys, err := c.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}

	var matched []string
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}

	if err := c.Delete(ctx, matched...); err != nil {
		return 0, err
	}
	return len(matched), nil
}
