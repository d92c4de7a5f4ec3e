package redis

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection persists a whole document collection as one JSON array under a
// single namespaced key. Mutations are whole-value read-modify-write; there
// is no optimistic locking, so concurrent writers to the same collection can
// lose updates (acceptable for a low-traffic admin surface).
type Collection[T any] struct {
	client *Client
	key    string
}

// NewCollection binds a typed collection to its backing key.
func NewCollection[T any](client *Client, name string) *Collection[T] {
	return &Collection[T]{client: client, key: client.CollectionKey(name)}
}

// Key returns the backing redis key.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the full collection. A missing key is an empty collection,
// never an error.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.client.Get(ctx, c.key)
	if err != nil {
		if IsMissing(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("loading collection %s: %w", c.key, err)
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding collection %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save overwrites the full collection in a single write.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding collection %s: %w", c.key, err)
	}
	if err := c.client.Set(ctx, c.key, string(raw), 0); err != nil {
		return fmt.Errorf("saving collection %s: %w", c.key, err)
	}
	return nil
}
