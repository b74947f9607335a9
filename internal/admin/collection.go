// Package admin keeps the back-office collections in step with the backend.
// Every successful mutation is followed by a wholesale refetch of the owning
// collection; nothing is patched locally.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/observability"
)

// ErrDetached is returned by Refresh when the collection was detached while
// the fetch was in flight. The fetched data is dropped.
var ErrDetached = errors.New("collection detached, result discarded")

// Fetcher loads a whole collection.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Collection is an owned in-memory snapshot of one backend resource.
type Collection[T any] struct {
	name  string
	fetch Fetcher[T]

	mu      sync.RWMutex
	items   []T
	loaded  bool
	lastErr error
	epoch   uint64
}

func NewCollection[T any](name string, fetch Fetcher[T]) *Collection[T] {
	return &Collection[T]{name: name, fetch: fetch, items: []T{}}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Refresh refetches the collection and replaces the snapshot wholesale.
// On failure the previous snapshot is kept and the error is remembered for
// LastError. Concurrent refreshes race; the last one to complete wins.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	c.mu.RLock()
	epoch := c.epoch
	c.mu.RUnlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		observability.CollectionRefreshes.WithLabelValues(c.name, "discarded").Inc()
		logging.Debugf("%s refresh finished after detach, discarding", c.name)
		return ErrDetached
	}
	if err != nil {
		observability.CollectionRefreshes.WithLabelValues(c.name, "failure").Inc()
		c.lastErr = err
		return fmt.Errorf("failed to fetch %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.loaded = true
	c.lastErr = nil
	observability.CollectionRefreshes.WithLabelValues(c.name, "success").Inc()
	observability.CollectionSize.WithLabelValues(c.name).Set(float64(len(items)))
	return nil
}

// Items returns a copy of the current snapshot.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the first item matching match.
func (c *Collection[T]) Find(match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the snapshot size.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Loaded reports whether at least one refresh has succeeded.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LastError is the error of the most recent failed refresh, cleared by the
// next successful one. A non-nil value means the view should offer a retry.
func (c *Collection[T]) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Detach marks every in-flight refresh as no longer relevant. Results that
// arrive afterwards are discarded. The current snapshot is left as is.
func (c *Collection[T]) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
}
