package store

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Collection is the typed in-memory mirror of one list-shaped
// collection key. Reads copy out; mutations run under the write lock
// and enqueue persistence of the whole collection.
type Collection[T any] struct {
	st    *Store
	key   string
	mu    sync.RWMutex
	items []T
}

// NewCollection registers a collection with the store. Must run before
// Store.Initialize.
func NewCollection[T any](st *Store, key string) *Collection[T] {
	c := &Collection[T]{st: st, key: key}
	st.register(key, c.load)
	return c
}

func (c *Collection[T]) load(ctx context.Context, payload string, found bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if found {
		var items []T
		if err := json.Unmarshal([]byte(payload), &items); err != nil {
			c.st.logger.Warn("corrupt collection payload, reseeding",
				zap.String("key", c.key), zap.Error(err))
		} else {
			c.items = items
			return nil
		}
	}

	// Seed the empty default, awaited, so a reload before any write
	// still observes a well-formed value.
	c.items = []T{}
	if ok := c.st.adapter.Set(ctx, c.key, "[]"); !ok {
		c.st.logger.Warn("seed write not verified", zap.String("key", c.key))
	}
	return nil
}

// All returns a copy of the collection.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.st.metrics.IncrCacheHit(c.key)
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Update applies fn under the write lock and enqueues persistence of
// the result. fn receives the live slice and returns the replacement.
func (c *Collection[T]) Update(fn func(items []T) []T) {
	c.mu.Lock()
	c.items = fn(c.items)
	payload := c.marshalLocked()
	c.mu.Unlock()
	c.st.enqueue(c.key, payload, false)
}

// Stage applies fn in memory and returns (key, payload) without
// enqueueing, for multi-collection commits through Store.CommitBatch.
func (c *Collection[T]) Stage(fn func(items []T) []T) (string, string) {
	c.mu.Lock()
	c.items = fn(c.items)
	payload := c.marshalLocked()
	c.mu.Unlock()
	return c.key, payload
}

// Key returns the collection's persisted key.
func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) marshalLocked() string {
	raw, err := json.Marshal(c.items)
	if err != nil {
		// Only reachable with unmarshalable domain types.
		c.st.logger.Error("collection marshal failed", zap.String("key", c.key), zap.Error(err))
		return "[]"
	}
	return string(raw)
}

// Singleton is the typed mirror of one singleton key (session,
// settings). A nil seed means the key may legitimately be absent.
type Singleton[T any] struct {
	st    *Store
	key   string
	seed  func() T
	mu    sync.RWMutex
	value *T
}

// NewSingleton registers a singleton with the store. Must run before
// Store.Initialize.
func NewSingleton[T any](st *Store, key string, seed func() T) *Singleton[T] {
	s := &Singleton[T]{st: st, key: key, seed: seed}
	st.register(key, s.load)
	return s
}

func (s *Singleton[T]) load(ctx context.Context, payload string, found bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if found {
		var v T
		if err := json.Unmarshal([]byte(payload), &v); err != nil {
			s.st.logger.Warn("corrupt singleton payload, reseeding",
				zap.String("key", s.key), zap.Error(err))
		} else {
			s.value = &v
			return nil
		}
	}

	if s.seed == nil {
		s.value = nil
		return nil
	}
	v := s.seed()
	s.value = &v
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if ok := s.st.adapter.Set(ctx, s.key, string(raw)); !ok {
		s.st.logger.Warn("seed write not verified", zap.String("key", s.key))
	}
	return nil
}

// Get returns the value and whether one is present.
func (s *Singleton[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.st.metrics.IncrCacheHit(s.key)
	if s.value == nil {
		var zero T
		return zero, false
	}
	return *s.value, true
}

// Set replaces the value and enqueues persistence.
func (s *Singleton[T]) Set(v T) {
	s.mu.Lock()
	s.value = &v
	raw, err := json.Marshal(v)
	s.mu.Unlock()
	if err != nil {
		s.st.logger.Error("singleton marshal failed", zap.String("key", s.key), zap.Error(err))
		return
	}
	s.st.enqueue(s.key, string(raw), false)
}

// Clear removes the value and enqueues removal from both mediums.
func (s *Singleton[T]) Clear() {
	s.mu.Lock()
	s.value = nil
	s.mu.Unlock()
	s.st.enqueue(s.key, "", true)
}

// Key returns the singleton's persisted key.
func (s *Singleton[T]) Key() string { return s.key }
