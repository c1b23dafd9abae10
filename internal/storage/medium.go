// Package storage implements the dual-backend key-value layer: a
// structured transactional medium (bbolt) with a simple string-keyed
// fallback (flat file, or redis when configured), wrapped by an adapter
// that dual-writes and falls back on reads.
package storage

import "context"

// Medium is one physical storage backend. Values are serialized
// structured text (JSON); keys are collection names.
type Medium interface {
	// Name identifies the medium in logs and metrics.
	Name() string

	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores one key.
	Set(ctx context.Context, key, value string) error

	// SetMulti stores several keys, atomically where the medium
	// supports transactions.
	SetMulti(ctx context.Context, values map[string]string) error

	// Remove deletes one key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear deletes every key.
	Clear(ctx context.Context) error

	// Close releases the medium's resources.
	Close() error
}
