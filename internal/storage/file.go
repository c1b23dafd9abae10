package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileMedium is the simple string-keyed fallback: an in-memory string
// map mirrored to a flat JSON file with atomic renames. It is kept
// dependency-free because it is the medium of last resort when the
// structured store cannot open.
type FileMedium struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFile loads (or creates) the fallback file.
func OpenFile(path string) (*FileMedium, error) {
	m := &FileMedium{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m.data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return m, nil
}

func (m *FileMedium) Name() string { return "fallback" }

func (m *FileMedium) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *FileMedium) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return m.persistLocked()
}

func (m *FileMedium) SetMulti(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.data[k] = v
	}
	return m.persistLocked()
}

func (m *FileMedium) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return m.persistLocked()
}

func (m *FileMedium) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
	return m.persistLocked()
}

func (m *FileMedium) Close() error { return nil }

// persistLocked writes the whole map to a temp file and renames it over
// the target, so a crash mid-write never leaves a torn file.
func (m *FileMedium) persistLocked() error {
	raw, err := json.Marshal(m.data)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".fallback-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), m.path)
}
