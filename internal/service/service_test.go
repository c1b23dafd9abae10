package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/resilience"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/storage"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"
)

// newTestRepos spins up the full storage stack in a temp directory.
func newTestRepos(t *testing.T) *repository.Repos {
	t.Helper()
	dir := t.TempDir()

	fallback, err := storage.OpenFile(filepath.Join(dir, "fallback.json"))
	if err != nil {
		t.Fatalf("open fallback: %v", err)
	}
	retry := resilience.Config{MaxRetries: 1, InitialBackoff: time.Millisecond}
	metrics := observability.NewMetrics()
	adapter := storage.NewAdapter(fallback, retry, zap.NewNop(), metrics)
	adapter.Open(func() (storage.Medium, error) {
		return storage.OpenBolt(filepath.Join(dir, "primary.db"))
	})

	st := store.New(adapter, zap.NewNop(), metrics)
	repos := repository.New(st, adapter, zap.NewNop(), metrics)
	if err := st.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(func() { st.Shutdown(context.Background()) })
	return repos
}
