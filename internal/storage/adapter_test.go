package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/resilience"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/storage"
)

func newTestAdapter(t *testing.T, withPrimary bool) *storage.Adapter {
	t.Helper()
	dir := t.TempDir()

	fallback, err := storage.OpenFile(filepath.Join(dir, "fallback.json"))
	if err != nil {
		t.Fatalf("open fallback: %v", err)
	}

	retry := resilience.Config{MaxRetries: 1, InitialBackoff: time.Millisecond}
	a := storage.NewAdapter(fallback, retry, zap.NewNop(), observability.NewMetrics())

	if withPrimary {
		a.Open(func() (storage.Medium, error) {
			return storage.OpenBolt(filepath.Join(dir, "primary.db"))
		})
	} else {
		a.Open(func() (storage.Medium, error) {
			return nil, errors.New("primary unavailable")
		})
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAdapterRoundTrip(t *testing.T) {
	a := newTestAdapter(t, true)
	ctx := context.Background()

	if a.Degraded() {
		t.Fatal("adapter should not be degraded with a working primary")
	}
	if !a.Gate().IsReady() {
		t.Fatal("gate should be ready after Open")
	}

	if ok := a.Set(ctx, "users", `[{"id":"u1"}]`); !ok {
		t.Fatal("set should verify")
	}

	v, ok := a.Get(ctx, "users")
	if !ok {
		t.Fatal("expected users key to be present")
	}
	if v != `[{"id":"u1"}]` {
		t.Errorf("unexpected value: %s", v)
	}

	if _, ok := a.Get(ctx, "missing"); ok {
		t.Error("missing key should be absent")
	}
}

func TestAdapterDegradedStillWorks(t *testing.T) {
	a := newTestAdapter(t, false)
	ctx := context.Background()

	if !a.Degraded() {
		t.Fatal("adapter should be degraded when the primary fails to open")
	}
	if !a.Gate().IsReady() {
		t.Fatal("gate must flip ready even when degraded")
	}

	if ok := a.Set(ctx, "settings", `{"theme":"dark"}`); !ok {
		t.Fatal("degraded set should still verify against the fallback")
	}
	v, ok := a.Get(ctx, "settings")
	if !ok || v != `{"theme":"dark"}` {
		t.Errorf("degraded get = %q, %v", v, ok)
	}
}

func TestAdapterSetMultiAndRemove(t *testing.T) {
	a := newTestAdapter(t, true)
	ctx := context.Background()

	values := map[string]string{
		"customers": `[{"id":"c1"}]`,
		"app_codes": `[{"code":"BSV-2026-0001"}]`,
	}
	if ok := a.SetMulti(ctx, values); !ok {
		t.Fatal("batch set should verify")
	}
	for key, want := range values {
		got, ok := a.Get(ctx, key)
		if !ok || got != want {
			t.Errorf("key %s = %q, %v; want %q", key, got, ok, want)
		}
	}

	a.Remove(ctx, "customers")
	if _, ok := a.Get(ctx, "customers"); ok {
		t.Error("removed key should be absent")
	}
	if _, ok := a.Get(ctx, "app_codes"); !ok {
		t.Error("untouched key should survive a remove of another key")
	}
}

func TestAdapterClearAll(t *testing.T) {
	a := newTestAdapter(t, true)
	ctx := context.Background()

	a.Set(ctx, "a", "1")
	a.Set(ctx, "b", "2")
	a.ClearAll(ctx)

	if _, ok := a.Get(ctx, "a"); ok {
		t.Error("key a should be gone after ClearAll")
	}
	if _, ok := a.Get(ctx, "b"); ok {
		t.Error("key b should be gone after ClearAll")
	}
}

func TestAdapterFallbackDirectAccess(t *testing.T) {
	a := newTestAdapter(t, true)
	ctx := context.Background()

	if ok := a.FallbackSet(ctx, "session", `{"userId":"u1"}`); !ok {
		t.Fatal("fallback set failed")
	}
	v, ok := a.FallbackGet(ctx, "session")
	if !ok || v != `{"userId":"u1"}` {
		t.Errorf("fallback get = %q, %v", v, ok)
	}

	a.FallbackRemove(ctx, "session")
	if _, ok := a.FallbackGet(ctx, "session"); ok {
		t.Error("fallback key should be gone after remove")
	}
}

func TestGetFallsBackWhenPrimaryMisses(t *testing.T) {
	a := newTestAdapter(t, true)
	ctx := context.Background()

	// The session bootstrap duplicate lands only on the simple medium.
	// A healthy adapter's combined Get must still find it there after
	// the primary reports the key absent.
	if ok := a.FallbackSet(ctx, "session", `{"userId":"u1"}`); !ok {
		t.Fatal("fallback set failed")
	}
	v, ok := a.Get(ctx, "session")
	if !ok {
		t.Fatal("key present only in the fallback should be found by Get")
	}
	if v != `{"userId":"u1"}` {
		t.Errorf("get = %q, want the fallback value", v)
	}
}

func TestFileMediumPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	ctx := context.Background()

	m, err := storage.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := m.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	m2, err := storage.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer m2.Close()

	v, ok, err := m2.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Errorf("get after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestBoltMediumPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.db")
	ctx := context.Background()

	m, err := storage.OpenBolt(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := m.SetMulti(ctx, map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("setmulti: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	m2, err := storage.OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer m2.Close()

	for key, want := range map[string]string{"a": "1", "b": "2"} {
		v, ok, err := m2.Get(ctx, key)
		if err != nil || !ok || v != want {
			t.Errorf("get %s after reopen = %q, %v, %v", key, v, ok, err)
		}
	}
}
