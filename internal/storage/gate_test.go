package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/storage"
)

func TestGateReady(t *testing.T) {
	g := storage.NewGate()

	if g.IsReady() {
		t.Fatal("gate should start not ready")
	}

	g.Ready()
	if !g.IsReady() {
		t.Fatal("gate should be ready after Ready")
	}

	// Ready is idempotent.
	g.Ready()
	if !g.IsReady() {
		t.Fatal("gate should stay ready")
	}
}

func TestGateOnReadyBlocks(t *testing.T) {
	g := storage.NewGate()

	released := make(chan error, 1)
	go func() {
		released <- g.OnReady(context.Background())
	}()

	select {
	case <-released:
		t.Fatal("OnReady returned before Ready")
	case <-time.After(20 * time.Millisecond):
	}

	g.Ready()

	select {
	case err := <-released:
		if err != nil {
			t.Fatalf("OnReady: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("OnReady did not return after Ready")
	}
}

func TestGateOnReadyContextCancel(t *testing.T) {
	g := storage.NewGate()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.OnReady(ctx); err == nil {
		t.Fatal("expected context error from OnReady")
	}
}
