package storage

import (
	"context"
	"sync"
)

// Gate is the one-way initialization barrier. Callers that ask before
// initialization completes are buffered and released exactly once;
// after the transition OnReady returns immediately. Degraded
// initialization (structured medium unavailable) still flips the gate,
// so callers must tolerate fallback-only operation.
type Gate struct {
	mu    sync.Mutex
	ready bool
	done  chan struct{}
}

// NewGate returns a gate in the NOT_READY state.
func NewGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Ready flips the gate. Subsequent calls are no-ops; there is no reset.
func (g *Gate) Ready() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready {
		return
	}
	g.ready = true
	close(g.done)
}

// IsReady reports the current state without blocking.
func (g *Gate) IsReady() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ready
}

// OnReady blocks until the gate is READY or the context is cancelled.
func (g *Gate) OnReady(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
