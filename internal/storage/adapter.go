package storage

import (
	"context"
	"sync"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/resilience"
)

var tracer = otel.Tracer("storage")

// Adapter fronts the two mediums with one get/set/remove/clear surface.
//
// Write policy: best-effort write to the structured medium, then
// unconditionally to the fallback (the fallback copy is what survives a
// failed structured medium and what the session bootstrap reads), then
// a read-back presence check decides the reported success. The check
// tests presence only, it does not compare values.
//
// Read policy: structured medium first (through the circuit breaker), a
// present value wins; otherwise the fallback. Medium faults are logged
// and skipped, never propagated: persistence failures are silent from
// the caller's point of view beyond the bool/absent return.
type Adapter struct {
	mu      sync.RWMutex
	primary Medium // nil while degraded

	fallback Medium
	breaker  *gobreaker.CircuitBreaker
	retry    resilience.Config
	gate     *Gate
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewAdapter wires the fallback medium; the structured medium is
// attached by Open.
func NewAdapter(fallback Medium, retry resilience.Config, logger *zap.Logger, metrics *observability.Metrics) *Adapter {
	return &Adapter{
		fallback: fallback,
		breaker:  resilience.NewCircuitBreaker("structured-medium"),
		retry:    retry,
		gate:     NewGate(),
		logger:   logger,
		metrics:  metrics,
	}
}

// Open attempts the structured medium exactly once. Failure is
// non-fatal: the adapter stays permanently degraded to the fallback for
// this process lifetime. The readiness gate flips either way.
func (a *Adapter) Open(openPrimary func() (Medium, error)) {
	if openPrimary != nil {
		p, err := openPrimary()
		if err != nil {
			a.logger.Warn("structured medium unavailable, running degraded", zap.Error(err))
		} else {
			a.mu.Lock()
			a.primary = p
			a.mu.Unlock()
			a.logger.Info("structured medium opened")
		}
	}
	a.gate.Ready()
}

// Gate exposes the readiness barrier to dependents.
func (a *Adapter) Gate() *Gate { return a.gate }

// Degraded reports whether the structured medium is absent.
func (a *Adapter) Degraded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.primary == nil
}

func (a *Adapter) primaryMedium() Medium {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.primary
}

type getResult struct {
	value string
	found bool
}

// Get returns the value for key, or absent. Structured medium first; a
// present value wins, anything else falls through.
func (a *Adapter) Get(ctx context.Context, key string) (string, bool) {
	ctx, span := tracer.Start(ctx, "Adapter.Get")
	span.SetAttributes(attribute.String("key", key))
	defer span.End()

	if p := a.primaryMedium(); p != nil {
		res, err := a.breaker.Execute(func() (any, error) {
			v, ok, err := p.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			return getResult{value: v, found: ok}, nil
		})
		if err != nil {
			a.metrics.IncrStorageOp("primary", "fault")
			a.logger.Warn("primary get failed", zap.String("key", key), zap.Error(err))
		} else {
			a.metrics.IncrStorageOp("primary", "ok")
			if r := res.(getResult); r.found {
				return r.value, true
			}
		}
	}

	v, ok, err := a.fallback.Get(ctx, key)
	if err != nil {
		a.metrics.IncrStorageOp("fallback", "fault")
		a.logger.Warn("fallback get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	a.metrics.IncrStorageOp("fallback", "ok")
	return v, ok
}

// Set dual-writes one key and reports whether it reads back as present.
func (a *Adapter) Set(ctx context.Context, key, value string) bool {
	return a.SetMulti(ctx, map[string]string{key: value})
}

// SetMulti dual-writes several keys; on the structured medium they
// commit in a single transaction. Success means every key reads back
// as present afterwards.
func (a *Adapter) SetMulti(ctx context.Context, values map[string]string) bool {
	ctx, span := tracer.Start(ctx, "Adapter.SetMulti")
	span.SetAttributes(attribute.Int("keys", len(values)))
	defer span.End()

	if len(values) == 0 {
		return true
	}

	if p := a.primaryMedium(); p != nil {
		_, err := a.breaker.Execute(func() (any, error) {
			return nil, p.SetMulti(ctx, values)
		})
		if err != nil {
			a.metrics.IncrStorageOp("primary", "fault")
			a.logger.Warn("primary write failed", zap.Int("keys", len(values)), zap.Error(err))
		} else {
			a.metrics.IncrStorageOp("primary", "ok")
		}
	}

	// The fallback write is retried: it is the last line of durability.
	err := resilience.RetryWithBackoff(ctx, a.retry, func() error {
		return a.fallback.SetMulti(ctx, values)
	})
	if err != nil {
		a.metrics.IncrStorageOp("fallback", "fault")
		a.logger.Warn("fallback write failed", zap.Int("keys", len(values)), zap.Error(err))
	} else {
		a.metrics.IncrStorageOp("fallback", "ok")
	}

	for key := range values {
		if _, ok := a.Get(ctx, key); !ok {
			a.logger.Error("write verification failed", zap.String("key", key))
			return false
		}
	}
	return true
}

// Remove deletes the key from both mediums. Faults are logged only.
func (a *Adapter) Remove(ctx context.Context, key string) {
	ctx, span := tracer.Start(ctx, "Adapter.Remove")
	span.SetAttributes(attribute.String("key", key))
	defer span.End()

	if p := a.primaryMedium(); p != nil {
		if _, err := a.breaker.Execute(func() (any, error) {
			return nil, p.Remove(ctx, key)
		}); err != nil {
			a.metrics.IncrStorageOp("primary", "fault")
			a.logger.Warn("primary remove failed", zap.String("key", key), zap.Error(err))
		} else {
			a.metrics.IncrStorageOp("primary", "ok")
		}
	}
	if err := a.fallback.Remove(ctx, key); err != nil {
		a.metrics.IncrStorageOp("fallback", "fault")
		a.logger.Warn("fallback remove failed", zap.String("key", key), zap.Error(err))
	} else {
		a.metrics.IncrStorageOp("fallback", "ok")
	}
}

// ClearAll wipes both mediums.
func (a *Adapter) ClearAll(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "Adapter.ClearAll")
	defer span.End()

	if p := a.primaryMedium(); p != nil {
		if _, err := a.breaker.Execute(func() (any, error) {
			return nil, p.Clear(ctx)
		}); err != nil {
			a.logger.Warn("primary clear failed", zap.Error(err))
		}
	}
	if err := a.fallback.Clear(ctx); err != nil {
		a.logger.Warn("fallback clear failed", zap.Error(err))
	}
}

// FallbackGet reads a key directly from the simple medium. The session
// bootstrap uses this before the collection cache is initialized.
func (a *Adapter) FallbackGet(ctx context.Context, key string) (string, bool) {
	v, ok, err := a.fallback.Get(ctx, key)
	if err != nil {
		a.logger.Warn("fallback get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

// FallbackSet writes a key directly to the simple medium, awaited.
func (a *Adapter) FallbackSet(ctx context.Context, key, value string) bool {
	if err := a.fallback.Set(ctx, key, value); err != nil {
		a.logger.Warn("fallback set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// FallbackRemove deletes a key directly from the simple medium.
func (a *Adapter) FallbackRemove(ctx context.Context, key string) {
	if err := a.fallback.Remove(ctx, key); err != nil {
		a.logger.Warn("fallback remove failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases both mediums.
func (a *Adapter) Close() error {
	var firstErr error
	if p := a.primaryMedium(); p != nil {
		if err := p.Close(); err != nil {
			firstErr = err
		}
	}
	if err := a.fallback.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
