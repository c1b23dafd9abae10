// Package store holds the in-memory mirror of every persisted
// collection. Reads are synchronous against memory; writes update
// memory immediately and are persisted asynchronously through the
// storage adapter by a coalescing, versioned write queue. Durability
// can be awaited explicitly with Flush or Save.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/storage"
)

type pendingWrite struct {
	payload string
	remove  bool
	version uint64
}

type loader struct {
	key  string
	load func(ctx context.Context, payload string, found bool) error
}

// Store owns the collection cache and the write queue. It is
// constructed once per process and passed to repositories, which
// register their collections before Initialize is called.
type Store struct {
	adapter *storage.Adapter
	logger  *zap.Logger
	metrics *observability.Metrics

	loaders []loader

	qmu        sync.Mutex
	qcond      *sync.Cond
	pending    map[string]pendingWrite
	latest     map[string]uint64
	persisted  map[string]uint64
	inflight   bool
	closed     bool
	started    bool
	workerDone chan struct{}
}

// New creates an uninitialized store over the adapter.
func New(adapter *storage.Adapter, logger *zap.Logger, metrics *observability.Metrics) *Store {
	s := &Store{
		adapter:    adapter,
		logger:     logger,
		metrics:    metrics,
		pending:    make(map[string]pendingWrite),
		latest:     make(map[string]uint64),
		persisted:  make(map[string]uint64),
		workerDone: make(chan struct{}),
	}
	s.qcond = sync.NewCond(&s.qmu)
	return s
}

func (s *Store) register(key string, load func(ctx context.Context, payload string, found bool) error) {
	s.loaders = append(s.loaders, loader{key: key, load: load})
}

// Initialize awaits storage readiness, performs one adapter read per
// registered collection (concurrently), seeds defaults for missing
// keys, and starts the persistence worker. Must be called after every
// repository has registered its collections.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.adapter.Gate().OnReady(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range s.loaders {
		l := l
		g.Go(func() error {
			payload, found := s.adapter.Get(gctx, l.key)
			if !found {
				s.metrics.IncrCacheMiss(l.key)
			}
			return l.load(gctx, payload, found)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	go s.worker()
	s.started = true
	s.logger.Info("collection cache initialized",
		zap.Int("collections", len(s.loaders)),
		zap.Bool("degraded", s.adapter.Degraded()),
	)
	return nil
}

// enqueue records the latest in-memory version of key and wakes the
// worker. The caller does not wait: fire-and-forget per the cache
// contract.
func (s *Store) enqueue(key, payload string, remove bool) {
	s.qmu.Lock()
	s.latest[key]++
	s.pending[key] = pendingWrite{payload: payload, remove: remove, version: s.latest[key]}
	s.metrics.SetQueueDepth(len(s.pending))
	s.qcond.Broadcast()
	s.qmu.Unlock()
}

// CommitBatch enqueues several keys under one queue lock acquisition,
// so the worker persists them in a single structured-medium
// transaction. Used by compound operations (customer + app code).
func (s *Store) CommitBatch(entries map[string]string) {
	s.qmu.Lock()
	for key, payload := range entries {
		s.latest[key]++
		s.pending[key] = pendingWrite{payload: payload, version: s.latest[key]}
	}
	s.metrics.SetQueueDepth(len(s.pending))
	s.qcond.Broadcast()
	s.qmu.Unlock()
}

// worker drains the whole pending set each cycle into one SetMulti.
// Coalescing is last-write-wins per key, made explicit by the version
// numbers.
func (s *Store) worker() {
	defer close(s.workerDone)
	for {
		s.qmu.Lock()
		for len(s.pending) == 0 && !s.closed {
			s.qcond.Wait()
		}
		if len(s.pending) == 0 && s.closed {
			s.qmu.Unlock()
			return
		}
		batch := s.pending
		s.pending = make(map[string]pendingWrite)
		s.inflight = true
		s.metrics.SetQueueDepth(0)
		s.qmu.Unlock()

		ctx := context.Background()
		sets := make(map[string]string, len(batch))
		for key, w := range batch {
			if w.remove {
				s.adapter.Remove(ctx, key)
			} else {
				sets[key] = w.payload
			}
		}
		if len(sets) > 0 {
			if !s.adapter.SetMulti(ctx, sets) {
				s.logger.Warn("async persist not verified", zap.Int("keys", len(sets)))
			}
		}

		s.qmu.Lock()
		for key, w := range batch {
			if s.persisted[key] < w.version {
				s.persisted[key] = w.version
			}
		}
		s.inflight = false
		s.qcond.Broadcast()
		s.qmu.Unlock()
	}
}

// Flush blocks until every enqueued write has been handed to the
// adapter, or the context is cancelled.
func (s *Store) Flush(ctx context.Context) error {
	start := time.Now()
	stop := context.AfterFunc(ctx, func() {
		s.qmu.Lock()
		s.qcond.Broadcast()
		s.qmu.Unlock()
	})
	defer stop()

	s.qmu.Lock()
	defer s.qmu.Unlock()
	for (len(s.pending) > 0 || s.inflight) && ctx.Err() == nil {
		s.qcond.Wait()
	}
	s.metrics.ObserveFlush(time.Since(start))
	return ctx.Err()
}

// Save blocks until the latest enqueued version of one key has been
// persisted. Used by callers that need a specific write to land.
func (s *Store) Save(ctx context.Context, key string) error {
	stop := context.AfterFunc(ctx, func() {
		s.qmu.Lock()
		s.qcond.Broadcast()
		s.qmu.Unlock()
	})
	defer stop()

	s.qmu.Lock()
	defer s.qmu.Unlock()
	target := s.latest[key]
	for s.persisted[key] < target && ctx.Err() == nil {
		s.qcond.Wait()
	}
	return ctx.Err()
}

// Shutdown flushes, stops the worker and closes the mediums.
func (s *Store) Shutdown(ctx context.Context) error {
	err := s.Flush(ctx)

	s.qmu.Lock()
	if !s.closed {
		s.closed = true
		s.qcond.Broadcast()
	}
	s.qmu.Unlock()

	if s.started {
		select {
		case <-s.workerDone:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if cerr := s.adapter.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
