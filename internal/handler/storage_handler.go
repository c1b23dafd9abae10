package handler

import (
	"net/http"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/storage"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"

	"go.uber.org/zap"
)

// ============================================================
// Storage introspection & durability
// ============================================================

func storageMetricsHandler(metrics *observability.Metrics, adapter *storage.Adapter, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/metrics/storage")
		defer span.End()

		snapshot := metrics.GetStorageSnapshot()
		writeJSON(w, http.StatusOK, map[string]any{
			"degraded": adapter.Degraded(),
			"counters": snapshot,
		})
	}
}

// flushHandler drains the write queue before returning. Clients call it
// ahead of operations that must observe fully durable state.
func flushHandler(st *store.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/store/flush")
		defer span.End()

		if err := st.Flush(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "flushed"})
	}
}
