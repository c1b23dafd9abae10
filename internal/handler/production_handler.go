package handler

import (
	"net/http"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Production data
// ============================================================

// generateTodayHandler returns today's reading for the customer,
// synthesizing it on first call. Capacity comes from the customer
// record; repeated calls within a day return the same curve.
func generateTodayHandler(prod *service.ProductionService, customers *repository.CustomerRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/customers/{customerId}/production/today")
		defer span.End()

		customerID := chi.URLParam(r, "customerId")
		span.SetAttributes(attribute.String("customer.id", customerID))

		customer, ok := customers.GetByID(customerID)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "customer", ID: customerID}, logger)
			return
		}

		reading := prod.GenerateDailyData(ctx, customerID, customer.SystemCapacity)
		writeJSON(w, http.StatusOK, reading)
	}
}

func weeklyProductionHandler(prod *service.ProductionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/{customerId}/production/weekly")
		defer span.End()

		days := prod.WeeklyData(ctx, chi.URLParam(r, "customerId"))
		writeJSON(w, http.StatusOK, map[string]any{"days": days})
	}
}

func monthlyProductionHandler(prod *service.ProductionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/{customerId}/production/monthly")
		defer span.End()

		days := prod.MonthlyData(ctx, chi.URLParam(r, "customerId"))
		writeJSON(w, http.StatusOK, map[string]any{"days": days})
	}
}

func productionStatsHandler(prod *service.ProductionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/{customerId}/production/stats")
		defer span.End()

		stats := prod.Stats(ctx, chi.URLParam(r, "customerId"))
		writeJSON(w, http.StatusOK, stats)
	}
}
