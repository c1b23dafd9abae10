package handler

import (
	"net/http"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Customers & App Codes
// ============================================================

// listCustomersHandler lists the authenticated vendor's customers.
// ?q= filters by a case-insensitive substring match.
func listCustomersHandler(customers *repository.CustomerRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/customers")
		defer span.End()

		vendorID := UserIDFromContext(r.Context())
		var result []domain.Customer
		if q := r.URL.Query().Get("q"); q != "" {
			result = customers.Search(q, vendorID)
		} else {
			result = customers.GetByVendor(vendorID)
		}
		if result == nil {
			result = []domain.Customer{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"customers": result})
	}
}

func createCustomerHandler(customers *repository.CustomerRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/customers")
		defer span.End()

		var req domain.NewCustomer
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.VendorID == "" {
			req.VendorID = UserIDFromContext(ctx)
		}

		customer, err := customers.Create(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.String("app_code", customer.AppCode))
		writeJSON(w, http.StatusCreated, customer)
	}
}

func getCustomerHandler(customers *repository.CustomerRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/customers/{customerId}")
		defer span.End()

		id := chi.URLParam(r, "customerId")
		customer, ok := customers.GetByID(id)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "customer", ID: id}, logger)
			return
		}
		writeJSON(w, http.StatusOK, customer)
	}
}

func updateCustomerHandler(customers *repository.CustomerRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "PUT /v1/customers/{customerId}")
		defer span.End()

		var patch domain.CustomerPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		customer, err := customers.Update(chi.URLParam(r, "customerId"), patch)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, customer)
	}
}

func deleteCustomerHandler(customers *repository.CustomerRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "DELETE /v1/customers/{customerId}")
		defer span.End()

		customers.Delete(chi.URLParam(r, "customerId"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func listAppCodesHandler(codes *repository.AppCodeRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/app-codes")
		defer span.End()

		result := codes.GetByVendor(UserIDFromContext(r.Context()))
		if result == nil {
			result = []domain.AppCode{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"appCodes": result})
	}
}

func updateAppCodeStatusHandler(codes *repository.AppCodeRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "PUT /v1/app-codes/{code}/status")
		defer span.End()

		var req struct {
			Status string `json:"status"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Status == "" {
			writeError(w, http.StatusBadRequest, "status is required")
			return
		}

		code, err := codes.UpdateStatus(chi.URLParam(r, "code"), req.Status)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, code)
	}
}
