package handler

import (
	"net/http"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Documents
// ============================================================

// listDocumentsHandler returns one customer's documents, optionally
// filtered with ?type=warranty|quotation|utility|contracts.
func listDocumentsHandler(docs *repository.DocumentRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/customers/{customerId}/documents")
		defer span.End()

		customerID := chi.URLParam(r, "customerId")
		var result []domain.Document
		if t := r.URL.Query().Get("type"); t != "" {
			result = docs.GetByType(customerID, domain.DocumentType(t))
		} else {
			result = docs.GetByCustomer(customerID)
		}
		if result == nil {
			result = []domain.Document{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"documents": result})
	}
}

func uploadDocumentHandler(docs *repository.DocumentRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/customers/{customerId}/documents")
		defer span.End()

		var req domain.NewDocument
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.CustomerID = chi.URLParam(r, "customerId")

		doc, err := docs.Create(req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, doc)
	}
}

func getDocumentHandler(docs *repository.DocumentRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/documents/{documentId}")
		defer span.End()

		id := chi.URLParam(r, "documentId")
		doc, ok := docs.GetByID(id)
		if !ok {
			handleServiceError(w, &domain.ErrNotFound{Resource: "document", ID: id}, logger)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func deleteDocumentHandler(docs *repository.DocumentRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "DELETE /v1/documents/{documentId}")
		defer span.End()

		docs.Delete(chi.URLParam(r, "documentId"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func documentUsageHandler(docs *repository.DocumentRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/documents/usage")
		defer span.End()

		writeJSON(w, http.StatusOK, map[string]any{"bytesUsed": docs.StorageUsed()})
	}
}
