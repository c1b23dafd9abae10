package handler

import (
	"net/http"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"

	"go.uber.org/zap"
)

// ============================================================
// Settings
// ============================================================

func getSettingsHandler(settings *repository.SettingsRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/settings")
		defer span.End()

		writeJSON(w, http.StatusOK, settings.Get())
	}
}

func updateSettingsHandler(settings *repository.SettingsRepo, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "PUT /v1/settings")
		defer span.End()

		var patch domain.SettingsPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		writeJSON(w, http.StatusOK, settings.Update(patch))
	}
}
