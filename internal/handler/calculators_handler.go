package handler

import (
	"net/http"
	"strconv"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Calculators
// ============================================================

func calcEnergyHandler(calc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/calculators/energy")
		defer span.End()

		var req struct {
			SystemSizeKw float64 `json:"systemSizeKw"`
			SunHours     float64 `json:"sunHours,omitempty"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		est, err := calc.Energy(ctx, req.SystemSizeKw, req.SunHours)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, est)
	}
}

func calcSavingsHandler(calc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/calculators/savings")
		defer span.End()

		var req struct {
			MonthlyBill float64 `json:"monthlyBill"`
			Rate        float64 `json:"rate,omitempty"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		est, err := calc.Savings(ctx, req.MonthlyBill, req.Rate)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, est)
	}
}

func calcPowerHandler(calc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/calculators/power")
		defer span.End()

		var req struct {
			Watts float64 `json:"watts"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		conv, err := calc.Power(ctx, req.Watts)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, conv)
	}
}

func calcBatteryHandler(calc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/calculators/battery")
		defer span.End()

		var req struct {
			DailyUsageKwh float64 `json:"dailyUsageKwh"`
			BackupDays    int     `json:"backupDays,omitempty"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		est, err := calc.Battery(ctx, req.DailyUsageKwh, req.BackupDays)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, est)
	}
}

func calcRoofAreaHandler(calc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/calculators/roof-area")
		defer span.End()

		var req struct {
			SystemSizeKw float64 `json:"systemSizeKw"`
			PanelType    string  `json:"panelType,omitempty"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		est, err := calc.RoofArea(ctx, req.SystemSizeKw, req.PanelType)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, est)
	}
}

func calcTempDerateHandler(calc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/calculators/temperature")
		defer span.End()

		var req struct {
			PanelRatingW float64 `json:"panelRatingW,omitempty"`
			AmbientTempC float64 `json:"ambientTempC,omitempty"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		writeJSON(w, http.StatusOK, calc.TempDerate(ctx, req.PanelRatingW, req.AmbientTempC))
	}
}

func calcHistoryHandler(calc *service.CalculatorService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/calculators/history")
		defer span.End()

		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"history": calc.History(limit)})
	}
}
