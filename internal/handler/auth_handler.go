package handler

import (
	"net/http"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/service"
	"go.uber.org/zap"
)

// ============================================================
// Authentication
// ============================================================

func authRegisterHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/register")
		defer span.End()

		var req struct {
			Name     string `json:"name"`
			Phone    string `json:"phone"`
			Address  string `json:"address"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := authSvc.RegisterVendor(ctx, req.Name, req.Phone, req.Address, req.Password)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

func vendorLoginHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login/vendor")
		defer span.End()

		var req struct {
			Phone    string `json:"phone"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := authSvc.VendorLogin(ctx, req.Phone, req.Password)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func customerLoginHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login/customer")
		defer span.End()

		var req struct {
			Code    string `json:"code"`
			Phone   string `json:"phone"`
			Address string `json:"address,omitempty"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := authSvc.CustomerLogin(ctx, req.Code, req.Phone, req.Address)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func authLogoutHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/logout")
		defer span.End()

		authSvc.Logout(ctx)
		w.WriteHeader(http.StatusNoContent)
	}
}

func authSessionHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/auth/session")
		defer span.End()

		session, ok := authSvc.CurrentSession(ctx)
		if !ok {
			writeError(w, http.StatusUnauthorized, "no active session")
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}
