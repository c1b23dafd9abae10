package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/service"
	"go.uber.org/zap"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userTypeKey contextKey = "userType"
)

// JWTAuthMiddleware validates Bearer tokens and injects the user id and
// type into the request context.
func JWTAuthMiddleware(authSvc *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "authentication token not provided")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			userID, userType, err := authSvc.ParseAccessToken(parts[1])
			if err != nil {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, userTypeKey, userType)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user id from context.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// UserTypeFromContext extracts the authenticated user type from context.
func UserTypeFromContext(ctx context.Context) domain.UserType {
	v, _ := ctx.Value(userTypeKey).(domain.UserType)
	return v
}
