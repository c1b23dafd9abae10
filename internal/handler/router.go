package handler

import (
	"net/http"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/service"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/storage"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Deps bundles everything the router needs.
type Deps struct {
	Repos   *repository.Repos
	Auth    *service.AuthService
	Prod    *service.ProductionService
	Calc    *service.CalculatorService
	Store   *store.Store
	Adapter *storage.Adapter
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger

	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(d.Adapter))
	r.Get("/readyz", readyzHandler(d.Adapter))
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// ============================================
		// Authentication (public)
		// ============================================
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authRegisterHandler(d.Auth, logger))
			r.Post("/login/vendor", vendorLoginHandler(d.Auth, logger))
			r.Post("/login/customer", customerLoginHandler(d.Auth, logger))

			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(d.Auth, logger))
				r.Post("/logout", authLogoutHandler(d.Auth, logger))
				r.Get("/session", authSessionHandler(d.Auth, logger))
			})
		})

		// ============================================
		// Calculators (public, no account needed)
		// ============================================
		r.Route("/calculators", func(r chi.Router) {
			r.Post("/energy", calcEnergyHandler(d.Calc, logger))
			r.Post("/savings", calcSavingsHandler(d.Calc, logger))
			r.Post("/power", calcPowerHandler(d.Calc, logger))
			r.Post("/battery", calcBatteryHandler(d.Calc, logger))
			r.Post("/roof-area", calcRoofAreaHandler(d.Calc, logger))
			r.Post("/temperature", calcTempDerateHandler(d.Calc, logger))
			r.Get("/history", calcHistoryHandler(d.Calc, logger))
		})

		// ============================================
		// Protected domain routes
		// ============================================
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(d.Auth, logger))

			// Customers & app codes
			r.Get("/customers", listCustomersHandler(d.Repos.Customers, logger))
			r.Post("/customers", createCustomerHandler(d.Repos.Customers, logger))
			r.Get("/customers/{customerId}", getCustomerHandler(d.Repos.Customers, logger))
			r.Put("/customers/{customerId}", updateCustomerHandler(d.Repos.Customers, logger))
			r.Delete("/customers/{customerId}", deleteCustomerHandler(d.Repos.Customers, logger))
			r.Get("/app-codes", listAppCodesHandler(d.Repos.AppCodes, logger))
			r.Put("/app-codes/{code}/status", updateAppCodeStatusHandler(d.Repos.AppCodes, logger))

			// Documents
			r.Get("/customers/{customerId}/documents", listDocumentsHandler(d.Repos.Documents, logger))
			r.Post("/customers/{customerId}/documents", uploadDocumentHandler(d.Repos.Documents, logger))
			r.Get("/documents/{documentId}", getDocumentHandler(d.Repos.Documents, logger))
			r.Delete("/documents/{documentId}", deleteDocumentHandler(d.Repos.Documents, logger))
			r.Get("/documents/usage", documentUsageHandler(d.Repos.Documents, logger))

			// Messages
			r.Post("/messages", sendMessageHandler(d.Repos.Messages, logger))
			r.Get("/messages/conversations", listConversationsHandler(d.Repos.Messages, logger))
			r.Get("/messages/conversations/{partnerId}", getConversationHandler(d.Repos.Messages, logger))
			r.Post("/messages/read", markMessagesReadHandler(d.Repos.Messages, logger))
			r.Get("/messages/unread-count", unreadCountHandler(d.Repos.Messages, logger))

			// Production
			r.Post("/customers/{customerId}/production/today", generateTodayHandler(d.Prod, d.Repos.Customers, logger))
			r.Get("/customers/{customerId}/production/weekly", weeklyProductionHandler(d.Prod, logger))
			r.Get("/customers/{customerId}/production/monthly", monthlyProductionHandler(d.Prod, logger))
			r.Get("/customers/{customerId}/production/stats", productionStatsHandler(d.Prod, logger))

			// Settings
			r.Get("/settings", getSettingsHandler(d.Repos.Settings, logger))
			r.Put("/settings", updateSettingsHandler(d.Repos.Settings, logger))

			// Storage introspection & durability
			r.Get("/metrics/storage", storageMetricsHandler(d.Metrics, d.Adapter, logger))
			r.Post("/store/flush", flushHandler(d.Store, logger))
		})
	})

	return r
}

// ============================================================
// Health & readiness
// ============================================================

func healthzHandler(adapter *storage.Adapter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		if adapter.Degraded() {
			status = "degraded"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   status,
			"degraded": adapter.Degraded(),
		})
	}
}

func readyzHandler(adapter *storage.Adapter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !adapter.Gate().IsReady() {
			writeError(w, http.StatusServiceUnavailable, "storage not ready")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
