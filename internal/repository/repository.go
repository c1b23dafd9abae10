// Package repository provides one repository per domain collection,
// layered on the store's collection cache: synchronous reads,
// fire-and-forget persistence underneath.
package repository

import (
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/storage"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"
)

// Persisted collection keys.
const (
	KeyUsers       = "users"
	KeyCustomers   = "customers"
	KeyAppCodes    = "app_codes"
	KeyDocuments   = "documents"
	KeyMessages    = "messages"
	KeyProduction  = "production"
	KeySession     = "session"
	KeySettings    = "settings"
	KeyCalcHistory = "calc_history"
)

var tracer = otel.Tracer("repository")

// NewID returns a random identifier for new records. UUIDv4 carries 122
// bits of entropy, making collisions negligible without a uniqueness
// check against existing ids.
func NewID() string {
	return uuid.NewString()
}

// observe records the duration of one mutating repository operation.
// Use with defer and time.Now().
func observe(m *observability.Metrics, op string, start time.Time) {
	m.RecordRepoOp(op, time.Since(start))
}

// Repos bundles every repository over one store.
type Repos struct {
	Users       *UserRepo
	Customers   *CustomerRepo
	AppCodes    *AppCodeRepo
	Documents   *DocumentRepo
	Messages    *MessageRepo
	Production  *ProductionRepo
	Session     *SessionRepo
	Settings    *SettingsRepo
	CalcHistory *CalcHistoryRepo
}

// New registers all collections with the store. Call before
// store.Initialize so the startup load covers every key.
func New(st *store.Store, adapter *storage.Adapter, logger *zap.Logger, metrics *observability.Metrics) *Repos {
	codes := &AppCodeRepo{
		col:     store.NewCollection[domain.AppCode](st, KeyAppCodes),
		now:     time.Now,
		metrics: metrics,
	}
	return &Repos{
		Users: &UserRepo{
			col:     store.NewCollection[domain.User](st, KeyUsers),
			now:     time.Now,
			metrics: metrics,
		},
		Customers: &CustomerRepo{
			col:     store.NewCollection[domain.Customer](st, KeyCustomers),
			codes:   codes,
			st:      st,
			now:     time.Now,
			metrics: metrics,
		},
		AppCodes: codes,
		Documents: &DocumentRepo{
			col:     store.NewCollection[domain.Document](st, KeyDocuments),
			now:     time.Now,
			metrics: metrics,
		},
		Messages: &MessageRepo{
			col:     store.NewCollection[domain.Message](st, KeyMessages),
			now:     time.Now,
			metrics: metrics,
		},
		Production: &ProductionRepo{
			col:     store.NewCollection[domain.ProductionReading](st, KeyProduction),
			now:     time.Now,
			metrics: metrics,
		},
		Session: &SessionRepo{
			sing:    store.NewSingleton[domain.Session](st, KeySession, nil),
			adapter: adapter,
			logger:  logger,
			now:     time.Now,
			metrics: metrics,
		},
		Settings: &SettingsRepo{
			sing:    store.NewSingleton[domain.Settings](st, KeySettings, domain.DefaultSettings),
			metrics: metrics,
		},
		CalcHistory: &CalcHistoryRepo{
			col:     store.NewCollection[domain.CalcEntry](st, KeyCalcHistory),
			now:     time.Now,
			metrics: metrics,
		},
	}
}
