package repository

import (
	"time"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"
)

// ProductionRepo owns the production readings collection. Generation
// logic lives in the production service; the repo only stores and
// looks up readings.
type ProductionRepo struct {
	col     *store.Collection[domain.ProductionReading]
	now     func() time.Time
	metrics *observability.Metrics
}

// GetAll returns every reading.
func (r *ProductionRepo) GetAll() []domain.ProductionReading {
	return r.col.All()
}

// GetByCustomer returns one customer's readings in insertion order.
func (r *ProductionRepo) GetByCustomer(customerID string) []domain.ProductionReading {
	var out []domain.ProductionReading
	for _, p := range r.col.All() {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out
}

// GetByDate returns the customer's reading for one calendar day. At
// most one exists per (customerId, date).
func (r *ProductionRepo) GetByDate(customerID, date string) (domain.ProductionReading, bool) {
	for _, p := range r.col.All() {
		if p.CustomerID == customerID && p.Date == date {
			return p, true
		}
	}
	return domain.ProductionReading{}, false
}

// Insert stores a reading, assigning id and creation time when unset.
// The (customerId, date) uniqueness constraint is the caller's to
// honor; the generator checks before inserting.
func (r *ProductionRepo) Insert(reading domain.ProductionReading) domain.ProductionReading {
	defer observe(r.metrics, "production.insert", time.Now())
	if reading.ID == "" {
		reading.ID = NewID()
	}
	if reading.CreatedAt.IsZero() {
		reading.CreatedAt = r.now()
	}
	r.col.Update(func(readings []domain.ProductionReading) []domain.ProductionReading {
		return append(readings, reading)
	})
	return reading
}
