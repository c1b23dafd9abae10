package repository

import (
	"time"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"
)

// DocumentRepo owns the documents collection.
type DocumentRepo struct {
	col     *store.Collection[domain.Document]
	now     func() time.Time
	metrics *observability.Metrics
}

// GetAll returns every document.
func (r *DocumentRepo) GetAll() []domain.Document {
	return r.col.All()
}

// GetByID looks a document up by id.
func (r *DocumentRepo) GetByID(id string) (domain.Document, bool) {
	for _, d := range r.col.All() {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Document{}, false
}

// GetByCustomer returns one customer's documents.
func (r *DocumentRepo) GetByCustomer(customerID string) []domain.Document {
	var out []domain.Document
	for _, d := range r.col.All() {
		if d.CustomerID == customerID {
			out = append(out, d)
		}
	}
	return out
}

// GetByType returns one customer's documents of one type.
func (r *DocumentRepo) GetByType(customerID string, t domain.DocumentType) []domain.Document {
	var out []domain.Document
	for _, d := range r.GetByCustomer(customerID) {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// Create inserts a document.
func (r *DocumentRepo) Create(nd domain.NewDocument) (domain.Document, error) {
	defer observe(r.metrics, "documents.create", time.Now())
	if nd.CustomerID == "" {
		return domain.Document{}, &domain.ErrValidation{Field: "customerId", Message: "required"}
	}
	doc := domain.Document{
		ID:         NewID(),
		CustomerID: nd.CustomerID,
		Name:       nd.Name,
		Type:       nd.Type,
		Data:       nd.Data,
		Size:       nd.Size,
		CreatedAt:  r.now(),
	}
	r.col.Update(func(docs []domain.Document) []domain.Document {
		return append(docs, doc)
	})
	return doc, nil
}

// Delete removes a document by id, independent of its customer.
func (r *DocumentRepo) Delete(id string) {
	defer observe(r.metrics, "documents.delete", time.Now())
	r.col.Update(func(docs []domain.Document) []domain.Document {
		out := docs[:0]
		for _, d := range docs {
			if d.ID != id {
				out = append(out, d)
			}
		}
		return out
	})
}

// StorageUsed estimates total bytes held by document payloads. Payloads
// are base64, so the decoded size is ~75% of the stored text.
func (r *DocumentRepo) StorageUsed() float64 {
	var total float64
	for _, d := range r.col.All() {
		total += float64(len(d.Data)) * 0.75
	}
	return total
}
