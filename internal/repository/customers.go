package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"
)

// CustomerRepo owns the customers collection and drives the compound
// customer/app-code creation.
type CustomerRepo struct {
	col     *store.Collection[domain.Customer]
	codes   *AppCodeRepo
	st      *store.Store
	mu      sync.Mutex // serializes app-code reservation
	now     func() time.Time
	metrics *observability.Metrics
}

// GetAll returns every customer.
func (r *CustomerRepo) GetAll() []domain.Customer {
	return r.col.All()
}

// GetByID looks a customer up by id.
func (r *CustomerRepo) GetByID(id string) (domain.Customer, bool) {
	for _, c := range r.col.All() {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// GetByVendor returns the customers owned by one vendor.
func (r *CustomerRepo) GetByVendor(vendorID string) []domain.Customer {
	var out []domain.Customer
	for _, c := range r.col.All() {
		if c.VendorID == vendorID {
			out = append(out, c)
		}
	}
	return out
}

// GetByAppCode looks a customer up by its application code.
func (r *CustomerRepo) GetByAppCode(code string) (domain.Customer, bool) {
	for _, c := range r.col.All() {
		if c.AppCode == code {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// Search filters one vendor's customers by a case-insensitive substring
// match on name, phone, app code or address.
func (r *CustomerRepo) Search(query, vendorID string) []domain.Customer {
	q := strings.ToLower(query)
	var out []domain.Customer
	for _, c := range r.GetByVendor(vendorID) {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(c.Phone, q) ||
			strings.Contains(strings.ToLower(c.AppCode), q) ||
			strings.Contains(strings.ToLower(c.Address), q) {
			out = append(out, c)
		}
	}
	return out
}

// Create is the compound operation: reserve the next app code for the
// current calendar year, insert the pending AppCode record, insert the
// Customer referencing it, and back-patch the AppCode's customer id.
// All three dependent writes land through one batch commit, which the
// structured medium applies in a single transaction.
func (r *CustomerRepo) Create(ctx context.Context, nc domain.NewCustomer) (domain.Customer, error) {
	_, span := tracer.Start(ctx, "CustomerRepo.Create")
	defer span.End()
	defer observe(r.metrics, "customers.create", time.Now())

	if nc.VendorID == "" {
		return domain.Customer{}, &domain.ErrValidation{Field: "vendorId", Message: "required"}
	}
	if nc.Name == "" {
		return domain.Customer{}, &domain.ErrValidation{Field: "name", Message: "required"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	code := r.codes.nextCode(now.Year())
	span.SetAttributes(attribute.String("app_code", code))

	r.codes.col.Stage(func(codes []domain.AppCode) []domain.AppCode {
		return append(codes, domain.AppCode{
			Code:      code,
			VendorID:  nc.VendorID,
			Status:    "pending",
			CreatedAt: now,
		})
	})

	panelRating := nc.PanelRating
	if panelRating == 0 {
		panelRating = domain.DefaultPanelRating
	}
	customer := domain.Customer{
		ID:             NewID(),
		AppCode:        code,
		VendorID:       nc.VendorID,
		Name:           nc.Name,
		Phone:          nc.Phone,
		Address:        nc.Address,
		SystemCapacity: nc.SystemCapacity,
		Panels:         nc.Panels,
		PanelRating:    panelRating,
		Status:         domain.CustomerStatusPending,
		CreatedAt:      now,
	}
	custKey, custPayload := r.col.Stage(func(customers []domain.Customer) []domain.Customer {
		return append(customers, customer)
	})

	codeKey, codePayload := r.codes.col.Stage(func(codes []domain.AppCode) []domain.AppCode {
		for i := range codes {
			if codes[i].Code == code {
				codes[i].CustomerID = customer.ID
			}
		}
		return codes
	})

	r.st.CommitBatch(map[string]string{
		custKey: custPayload,
		codeKey: codePayload,
	})
	return customer, nil
}

// Update merges the non-nil patch fields and stamps UpdatedAt. AppCode
// and VendorID are immutable.
func (r *CustomerRepo) Update(id string, patch domain.CustomerPatch) (domain.Customer, error) {
	defer observe(r.metrics, "customers.update", time.Now())
	var updated domain.Customer
	found := false
	r.col.Update(func(customers []domain.Customer) []domain.Customer {
		for i := range customers {
			if customers[i].ID != id {
				continue
			}
			if patch.Name != nil {
				customers[i].Name = *patch.Name
			}
			if patch.Phone != nil {
				customers[i].Phone = *patch.Phone
			}
			if patch.Address != nil {
				customers[i].Address = *patch.Address
			}
			if patch.SystemCapacity != nil {
				customers[i].SystemCapacity = *patch.SystemCapacity
			}
			if patch.Panels != nil {
				customers[i].Panels = *patch.Panels
			}
			if patch.PanelRating != nil {
				customers[i].PanelRating = *patch.PanelRating
			}
			if patch.Status != nil {
				customers[i].Status = *patch.Status
			}
			ts := r.now()
			customers[i].UpdatedAt = &ts
			updated = customers[i]
			found = true
			break
		}
		return customers
	})
	if !found {
		return domain.Customer{}, &domain.ErrNotFound{Resource: "customer", ID: id}
	}
	return updated, nil
}

// Delete removes the customer. Documents, readings and the AppCode
// record are left in place; there is no cascade.
func (r *CustomerRepo) Delete(id string) {
	defer observe(r.metrics, "customers.delete", time.Now())
	r.col.Update(func(customers []domain.Customer) []domain.Customer {
		out := customers[:0]
		for _, c := range customers {
			if c.ID != id {
				out = append(out, c)
			}
		}
		return out
	})
}

// AppCodeRepo owns the app_codes collection.
type AppCodeRepo struct {
	col     *store.Collection[domain.AppCode]
	now     func() time.Time
	metrics *observability.Metrics
}

// GetAll returns every issued code.
func (r *AppCodeRepo) GetAll() []domain.AppCode {
	return r.col.All()
}

// GetByCode looks a record up by code value.
func (r *AppCodeRepo) GetByCode(code string) (domain.AppCode, bool) {
	for _, c := range r.col.All() {
		if c.Code == code {
			return c, true
		}
	}
	return domain.AppCode{}, false
}

// GetByVendor returns the codes issued by one vendor.
func (r *AppCodeRepo) GetByVendor(vendorID string) []domain.AppCode {
	var out []domain.AppCode
	for _, c := range r.col.All() {
		if c.VendorID == vendorID {
			out = append(out, c)
		}
	}
	return out
}

// UpdateStatus sets a code's status and stamps UpdatedAt.
func (r *AppCodeRepo) UpdateStatus(code, status string) (domain.AppCode, error) {
	defer observe(r.metrics, "app_codes.update_status", time.Now())
	var updated domain.AppCode
	found := false
	r.col.Update(func(codes []domain.AppCode) []domain.AppCode {
		for i := range codes {
			if codes[i].Code == code {
				codes[i].Status = status
				ts := r.now()
				codes[i].UpdatedAt = &ts
				updated = codes[i]
				found = true
				break
			}
		}
		return codes
	})
	if !found {
		return domain.AppCode{}, &domain.ErrNotFound{Resource: "app code", ID: code}
	}
	return updated, nil
}

// nextCode computes the next code for a calendar year: the count of
// that year's existing codes plus one. Sequence numbers are not reused
// after deletion; deleting a code record therefore makes the count
// collide, which is an accepted limitation of the count-based scheme.
func (r *AppCodeRepo) nextCode(year int) string {
	prefix := fmt.Sprintf("BSV-%d-", year)
	n := 1
	for _, c := range r.col.All() {
		if strings.HasPrefix(c.Code, prefix) {
			n++
		}
	}
	return fmt.Sprintf("%s%04d", prefix, n)
}
