package domain

import "time"

// ============================================================
// Customers and application codes
// ============================================================

// CustomerStatus is the installation lifecycle state. Vendors may set
// values beyond the predefined ones.
type CustomerStatus string

const (
	CustomerStatusPending   CustomerStatus = "pending"
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusSuspended CustomerStatus = "suspended"
)

// DefaultPanelRating is the assumed per-panel wattage when a vendor
// does not supply one.
const DefaultPanelRating = 400

// Customer is a solar installation managed by exactly one vendor.
// AppCode is globally unique and immutable after creation.
type Customer struct {
	ID             string         `json:"id"`
	AppCode        string         `json:"appCode"`
	VendorID       string         `json:"vendorId"`
	Name           string         `json:"name"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	SystemCapacity float64        `json:"systemCapacity"` // kW
	Panels         int            `json:"panels"`
	PanelRating    int            `json:"panelRating"` // W per panel
	Status         CustomerStatus `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
}

// NewCustomer carries the vendor-supplied fields for customer creation.
// The id, app code and status are assigned by the repository.
type NewCustomer struct {
	VendorID       string  `json:"vendorId"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	SystemCapacity float64 `json:"systemCapacity"`
	Panels         int     `json:"panels"`
	PanelRating    int     `json:"panelRating"`
}

// CustomerPatch is a partial update; AppCode and VendorID are immutable
// and deliberately absent.
type CustomerPatch struct {
	Name           *string         `json:"name,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Address        *string         `json:"address,omitempty"`
	SystemCapacity *float64        `json:"systemCapacity,omitempty"`
	Panels         *int            `json:"panels,omitempty"`
	PanelRating    *int            `json:"panelRating,omitempty"`
	Status         *CustomerStatus `json:"status,omitempty"`
}

// AppCode is the shareable identifier issued per customer, format
// BSV-<year>-<4-digit sequence>. CustomerID is empty between code
// reservation and customer insertion.
type AppCode struct {
	Code       string     `json:"code"`
	VendorID   string     `json:"vendorId"`
	CustomerID string     `json:"customerId,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}
