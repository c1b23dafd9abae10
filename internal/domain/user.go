package domain

import "time"

// ============================================================
// Users: vendor and customer accounts
// ============================================================

// UserType distinguishes the two account kinds on the platform.
type UserType string

const (
	UserTypeVendor   UserType = "vendor"
	UserTypeCustomer UserType = "customer"
)

// User is a login account. Vendors manage customers; customer accounts
// link back to their Customer record via CustomerID.
//
// Passwords are stored in plain text: all state lives in the local store
// on the user's own machine, there is no remote authority to protect.
type User struct {
	ID         string     `json:"id"`
	Type       UserType   `json:"type"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Address    string     `json:"address"`
	Password   string     `json:"password"`
	CustomerID string     `json:"customerId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// NewUser carries the caller-supplied fields for account creation.
type NewUser struct {
	Type       UserType `json:"type"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	Password   string   `json:"password"`
	CustomerID string   `json:"customerId,omitempty"`
}

// UserPatch is a partial update. Only non-nil fields are applied;
// unknown fields are rejected at the handler boundary.
type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Password *string `json:"password,omitempty"`
}
