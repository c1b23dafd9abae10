package domain

import "time"

// ============================================================
// Documents: files attached to a customer installation
// ============================================================

// DocumentType classifies an uploaded document.
type DocumentType string

const (
	DocumentTypeWarranty  DocumentType = "warranty"
	DocumentTypeQuotation DocumentType = "quotation"
	DocumentTypeUtility   DocumentType = "utility"
	DocumentTypeContracts DocumentType = "contracts"
)

// Document is owned by exactly one customer. Data holds the file
// contents base64-encoded; Size is the decoded size in bytes.
// Documents are deleted independently of their customer (no cascade).
type Document struct {
	ID         string       `json:"id"`
	CustomerID string       `json:"customerId"`
	Name       string       `json:"name"`
	Type       DocumentType `json:"type"`
	Data       string       `json:"data"`
	Size       int64        `json:"size"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// NewDocument carries the caller-supplied fields for document creation.
type NewDocument struct {
	CustomerID string       `json:"customerId"`
	Name       string       `json:"name"`
	Type       DocumentType `json:"type"`
	Data       string       `json:"data"`
	Size       int64        `json:"size"`
}
