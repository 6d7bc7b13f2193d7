package models

import "time"

// Part statuses.
const (
	PartStatusNeeded    = "needed"
	PartStatusOrdered   = "ordered"
	PartStatusReceived  = "received"
	PartStatusInstalled = "installed"
)

// Part is a component needed for a project. Monetary amounts across the
// model are stored in cents.
type Part struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	VendorID   *string   `json:"vendor_id,omitempty"`
	Name       string    `json:"name"`
	PartNumber string    `json:"part_number"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ValidPartStatus(s string) bool {
	switch s {
	case PartStatusNeeded, PartStatusOrdered, PartStatusReceived, PartStatusInstalled:
		return true
	}
	return false
}
