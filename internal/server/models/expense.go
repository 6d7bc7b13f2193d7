package models

import "time"

// Expense is a spend record against a project, optionally tied to a vendor
// and a receipt attachment.
type Expense struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	AmountCents  int64     `json:"amount_cents"`
	VendorID     *string   `json:"vendor_id,omitempty"`
	AttachmentID *string   `json:"attachment_id,omitempty"`
	SpentAt      time.Time `json:"spent_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// CategoryTotal is one row of the per-category expense report; PlannedCents
// is zero when the project has no budget item for the category.
type CategoryTotal struct {
	Category     string `json:"category"`
	SpentCents   int64  `json:"spent_cents"`
	PlannedCents int64  `json:"planned_cents"`
	DeltaCents   int64  `json:"delta_cents"`
}

// MonthTotal is one row of the per-month expense report. Month is rendered
// as "2006-01".
type MonthTotal struct {
	Month      string `json:"month"`
	SpentCents int64  `json:"spent_cents"`
}

// ExpenseReport aggregates a project's expenses against its budget.
type ExpenseReport struct {
	ProjectID  string          `json:"project_id"`
	TotalCents int64           `json:"total_cents"`
	ByCategory []CategoryTotal `json:"by_category"`
	ByMonth    []MonthTotal    `json:"by_month"`
}
