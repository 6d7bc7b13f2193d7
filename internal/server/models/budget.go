package models

import "time"

// BudgetItem is a planned spend amount for one category of a project.
type BudgetItem struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Category     string    `json:"category"`
	PlannedCents int64     `json:"planned_cents"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
