package models

import "time"

// Maintenance schedule statuses, derived from NextDueAt at read time.
const (
	MaintenanceStatusUpcoming = "upcoming"
	MaintenanceStatusDue      = "due"
	MaintenanceStatusOverdue  = "overdue"

	// MaintenanceDueWindow is how far ahead of NextDueAt an entry counts
	// as "due" rather than "upcoming".
	MaintenanceDueWindow = 7 * 24 * time.Hour
)

// MaintenanceSchedule is a recurring maintenance entry for a project.
// Status is not stored; it is computed from NextDueAt whenever the entry
// is read.
type MaintenanceSchedule struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Title        string    `json:"title"`
	Notes        string    `json:"notes"`
	IntervalDays int       `json:"interval_days"`
	NextDueAt    time.Time `json:"next_due_at"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DeriveStatus returns the schedule status at the given instant: overdue
// once NextDueAt has passed, due within MaintenanceDueWindow of it, and
// upcoming otherwise.
func (m *MaintenanceSchedule) DeriveStatus(now time.Time) string {
	switch {
	case now.After(m.NextDueAt):
		return MaintenanceStatusOverdue
	case m.NextDueAt.Sub(now) <= MaintenanceDueWindow:
		return MaintenanceStatusDue
	default:
		return MaintenanceStatusUpcoming
	}
}
