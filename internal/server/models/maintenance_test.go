package models

import (
	"testing"
	"time"
)

func TestMaintenanceSchedule_DeriveStatus(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		nextDue time.Time
		want    string
	}{
		{"far in future", now.Add(30 * 24 * time.Hour), MaintenanceStatusUpcoming},
		{"just outside window", now.Add(MaintenanceDueWindow + time.Hour), MaintenanceStatusUpcoming},
		{"inside window", now.Add(3 * 24 * time.Hour), MaintenanceStatusDue},
		{"window boundary", now.Add(MaintenanceDueWindow), MaintenanceStatusDue},
		{"past", now.Add(-time.Minute), MaintenanceStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MaintenanceSchedule{NextDueAt: tt.nextDue}
			if got := m.DeriveStatus(now); got != tt.want {
				t.Fatalf("DeriveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSession_Usable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		s    Session
		want bool
	}{
		{"active and unexpired", Session{IsActive: true, ExpiresAt: now.Add(time.Hour)}, true},
		{"revoked", Session{IsActive: false, ExpiresAt: now.Add(time.Hour)}, false},
		{"expired but still flagged active", Session{IsActive: true, ExpiresAt: now.Add(-time.Second)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Usable(now); got != tt.want {
				t.Fatalf("Usable() = %v, want %v", got, tt.want)
			}
		})
	}
}
