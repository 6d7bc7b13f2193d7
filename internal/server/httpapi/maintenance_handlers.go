package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/services"
)

type maintenanceRequest struct {
	Title        string    `json:"title"`
	Notes        string    `json:"notes"`
	IntervalDays int       `json:"interval_days"`
	NextDueAt    time.Time `json:"next_due_at"`
}

func (req *maintenanceRequest) input() services.MaintenanceInput {
	return services.MaintenanceInput{
		Title:        req.Title,
		Notes:        req.Notes,
		IntervalDays: req.IntervalDays,
		NextDueAt:    req.NextDueAt,
	}
}

func (s *Server) handleCreateMaintenance(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req maintenanceRequest
	if !s.decode(w, r, &req) {
		return
	}
	entry, err := s.svc.Maintenance.Create(r.Context(), user.ID, chi.URLParam(r, "projectID"), req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListMaintenance(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	list, err := s.svc.Maintenance.List(r.Context(), user.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetMaintenance(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	entry, err := s.svc.Maintenance.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleUpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req maintenanceRequest
	if !s.decode(w, r, &req) {
		return
	}
	entry, err := s.svc.Maintenance.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

// handleCompleteMaintenance marks one occurrence done and rolls the next
// due date forward by the entry's interval.
func (s *Server) handleCompleteMaintenance(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	entry, err := s.svc.Maintenance.Complete(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	if err := s.svc.Maintenance.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
