package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type budgetRequest struct {
	Category     string `json:"category"`
	PlannedCents int64  `json:"planned_cents"`
}

// handleSetBudget upserts the planned amount for one category; there is
// at most one budget line per (project, category).
func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req budgetRequest
	if !s.decode(w, r, &req) {
		return
	}
	item, err := s.svc.Budgets.Set(r.Context(), user.ID, chi.URLParam(r, "projectID"), req.Category, req.PlannedCents)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleListBudget(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	list, err := s.svc.Budgets.List(r.Context(), user.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	if err := s.svc.Budgets.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
