package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/services"
)

type expenseRequest struct {
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	AmountCents  int64     `json:"amount_cents"`
	VendorID     *string   `json:"vendor_id"`
	AttachmentID *string   `json:"attachment_id"`
	SpentAt      time.Time `json:"spent_at"`
}

func (req *expenseRequest) input() services.ExpenseInput {
	return services.ExpenseInput{
		Category:     req.Category,
		Description:  req.Description,
		AmountCents:  req.AmountCents,
		VendorID:     req.VendorID,
		AttachmentID: req.AttachmentID,
		SpentAt:      req.SpentAt,
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req expenseRequest
	if !s.decode(w, r, &req) {
		return
	}
	e, err := s.svc.Expenses.Create(r.Context(), user.ID, chi.URLParam(r, "projectID"), req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	list, err := s.svc.Expenses.List(r.Context(), user.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	e, err := s.svc.Expenses.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req expenseRequest
	if !s.decode(w, r, &req) {
		return
	}
	e, err := s.svc.Expenses.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	if err := s.svc.Expenses.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExpenseReport(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	report, err := s.svc.Expenses.Report(r.Context(), user.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}
