package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/services"
)

type partRequest struct {
	Name       string  `json:"name"`
	PartNumber string  `json:"part_number"`
	PriceCents int64   `json:"price_cents"`
	Quantity   int     `json:"quantity"`
	Status     string  `json:"status"`
	VendorID   *string `json:"vendor_id"`
}

func (req *partRequest) input() services.PartInput {
	return services.PartInput{
		Name:       req.Name,
		PartNumber: req.PartNumber,
		PriceCents: req.PriceCents,
		Quantity:   req.Quantity,
		Status:     req.Status,
		VendorID:   req.VendorID,
	}
}

func (s *Server) handleCreatePart(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req partRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.svc.Parts.Create(r.Context(), user.ID, chi.URLParam(r, "projectID"), req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListParts(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	list, err := s.svc.Parts.List(r.Context(), user.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPart(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	p, err := s.svc.Parts.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePart(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req partRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.svc.Parts.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePart(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	if err := s.svc.Parts.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
