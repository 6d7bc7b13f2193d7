package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/services"
)

type vendorRequest struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

func (req *vendorRequest) input() services.VendorInput {
	return services.VendorInput{
		Name:    req.Name,
		Website: req.Website,
		Phone:   req.Phone,
		Notes:   req.Notes,
	}
}

func (s *Server) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req vendorRequest
	if !s.decode(w, r, &req) {
		return
	}
	v, err := s.svc.Vendors.Create(r.Context(), user.ID, req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	list, err := s.svc.Vendors.List(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetVendor(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	v, err := s.svc.Vendors.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleUpdateVendor(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req vendorRequest
	if !s.decode(w, r, &req) {
		return
	}
	v, err := s.svc.Vendors.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeleteVendor(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	if err := s.svc.Vendors.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
