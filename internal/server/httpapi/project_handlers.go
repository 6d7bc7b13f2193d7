package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/services"
)

type projectRequest struct {
	Title       string `json:"title"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (req *projectRequest) input() services.ProjectInput {
	return services.ProjectInput{
		Title:       req.Title,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Description: req.Description,
		Status:      req.Status,
	}
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req projectRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.svc.Projects.Create(r.Context(), user.ID, req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	list, err := s.svc.Projects.List(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	p, err := s.svc.Projects.Get(r.Context(), user.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req projectRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.svc.Projects.Update(r.Context(), user.ID, chi.URLParam(r, "projectID"), req.input())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	if err := s.svc.Projects.Delete(r.Context(), user.ID, chi.URLParam(r, "projectID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
