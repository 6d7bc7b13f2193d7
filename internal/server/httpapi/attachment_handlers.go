package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

type beginAttachmentRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

type beginAttachmentResponse struct {
	Attachment *models.Attachment `json:"attachment"`
	UploadURL  string             `json:"upload_url"`
}

// handleBeginAttachment records a pending attachment and hands back a
// presigned PUT URL; the client uploads the blob straight to object
// storage and then calls confirm.
func (s *Server) handleBeginAttachment(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req beginAttachmentRequest
	if !s.decode(w, r, &req) {
		return
	}
	a, url, err := s.svc.Attachments.Begin(r.Context(), user.ID, chi.URLParam(r, "projectID"), req.FileName, req.ContentType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, beginAttachmentResponse{Attachment: a, UploadURL: url})
}

func (s *Server) handleConfirmAttachment(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	a, err := s.svc.Attachments.Confirm(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAttachmentURL(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	url, err := s.svc.Attachments.DownloadURL(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"download_url": url})
}

func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	list, err := s.svc.Attachments.List(r.Context(), user.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	if err := s.svc.Attachments.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
