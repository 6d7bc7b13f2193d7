package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
)

// ErrorResponse is the uniform error payload of the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.Error(context.Background(), "encoding response failed", "error", err)
		}
	}
}

// writeError translates service sentinels to HTTP statuses. Anything
// unrecognized becomes a generic 500; internal detail stays in the logs.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var status int
	var kind string
	switch {
	case errors.Is(err, common.ErrorInvalidArgument),
		errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrWeakPassword):
		status, kind = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrorUnauthorized):
		status, kind = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrDuplicateEmail):
		status, kind = http.StatusConflict, "conflict"
	case errors.Is(err, common.ErrorNotFound):
		status, kind = http.StatusNotFound, "not_found"
	default:
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "an internal error occurred",
		})
		return
	}
	s.writeJSON(w, status, ErrorResponse{Error: kind, Message: err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "malformed JSON body",
		})
		return false
	}
	return true
}
