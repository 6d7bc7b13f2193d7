package httpapi

import (
	"context"
	"net/http"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

// SessionCookieName is the cookie carrying the opaque bearer token.
const SessionCookieName = "cajpro_session"

// SessionValidator resolves a bearer token to its user, returning
// (nil, nil) for every unauthenticated outcome.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*models.User, error)
}

// contextKey keeps context values private to this package.
type contextKey int

const userKey contextKey = iota

// requireAuth rejects requests whose session cookie does not resolve to
// an active user, and otherwise stores the user in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		user, err := s.validator.Validate(r.Context(), token)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if user == nil {
			s.writeJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "authentication required",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// UserFromContext returns the authenticated user stored by requireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
