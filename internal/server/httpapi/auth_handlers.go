package httpapi

import (
	"net/http"
	"time"

	"github.com/ivanuser/car-project-manager-sub002/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func clientMeta(r *http.Request) services.ClientMeta {
	meta := services.ClientMeta{}
	if ip := r.RemoteAddr; ip != "" {
		meta.IPAddress = &ip
	}
	if ua := r.UserAgent(); ua != "" {
		meta.UserAgent = &ua
	}
	return meta
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.svc.Auth.Register(r.Context(), req.Email, req.Password, clientMeta(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setSessionCookie(w, res.Token, res.ExpiresAt)
	s.writeJSON(w, http.StatusCreated, res.User)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password, clientMeta(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setSessionCookie(w, res.Token, res.ExpiresAt)
	s.writeJSON(w, http.StatusOK, res.User)
}

// handleLogout revokes the presented session, if any, and drops the
// cookie. It succeeds no matter what the cookie held.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if _, err := s.svc.Auth.Logout(r.Context(), token); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.clearSessionCookie(w)
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	s.writeJSON(w, http.StatusOK, user)
}

type profileRequest struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	p, err := s.svc.Auth.Profile(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req profileRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.svc.Auth.UpdateProfile(r.Context(), user.ID, req.FullName, req.AvatarURL, req.Bio)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}
