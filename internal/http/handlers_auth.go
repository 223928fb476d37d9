package http

import (
	"log/slog"
	"net/http"

	"toca/internal/core"
	applog "toca/internal/log"
)

type loginRequest struct {
	Role core.UserRole `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	u, err := s.sessions.Login(req.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	slog.InfoContext(r.Context(), "user logged in",
		applog.FieldOperation, applog.OpLogin,
		applog.FieldRole, string(u.Role))
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(); err != nil {
		writeDomainError(w, err)
		return
	}
	slog.InfoContext(r.Context(), "user logged out",
		applog.FieldOperation, applog.OpLogout)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request) {
	u, err := s.sessions.Current()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// requireUser gates endpoints open to both profiles.
func (s *Server) requireUser(w http.ResponseWriter) bool {
	if _, err := s.sessions.Current(); err != nil {
		writeDomainError(w, err)
		return false
	}
	return true
}

// requireAdmin gates the financial endpoints.
func (s *Server) requireAdmin(w http.ResponseWriter) bool {
	if _, err := s.sessions.RequireRole(core.RoleAdmin); err != nil {
		writeDomainError(w, err)
		return false
	}
	return true
}
