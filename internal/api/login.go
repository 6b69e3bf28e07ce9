package api

import (
	"net/http"
)

// LoginRequest is the body of POST /api/v1/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// handleLogin verifies the owner's password and issues a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.authenticator.Authenticate(req.Password); err != nil {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid password")
		return
	}

	token, err := s.jwtManager.Generate()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "internal", "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}
