package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ledgerly/backend/internal/auth"
)

// RequireAuth wraps a handler so it only runs for requests carrying a valid
// owner session token in the Authorization header.
func RequireAuth(jwtManager *auth.JWTManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, auth.ErrMissingToken)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(w, auth.ErrInvalidToken)
			return
		}

		if _, err := jwtManager.Validate(parts[1]); err != nil {
			unauthorized(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
