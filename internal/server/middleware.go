package server

import (
	"context"
	"net/http"
	"strings"

	"todolist/internal/backend"
)

type contextKey string

const userKey contextKey = "user"

// requireAuth extracts the bearer token, resolves it to a user through the
// identity provider, and stores the user on the request context. Requests
// without a resolvable token get a 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			errorJSON(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := s.identity.UserFromToken(r.Context(), token)
		if err != nil {
			errorJSON(w, http.StatusUnauthorized, "invalid session")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func userFrom(r *http.Request) *backend.AuthUser {
	user, _ := r.Context().Value(userKey).(*backend.AuthUser)
	return user
}
