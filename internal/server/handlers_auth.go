package server

import (
	"errors"
	"net/http"

	"todolist/internal/identity"
	"todolist/internal/notify"
	"todolist/internal/validation"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	if !validation.Validate(in.Email, validation.Required).Valid ||
		!validation.Validate(in.Password, validation.Required).Valid {
		errorJSON(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if res := validation.Validate(in.Email, validation.Email); !res.Valid {
		errorJSON(w, http.StatusBadRequest, res.Errors[0])
		return
	}
	if res := validation.Validate(in.Password, validation.Password); !res.Valid {
		errorJSON(w, http.StatusBadRequest, res.Errors[0])
		return
	}

	data, err := s.identity.SignUp(r.Context(), in.Email, in.Password)
	if errors.Is(err, identity.ErrEmailTaken) {
		errorJSON(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, notify.Message(err))
		return
	}
	writeJSON(w, http.StatusCreated, data)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	data, err := s.identity.SignInWithPassword(r.Context(), in.Email, in.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		errorJSON(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, notify.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleSignOut revokes the presented token. Requests without a token still
// succeed, matching the provider's idempotent sign-out.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := s.identity.RevokeToken(r.Context(), token); err != nil {
			errorJSON(w, http.StatusInternalServerError, notify.Message(err))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r))
}
