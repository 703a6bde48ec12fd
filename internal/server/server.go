// Package server exposes the application over HTTP: thin chi handlers that
// translate bearer-token requests into single backend operations.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"todolist/internal/backend"
)

// Server wires the identity provider and data store into an HTTP handler.
type Server struct {
	identity backend.Identity
	store    backend.Store
	origins  []string
}

func New(identity backend.Identity, store backend.Store, origins []string) *Server {
	return &Server{identity: identity, store: store, origins: origins}
}

// Handler builds the router: CORS, auth routes, and token-protected todo and
// category routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/api/auth/sign-up", s.handleSignUp)
	r.Post("/api/auth/sign-in", s.handleSignIn)
	r.Post("/api/auth/sign-out", s.handleSignOut)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/auth/me", s.handleMe)

		r.Get("/api/todos", s.handleListTodos)
		r.Post("/api/todos", s.handleCreateTodo)
		r.Put("/api/todos/{id}", s.handleUpdateTodo)
		r.Delete("/api/todos/{id}", s.handleDeleteTodo)

		r.Get("/api/categories", s.handleListCategories)
		r.Post("/api/categories", s.handleCreateCategory)
		r.Delete("/api/categories/{id}", s.handleDeleteCategory)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	return r
}
