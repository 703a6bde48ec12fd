package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"todolist/internal/backend"
	"todolist/internal/notify"
	"todolist/internal/validation"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context(), userFrom(r).ID)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, notify.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in backend.CategoryInsert
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	if res := validation.Validate(in.Name, validation.CategoryName); !res.Valid {
		errorJSON(w, http.StatusBadRequest, "Category name is required")
		return
	}

	in.UserID = userFrom(r).ID
	category, err := s.store.InsertCategory(r.Context(), in)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, notify.Message(err))
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		errorJSON(w, http.StatusBadRequest, "Category ID is required")
		return
	}

	if err := s.store.DeleteCategory(r.Context(), userFrom(r).ID, id); err != nil {
		errorJSON(w, http.StatusInternalServerError, notify.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
