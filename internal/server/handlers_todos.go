package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"todolist/internal/backend"
	"todolist/internal/notify"
	"todolist/internal/validation"
)

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.store.ListTodos(r.Context(), userFrom(r).ID)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, notify.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var in backend.TodoInsert
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	if res := validation.Validate(in.Title, validation.TodoTitle); !res.Valid {
		errorJSON(w, http.StatusBadRequest, "Todo title is required")
		return
	}
	if in.Priority != "" && !in.Priority.Valid() {
		errorJSON(w, http.StatusBadRequest, "invalid priority")
		return
	}

	in.UserID = userFrom(r).ID
	todo, err := s.store.InsertTodo(r.Context(), in)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, notify.Message(err))
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		errorJSON(w, http.StatusBadRequest, "Todo ID is required")
		return
	}

	var patch backend.TodoUpdate
	if err := decodeJSON(r, &patch); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		errorJSON(w, http.StatusBadRequest, "invalid priority")
		return
	}

	todo, err := s.store.UpdateTodo(r.Context(), userFrom(r).ID, id, patch)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		errorJSON(w, http.StatusNotFound, "Todo not found")
		return
	}
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, notify.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		errorJSON(w, http.StatusBadRequest, "Todo ID is required")
		return
	}

	if err := s.store.DeleteTodo(r.Context(), userFrom(r).ID, id); err != nil {
		errorJSON(w, http.StatusInternalServerError, notify.Message(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
