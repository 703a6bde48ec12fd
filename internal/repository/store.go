package repository

import (
	"context"

	"gorm.io/gorm"

	"todolist/internal/backend"
	"todolist/internal/model"
)

// Store aggregates the todo and category repositories behind the
// backend.Store contract consumed by state containers and route handlers.
type Store struct {
	todos      *TodoRepository
	categories *CategoryRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		todos:      NewTodoRepository(db),
		categories: NewCategoryRepository(db),
	}
}

func (s *Store) ListTodos(ctx context.Context, userID string) ([]model.Todo, error) {
	return s.todos.ListByUser(ctx, userID)
}

func (s *Store) InsertTodo(ctx context.Context, ins backend.TodoInsert) (*model.Todo, error) {
	return s.todos.Insert(ctx, ins)
}

func (s *Store) UpdateTodo(ctx context.Context, userID, id string, patch backend.TodoUpdate) (*model.Todo, error) {
	return s.todos.Update(ctx, userID, id, patch)
}

func (s *Store) DeleteTodo(ctx context.Context, userID, id string) error {
	return s.todos.Delete(ctx, userID, id)
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	return s.categories.ListByUser(ctx, userID)
}

func (s *Store) InsertCategory(ctx context.Context, ins backend.CategoryInsert) (*model.Category, error) {
	return s.categories.Insert(ctx, ins)
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	return s.categories.Delete(ctx, userID, id)
}
