package store

import (
	"context"
	"log"
	"sort"
	"sync"

	"todolist/internal/backend"
	"todolist/internal/model"
)

// Filter selects which todos FilteredTodos returns.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Stats summarizes the cached collection.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
}

// TodoStore caches the signed-in user's todos and categories and keeps them
// in step with the backend: every mutation goes to the backend first and
// patches the local collections only on success. It is the sole writer of
// those collections.
type TodoStore struct {
	db   backend.Store
	auth *AuthStore

	mu               sync.Mutex
	todos            []model.Todo
	categories       []model.Category
	loading          bool
	filter           Filter
	selectedCategory *string
}

func NewTodoStore(db backend.Store, auth *AuthStore) *TodoStore {
	return &TodoStore{db: db, auth: auth, filter: FilterAll}
}

// Todos returns a copy of the cached todo collection.
func (s *TodoStore) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo(nil), s.todos...)
}

// Categories returns a copy of the cached category collection.
func (s *TodoStore) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.categories...)
}

func (s *TodoStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *TodoStore) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *TodoStore) SelectedCategory() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCategory
}

// SetFilter switches the status filter. No I/O.
func (s *TodoStore) SetFilter(f Filter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// SetSelectedCategory switches the category filter; nil clears it. No I/O.
func (s *TodoStore) SetSelectedCategory(categoryID *string) {
	s.mu.Lock()
	s.selectedCategory = categoryID
	s.mu.Unlock()
}

// FilteredTodos applies the status filter, then the category filter, and
// returns the survivors sorted by creation time, newest first. Recomputed on
// every call from the current state.
func (s *TodoStore) FilteredTodos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]model.Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		if s.filter == FilterActive && todo.Completed {
			continue
		}
		if s.filter == FilterCompleted && !todo.Completed {
			continue
		}
		if s.selectedCategory != nil {
			if todo.Category == nil || *todo.Category != *s.selectedCategory {
				continue
			}
		}
		filtered = append(filtered, todo)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered
}

// Stats counts the cached todos by completion state.
func (s *TodoStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed := 0
	for _, todo := range s.todos {
		if todo.Completed {
			completed++
		}
	}
	total := len(s.todos)
	return Stats{Total: total, Completed: completed, Active: total - completed}
}

// FetchTodos replaces the cached collection with the user's todos from the
// backend. Without a signed-in user it is a no-op.
func (s *TodoStore) FetchTodos(ctx context.Context) error {
	user := s.auth.User()
	if user == nil {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	todos, err := s.db.ListTodos(ctx, user.ID)
	if err != nil {
		log.Printf("[todos] fetch todos: %v", err)
		return err
	}

	s.mu.Lock()
	s.todos = todos
	s.mu.Unlock()
	return nil
}

// FetchCategories replaces the cached category collection. Without a
// signed-in user it is a no-op.
func (s *TodoStore) FetchCategories(ctx context.Context) error {
	user := s.auth.User()
	if user == nil {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	categories, err := s.db.ListCategories(ctx, user.ID)
	if err != nil {
		log.Printf("[todos] fetch categories: %v", err)
		return err
	}

	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return nil
}

// AddTodo inserts a todo scoped to the current user and prepends the created
// record to the cache. The caller's UserID is ignored; the session's user id
// is injected. Without a signed-in user it is a no-op.
func (s *TodoStore) AddTodo(ctx context.Context, ins backend.TodoInsert) (*model.Todo, error) {
	user := s.auth.User()
	if user == nil {
		return nil, nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	ins.UserID = user.ID
	todo, err := s.db.InsertTodo(ctx, ins)
	if err != nil {
		log.Printf("[todos] add todo: %v", err)
		return nil, err
	}

	s.mu.Lock()
	s.todos = append([]model.Todo{*todo}, s.todos...)
	s.mu.Unlock()
	return todo, nil
}

// UpdateTodo sends a partial update scoped to the current user and replaces
// the matching cached record in place. When the id is not cached locally the
// backend write still happens and the cache is left alone. Without a
// signed-in user it is a no-op.
func (s *TodoStore) UpdateTodo(ctx context.Context, id string, patch backend.TodoUpdate) (*model.Todo, error) {
	user := s.auth.User()
	if user == nil {
		return nil, nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	todo, err := s.db.UpdateTodo(ctx, user.ID, id, patch)
	if err != nil {
		log.Printf("[todos] update todo: %v", err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i] = *todo
			break
		}
	}
	s.mu.Unlock()
	return todo, nil
}

// DeleteTodo deletes server-side and drops the matching cached record.
// Without a signed-in user it is a no-op.
func (s *TodoStore) DeleteTodo(ctx context.Context, id string) error {
	user := s.auth.User()
	if user == nil {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.db.DeleteTodo(ctx, user.ID, id); err != nil {
		log.Printf("[todos] delete todo: %v", err)
		return err
	}

	s.mu.Lock()
	kept := s.todos[:0]
	for _, todo := range s.todos {
		if todo.ID != id {
			kept = append(kept, todo)
		}
	}
	s.todos = kept
	s.mu.Unlock()
	return nil
}

// ToggleTodo flips the completed flag of a cached todo. Unknown ids are a
// no-op.
func (s *TodoStore) ToggleTodo(ctx context.Context, id string) error {
	s.mu.Lock()
	var completed *bool
	for _, todo := range s.todos {
		if todo.ID == id {
			flipped := !todo.Completed
			completed = &flipped
			break
		}
	}
	s.mu.Unlock()

	if completed == nil {
		return nil
	}
	_, err := s.UpdateTodo(ctx, id, backend.TodoUpdate{Completed: completed})
	return err
}

// AddCategory inserts a category scoped to the current user and prepends it
// to the cache. Without a signed-in user it is a no-op.
func (s *TodoStore) AddCategory(ctx context.Context, ins backend.CategoryInsert) (*model.Category, error) {
	user := s.auth.User()
	if user == nil {
		return nil, nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	ins.UserID = user.ID
	category, err := s.db.InsertCategory(ctx, ins)
	if err != nil {
		log.Printf("[todos] add category: %v", err)
		return nil, err
	}

	s.mu.Lock()
	s.categories = append([]model.Category{*category}, s.categories...)
	s.mu.Unlock()
	return category, nil
}

// DeleteCategory deletes server-side and drops the cached record. Todos
// referencing the category keep their dangling reference. Without a
// signed-in user it is a no-op.
func (s *TodoStore) DeleteCategory(ctx context.Context, id string) error {
	user := s.auth.User()
	if user == nil {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.db.DeleteCategory(ctx, user.ID, id); err != nil {
		log.Printf("[todos] delete category: %v", err)
		return err
	}

	s.mu.Lock()
	kept := s.categories[:0]
	for _, category := range s.categories {
		if category.ID != id {
			kept = append(kept, category)
		}
	}
	s.categories = kept
	s.mu.Unlock()
	return nil
}

// ClearCompleted deletes every completed todo from the current snapshot,
// one backend call at a time. The first failure aborts the remainder;
// deletions already applied stay applied.
func (s *TodoStore) ClearCompleted(ctx context.Context) error {
	s.mu.Lock()
	var completed []string
	for _, todo := range s.todos {
		if todo.Completed {
			completed = append(completed, todo.ID)
		}
	}
	s.mu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	for _, id := range completed {
		if err := s.DeleteTodo(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *TodoStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
