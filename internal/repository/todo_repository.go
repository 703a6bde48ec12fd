package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todolist/internal/backend"
	"todolist/internal/model"
)

// TodoRepository handles CRUD for todos.
type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// ListByUser returns all of a user's todos, newest first.
func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]model.Todo, error) {
	var todos []model.Todo
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Insert(ctx context.Context, ins backend.TodoInsert) (*model.Todo, error) {
	priority := ins.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	todo := model.Todo{
		ID:          uuid.NewString(),
		Title:       ins.Title,
		Description: ins.Description,
		Completed:   ins.Completed,
		Category:    ins.Category,
		Priority:    priority,
		DueDate:     ins.DueDate,
		UserID:      ins.UserID,
	}
	if err := r.db.WithContext(ctx).Create(&todo).Error; err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return &todo, nil
}

// Update applies the non-nil fields of patch to the user's todo and returns
// the stored row. A todo owned by someone else reads as not found.
func (r *TodoRepository) Update(ctx context.Context, userID, id string, patch backend.TodoUpdate) (*model.Todo, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}

	db := r.db.WithContext(ctx)
	if len(updates) > 0 {
		res := db.Model(&model.Todo{}).Where("id = ? AND user_id = ?", id, userID).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("update todo: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	var todo model.Todo
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&todo).Error; err != nil {
		return nil, fmt.Errorf("reload todo: %w", err)
	}
	return &todo, nil
}

// Delete removes the user's todo. Deleting an id the user does not own is a
// no-op, like the listing filter it mirrors.
func (r *TodoRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Todo{}).Error; err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}
