package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todolist/internal/backend"
	"todolist/internal/model"
)

// CategoryRepository manages todo categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListByUser returns all of a user's categories, newest first.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Insert(ctx context.Context, ins backend.CategoryInsert) (*model.Category, error) {
	category := model.Category{
		ID:     uuid.NewString(),
		Name:   ins.Name,
		Color:  ins.Color,
		UserID: ins.UserID,
	}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

// Delete removes the user's category. Ids owned by someone else are left
// untouched.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Category{}).Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
