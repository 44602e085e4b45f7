package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planner/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create adds a new category to the database
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if category.Color == "" {
		category.Color = model.DefaultCategoryColor
	}
	return r.db.WithContext(ctx).Create(category).Error
}

// GetByID retrieves a category by its ID, scoped to the owning user
func (r *CategoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id uint) (*model.Category, error) {
	var category model.Category
	result := r.db.WithContext(ctx).First(&category, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return &category, nil
}

// GetByName retrieves a category by name; returns nil when absent
func (r *CategoryRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*model.Category, error) {
	var category model.Category
	result := r.db.WithContext(ctx).First(&category, "user_id = ? AND name = ?", userID, name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &category, nil
}

// List retrieves all categories of the user, ordered by name
func (r *CategoryRepository) List(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}

// Update updates an existing category
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	result := r.db.WithContext(ctx).Save(category)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category. Tasks keep existing with category_id nulled
// by the schema's ON DELETE SET NULL.
func (r *CategoryRepository) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Category{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// TaskCount returns how many tasks reference the category
func (r *CategoryRepository) TaskCount(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}
