package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"planner/internal/model"
)

type PriorityRepository struct {
	db *gorm.DB
}

func NewPriorityRepository(db *gorm.DB) *PriorityRepository {
	return &PriorityRepository{db: db}
}

// List retrieves all priority levels ordered by level
func (r *PriorityRepository) List(ctx context.Context) ([]model.Priority, error) {
	var priorities []model.Priority
	result := r.db.WithContext(ctx).Order("level").Find(&priorities)
	if result.Error != nil {
		return nil, result.Error
	}
	return priorities, nil
}

// GetByID retrieves a priority level by its ID
func (r *PriorityRepository) GetByID(ctx context.Context, id uint) (*model.Priority, error) {
	var priority model.Priority
	result := r.db.WithContext(ctx).First(&priority, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPriorityNotFound
		}
		return nil, result.Error
	}
	return &priority, nil
}
