package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planner/internal/model"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create adds a new task template to the database
func (r *TemplateRepository) Create(ctx context.Context, template *model.TaskTemplate) error {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	if template.PriorityID == 0 {
		template.PriorityID = model.DefaultPriorityID
	}
	if template.DefaultStatus == "" {
		template.DefaultStatus = model.TaskStatusPending
	}
	return r.db.WithContext(ctx).Create(template).Error
}

// GetByID retrieves a template by its ID, scoped to the owning user
func (r *TemplateRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.TaskTemplate, error) {
	var template model.TaskTemplate
	result := r.db.WithContext(ctx).First(&template, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, result.Error
	}
	return &template, nil
}

// List retrieves all templates of the user, ordered by name
func (r *TemplateRepository) List(ctx context.Context, userID uuid.UUID) ([]model.TaskTemplate, error) {
	var templates []model.TaskTemplate
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&templates)
	if result.Error != nil {
		return nil, result.Error
	}
	return templates, nil
}

// Popular retrieves the most-used templates of the user
func (r *TemplateRepository) Popular(ctx context.Context, userID uuid.UUID, limit int) ([]model.TaskTemplate, error) {
	if limit <= 0 {
		limit = 5
	}
	var templates []model.TaskTemplate
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("usage_count DESC").
		Limit(limit).
		Find(&templates)
	if result.Error != nil {
		return nil, result.Error
	}
	return templates, nil
}

// Update updates an existing template
func (r *TemplateRepository) Update(ctx context.Context, template *model.TaskTemplate) error {
	result := r.db.WithContext(ctx).Save(template)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// Delete removes a template by its ID
func (r *TemplateRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.TaskTemplate{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// IncrementUsage bumps the usage counter after a template is instantiated
func (r *TemplateRepository) IncrementUsage(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.TaskTemplate{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
