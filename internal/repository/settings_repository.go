package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planner/internal/model"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetAll retrieves every stored setting row of the user
func (r *SettingsRepository) GetAll(ctx context.Context, userID uuid.UUID) ([]model.Setting, error) {
	var settings []model.Setting
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}
	return settings, nil
}

// Upsert writes a setting value, replacing any existing row for the key
func (r *SettingsRepository) Upsert(ctx context.Context, setting *model.Setting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error
}

// Reset deletes every stored setting of the user, falling back to defaults
func (r *SettingsRepository) Reset(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Setting{}, "user_id = ?", userID).Error
}
