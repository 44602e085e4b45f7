package model

import (
	"time"

	"github.com/google/uuid"
)

const DefaultCategoryColor = "#3498db"

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name        string    `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Color       string    `gorm:"type:varchar(7);not null;default:#3498db" json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }
