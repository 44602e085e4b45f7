package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskTemplate captures a reusable task shape. Instantiating a template
// creates a regular task and bumps the usage counter.
type TaskTemplate struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name              string     `gorm:"not null" json:"name"`
	Description       string     `json:"description"`
	CategoryID        *uint      `json:"category_id"`
	PriorityID        uint       `gorm:"not null;default:2" json:"priority_id"`
	EstimatedDuration *int       `json:"estimated_duration"`
	DefaultStatus     TaskStatus `gorm:"type:varchar(20);not null;default:pending" json:"default_status"`
	UsageCount        int        `gorm:"not null;default:0" json:"usage_count"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (TaskTemplate) TableName() string { return "task_templates" }
