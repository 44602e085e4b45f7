package model

import (
	"time"

	"github.com/google/uuid"
)

// Setting is a per-user key/value row; values are stored as JSON so
// booleans and numbers round-trip without a column per setting.
type Setting struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }

// DefaultSettings are the hardcoded fallbacks stored rows are merged over.
func DefaultSettings() map[string]any {
	return map[string]any{
		// Notification settings
		"notifications_enabled":       true,
		"reminder_minutes_before":     15,
		"notification_check_interval": 30,

		// Task settings
		"default_task_priority": "medium",
		"auto_mark_overdue":     true,
		"show_completed_tasks":  true,
		"task_sort_order":       "due_date",

		// Calendar settings
		"default_calendar_view": "month",
		"week_starts_on":        "monday",
		"show_weekends":         true,
	}
}
