package model

import (
	"time"

	"github.com/google/uuid"
)

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCancelled GoalStatus = "cancelled"
)

func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused, GoalStatusCancelled:
		return true
	default:
		return false
	}
}

type Goal struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID         *uint      `gorm:"index" json:"category_id"`
	Title              string     `gorm:"not null" json:"title"`
	Description        string     `json:"description"`
	TargetDate         *time.Time `gorm:"type:date" json:"target_date"`
	Status             GoalStatus `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	ProgressPercentage float64    `gorm:"not null;default:0" json:"progress_percentage"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CompletedAt        *time.Time `json:"completed_at"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tasks    []Task    `gorm:"many2many:task_goals" json:"-"`
}

func (Goal) TableName() string { return "goals" }

// SetProgress clamps the percentage to [0, 100] and flips the goal to
// completed once it reaches 100.
func (g *Goal) SetProgress(percentage float64, now time.Time) {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	g.ProgressPercentage = percentage
	if percentage >= 100 && g.Status != GoalStatusCompleted {
		g.Status = GoalStatusCompleted
		at := now
		g.CompletedAt = &at
	}
}
