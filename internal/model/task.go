package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Active reports whether the task still needs attention; only active
// tasks are considered by the reminder worker.
func (s TaskStatus) Active() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress
}

type Task struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID        *uint      `gorm:"index" json:"category_id"`
	PriorityID        uint       `gorm:"not null;default:2;index" json:"priority_id"`
	Title             string     `gorm:"not null" json:"title"`
	Description       string     `json:"description"`
	DueDate           *time.Time `gorm:"type:date" json:"due_date"`
	DueTime           *string    `gorm:"type:varchar(5)" json:"due_time"`
	EstimatedDuration *int       `json:"estimated_duration"`
	ActualDuration    *int       `json:"actual_duration"`
	Status            TaskStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	IsRecurring       bool       `gorm:"not null;default:false" json:"is_recurring"`
	RecurrencePattern *string    `gorm:"type:varchar(10)" json:"recurrence_pattern"`
	RecurrenceInterval int       `gorm:"not null;default:1" json:"recurrence_interval"`
	RecurrenceEndDate *time.Time `gorm:"type:date" json:"recurrence_end_date"`
	ParentTaskID      *uint      `json:"parent_task_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Priority *Priority `gorm:"foreignKey:PriorityID" json:"priority,omitempty"`
	Goals    []Goal    `gorm:"many2many:task_goals" json:"-"`
}

func (Task) TableName() string { return "tasks" }

// DueAt combines the due date and clock time into a single timestamp.
// Returns false when the task has no due date. A missing due time means
// end of day, matching how the calendar treats date-only tasks.
func (t *Task) DueAt() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	y, m, d := t.DueDate.Date()
	if t.DueTime == nil {
		return time.Date(y, m, d, 23, 59, 59, 0, time.Local), true
	}
	clock, err := time.Parse("15:04", *t.DueTime)
	if err != nil {
		return time.Date(y, m, d, 23, 59, 59, 0, time.Local), true
	}
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, time.Local), true
}

// IsOverdue reports whether the task is past due and still active.
func (t *Task) IsOverdue(now time.Time) bool {
	if !t.Status.Active() {
		return false
	}
	due, ok := t.DueAt()
	return ok && due.Before(now)
}

// SetStatus applies a status transition, keeping completed_at consistent:
// entering completed stamps it, leaving completed clears it.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	if status == TaskStatusCompleted && t.Status != TaskStatusCompleted {
		at := now
		t.CompletedAt = &at
	}
	if status != TaskStatusCompleted {
		t.CompletedAt = nil
	}
	t.Status = status
}

// NextOccurrence builds the follow-up instance of a recurring task after
// completion. Returns false when the task does not recur or the next due
// date falls past the recurrence end date.
func (t *Task) NextOccurrence() (*Task, bool) {
	if !t.IsRecurring || t.RecurrencePattern == nil || t.DueDate == nil {
		return nil, false
	}
	pattern := RecurrencePattern(*t.RecurrencePattern)
	if !pattern.IsValid() {
		return nil, false
	}
	nextDate := pattern.Next(*t.DueDate, t.RecurrenceInterval)
	if t.RecurrenceEndDate != nil && nextDate.After(*t.RecurrenceEndDate) {
		return nil, false
	}

	parentID := t.ID
	if t.ParentTaskID != nil {
		parentID = *t.ParentTaskID
	}
	next := &Task{
		UserID:             t.UserID,
		CategoryID:         t.CategoryID,
		PriorityID:         t.PriorityID,
		Title:              t.Title,
		Description:        t.Description,
		DueDate:            &nextDate,
		DueTime:            t.DueTime,
		EstimatedDuration:  t.EstimatedDuration,
		Status:             TaskStatusPending,
		IsRecurring:        true,
		RecurrencePattern:  t.RecurrencePattern,
		RecurrenceInterval: t.RecurrenceInterval,
		RecurrenceEndDate:  t.RecurrenceEndDate,
		ParentTaskID:       &parentID,
	}
	return next, true
}
