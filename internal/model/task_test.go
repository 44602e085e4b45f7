package model_test

import (
	"testing"
	"time"

	"planner/internal/model"

	"github.com/stretchr/testify/assert"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

func TestTaskStatus_IsValid(t *testing.T) {
	assert.True(t, model.TaskStatusPending.IsValid())
	assert.True(t, model.TaskStatusInProgress.IsValid())
	assert.True(t, model.TaskStatusCompleted.IsValid())
	assert.True(t, model.TaskStatusCancelled.IsValid())
	assert.False(t, model.TaskStatus("archived").IsValid())
}

func TestTask_DueAt(t *testing.T) {
	// No due date at all
	task := model.Task{}
	_, ok := task.DueAt()
	assert.False(t, ok)

	// Date only defaults to end of day
	task.DueDate = datePtr(2026, time.March, 10)
	due, ok := task.DueAt()
	assert.True(t, ok)
	assert.Equal(t, 23, due.Hour())
	assert.Equal(t, 59, due.Minute())

	// Date with a clock time
	task.DueTime = strPtr("14:30")
	due, ok = task.DueAt()
	assert.True(t, ok)
	assert.Equal(t, 14, due.Hour())
	assert.Equal(t, 30, due.Minute())
	assert.Equal(t, 10, due.Day())
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2026, time.March, 11, 12, 0, 0, 0, time.Local)

	task := model.Task{
		Status:  model.TaskStatusPending,
		DueDate: datePtr(2026, time.March, 10),
		DueTime: strPtr("09:00"),
	}
	assert.True(t, task.IsOverdue(now))

	// Completed tasks are never overdue
	task.Status = model.TaskStatusCompleted
	assert.False(t, task.IsOverdue(now))

	// Future due date
	task.Status = model.TaskStatusPending
	task.DueDate = datePtr(2026, time.March, 12)
	assert.False(t, task.IsOverdue(now))

	// No due date
	task.DueDate = nil
	assert.False(t, task.IsOverdue(now))
}

func TestTask_SetStatus(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	task := model.Task{Status: model.TaskStatusPending}

	// Entering completed stamps completed_at
	task.SetStatus(model.TaskStatusCompleted, now)
	assert.Equal(t, model.TaskStatusCompleted, task.Status)
	assert.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)

	// Re-completing keeps the original stamp
	later := now.Add(time.Hour)
	task.SetStatus(model.TaskStatusCompleted, later)
	assert.Equal(t, now, *task.CompletedAt)

	// Leaving completed clears the stamp
	task.SetStatus(model.TaskStatusInProgress, later)
	assert.Equal(t, model.TaskStatusInProgress, task.Status)
	assert.Nil(t, task.CompletedAt)
}

func TestRecurrencePattern_Next(t *testing.T) {
	from := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC),
		model.RecurrenceDaily.Next(from, 2))
	assert.Equal(t, time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC),
		model.RecurrenceWeekly.Next(from, 1))
	assert.Equal(t, time.Date(2027, time.January, 31, 0, 0, 0, 0, time.UTC),
		model.RecurrenceYearly.Next(from, 1))

	// Intervals below one fall back to one
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		model.RecurrenceDaily.Next(from, 0))
}

func TestTask_NextOccurrence(t *testing.T) {
	task := model.Task{
		ID:                 7,
		Title:              "Water plants",
		DueDate:            datePtr(2026, time.March, 10),
		DueTime:            strPtr("08:00"),
		Status:             model.TaskStatusCompleted,
		IsRecurring:        true,
		RecurrencePattern:  strPtr("weekly"),
		RecurrenceInterval: 1,
	}

	next, ok := task.NextOccurrence()
	assert.True(t, ok)
	assert.Equal(t, "Water plants", next.Title)
	assert.Equal(t, model.TaskStatusPending, next.Status)
	assert.Equal(t, time.Date(2026, time.March, 17, 0, 0, 0, 0, time.UTC), *next.DueDate)
	assert.Equal(t, "08:00", *next.DueTime)
	assert.Equal(t, uint(7), *next.ParentTaskID)
}

func TestTask_NextOccurrence_KeepsRootParent(t *testing.T) {
	root := uint(3)
	task := model.Task{
		ID:                 9,
		DueDate:            datePtr(2026, time.March, 10),
		IsRecurring:        true,
		RecurrencePattern:  strPtr("daily"),
		RecurrenceInterval: 1,
		ParentTaskID:       &root,
	}

	next, ok := task.NextOccurrence()
	assert.True(t, ok)
	assert.Equal(t, root, *next.ParentTaskID)
}

func TestTask_NextOccurrence_StopsAtEndDate(t *testing.T) {
	task := model.Task{
		ID:                 5,
		DueDate:            datePtr(2026, time.March, 10),
		IsRecurring:        true,
		RecurrencePattern:  strPtr("monthly"),
		RecurrenceInterval: 1,
		RecurrenceEndDate:  datePtr(2026, time.March, 31),
	}

	_, ok := task.NextOccurrence()
	assert.False(t, ok)
}

func TestTask_NextOccurrence_NonRecurring(t *testing.T) {
	task := model.Task{DueDate: datePtr(2026, time.March, 10)}

	_, ok := task.NextOccurrence()
	assert.False(t, ok)
}

func TestGoal_SetProgress(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	goal := model.Goal{Status: model.GoalStatusActive}

	goal.SetProgress(42.5, now)
	assert.Equal(t, 42.5, goal.ProgressPercentage)
	assert.Equal(t, model.GoalStatusActive, goal.Status)
	assert.Nil(t, goal.CompletedAt)

	// Values are clamped to [0, 100]
	goal.SetProgress(-10, now)
	assert.Equal(t, 0.0, goal.ProgressPercentage)
	goal.SetProgress(150, now)
	assert.Equal(t, 100.0, goal.ProgressPercentage)

	// Reaching 100 completes the goal
	assert.Equal(t, model.GoalStatusCompleted, goal.Status)
	assert.NotNil(t, goal.CompletedAt)
	assert.Equal(t, now, *goal.CompletedAt)
}
