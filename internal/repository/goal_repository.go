package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planner/internal/model"
)

// taskGoal maps the join table directly so link/unlink can use a
// dialect-aware upsert instead of hand-written conflict SQL.
type taskGoal struct {
	TaskID uint `gorm:"primaryKey"`
	GoalID uint `gorm:"primaryKey"`
}

func (taskGoal) TableName() string { return "task_goals" }

type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create adds a new goal to the database
func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if goal.Status == "" {
		goal.Status = model.GoalStatusActive
	}
	return r.db.WithContext(ctx).Create(goal).Error
}

// GetByID retrieves a goal by its ID, scoped to the owning user
func (r *GoalRepository) GetByID(ctx context.Context, userID uuid.UUID, id uint) (*model.Goal, error) {
	var goal model.Goal
	result := r.db.WithContext(ctx).
		Preload("Category").
		First(&goal, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, result.Error
	}
	return &goal, nil
}

// List retrieves the user's goals, newest first, optionally filtered by status
func (r *GoalRepository) List(ctx context.Context, userID uuid.UUID, status model.GoalStatus) ([]model.Goal, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var goals []model.Goal
	if err := q.Preload("Category").Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// Update updates an existing goal
func (r *GoalRepository) Update(ctx context.Context, goal *model.Goal) error {
	result := r.db.WithContext(ctx).Omit("Category", "Tasks").Save(goal)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// Delete removes a goal; join rows cascade
func (r *GoalRepository) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Goal{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// AddTask links a task to the goal; duplicate links are ignored
func (r *GoalRepository) AddTask(ctx context.Context, goalID, taskID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&taskGoal{TaskID: taskID, GoalID: goalID}).Error
}

// RemoveTask unlinks a task from the goal
func (r *GoalRepository) RemoveTask(ctx context.Context, goalID, taskID uint) error {
	return r.db.WithContext(ctx).
		Delete(&taskGoal{}, "task_id = ? AND goal_id = ?", taskID, goalID).Error
}

// GetTasks retrieves tasks linked to the goal, newest first
func (r *GoalRepository) GetTasks(ctx context.Context, goalID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Joins("JOIN task_goals ON task_goals.task_id = tasks.id").
		Where("task_goals.goal_id = ?", goalID).
		Order("tasks.created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
