package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planner/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// TaskFilter narrows List queries; zero values mean "no filter".
type TaskFilter struct {
	Status     model.TaskStatus
	CategoryID *uint
	PriorityID *uint
	Search     string
	DueFrom    *time.Time
	DueTo      *time.Time
	Page       int
	PageSize   int
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.PriorityID == 0 {
		task.PriorityID = model.DefaultPriorityID
	}
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID, scoped to the owning user
func (r *TaskRepository) GetByID(ctx context.Context, userID uuid.UUID, id uint) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Priority").
		First(&task, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// List retrieves a page of the user's tasks matching the filter and the
// total row count before pagination.
func (r *TaskRepository) List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]model.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).Where("user_id = ?", userID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.PriorityID != nil {
		q = q.Where("priority_id = ?", *filter.PriorityID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if filter.DueFrom != nil {
		q = q.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		q = q.Where("due_date <= ?", *filter.DueTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Preload("Category").Preload("Priority").Order("created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var tasks []model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// ListAll retrieves every task of the user, optionally only those created
// since the given time. Used by analytics, which aggregates in memory.
func (r *TaskRepository) ListAll(ctx context.Context, userID uuid.UUID, since *time.Time) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var tasks []model.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// dayStartUTC truncates a time to midnight UTC, the instant due dates are
// stored at. Date columns are compared with half-open day ranges bound as
// time values: sqlite keeps them as timestamp strings, so a bare
// 'YYYY-MM-DD' literal would never match.
func dayStartUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetForDate retrieves the user's tasks due on a specific day, ordered by
// due time. Backs the calendar view.
func (r *TaskRepository) GetForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]model.Task, error) {
	start := dayStartUTC(date)
	end := start.AddDate(0, 0, 1)
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Priority").
		Where("user_id = ? AND due_date >= ? AND due_date < ?", userID, start, end).
		Order("due_time").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetOverdue retrieves active tasks whose due date has passed
func (r *TaskRepository) GetOverdue(ctx context.Context, userID uuid.UUID, today time.Time) ([]model.Task, error) {
	start := dayStartUTC(today)
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Priority").
		Where("user_id = ? AND due_date < ? AND status IN ?", userID, start,
			[]model.TaskStatus{model.TaskStatusPending, model.TaskStatusInProgress}).
		Order("due_date").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetRecurring retrieves the user's recurring tasks
func (r *TaskRepository) GetRecurring(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Priority").
		Where("user_id = ? AND is_recurring = ?", userID, true).
		Order("due_date").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetActiveDueBy retrieves, across all users, active tasks with a due date
// up to the given day. The reminder worker combines date and time in
// memory, mirroring how reminders were originally computed.
func (r *TaskRepository) GetActiveDueBy(ctx context.Context, deadline time.Time) ([]model.Task, error) {
	cutoff := dayStartUTC(deadline).AddDate(0, 0, 1)
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ? AND status IN ?", cutoff,
			[]model.TaskStatus{model.TaskStatusPending, model.TaskStatusInProgress}).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Omit("Category", "Priority", "Goals").Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Ping verifies the underlying connection is alive
func (r *TaskRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
