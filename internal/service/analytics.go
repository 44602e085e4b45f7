// Package service holds the derived read models: analytics aggregation
// and cross-entity search. Both fetch rows through the repositories and
// aggregate in memory.
package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"planner/internal/model"
	"planner/internal/repository"
)

type AnalyticsService struct {
	tasks      *repository.TaskRepository
	goals      *repository.GoalRepository
	categories *repository.CategoryRepository
	priorities *repository.PriorityRepository
}

func NewAnalyticsService(
	tasks *repository.TaskRepository,
	goals *repository.GoalRepository,
	categories *repository.CategoryRepository,
	priorities *repository.PriorityRepository,
) *AnalyticsService {
	return &AnalyticsService{
		tasks:      tasks,
		goals:      goals,
		categories: categories,
		priorities: priorities,
	}
}

type Overview struct {
	PeriodDays         int     `json:"period_days"`
	TotalTasks         int     `json:"total_tasks"`
	CompletedTasks     int     `json:"completed_tasks"`
	PendingTasks       int     `json:"pending_tasks"`
	InProgressTasks    int     `json:"in_progress_tasks"`
	CancelledTasks     int     `json:"cancelled_tasks"`
	OverdueTasks       int     `json:"overdue_tasks"`
	CompletionRate     float64 `json:"completion_rate"`
	TotalEstimatedTime int     `json:"total_estimated_time"`
	TotalActualTime    int     `json:"total_actual_time"`
}

type CategoryStats struct {
	CategoryID     uint    `json:"category_id"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

type PriorityStats struct {
	PriorityID     uint    `json:"priority_id"`
	Name           string  `json:"name"`
	Level          int     `json:"level"`
	Color          string  `json:"color"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	OverdueTasks   int     `json:"overdue_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	OverdueRate    float64 `json:"overdue_rate"`
}

type GoalStats struct {
	TotalGoals      int     `json:"total_goals"`
	ActiveGoals     int     `json:"active_goals"`
	CompletedGoals  int     `json:"completed_goals"`
	AverageProgress float64 `json:"average_progress"`
	CompletionRate  float64 `json:"completion_rate"`
}

// Overview aggregates task counts for tasks created in the last N days.
func (s *AnalyticsService) Overview(ctx context.Context, userID uuid.UUID, days int) (*Overview, error) {
	if days <= 0 {
		days = 30
	}
	now := time.Now()
	since := now.AddDate(0, 0, -days)

	tasks, err := s.tasks.ListAll(ctx, userID, &since)
	if err != nil {
		return nil, err
	}

	overview := &Overview{PeriodDays: days, TotalTasks: len(tasks)}
	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case model.TaskStatusCompleted:
			overview.CompletedTasks++
		case model.TaskStatusPending:
			overview.PendingTasks++
		case model.TaskStatusInProgress:
			overview.InProgressTasks++
		case model.TaskStatusCancelled:
			overview.CancelledTasks++
		}
		if t.IsOverdue(now) {
			overview.OverdueTasks++
		}
		if t.EstimatedDuration != nil {
			overview.TotalEstimatedTime += *t.EstimatedDuration
		}
		if t.ActualDuration != nil {
			overview.TotalActualTime += *t.ActualDuration
		}
	}
	overview.CompletionRate = rate(overview.CompletedTasks, overview.TotalTasks)
	return overview, nil
}

// Categories aggregates per-category completion figures.
func (s *AnalyticsService) Categories(ctx context.Context, userID uuid.UUID) ([]CategoryStats, error) {
	categories, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListAll(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	type bucket struct{ total, completed int }
	buckets := make(map[uint]*bucket, len(categories))
	for _, c := range categories {
		buckets[c.ID] = &bucket{}
	}
	for i := range tasks {
		t := &tasks[i]
		if t.CategoryID == nil {
			continue
		}
		b, ok := buckets[*t.CategoryID]
		if !ok {
			continue
		}
		b.total++
		if t.Status == model.TaskStatusCompleted {
			b.completed++
		}
	}

	stats := make([]CategoryStats, 0, len(categories))
	for _, c := range categories {
		b := buckets[c.ID]
		stats = append(stats, CategoryStats{
			CategoryID:     c.ID,
			Name:           c.Name,
			Color:          c.Color,
			TotalTasks:     b.total,
			CompletedTasks: b.completed,
			CompletionRate: rate(b.completed, b.total),
		})
	}
	return stats, nil
}

// Priorities aggregates per-priority completion and overdue figures.
func (s *AnalyticsService) Priorities(ctx context.Context, userID uuid.UUID) ([]PriorityStats, error) {
	priorities, err := s.priorities.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListAll(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	type bucket struct{ total, completed, overdue int }
	buckets := make(map[uint]*bucket, len(priorities))
	for _, p := range priorities {
		buckets[p.ID] = &bucket{}
	}
	for i := range tasks {
		t := &tasks[i]
		b, ok := buckets[t.PriorityID]
		if !ok {
			continue
		}
		b.total++
		if t.Status == model.TaskStatusCompleted {
			b.completed++
		}
		if t.IsOverdue(now) {
			b.overdue++
		}
	}

	stats := make([]PriorityStats, 0, len(priorities))
	for _, p := range priorities {
		b := buckets[p.ID]
		stats = append(stats, PriorityStats{
			PriorityID:     p.ID,
			Name:           p.Name,
			Level:          p.Level,
			Color:          p.Color,
			TotalTasks:     b.total,
			CompletedTasks: b.completed,
			OverdueTasks:   b.overdue,
			CompletionRate: rate(b.completed, b.total),
			OverdueRate:    rate(b.overdue, b.total),
		})
	}
	return stats, nil
}

// Goals aggregates goal progress figures.
func (s *AnalyticsService) Goals(ctx context.Context, userID uuid.UUID) (*GoalStats, error) {
	goals, err := s.goals.List(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	stats := &GoalStats{TotalGoals: len(goals)}
	var progressSum float64
	for i := range goals {
		g := &goals[i]
		progressSum += g.ProgressPercentage
		switch g.Status {
		case model.GoalStatusActive:
			stats.ActiveGoals++
		case model.GoalStatusCompleted:
			stats.CompletedGoals++
		}
	}
	if stats.TotalGoals > 0 {
		stats.AverageProgress = round1(progressSum / float64(stats.TotalGoals))
	}
	stats.CompletionRate = rate(stats.CompletedGoals, stats.TotalGoals)
	return stats, nil
}

// rate is completed/total as a percentage with one decimal, 0 when empty.
func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
