package repository

import "errors"

// Common repository errors
var (
	// ErrCategoryNotFound is returned when a category is not found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrPriorityNotFound is returned when a priority level is not found
	ErrPriorityNotFound = errors.New("priority not found")

	// ErrGoalNotFound is returned when a goal is not found
	ErrGoalNotFound = errors.New("goal not found")

	// ErrTemplateNotFound is returned when a task template is not found
	ErrTemplateNotFound = errors.New("template not found")
)
