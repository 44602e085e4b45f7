package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"planner/internal/logger"
	"planner/internal/middleware"
	"planner/internal/model"
	"planner/internal/repository"
)

const dateLayout = "2006-01-02"

type TaskHandler struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	priorityRepo *repository.PriorityRepository
}

func NewTaskHandler(
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
	priorityRepo *repository.PriorityRepository,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		priorityRepo: priorityRepo,
	}
}

// TaskRequest is the create/update payload. Dates use YYYY-MM-DD and the
// due time a 24h HH:MM clock, matching the calendar endpoints.
type TaskRequest struct {
	Title              string  `json:"title" binding:"required"`
	Description        string  `json:"description"`
	CategoryID         *uint   `json:"category_id"`
	PriorityID         *uint   `json:"priority_id"`
	DueDate            *string `json:"due_date"`
	DueTime            *string `json:"due_time"`
	EstimatedDuration  *int    `json:"estimated_duration" binding:"omitempty,min=0"`
	ActualDuration     *int    `json:"actual_duration" binding:"omitempty,min=0"`
	Status             string  `json:"status"`
	IsRecurring        bool    `json:"is_recurring"`
	RecurrencePattern  *string `json:"recurrence_pattern"`
	RecurrenceInterval int     `json:"recurrence_interval"`
	RecurrenceEndDate  *string `json:"recurrence_end_date"`
}

type TaskResponse struct {
	ID                 uint    `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	CategoryID         *uint   `json:"category_id,omitempty"`
	CategoryName       *string `json:"category_name,omitempty"`
	CategoryColor      *string `json:"category_color,omitempty"`
	PriorityID         uint    `json:"priority_id"`
	PriorityName       *string `json:"priority_name,omitempty"`
	PriorityColor      *string `json:"priority_color,omitempty"`
	DueDate            *string `json:"due_date,omitempty"`
	DueTime            *string `json:"due_time,omitempty"`
	EstimatedDuration  *int    `json:"estimated_duration,omitempty"`
	ActualDuration     *int    `json:"actual_duration,omitempty"`
	Status             string  `json:"status"`
	IsRecurring        bool    `json:"is_recurring"`
	RecurrencePattern  *string `json:"recurrence_pattern,omitempty"`
	RecurrenceInterval int     `json:"recurrence_interval"`
	RecurrenceEndDate  *string `json:"recurrence_end_date,omitempty"`
	ParentTaskID       *uint   `json:"parent_task_id,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
	CompletedAt        *string `json:"completed_at,omitempty"`
}

func newTaskResponse(t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		CategoryID:         t.CategoryID,
		PriorityID:         t.PriorityID,
		DueTime:            t.DueTime,
		EstimatedDuration:  t.EstimatedDuration,
		ActualDuration:     t.ActualDuration,
		Status:             string(t.Status),
		IsRecurring:        t.IsRecurring,
		RecurrencePattern:  t.RecurrencePattern,
		RecurrenceInterval: t.RecurrenceInterval,
		ParentTaskID:       t.ParentTaskID,
		CreatedAt:          t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          t.UpdatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(dateLayout)
		resp.DueDate = &d
	}
	if t.RecurrenceEndDate != nil {
		d := t.RecurrenceEndDate.Format(dateLayout)
		resp.RecurrenceEndDate = &d
	}
	if t.CompletedAt != nil {
		at := t.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &at
	}
	if t.Category != nil {
		resp.CategoryName = &t.Category.Name
		resp.CategoryColor = &t.Category.Color
	}
	if t.Priority != nil {
		resp.PriorityName = &t.Priority.Name
		resp.PriorityColor = &t.Priority.Color
	}
	return resp
}

func newTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = newTaskResponse(&tasks[i])
	}
	return out
}

func parseDate(s string) (*time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// applyRequest validates the payload and copies it onto the task.
func (h *TaskHandler) applyRequest(c *gin.Context, task *model.Task, req *TaskRequest) bool {
	if req.Status != "" {
		if !model.TaskStatus(req.Status).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task status"})
			return false
		}
	}
	if req.RecurrencePattern != nil && !model.RecurrencePattern(*req.RecurrencePattern).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recurrence pattern"})
		return false
	}
	if req.DueTime != nil {
		if _, err := time.Parse("15:04", *req.DueTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due time, expected HH:MM"})
			return false
		}
	}

	if req.CategoryID != nil {
		if _, err := h.categoryRepo.GetByID(c.Request.Context(), task.UserID, *req.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
			}
			return false
		}
	}
	priorityID := model.DefaultPriorityID
	if req.PriorityID != nil {
		priorityID = *req.PriorityID
		if _, err := h.priorityRepo.GetByID(c.Request.Context(), priorityID); err != nil {
			if errors.Is(err, repository.ErrPriorityNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Priority not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve priority"})
			}
			return false
		}
	}

	task.Title = req.Title
	task.Description = req.Description
	task.CategoryID = req.CategoryID
	task.PriorityID = priorityID
	task.DueTime = req.DueTime
	task.EstimatedDuration = req.EstimatedDuration
	task.ActualDuration = req.ActualDuration
	task.IsRecurring = req.IsRecurring
	task.RecurrencePattern = req.RecurrencePattern
	if req.RecurrenceInterval > 0 {
		task.RecurrenceInterval = req.RecurrenceInterval
	} else if task.RecurrenceInterval == 0 {
		task.RecurrenceInterval = 1
	}

	task.DueDate = nil
	if req.DueDate != nil {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
			return false
		}
		task.DueDate = d
	}
	task.RecurrenceEndDate = nil
	if req.RecurrenceEndDate != nil {
		d, err := parseDate(*req.RecurrenceEndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recurrence end date, expected YYYY-MM-DD"})
			return false
		}
		task.RecurrenceEndDate = d
	}

	if req.Status != "" {
		task.SetStatus(model.TaskStatus(req.Status), time.Now())
	} else if task.Status == "" {
		task.Status = model.TaskStatusPending
	}
	return true
}

// Create godoc
// @Summary  Create a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  201 {object} TaskResponse
// @Router   /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task := &model.Task{UserID: userID}
	if !h.applyRequest(c, task, &req) {
		return
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

// List godoc
// @Summary  List tasks with filters and pagination
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	filter := repository.TaskFilter{
		Search: c.Query("search"),
	}
	if status := c.Query("status"); status != "" {
		if !model.TaskStatus(status).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task status"})
			return
		}
		filter.Status = model.TaskStatus(status)
	}
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		cid := uint(id)
		filter.CategoryID = &cid
	}
	if v := c.Query("priority_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority ID"})
			return
		}
		pid := uint(id)
		filter.PriorityID = &pid
	}
	if v := c.Query("due_from"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_from date"})
			return
		}
		filter.DueFrom = d
	}
	if v := c.Query("due_to"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_to date"})
			return
		}
		filter.DueTo = d
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}

	tasks, total, err := h.taskRepo.List(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PageSize)))
	c.JSON(http.StatusOK, gin.H{
		"tasks":       newTaskResponses(tasks),
		"total":       total,
		"page":        filter.Page,
		"page_size":   filter.PageSize,
		"total_pages": totalPages,
	})
}

// GetByID godoc
// @Summary  Get a task by ID
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} TaskResponse
// @Router   /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Update godoc
// @Summary  Update a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} TaskResponse
// @Router   /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	wasCompleted := task.Status == model.TaskStatusCompleted
	if !h.applyRequest(c, task, &req) {
		return
	}

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	// Completing a recurring task through a plain update also spawns the
	// follow-up instance.
	if !wasCompleted && task.Status == model.TaskStatusCompleted {
		h.spawnNextOccurrence(c, task)
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Delete godoc
// @Summary  Delete a task
// @Tags     Tasks
// @Security BearerAuth
// @Success  204
// @Router   /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

type completeRequest struct {
	ActualDuration *int `json:"actual_duration" binding:"omitempty,min=0"`
}

// Complete godoc
// @Summary  Mark a task completed
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	var req completeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}
	if req.ActualDuration != nil {
		task.ActualDuration = req.ActualDuration
	}

	alreadyCompleted := task.Status == model.TaskStatusCompleted
	task.SetStatus(model.TaskStatusCompleted, time.Now())

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	var next *TaskResponse
	if !alreadyCompleted {
		if spawned := h.spawnNextOccurrence(c, task); spawned != nil {
			r := newTaskResponse(spawned)
			next = &r
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"task":            newTaskResponse(task),
		"next_occurrence": next,
	})
}

// Start godoc
// @Summary  Mark a task in progress
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} TaskResponse
// @Router   /api/tasks/{id}/start [post]
func (h *TaskHandler) Start(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	task.SetStatus(model.TaskStatusInProgress, time.Now())
	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Overdue godoc
// @Summary  List overdue tasks
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/tasks/overdue [get]
func (h *TaskHandler) Overdue(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	tasks, err := h.taskRepo.GetOverdue(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": newTaskResponses(tasks)})
}

// Recurring godoc
// @Summary  List recurring tasks
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/tasks/recurring [get]
func (h *TaskHandler) Recurring(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	tasks, err := h.taskRepo.GetRecurring(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": newTaskResponses(tasks)})
}

// Calendar godoc
// @Summary  List tasks due on a date
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/tasks/calendar/{date} [get]
func (h *TaskHandler) Calendar(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	tasks, err := h.taskRepo.GetForDate(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format(dateLayout),
		"tasks": newTaskResponses(tasks),
	})
}

// spawnNextOccurrence persists the follow-up instance of a completed
// recurring task. Failures are reported nowhere but the log: the
// completion itself already succeeded.
func (h *TaskHandler) spawnNextOccurrence(c *gin.Context, task *model.Task) *model.Task {
	next, ok := task.NextOccurrence()
	if !ok {
		return nil
	}
	if err := h.taskRepo.Create(c.Request.Context(), next); err != nil {
		logger.Error("failed to create next occurrence", err, zap.Uint("task_id", task.ID))
		return nil
	}
	return next
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
