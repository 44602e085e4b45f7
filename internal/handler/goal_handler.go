package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planner/internal/middleware"
	"planner/internal/model"
	"planner/internal/repository"
)

type GoalHandler struct {
	goalRepo     *repository.GoalRepository
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewGoalHandler(
	goalRepo *repository.GoalRepository,
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
) *GoalHandler {
	return &GoalHandler{goalRepo: goalRepo, taskRepo: taskRepo, categoryRepo: categoryRepo}
}

type goalRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	CategoryID  *uint   `json:"category_id"`
	TargetDate  *string `json:"target_date"`
	Status      string  `json:"status"`
}

type goalResponse struct {
	ID                 uint    `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	CategoryID         *uint   `json:"category_id,omitempty"`
	CategoryName       *string `json:"category_name,omitempty"`
	TargetDate         *string `json:"target_date,omitempty"`
	Status             string  `json:"status"`
	ProgressPercentage float64 `json:"progress_percentage"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
	CompletedAt        *string `json:"completed_at,omitempty"`
}

func newGoalResponse(g *model.Goal) goalResponse {
	resp := goalResponse{
		ID:                 g.ID,
		Title:              g.Title,
		Description:        g.Description,
		CategoryID:         g.CategoryID,
		Status:             string(g.Status),
		ProgressPercentage: g.ProgressPercentage,
		CreatedAt:          g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          g.UpdatedAt.Format(time.RFC3339),
	}
	if g.TargetDate != nil {
		d := g.TargetDate.Format(dateLayout)
		resp.TargetDate = &d
	}
	if g.CompletedAt != nil {
		at := g.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &at
	}
	if g.Category != nil {
		resp.CategoryName = &g.Category.Name
	}
	return resp
}

func (h *GoalHandler) applyRequest(c *gin.Context, goal *model.Goal, req *goalRequest) bool {
	if req.Status != "" && !model.GoalStatus(req.Status).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal status"})
		return false
	}
	if req.CategoryID != nil {
		if _, err := h.categoryRepo.GetByID(c.Request.Context(), goal.UserID, *req.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
			}
			return false
		}
	}

	goal.Title = req.Title
	goal.Description = req.Description
	goal.CategoryID = req.CategoryID

	goal.TargetDate = nil
	if req.TargetDate != nil {
		d, err := parseDate(*req.TargetDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target date, expected YYYY-MM-DD"})
			return false
		}
		goal.TargetDate = d
	}
	if req.Status != "" {
		goal.Status = model.GoalStatus(req.Status)
	}
	return true
}

// Create godoc
// @Summary  Create a goal
// @Tags     Goals
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  201 {object} goalResponse
// @Router   /api/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	goal := &model.Goal{UserID: userID}
	if !h.applyRequest(c, goal, &req) {
		return
	}

	if err := h.goalRepo.Create(c.Request.Context(), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	c.JSON(http.StatusCreated, newGoalResponse(goal))
}

// List godoc
// @Summary  List goals, optionally filtered by status
// @Tags     Goals
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	status := model.GoalStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal status"})
		return
	}

	goals, err := h.goalRepo.List(c.Request.Context(), userID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goals"})
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for i := range goals {
		out = append(out, newGoalResponse(&goals[i]))
	}
	c.JSON(http.StatusOK, gin.H{"goals": out})
}

// GetByID godoc
// @Summary  Get a goal by ID
// @Tags     Goals
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} goalResponse
// @Router   /api/goals/{id} [get]
func (h *GoalHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	goal, err := h.goalRepo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		}
		return
	}

	c.JSON(http.StatusOK, newGoalResponse(goal))
}

// Update godoc
// @Summary  Update a goal
// @Tags     Goals
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} goalResponse
// @Router   /api/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	goal, err := h.goalRepo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		}
		return
	}

	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !h.applyRequest(c, goal, &req) {
		return
	}

	if err := h.goalRepo.Update(c.Request.Context(), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	c.JSON(http.StatusOK, newGoalResponse(goal))
}

// Delete godoc
// @Summary  Delete a goal
// @Tags     Goals
// @Security BearerAuth
// @Success  204
// @Router   /api/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	if err := h.goalRepo.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

type progressRequest struct {
	Progress float64 `json:"progress" binding:"min=0,max=100"`
}

// UpdateProgress godoc
// @Summary  Set goal progress
// @Tags     Goals
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} goalResponse
// @Router   /api/goals/{id}/progress [post]
func (h *GoalHandler) UpdateProgress(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	goal, err := h.goalRepo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		}
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	goal.SetProgress(req.Progress, time.Now())
	if err := h.goalRepo.Update(c.Request.Context(), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	c.JSON(http.StatusOK, newGoalResponse(goal))
}

// LinkTask godoc
// @Summary  Link a task to a goal
// @Tags     Goals
// @Security BearerAuth
// @Success  204
// @Router   /api/goals/{id}/tasks/{task_id} [post]
func (h *GoalHandler) LinkTask(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	goalID, taskID, ok := h.resolveLink(c, userID)
	if !ok {
		return
	}

	if err := h.goalRepo.AddTask(c.Request.Context(), goalID, taskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link task"})
		return
	}

	c.Status(http.StatusNoContent)
}

// UnlinkTask godoc
// @Summary  Unlink a task from a goal
// @Tags     Goals
// @Security BearerAuth
// @Success  204
// @Router   /api/goals/{id}/tasks/{task_id} [delete]
func (h *GoalHandler) UnlinkTask(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	goalID, taskID, ok := h.resolveLink(c, userID)
	if !ok {
		return
	}

	if err := h.goalRepo.RemoveTask(c.Request.Context(), goalID, taskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlink task"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Tasks godoc
// @Summary  List tasks linked to a goal
// @Tags     Goals
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/goals/{id}/tasks [get]
func (h *GoalHandler) Tasks(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	if _, err := h.goalRepo.GetByID(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		}
		return
	}

	tasks, err := h.goalRepo.GetTasks(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": newTaskResponses(tasks)})
}

// resolveLink validates both halves of a goal/task link, checking the
// caller owns each side before touching the join table.
func (h *GoalHandler) resolveLink(c *gin.Context, userID uuid.UUID) (goalID, taskID uint, ok bool) {
	goalID, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return 0, 0, false
	}
	taskID, err = parseUintParam(c, "task_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return 0, 0, false
	}

	if _, err := h.goalRepo.GetByID(c.Request.Context(), userID, goalID); err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		}
		return 0, 0, false
	}
	if _, err := h.taskRepo.GetByID(c.Request.Context(), userID, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return 0, 0, false
	}
	return goalID, taskID, true
}
