package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planner/internal/middleware"
	"planner/internal/model"
	"planner/internal/repository"
)

type TemplateHandler struct {
	templateRepo *repository.TemplateRepository
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	priorityRepo *repository.PriorityRepository
}

func NewTemplateHandler(
	templateRepo *repository.TemplateRepository,
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
	priorityRepo *repository.PriorityRepository,
) *TemplateHandler {
	return &TemplateHandler{
		templateRepo: templateRepo,
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		priorityRepo: priorityRepo,
	}
}

type templateRequest struct {
	Name              string `json:"name" binding:"required,min=1,max=100"`
	Description       string `json:"description"`
	CategoryID        *uint  `json:"category_id"`
	PriorityID        *uint  `json:"priority_id"`
	EstimatedDuration *int   `json:"estimated_duration" binding:"omitempty,min=0"`
	DefaultStatus     string `json:"default_status"`
}

func (h *TemplateHandler) applyRequest(c *gin.Context, tpl *model.TaskTemplate, req *templateRequest) bool {
	if req.DefaultStatus != "" && !model.TaskStatus(req.DefaultStatus).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid default status"})
		return false
	}
	if req.CategoryID != nil {
		if _, err := h.categoryRepo.GetByID(c.Request.Context(), tpl.UserID, *req.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
			}
			return false
		}
	}
	if req.PriorityID != nil {
		if _, err := h.priorityRepo.GetByID(c.Request.Context(), *req.PriorityID); err != nil {
			if errors.Is(err, repository.ErrPriorityNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Priority not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve priority"})
			}
			return false
		}
		tpl.PriorityID = *req.PriorityID
	}

	tpl.Name = req.Name
	tpl.Description = req.Description
	tpl.CategoryID = req.CategoryID
	tpl.EstimatedDuration = req.EstimatedDuration
	if req.DefaultStatus != "" {
		tpl.DefaultStatus = model.TaskStatus(req.DefaultStatus)
	}
	return true
}

// Create godoc
// @Summary  Create a task template
// @Tags     Templates
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  201 {object} model.TaskTemplate
// @Router   /api/templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	tpl := &model.TaskTemplate{UserID: userID}
	if !h.applyRequest(c, tpl, &req) {
		return
	}

	if err := h.templateRepo.Create(c.Request.Context(), tpl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		return
	}

	c.JSON(http.StatusCreated, tpl)
}

// List godoc
// @Summary  List task templates
// @Tags     Templates
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	templates, err := h.templateRepo.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// Popular godoc
// @Summary  List the most-used task templates
// @Tags     Templates
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/templates/popular [get]
func (h *TemplateHandler) Popular(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	templates, err := h.templateRepo.Popular(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// GetByID godoc
// @Summary  Get a task template by ID
// @Tags     Templates
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} model.TaskTemplate
// @Router   /api/templates/{id} [get]
func (h *TemplateHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}

	tpl, err := h.templateRepo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve template"})
		}
		return
	}

	c.JSON(http.StatusOK, tpl)
}

// Update godoc
// @Summary  Update a task template
// @Tags     Templates
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} model.TaskTemplate
// @Router   /api/templates/{id} [put]
func (h *TemplateHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}

	tpl, err := h.templateRepo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve template"})
		}
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !h.applyRequest(c, tpl, &req) {
		return
	}

	if err := h.templateRepo.Update(c.Request.Context(), tpl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update template"})
		return
	}

	c.JSON(http.StatusOK, tpl)
}

// Delete godoc
// @Summary  Delete a task template
// @Tags     Templates
// @Security BearerAuth
// @Success  204
// @Router   /api/templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}

	if err := h.templateRepo.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete template"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

type instantiateRequest struct {
	Title   string  `json:"title"`
	DueDate *string `json:"due_date"`
	DueTime *string `json:"due_time"`
}

// Instantiate godoc
// @Summary  Create a task from a template
// @Tags     Templates
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  201 {object} TaskResponse
// @Router   /api/templates/{id}/tasks [post]
func (h *TemplateHandler) Instantiate(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}

	tpl, err := h.templateRepo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve template"})
		}
		return
	}

	var req instantiateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	task := &model.Task{
		UserID:            userID,
		Title:             tpl.Name,
		Description:       tpl.Description,
		CategoryID:        tpl.CategoryID,
		PriorityID:        tpl.PriorityID,
		EstimatedDuration: tpl.EstimatedDuration,
		Status:            tpl.DefaultStatus,
	}
	if req.Title != "" {
		task.Title = req.Title
	}
	if req.DueDate != nil {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
			return
		}
		task.DueDate = d
	}
	if req.DueTime != nil {
		if _, err := time.Parse("15:04", *req.DueTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due time, expected HH:MM"})
			return
		}
		task.DueTime = req.DueTime
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	if err := h.templateRepo.IncrementUsage(c.Request.Context(), userID, id); err != nil {
		// The task already exists, so an usage-count miss is not fatal.
		c.JSON(http.StatusCreated, newTaskResponse(task))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}
