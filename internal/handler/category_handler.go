package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/internal/middleware"
	"planner/internal/model"
	"planner/internal/repository"
)

type CategoryHandler struct {
	repo *repository.CategoryRepository
}

func NewCategoryHandler(repo *repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
}

type categoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	TaskCount   *int64 `json:"task_count,omitempty"`
}

func newCategoryResponse(cat *model.Category, taskCount *int64) categoryResponse {
	return categoryResponse{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		Color:       cat.Color,
		TaskCount:   taskCount,
	}
}

// Create godoc
// @Summary  Create a category
// @Tags     Categories
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  201 {object} categoryResponse
// @Router   /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	existing, err := h.repo.GetByName(c.Request.Context(), userID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check category name"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		return
	}

	color := req.Color
	if color == "" {
		color = model.DefaultCategoryColor
	}
	cat := &model.Category{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       color,
	}
	if err := h.repo.Create(c.Request.Context(), cat); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, newCategoryResponse(cat, nil))
}

// List godoc
// @Summary  List categories with task counts
// @Tags     Categories
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	categories, err := h.repo.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		count, err := h.repo.TaskCount(c.Request.Context(), categories[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tasks"})
			return
		}
		out = append(out, newCategoryResponse(&categories[i], &count))
	}

	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// GetByID godoc
// @Summary  Get a category by ID
// @Tags     Categories
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} categoryResponse
// @Router   /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	cat, err := h.repo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		}
		return
	}

	count, err := h.repo.TaskCount(c.Request.Context(), cat.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tasks"})
		return
	}

	c.JSON(http.StatusOK, newCategoryResponse(cat, &count))
}

// Update godoc
// @Summary  Update a category
// @Tags     Categories
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} categoryResponse
// @Router   /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	cat, err := h.repo.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
		}
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != cat.Name {
		existing, err := h.repo.GetByName(c.Request.Context(), userID, req.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check category name"})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
			return
		}
	}

	cat.Name = req.Name
	cat.Description = req.Description
	if req.Color != "" {
		cat.Color = req.Color
	}

	if err := h.repo.Update(c.Request.Context(), cat); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, newCategoryResponse(cat, nil))
}

// Delete godoc
// @Summary  Delete a category, detaching its tasks
// @Tags     Categories
// @Security BearerAuth
// @Success  204
// @Router   /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
