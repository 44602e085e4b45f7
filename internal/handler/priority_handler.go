package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/internal/repository"
)

// PriorityHandler serves the fixed priority catalog. Priorities are
// seeded by migration and shared across users, so there is no write API.
type PriorityHandler struct {
	repo *repository.PriorityRepository
}

func NewPriorityHandler(repo *repository.PriorityRepository) *PriorityHandler {
	return &PriorityHandler{repo: repo}
}

// List godoc
// @Summary  List priority levels
// @Tags     Priorities
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/priorities [get]
func (h *PriorityHandler) List(c *gin.Context) {
	priorities, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve priorities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"priorities": priorities})
}

// GetByID godoc
// @Summary  Get a priority level by ID
// @Tags     Priorities
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} model.Priority
// @Router   /api/priorities/{id} [get]
func (h *PriorityHandler) GetByID(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority ID"})
		return
	}

	priority, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPriorityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Priority not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve priority"})
		}
		return
	}

	c.JSON(http.StatusOK, priority)
}
