package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"planner/internal/middleware"
	"planner/internal/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview godoc
// @Summary  Task statistics for the recent period
// @Tags     Analytics
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} service.Overview
// @Router   /api/analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	overview, err := h.analytics.Overview(c.Request.Context(), userID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Categories godoc
// @Summary  Per-category completion statistics
// @Tags     Analytics
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/analytics/categories [get]
func (h *AnalyticsHandler) Categories(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	stats, err := h.analytics.Categories(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": stats})
}

// Priorities godoc
// @Summary  Per-priority completion and overdue statistics
// @Tags     Analytics
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/analytics/priorities [get]
func (h *AnalyticsHandler) Priorities(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	stats, err := h.analytics.Priorities(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"priorities": stats})
}

// Goals godoc
// @Summary  Goal progress statistics
// @Tags     Analytics
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} service.GoalStats
// @Router   /api/analytics/goals [get]
func (h *AnalyticsHandler) Goals(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	stats, err := h.analytics.Goals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
