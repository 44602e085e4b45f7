package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"planner/internal/middleware"
	"planner/internal/model"
	"planner/internal/repository"
)

type SettingsHandler struct {
	repo *repository.SettingsRepository
}

func NewSettingsHandler(repo *repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo}
}

// Get godoc
// @Summary  Get settings, stored values merged over defaults
// @Tags     Settings
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	stored, err := h.repo.GetAll(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings"})
		return
	}

	settings := model.DefaultSettings()
	for _, s := range stored {
		var v any
		if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
			// Rows written before the JSON encoding switch hold plain strings.
			v = s.Value
		}
		settings[s.Key] = v
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// Update godoc
// @Summary  Update settings
// @Tags     Settings
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No settings provided"})
		return
	}

	defaults := model.DefaultSettings()
	for key := range req {
		if _, known := defaults[key]; !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown setting: " + key})
			return
		}
	}

	for key, value := range req {
		raw, err := json.Marshal(value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value for setting: " + key})
			return
		}
		setting := &model.Setting{UserID: userID, Key: key, Value: string(raw)}
		if err := h.repo.Upsert(c.Request.Context(), setting); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	}

	h.Get(c)
}

// Reset godoc
// @Summary  Reset all settings to defaults
// @Tags     Settings
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/settings/reset [post]
func (h *SettingsHandler) Reset(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := h.repo.Reset(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": model.DefaultSettings()})
}
