package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"planner/internal/config"
	"planner/internal/repository"
	"planner/internal/worker"
)

// SystemHandler serves health, database and notification-worker
// introspection endpoints.
type SystemHandler struct {
	cfg      *config.Config
	taskRepo *repository.TaskRepository
	worker   *worker.ReminderWorker
	started  time.Time
}

func NewSystemHandler(cfg *config.Config, taskRepo *repository.TaskRepository, w *worker.ReminderWorker) *SystemHandler {
	return &SystemHandler{cfg: cfg, taskRepo: taskRepo, worker: w, started: time.Now()}
}

// Health godoc
// @Summary  Liveness probe
// @Tags     System
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Router   /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// DatabaseInfo godoc
// @Summary  Active database backend details
// @Tags     System
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/database/info [get]
func (h *SystemHandler) DatabaseInfo(c *gin.Context) {
	info := gin.H{"type": h.cfg.DBType}
	switch h.cfg.DBType {
	case config.DBTypeSQLite:
		info["path"] = h.cfg.SQLitePath
	default:
		info["host"] = h.cfg.DBHost
		info["port"] = h.cfg.DBPort
		info["database"] = h.cfg.DBName
	}
	c.JSON(http.StatusOK, info)
}

// DatabaseTest godoc
// @Summary  Test database connectivity
// @Tags     System
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/database/test [post]
func (h *SystemHandler) DatabaseTest(c *gin.Context) {
	if err := h.taskRepo.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

// NotificationStatus godoc
// @Summary  Reminder worker status
// @Tags     Notifications
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} worker.Status
// @Router   /api/notifications/status [get]
func (h *SystemHandler) NotificationStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.Status())
}

// NotificationCheck godoc
// @Summary  Run one reminder poll immediately
// @Tags     Notifications
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string]interface{}
// @Router   /api/notifications/check [post]
func (h *SystemHandler) NotificationCheck(c *gin.Context) {
	if err := h.worker.CheckNow(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": h.worker.Status()})
}

// NotificationRestart godoc
// @Summary  Restart the reminder worker
// @Tags     Notifications
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} worker.Status
// @Router   /api/notifications/restart [post]
func (h *SystemHandler) NotificationRestart(c *gin.Context) {
	h.worker.Restart()
	c.JSON(http.StatusOK, h.worker.Status())
}
