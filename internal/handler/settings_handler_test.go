package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"planner/internal/handler"
	"planner/internal/middleware"
	"planner/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

// fakeAuth injects a fixed user id the way JWTAuthMiddleware would.
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func setupSettingsRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := setupMockDB(t)
	settingsHandler := handler.NewSettingsHandler(repository.NewSettingsRepository(gormDB))

	r := gin.New()
	api := r.Group("/api", fakeAuth(userID))
	api.GET("/settings", settingsHandler.Get)
	api.POST("/settings/reset", settingsHandler.Reset)

	return r, mock
}

func TestSettingsHandler_Get_MergesStoredOverDefaults(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mock := setupSettingsRouter(t, userID)

	mock.ExpectQuery(`SELECT .* FROM "settings" WHERE user_id = .*`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "key", "value"}).
			AddRow(userID.String(), "reminder_minutes_before", "30").
			AddRow(userID.String(), "default_calendar_view", `"week"`))

	req, _ := http.NewRequest("GET", "/api/settings", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Settings map[string]any `json:"settings"`
	}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	// Stored rows override the defaults
	assert.Equal(t, float64(30), body.Settings["reminder_minutes_before"])
	assert.Equal(t, "week", body.Settings["default_calendar_view"])
	// Untouched keys keep their default value
	assert.Equal(t, true, body.Settings["notifications_enabled"])
	assert.Equal(t, "monday", body.Settings["week_starts_on"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsHandler_Reset(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mock := setupSettingsRouter(t, userID)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "settings" WHERE user_id = .*`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	req, _ := http.NewRequest("POST", "/api/settings/reset", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert - the response carries the full default set again
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Settings map[string]any `json:"settings"`
	}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, float64(15), body.Settings["reminder_minutes_before"])
	assert.Equal(t, "month", body.Settings["default_calendar_view"])

	assert.NoError(t, mock.ExpectationsWereMet())
}
