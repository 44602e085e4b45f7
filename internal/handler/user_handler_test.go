package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planner/internal/handler"
	"planner/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func setupUserRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := setupMockDB(t)
	userHandler := handler.NewUserHandler(repository.NewUserRepository(gormDB), testJWTSecret, 24*time.Hour)

	r := gin.New()
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	return r, mock
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	router, mock := setupUserRouter(t)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .* LIMIT .*`).
		WithArgs("test@example.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Act
	resp := postJSON(router, "/register", gin.H{
		"name":     "Test User",
		"email":    "Test@Example.com",
		"password": "password123",
	})

	// Assert - email is lowercased before storage
	assert.Equal(t, http.StatusCreated, resp.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "test@example.com", body["email"])
	assert.Equal(t, "Test User", body["name"])
	assert.NotEmpty(t, body["id"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_UserAlreadyExists(t *testing.T) {
	// Arrange
	router, mock := setupUserRouter(t)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .* LIMIT .*`).
		WithArgs("existing@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name"}).
			AddRow(uuid.New().String(), "existing@example.com", "hashed", "Existing User"))

	// Act
	resp := postJSON(router, "/register", gin.H{
		"name":     "Test User",
		"email":    "existing@example.com",
		"password": "password123",
	})

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "User already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_InvalidInput(t *testing.T) {
	router, _ := setupUserRouter(t)

	// Password below the minimum length
	resp := postJSON(router, "/register", gin.H{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "123",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router, mock := setupUserRouter(t)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .* LIMIT .*`).
		WithArgs("test@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name"}).
			AddRow(userID.String(), "test@example.com", string(hashedPassword), "Test User"))

	// Act
	resp := postJSON(router, "/login", gin.H{
		"email":    "test@example.com",
		"password": "password123",
	})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, userID.String(), body.User.ID)
	assert.Equal(t, "test@example.com", body.User.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	router, mock := setupUserRouter(t)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .* LIMIT .*`).
		WithArgs("test@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name"}).
			AddRow(uuid.New().String(), "test@example.com", string(hashedPassword), "Test User"))

	// Act
	resp := postJSON(router, "/login", gin.H{
		"email":    "test@example.com",
		"password": "wrong_password",
	})

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UserNotFound(t *testing.T) {
	// Arrange
	router, mock := setupUserRouter(t)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .* LIMIT .*`).
		WithArgs("nobody@example.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	resp := postJSON(router, "/login", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}
