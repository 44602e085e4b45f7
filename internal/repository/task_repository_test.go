package repository_test

import (
	"context"
	"testing"

	"planner/internal/model"
	"planner/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTaskRepository_Create_DefaultsPriority(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	task := &model.Task{
		UserID: uuid.New(),
		Title:  "Buy groceries",
		Status: model.TaskStatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Create(context.Background(), task)

	// Assert - the medium priority is filled in when none was given
	assert.NoError(t, err)
	assert.Equal(t, model.DefaultPriorityID, task.PriorityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE .*id = .* AND user_id = .*`).
		WithArgs(42, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category_id", "priority_id", "title", "status"}).
			AddRow(42, userID.String(), nil, 2, "Buy groceries", "pending"))
	// Category preload is skipped for the NULL foreign key, the priority
	// relation still loads.
	mock.ExpectQuery(`SELECT .* FROM "priority_levels" WHERE "priority_levels"."id" = .*`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "level", "color"}).
			AddRow(2, "Medium", 2, "#f39c12"))

	// Act
	task, err := taskRepo.GetByID(context.Background(), userID, 42)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, task)
	assert.Equal(t, uint(42), task.ID)
	assert.Equal(t, "Buy groceries", task.Title)
	assert.NotNil(t, task.Priority)
	assert.Equal(t, "Medium", task.Priority.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE .*id = .* AND user_id = .*`).
		WithArgs(42, userID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	task, err := taskRepo.GetByID(context.Background(), userID, 42)

	// Assert
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete_Success(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE id = .* AND user_id = .*`).
		WithArgs(42, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Delete(context.Background(), userID, 42)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE id = .* AND user_id = .*`).
		WithArgs(42, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Delete(context.Background(), userID, 42)

	// Assert
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
