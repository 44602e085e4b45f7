package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"planner/internal/config"
	"planner/internal/handler"
	"planner/internal/logger"
	"planner/internal/middleware"
	"planner/internal/notify"
	"planner/internal/repository"
	"planner/internal/service"
	"planner/internal/worker"
	"planner/migrations"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Worker *worker.ReminderWorker
}

func Init(cfg *config.Config) (*Server, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	if err := migrations.Up(sqlDB, cfg.DBType); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("connected to database", zap.String("type", cfg.DBType))

	r := gin.Default()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	priorityRepo := repository.NewPriorityRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Services
	analyticsService := service.NewAnalyticsService(taskRepo, goalRepo, categoryRepo, priorityRepo)
	searchService := service.NewSearchService(taskRepo, goalRepo, categoryRepo)

	// Reminder worker
	var notifier notify.Notifier = notify.NewLogNotifier()
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.Multi{notifier, notify.NewWebhookNotifier(cfg.NotifyWebhookURL)}
	}
	reminderWorker := worker.NewReminderWorker(
		taskRepo, notifier,
		cfg.ReminderInterval, cfg.ReminderWindow, cfg.ReminderMaxFailures,
	)

	// Handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	taskHandler := handler.NewTaskHandler(taskRepo, categoryRepo, priorityRepo)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	priorityHandler := handler.NewPriorityHandler(priorityRepo)
	goalHandler := handler.NewGoalHandler(goalRepo, taskRepo, categoryRepo)
	templateHandler := handler.NewTemplateHandler(templateRepo, taskRepo, categoryRepo, priorityRepo)
	settingsHandler := handler.NewSettingsHandler(settingsRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	searchHandler := handler.NewSearchHandler(searchService)
	systemHandler := handler.NewSystemHandler(cfg, taskRepo, reminderWorker)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/health", systemHandler.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Task routes
		api.POST("/tasks", taskHandler.Create)
		api.GET("/tasks", taskHandler.List)
		api.GET("/tasks/overdue", taskHandler.Overdue)
		api.GET("/tasks/recurring", taskHandler.Recurring)
		api.GET("/tasks/calendar/:date", taskHandler.Calendar)
		api.GET("/tasks/:id", taskHandler.GetByID)
		api.PUT("/tasks/:id", taskHandler.Update)
		api.DELETE("/tasks/:id", taskHandler.Delete)
		api.POST("/tasks/:id/complete", taskHandler.Complete)
		api.POST("/tasks/:id/start", taskHandler.Start)

		// Category routes
		api.POST("/categories", categoryHandler.Create)
		api.GET("/categories", categoryHandler.List)
		api.GET("/categories/:id", categoryHandler.GetByID)
		api.PUT("/categories/:id", categoryHandler.Update)
		api.DELETE("/categories/:id", categoryHandler.Delete)

		// Priority routes
		api.GET("/priorities", priorityHandler.List)
		api.GET("/priorities/:id", priorityHandler.GetByID)

		// Goal routes
		api.POST("/goals", goalHandler.Create)
		api.GET("/goals", goalHandler.List)
		api.GET("/goals/:id", goalHandler.GetByID)
		api.PUT("/goals/:id", goalHandler.Update)
		api.DELETE("/goals/:id", goalHandler.Delete)
		api.POST("/goals/:id/progress", goalHandler.UpdateProgress)
		api.GET("/goals/:id/tasks", goalHandler.Tasks)
		api.POST("/goals/:id/tasks/:task_id", goalHandler.LinkTask)
		api.DELETE("/goals/:id/tasks/:task_id", goalHandler.UnlinkTask)

		// Template routes
		api.POST("/templates", templateHandler.Create)
		api.GET("/templates", templateHandler.List)
		api.GET("/templates/popular", templateHandler.Popular)
		api.GET("/templates/:id", templateHandler.GetByID)
		api.PUT("/templates/:id", templateHandler.Update)
		api.DELETE("/templates/:id", templateHandler.Delete)
		api.POST("/templates/:id/tasks", templateHandler.Instantiate)

		// Settings routes
		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Update)
		api.POST("/settings/reset", settingsHandler.Reset)

		// Analytics routes
		api.GET("/analytics/overview", analyticsHandler.Overview)
		api.GET("/analytics/categories", analyticsHandler.Categories)
		api.GET("/analytics/priorities", analyticsHandler.Priorities)
		api.GET("/analytics/goals", analyticsHandler.Goals)

		// Search
		api.GET("/search", searchHandler.Global)

		// System routes
		api.GET("/database/info", systemHandler.DatabaseInfo)
		api.POST("/database/test", systemHandler.DatabaseTest)
		api.GET("/notifications/status", systemHandler.NotificationStatus)
		api.POST("/notifications/check", systemHandler.NotificationCheck)
		api.POST("/notifications/restart", systemHandler.NotificationRestart)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Worker: reminderWorker,
	}, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBType {
	case config.DBTypeSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		// sqlite leaves foreign keys off by default; the schema relies on
		// ON DELETE SET NULL / CASCADE, so enforcement must be switched on.
		return gorm.Open(sqlite.Open(cfg.SQLitePath+"?_foreign_keys=on"), &gorm.Config{})
	case config.DBTypeMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case config.DBTypePostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	s.Worker.Start()

	go func() {
		logger.Info("server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to listen", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	s.Worker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", err)
	}

	logger.Info("server exited properly")
}
