package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DBTypeSQLite   = "sqlite"
	DBTypeMySQL    = "mysql"
	DBTypePostgres = "postgres"
)

type Config struct {
	DBType     string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort string
	JWTSecret  string
	JWTExpiry  time.Duration

	LogDevelopment bool

	ReminderInterval    time.Duration
	ReminderWindow      time.Duration
	NotifyWebhookURL    string
	ReminderMaxFailures int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DBType:     getEnv("DB_TYPE", DBTypeSQLite),
		SQLitePath: getEnv("SQLITE_PATH", "data/planner.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "planner_user"),
		DBPassword: getEnv("DB_PASSWORD", "planner_pass"),
		DBName:     getEnv("DB_NAME", "planner_db"),

		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry:  time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,

		LogDevelopment: getEnvBool("LOG_DEVELOPMENT", true),

		ReminderInterval:    time.Duration(getEnvInt("REMINDER_CHECK_SECONDS", 30)) * time.Second,
		ReminderWindow:      time.Duration(getEnvInt("REMINDER_WINDOW_MINUTES", 15)) * time.Minute,
		NotifyWebhookURL:    getEnv("NOTIFY_WEBHOOK_URL", ""),
		ReminderMaxFailures: getEnvInt("REMINDER_MAX_FAILURES", 5),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
