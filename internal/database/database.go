package database

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/strategyloom/strategy-services-backend/internal/models"
)

// DB is the global database instance
var DB *gorm.DB

// InitDB initializes the database connection and performs migrations
func InitDB() (*gorm.DB, error) {
	// Get database connection parameters from environment variables
	host := getEnv("DB_HOST", "")
	port := getEnv("DB_PORT", "")
	user := getEnv("DB_USER", "")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "")
	sslmode := getEnv("DB_SSLMODE", "disable")

	// Validate required environment variables
	if host == "" || port == "" || user == "" || password == "" || dbname == "" {
		return nil, fmt.Errorf("missing required database environment variables. Please check your .env file")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	// Configure GORM logger
	gormLogger := logger.New(
		logrus.New(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Create public schema if it doesn't exist
	err = db.Exec("CREATE SCHEMA IF NOT EXISTS public").Error
	if err != nil {
		return nil, fmt.Errorf("failed to create public schema: %w", err)
	}

	err = db.Exec("SET search_path TO public").Error
	if err != nil {
		return nil, fmt.Errorf("failed to set search_path: %w", err)
	}

	// Enable UUID extension
	err = db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\" SCHEMA public").Error
	if err != nil {
		return nil, fmt.Errorf("failed to enable UUID extension: %w", err)
	}

	// Auto migrate the schema
	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.APIKey{},
		&models.Submission{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := migrateSubmissions(db); err != nil {
		return nil, err
	}

	// Set global DB instance
	DB = db

	logrus.Info("Database connection established and migrations completed")
	return db, nil
}

// migrateSubmissions applies incremental changes AutoMigrate cannot express.
func migrateSubmissions(db *gorm.DB) error {
	// Migration: older deployments stored generated content in a single
	// output column. Keep it so the reconciler can adopt legacy records.
	var outputColumnExists bool
	err := db.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = 'submissions'
			AND column_name = 'output'
		)
	`).Scan(&outputColumnExists).Error
	if err != nil {
		logrus.Warnf("Failed to check if output column exists: %v", err)
	} else if !outputColumnExists {
		logrus.Info("Adding output column to submissions table...")
		err = db.Exec("ALTER TABLE submissions ADD COLUMN IF NOT EXISTS output TEXT").Error
		if err != nil {
			logrus.Warnf("Failed to add output column: %v", err)
		}
	}

	// Migration: indexes used by the list endpoints and the staleness sweep
	indexes := []struct {
		name       string
		definition string
	}{
		{"idx_submissions_user_id", "CREATE INDEX IF NOT EXISTS idx_submissions_user_id ON submissions(user_id)"},
		{"idx_submissions_status", "CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status)"},
		{"idx_submissions_status_created", "CREATE INDEX IF NOT EXISTS idx_submissions_status_created ON submissions(status, created_at)"},
	}

	for _, idx := range indexes {
		var indexExists bool
		err = db.Raw(`
			SELECT EXISTS (
				SELECT 1
				FROM pg_indexes
				WHERE schemaname = 'public'
				AND tablename = 'submissions'
				AND indexname = ?
			)
		`, idx.name).Scan(&indexExists).Error
		if err != nil {
			logrus.Warnf("Failed to check if %s index exists: %v", idx.name, err)
			continue
		}
		if !indexExists {
			logrus.Infof("Creating index %s...", idx.name)
			if err := db.Exec(idx.definition).Error; err != nil {
				logrus.Warnf("Failed to create index %s: %v", idx.name, err)
			}
		}
	}

	return nil
}

// GetDB returns the global database instance
func GetDB() *gorm.DB {
	return DB
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
