package database

import (
	"fmt"
	"log"

	"github.com/michaelsiame/edutrack-lms-sub004/config"
	"github.com/michaelsiame/edutrack-lms-sub004/models"
	courseModels "github.com/michaelsiame/edutrack-lms-sub004/models/course"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	cfg := config.AppConfig

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	RunMigrations(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.PaymentRecord{},
		&models.PaymentPlan{},
		&models.WebhookLog{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.CourseContent{},
		&courseModels.MCQOption{},
		&courseModels.MCQAttempt{},
		&courseModels.ContentCompletion{},
		&courseModels.Enrollment{},
		&courseModels.CertificateRequest{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// One live enrollment per user and course. Cancelled or removed rows do
	// not block re-enrolling, so the index is partial.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollments_user_course_live
		ON enrollments (user_id, course_id)
		WHERE status <> 'CANCELLED' AND is_deleted = false AND deleted_at IS NULL`).Error; err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
