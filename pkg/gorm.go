package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/exam-form-service/internal/config"
	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase connects to the submission archive and migrates its table.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.SubmissionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate submission archive: %w", err)
	}

	return db, nil
}
