package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"chainscan/internal/config"
	"chainscan/internal/models"
)

var DB *gorm.DB

// One active (pending or running) scan per contract. This index is the
// actual dedup guard: the pre-enqueue read is only an optimization, the
// constraint is what holds under concurrent submissions.
const activeScanIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_scans_one_active_per_contract
ON scans (contract_id)
WHERE status IN ('pending', 'running')`

func InitDB(cfg *config.Config) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	if err := DB.AutoMigrate(&models.Contract{}, &models.Scan{}); err != nil {
		logrus.Fatalf("Failed to auto-migrate database: %v", err)
	}

	if err := DB.Exec(activeScanIndex).Error; err != nil {
		logrus.Fatalf("Failed to create active-scan index: %v", err)
	}

	logrus.Info("Database connection established and migrated")
}
