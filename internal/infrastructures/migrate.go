package infrastructures

import (
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables this service owns or reads.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Tenant{},
		&models.BrandKit{},
		&models.PrizeConfiguration{},
		&models.CheckInSubmission{},
		&models.Content{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}

	logrus.Info("database migration completed")
	return nil
}
