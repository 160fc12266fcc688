package migrations

import (
	"gorm.io/gorm"

	"order_manager/internal/models"
)

// Reset drops and recreates every table. Development use only; production
// relies on AutoMigrate at startup.
func Reset(db *gorm.DB) error {
	err := db.Migrator().DropTable(
		&models.ReminderLog{},
		&models.OrderHistory{},
		&models.Order{},
		&models.ProjectMember{},
		&models.Project{},
		&models.User{},
	)
	if err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Order{},
		&models.OrderHistory{},
		&models.ReminderLog{},
	)
}
