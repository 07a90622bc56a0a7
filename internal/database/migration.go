package database

import (
	"fmt"

	"hostel-admin/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.Session{},
		&models.Room{},
		&models.Student{},
		&models.FeeRecord{},
		&models.Employee{},
		&models.SalaryRecord{},
		&models.Expense{},
		&models.HostelRegistration{},
		&models.MealTiming{},
		&models.MealMenu{},
		&models.AuditLog{},
		&models.Backup{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Setup migrates the schema, seeds the fixed rooms and recounts room occupancy.
func Setup(db *gorm.DB) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}
	if err := SeedRooms(db); err != nil {
		return err
	}
	return ReconcileOccupancy(db)
}
