package models

import "time"

// Expense is an outgoing payment recorded by an admin.
// SalaryRecordID is set on rows synthesized from a salary payment.
type Expense struct {
	ID             uint      `gorm:"primaryKey"`
	ItemName       string    `gorm:"size:100;index;not null"`
	PriceCent      int64     `gorm:"not null"`
	Date           time.Time `gorm:"index;not null"`
	AdminID        uint      `gorm:"index;not null"`
	SalaryRecordID *uint     `gorm:"uniqueIndex"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
