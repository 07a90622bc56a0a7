package models

import "time"

// FeeRecord is one fee payment. MonthYear ("YYYY-MM") is derived from DatePaid.
type FeeRecord struct {
	ID            uint      `gorm:"primaryKey"`
	StudentID     uint      `gorm:"index;not null"`
	AmountCent    int64     `gorm:"not null"`
	DatePaid      time.Time `gorm:"index;not null"`
	MonthYear     string    `gorm:"size:7;index;not null"`
	PaymentMethod string    `gorm:"size:50;not null;default:cash"`
	RecordedBy    *uint     `gorm:"index"`
	CreatedAt     time.Time

	Student *Student
}
