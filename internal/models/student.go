package models

import "time"

const (
	StudentActive    = "active"
	StudentInactive  = "inactive"
	StudentGraduated = "graduated"
)

const (
	FeeUnpaid  = "unpaid"
	FeePartial = "partial"
	FeePaid    = "paid"
)

// ValidStudentStatus reports whether s is a known student status.
func ValidStudentStatus(s string) bool {
	switch s {
	case StudentActive, StudentInactive, StudentGraduated:
		return true
	}
	return false
}

// Student is a resident assigned to exactly one room.
// FeeStatus is a snapshot written when a payment is recorded (or by `fees refresh`);
// the live value is always derived from fee records.
type Student struct {
	ID             uint      `gorm:"primaryKey"`
	Name           string    `gorm:"size:100;index;not null"`
	Email          *string   `gorm:"size:120;uniqueIndex"`
	Phone          string    `gorm:"size:20"`
	FeeCent        int64     `gorm:"not null"` // monthly fee
	RoomID         uint      `gorm:"index;not null"`
	Picture        string    `gorm:"size:255"`
	Status         string    `gorm:"size:20;index;not null;default:active"`
	FeeStatus      string    `gorm:"size:20;index;not null;default:unpaid"`
	EnrollmentDate time.Time `gorm:"not null"`
	LastFeePayment *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Room       *Room
	FeeRecords []FeeRecord
}
