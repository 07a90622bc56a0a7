package models

import "time"

const (
	RegistrationPending   = "pending"
	RegistrationContacted = "contacted"
	RegistrationApproved  = "approved"
	RegistrationRejected  = "rejected"
)

// RegistrationStatuses lists the workflow states in display order.
var RegistrationStatuses = []string{
	RegistrationPending,
	RegistrationContacted,
	RegistrationApproved,
	RegistrationRejected,
}

func ValidRegistrationStatus(s string) bool {
	for _, v := range RegistrationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// HostelRegistration is a request submitted through the public intake form.
type HostelRegistration struct {
	ID                   uint      `gorm:"primaryKey"`
	Name                 string    `gorm:"size:100;not null"`
	Email                string    `gorm:"size:120;index;not null"`
	Phone                string    `gorm:"size:20;not null"`
	Address              string    `gorm:"type:text;not null"`
	EmergencyContact     string    `gorm:"size:20;not null"`
	EmergencyContactName string    `gorm:"size:100;not null"`
	University           string    `gorm:"size:100;not null"`
	Course               string    `gorm:"size:100;not null"`
	YearOfStudy          string    `gorm:"size:20;not null"`
	ExpectedDuration     string    `gorm:"size:50;not null"`
	SpecialRequirements  string    `gorm:"type:text"`
	Status               string    `gorm:"size:20;index;not null;default:pending"`
	SubmittedAt          time.Time `gorm:"index;not null"`
	AdminNotes           string    `gorm:"type:text"`
	ContactedAt          *time.Time
	ContactedBy          *uint
}
