package models

import "time"

const (
	EmployeeActive     = "active"
	EmployeeInactive   = "inactive"
	EmployeeTerminated = "terminated"
)

func ValidEmployeeStatus(s string) bool {
	switch s {
	case EmployeeActive, EmployeeInactive, EmployeeTerminated:
		return true
	}
	return false
}

type Employee struct {
	ID             uint      `gorm:"primaryKey"`
	Name           string    `gorm:"size:100;not null"`
	Position       string    `gorm:"size:100;not null"` // Manager, Cook, ...
	BaseSalaryCent int64     `gorm:"not null"`
	HireDate       time.Time `gorm:"not null"`
	Status         string    `gorm:"size:20;index;not null;default:active"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	SalaryRecords []SalaryRecord
}

// SalaryRecord is a salary payment; at most one per employee and month.
type SalaryRecord struct {
	ID             uint      `gorm:"primaryKey"`
	EmployeeID     uint      `gorm:"not null;uniqueIndex:idx_salary_employee_month"`
	MonthYear      string    `gorm:"size:7;not null;uniqueIndex:idx_salary_employee_month;index"`
	AmountPaidCent int64     `gorm:"not null"`
	DatePaid       time.Time `gorm:"not null"`
	PaymentMethod  string    `gorm:"size:50;not null;default:cash"` // cash, bank_transfer, check
	Notes          string    `gorm:"type:text"`
	PaidBy         *uint     `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Employee *Employee
}
