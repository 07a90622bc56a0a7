package models

import "time"

// Backup is an encrypted snapshot file of the hostel tables.
type Backup struct {
	ID        uint   `gorm:"primaryKey"`
	AdminID   uint   `gorm:"index;not null"`
	FileName  string `gorm:"size:255;not null"`
	FilePath  string `gorm:"size:1024;not null"`
	Size      int64
	CreatedAt time.Time
}
