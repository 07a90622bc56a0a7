package models

import "time"

// Room is a fixed hostel room. Occupied counts every student row assigned to the
// room regardless of status and is only changed through conditional updates.
type Room struct {
	ID         uint `gorm:"primaryKey"`
	RoomNumber int  `gorm:"uniqueIndex;not null"`
	Capacity   int  `gorm:"not null;default:4"`
	Occupied   int  `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Students []Student
}

// Free reports the number of seats still available.
func (r *Room) Free() int {
	if r.Occupied >= r.Capacity {
		return 0
	}
	return r.Capacity - r.Occupied
}
