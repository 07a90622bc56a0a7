package service

import (
	"context"
	"errors"

	"hostel-admin/internal/database"
	"hostel-admin/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RoomService struct {
	*base
}

// RoomView is a room with its live occupancy and residents.
type RoomView struct {
	ID               uint           `json:"id"`
	RoomNumber       int            `json:"room_number"`
	Capacity         int            `json:"capacity"`
	CurrentOccupancy int            `json:"current_occupancy"`
	Free             int            `json:"free"`
	Students         []RoomResident `json:"students"`
}

type RoomResident struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

// List returns every room ordered by number with the students assigned to it.
func (s *RoomService) List(ctx context.Context) ([]RoomView, error) {
	var rooms []models.Room
	err := s.db.WithContext(ctx).
		Preload("Students", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("room_number ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, storeErr("rooms.List", err)
	}

	out := make([]RoomView, 0, len(rooms))
	for i := range rooms {
		r := &rooms[i]
		v := RoomView{
			ID:               r.ID,
			RoomNumber:       r.RoomNumber,
			Capacity:         r.Capacity,
			CurrentOccupancy: len(r.Students),
			Students:         make([]RoomResident, 0, len(r.Students)),
		}
		v.Free = r.Free()
		for _, st := range r.Students {
			res := RoomResident{ID: st.ID, Name: st.Name}
			if st.Picture != "" {
				pic := st.Picture
				res.Picture = &pic
			}
			v.Students = append(v.Students, res)
		}
		out = append(out, v)
	}
	return out, nil
}

// ValidateRoomID checks the fixed room numbering.
func ValidateRoomID(op string, id int) error {
	if id < database.MinRoomID || id > database.MaxRoomID {
		return validationf(op, "Room ID must be between %d and %d", database.MinRoomID, database.MaxRoomID)
	}
	return nil
}

// reserveSeat takes one seat in the room inside tx. The increment only applies
// while occupied < capacity, so two concurrent placements cannot both win the
// last seat.
func (s *RoomService) reserveSeat(tx *gorm.DB, op string, roomID uint) error {
	res := tx.Model(&models.Room{}).
		Where("id = ? AND occupied < capacity", roomID).
		UpdateColumn("occupied", gorm.Expr("occupied + 1"))
	if res.Error != nil {
		return storeErr(op, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var room models.Room
	if err := tx.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf(op, "Room %d not found", roomID)
		}
		return storeErr(op, err)
	}
	s.metrics.CapacityRejected()
	s.log.Info("room full, placement rejected",
		zap.Uint("room_id", roomID),
		zap.Int("occupied", room.Occupied),
		zap.Int("capacity", room.Capacity))
	return conflictf(op, "Room %d is at full capacity (%d/%d)", room.RoomNumber, room.Occupied, room.Capacity)
}

// releaseSeat gives a seat back; the counter never drops below zero.
func (s *RoomService) releaseSeat(tx *gorm.DB, op string, roomID uint) error {
	err := tx.Model(&models.Room{}).
		Where("id = ? AND occupied > 0", roomID).
		UpdateColumn("occupied", gorm.Expr("occupied - 1")).Error
	if err != nil {
		return storeErr(op, err)
	}
	return nil
}

// Reconcile recounts the occupancy counters from the student rows.
func (s *RoomService) Reconcile(ctx context.Context) error {
	if err := database.ReconcileOccupancy(s.db.WithContext(ctx)); err != nil {
		return storeErr("rooms.Reconcile", err)
	}
	return nil
}
