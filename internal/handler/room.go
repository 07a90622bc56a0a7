package handler

import (
	"hostel-admin/internal/service"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RoomHandler struct {
	Rooms *service.RoomService
	Log   *zap.Logger
}

func NewRoomHandler(svc *service.Services, log *zap.Logger) *RoomHandler {
	return &RoomHandler{Rooms: svc.Rooms, Log: log}
}

// ListRooms GET /api/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.Rooms.List(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"rooms": rooms})
}
