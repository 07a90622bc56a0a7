package handler

import (
	"net/http"

	"hostel-admin/internal/service"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegistrationHandler struct {
	Registrations *service.RegistrationService
	Log           *zap.Logger
}

func NewRegistrationHandler(svc *service.Services, log *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{Registrations: svc.Registrations, Log: log}
}

type updateRegistrationReq struct {
	Status     *string `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

// Submit POST /api/registration (public)
func (h *RegistrationHandler) Submit(c *gin.Context) {
	var req service.RegistrationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	id, err := h.Registrations.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Created(c, util.Response{
		"message":         "Registration submitted successfully! We will contact you soon.",
		"registration_id": id,
	})
}

// List GET /api/admin/registrations?page&per_page&status
func (h *RegistrationHandler) List(c *gin.Context) {
	list, meta, err := h.Registrations.List(c.Request.Context(), pageQuery(c), c.DefaultQuery("status", "all"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"registrations": list,
		"meta":          meta,
	})
}

// Update PUT /api/admin/registrations/:id
func (h *RegistrationHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateRegistrationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	err := h.Registrations.Update(c.Request.Context(), id, service.RegistrationUpdate{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
		AdminID:    adminID(c),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"message": "Registration updated successfully"})
}

// Delete DELETE /api/admin/registrations/:id
func (h *RegistrationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Registrations.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"message": "Registration deleted successfully"})
}

// Stats GET /api/admin/registrations/stats
func (h *RegistrationHandler) Stats(c *gin.Context) {
	st, err := h.Registrations.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"stats": st})
}
