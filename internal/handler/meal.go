package handler

import (
	"net/http"

	"hostel-admin/internal/service"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MealHandler struct {
	Meals *service.MealService
	Log   *zap.Logger
}

func NewMealHandler(svc *service.Services, log *zap.Logger) *MealHandler {
	return &MealHandler{Meals: svc.Meals, Log: log}
}

type timingsReq struct {
	Timings []service.MealTimingView `json:"timings" binding:"required"`
}

type menuReq struct {
	Menu []service.MealMenuView `json:"menu" binding:"required"`
}

// GetMeals serves both GET /api/meals and GET /api/meals/public.
func (h *MealHandler) GetMeals(c *gin.Context) {
	meals, err := h.Meals.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"timings": meals.Timings,
		"menu":    meals.Menu,
	})
}

// UpdateTimings PUT /api/meals/timings
func (h *MealHandler) UpdateTimings(c *gin.Context) {
	var req timingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "timings must be a list")
		return
	}
	timings, err := h.Meals.UpsertTimings(c.Request.Context(), req.Timings)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"timings": timings})
}

// UpdateMenu PUT /api/meals/menu
func (h *MealHandler) UpdateMenu(c *gin.Context) {
	var req menuReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "menu must be a list of {day_of_week, meal_name, menu_items}")
		return
	}
	menu, err := h.Meals.UpsertMenu(c.Request.Context(), req.Menu)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"menu": menu})
}
