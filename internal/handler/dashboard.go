package handler

import (
	"hostel-admin/internal/service"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	Reports *service.ReportService
	Log     *zap.Logger
}

func NewDashboardHandler(svc *service.Services, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Reports: svc.Reports, Log: log}
}

// Dashboard GET /api/dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	d, err := h.Reports.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"dashboard": d})
}
