package handler

import (
	"fmt"
	"net/http"
	"time"

	"hostel-admin/internal/service"
	"hostel-admin/internal/sheet"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FeeHandler records fee payments and serves the fee reports.
type FeeHandler struct {
	Fees *service.FeeService
	Log  *zap.Logger
}

func NewFeeHandler(svc *service.Services, log *zap.Logger) *FeeHandler {
	return &FeeHandler{Fees: svc.Fees, Log: log}
}

type collectFeeReq struct {
	StudentID     uint        `json:"student_id" binding:"required"`
	Amount        util.Amount `json:"amount" binding:"required"`
	Date          string      `json:"date"`
	PaymentMethod string      `json:"payment_method" binding:"max=50"`
}

// CollectFee POST /api/fees
func (h *FeeHandler) CollectFee(c *gin.Context) {
	var req collectFeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "student_id and amount are required")
		return
	}
	record, status, err := h.Fees.RecordPayment(c.Request.Context(), service.PaymentInput{
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		Date:          req.Date,
		PaymentMethod: req.PaymentMethod,
		AdminID:       adminID(c),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Created(c, util.Response{
		"message": "Fee collected successfully",
		"fee_record": gin.H{
			"id":             record.ID,
			"student_id":     record.StudentID,
			"amount":         util.FormatCents(record.AmountCent),
			"amount_cent":    record.AmountCent,
			"date_paid":      record.DatePaid.Format(util.DateLayout),
			"month_year":     record.MonthYear,
			"payment_method": record.PaymentMethod,
		},
		"fee_status":     status.Status,
		"total_paid":     util.FormatCents(status.PaidCent),
		"remaining":      util.FormatCents(status.RemainingCent),
		"remaining_cent": status.RemainingCent,
	})
}

// Overview GET /api/fees?month&year
func (h *FeeHandler) Overview(c *gin.Context) {
	month, err := monthQuery(c, h.Fees.Today())
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	ov, err := h.Fees.Overview(c.Request.Context(), month)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"fees": ov})
}

// ListRecords GET /api/fee-records
func (h *FeeHandler) ListRecords(c *gin.Context) {
	records, err := h.Fees.RecordsBetween(c.Request.Context(), time.Time{}, time.Time{})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"fee_records": records})
}

// Export GET /api/fees/export?month&year streams the month's payments as xlsx.
func (h *FeeHandler) Export(c *gin.Context) {
	month, err := monthQuery(c, h.Fees.Today())
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	start, end := util.MonthRange(month)
	records, err := h.Fees.RecordsBetween(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	report := sheet.Report{
		Sheet: "Fees",
		Title: fmt.Sprintf("Fee collection %s", util.MonthKey(start)),
		Columns: []sheet.Column{
			{Title: "Date", Width: 12},
			{Title: "Student", Width: 28},
			{Title: "Room", Width: 8},
			{Title: "Method", Width: 14},
			{Title: "Amount", Width: 14},
		},
		TotalLabel: "Total",
	}
	var total int64
	for _, r := range records {
		report.Rows = append(report.Rows, []interface{}{
			r.DatePaid, r.Student.Name, r.Student.RoomNumber, r.PaymentMethod, r.Amount,
		})
		total += r.AmountCent
	}
	report.Total = util.FormatCents(total)

	c.Header("Content-Type", sheet.ContentTypeXLSX)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="fees_%s.xlsx"`, util.MonthKey(start)))
	if err := report.Write(c.Writer); err != nil {
		h.Log.Error("write fee export", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
	}
}
