package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"hostel-admin/internal/service"
	"hostel-admin/internal/sheet"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ExpenseHandler struct {
	Expenses *service.ExpenseService
	Log      *zap.Logger
}

func NewExpenseHandler(svc *service.Services, log *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{Expenses: svc.Expenses, Log: log}
}

type createExpenseReq struct {
	ItemName string      `json:"item_name"`
	Price    util.Amount `json:"price"`
	Date     string      `json:"date"`
}

// ListExpenses GET /api/expenses?month&year
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	month, err := monthQuery(c, h.Expenses.Today())
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	ledger, err := h.Expenses.Ledger(c.Request.Context(), month)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"expenses": ledger})
}

// CreateExpense POST /api/expenses
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req createExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	e, err := h.Expenses.Create(c.Request.Context(), service.ExpenseInput{
		ItemName: req.ItemName,
		Price:    req.Price,
		Date:     req.Date,
		AdminID:  adminID(c),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Created(c, util.Response{
		"message": "Expense added successfully",
		"expense": e,
	})
}

// DeleteExpense DELETE /api/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Expenses.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"message": "Expense deleted successfully"})
}

// Report GET /api/expenses/report/:year/:month streams the month's expenses as xlsx.
func (h *ExpenseHandler) Report(c *gin.Context) {
	year, err1 := strconv.Atoi(c.Param("year"))
	mon, err2 := strconv.Atoi(c.Param("month"))
	if err1 != nil || err2 != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "year and month must be integers")
		return
	}
	month, err := util.YearMonth(year, mon)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	items, total, err := h.Expenses.InMonth(c.Request.Context(), month)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	report := sheet.Report{
		Sheet: "Expenses",
		Title: fmt.Sprintf("Expense Report - %s %d", month.Month(), month.Year()),
		Columns: []sheet.Column{
			{Title: "Date", Width: 12},
			{Title: "Item", Width: 40},
			{Title: "Price", Width: 14},
		},
		TotalLabel: "Total",
		Total:      util.FormatCents(total),
	}
	for _, e := range items {
		report.Rows = append(report.Rows, []interface{}{e.Date, e.ItemName, e.Price})
	}

	c.Header("Content-Type", sheet.ContentTypeXLSX)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="expense_report_%d_%02d.xlsx"`, year, mon))
	if err := report.Write(c.Writer); err != nil {
		h.Log.Error("write expense report", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
	}
}
