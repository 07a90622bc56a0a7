package handler

import (
	"net/http"
	"strconv"

	"hostel-admin/internal/service"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EmployeeHandler serves staff records and their salary payments.
type EmployeeHandler struct {
	Employees *service.EmployeeService
	Salaries  *service.SalaryService
	Log       *zap.Logger
}

func NewEmployeeHandler(svc *service.Services, log *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{Employees: svc.Employees, Salaries: svc.Salaries, Log: log}
}

type createEmployeeReq struct {
	Name       string      `json:"name"`
	Position   string      `json:"position"`
	BaseSalary util.Amount `json:"base_salary"`
	HireDate   string      `json:"hire_date"`
}

type updateEmployeeReq struct {
	Name       *string      `json:"name"`
	Position   *string      `json:"position"`
	BaseSalary *util.Amount `json:"base_salary"`
	Status     *string      `json:"status"`
}

type paySalaryReq struct {
	MonthYear     string      `json:"month_year"`
	AmountPaid    util.Amount `json:"amount_paid"`
	PaymentMethod string      `json:"payment_method"`
	Notes         string      `json:"notes"`
}

type updateSalaryReq struct {
	AmountPaid    *util.Amount `json:"amount_paid"`
	PaymentMethod *string      `json:"payment_method"`
	Notes         *string      `json:"notes"`
}

// ---------- employees ----------

func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	list, err := h.Employees.List(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"employees": list})
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req createEmployeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	e, err := h.Employees.Create(c.Request.Context(), service.EmployeeInput{
		Name:       req.Name,
		Position:   req.Position,
		BaseSalary: req.BaseSalary,
		HireDate:   req.HireDate,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Created(c, util.Response{
		"message":     "Employee added successfully",
		"employee_id": e.ID,
		"employee":    e,
	})
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateEmployeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	e, err := h.Employees.Update(c.Request.Context(), id, service.EmployeeUpdate{
		Name:       req.Name,
		Position:   req.Position,
		BaseSalary: req.BaseSalary,
		Status:     req.Status,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"message":  "Employee updated successfully",
		"employee": e,
	})
}

func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Employees.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"message": "Employee deleted successfully"})
}

// ---------- salaries ----------

// ListSalaries GET /api/employees/:id/salaries
func (h *EmployeeHandler) ListSalaries(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.Salaries.ListForEmployee(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"employee":       out.Employee,
		"salary_records": out.Records,
	})
}

// PaySalary POST /api/employees/:id/salaries
func (h *EmployeeHandler) PaySalary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req paySalaryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	rec, err := h.Salaries.Pay(c.Request.Context(), id, service.SalaryInput{
		MonthYear:     req.MonthYear,
		AmountPaid:    req.AmountPaid,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		AdminID:       adminID(c),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Created(c, util.Response{
		"message":       "Salary payment recorded successfully",
		"salary_record": rec,
	})
}

// UpdateSalary PUT /api/salaries/:id
func (h *EmployeeHandler) UpdateSalary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateSalaryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	rec, err := h.Salaries.Update(c.Request.Context(), id, service.SalaryUpdate{
		AmountPaid:    req.AmountPaid,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"message":       "Salary payment updated successfully",
		"salary_record": rec,
	})
}

// DeleteSalary DELETE /api/salaries/:id
func (h *EmployeeHandler) DeleteSalary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Salaries.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"message": "Salary payment deleted successfully"})
}

// MonthlySummary GET /api/salaries/summary/:month_year
func (h *EmployeeHandler) MonthlySummary(c *gin.Context) {
	sum, err := h.Salaries.MonthlySummary(c.Request.Context(), c.Param("month_year"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"summary": sum})
}

// YearlySummary GET /api/salaries/yearly-summary/:year
func (h *EmployeeHandler) YearlySummary(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "year must be an integer")
		return
	}
	sum, err := h.Salaries.YearlySummary(c.Request.Context(), year)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"summary": sum})
}

// AvailableMonths GET /api/salaries/available-months
func (h *EmployeeHandler) AvailableMonths(c *gin.Context) {
	out, err := h.Salaries.AvailableMonths(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"available_months": out.Months,
		"available_years":  out.Years,
	})
}
