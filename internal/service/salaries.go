package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SalaryService struct {
	*base
	recordExpense bool
}

type SalaryView struct {
	ID             uint   `json:"id"`
	EmployeeID     uint   `json:"employee_id"`
	MonthYear      string `json:"month_year"`
	AmountPaidCent int64  `json:"amount_paid_cent"`
	AmountPaid     string `json:"amount_paid"`
	DatePaid       string `json:"date_paid"`
	PaymentMethod  string `json:"payment_method"`
	Notes          string `json:"notes"`
	EmployeeName   string `json:"employee_name,omitempty"`
	Position       string `json:"position,omitempty"`
}

func toSalaryView(r *models.SalaryRecord) SalaryView {
	v := SalaryView{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		MonthYear:      r.MonthYear,
		AmountPaidCent: r.AmountPaidCent,
		AmountPaid:     util.FormatCents(r.AmountPaidCent),
		DatePaid:       r.DatePaid.Format(util.DateLayout),
		PaymentMethod:  r.PaymentMethod,
		Notes:          r.Notes,
	}
	if r.Employee != nil {
		v.EmployeeName = r.Employee.Name
		v.Position = r.Employee.Position
	}
	return v
}

// salaryExpenseName is the expense label mirrored from a salary payment.
func salaryExpenseName(e *models.Employee) string {
	name := fmt.Sprintf("Salary paid to %s (%s)", e.Name, e.Position)
	if r := []rune(name); len(r) > 100 {
		name = string(r[:100])
	}
	return name
}

func findEmployee(tx *gorm.DB, op string, id uint) (*models.Employee, error) {
	var e models.Employee
	if err := tx.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf(op, "Employee %d not found", id)
		}
		return nil, err
	}
	return &e, nil
}

// EmployeeSalaries is an employee's payment history, latest month first.
type EmployeeSalaries struct {
	Employee EmployeeView `json:"employee"`
	Records  []SalaryView `json:"salary_records"`
}

func (s *SalaryService) ListForEmployee(ctx context.Context, employeeID uint) (*EmployeeSalaries, error) {
	const op = "salaries.ListForEmployee"
	db := s.db.WithContext(ctx)
	e, err := findEmployee(db, op, employeeID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	var records []models.SalaryRecord
	if err := db.Where("employee_id = ?", employeeID).Order("month_year DESC").Find(&records).Error; err != nil {
		return nil, storeErr(op, err)
	}
	out := &EmployeeSalaries{Employee: toEmployeeView(e), Records: make([]SalaryView, 0, len(records))}
	for i := range records {
		out.Records = append(out.Records, toSalaryView(&records[i]))
	}
	return out, nil
}

// SalaryInput is one salary payment for a month.
type SalaryInput struct {
	MonthYear     string // YYYY-MM
	AmountPaid    util.Amount
	PaymentMethod string
	Notes         string
	AdminID       uint
}

// Pay records the salary of an employee for a month. A second payment for the
// same employee and month is a conflict; the unique index on
// (employee_id, month_year) settles concurrent attempts.
func (s *SalaryService) Pay(ctx context.Context, employeeID uint, in SalaryInput) (*SalaryView, error) {
	const op = "salaries.Pay"

	monthYear := strings.TrimSpace(in.MonthYear)
	if monthYear == "" || !in.AmountPaid.IsSet() {
		return nil, validationf(op, "Missing required fields: month_year and amount_paid")
	}
	month, err := util.ParseMonth(monthYear)
	if err != nil {
		return nil, validationf(op, "Invalid month_year. Use YYYY-MM")
	}
	amount, err := in.AmountPaid.Cents()
	if err != nil {
		return nil, validationf(op, "amount_paid must be a valid number")
	}
	if err := checkAmount(op, "amount_paid", amount); err != nil {
		return nil, err
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = "cash"
	}
	if len(method) > 50 {
		return nil, validationf(op, "payment_method too long")
	}

	record := models.SalaryRecord{
		EmployeeID:     employeeID,
		MonthYear:      util.MonthKey(month),
		AmountPaidCent: amount,
		DatePaid:       s.today(),
		PaymentMethod:  method,
		Notes:          strings.TrimSpace(in.Notes),
	}
	if in.AdminID != 0 {
		adminID := in.AdminID
		record.PaidBy = &adminID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := findEmployee(tx, op, employeeID)
		if err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&models.SalaryRecord{}).
			Where("employee_id = ? AND month_year = ?", employeeID, record.MonthYear).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return conflictf(op, "Salary already paid for %s", record.MonthYear)
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictf(op, "Salary already paid for %s", record.MonthYear)
			}
			return err
		}
		record.Employee = e
		if !s.recordExpense {
			return nil
		}
		recordID := record.ID
		return tx.Create(&models.Expense{
			ItemName:       salaryExpenseName(e),
			PriceCent:      amount,
			Date:           util.MonthStart(month),
			AdminID:        in.AdminID,
			SalaryRecordID: &recordID,
		}).Error
	})
	if err != nil {
		return nil, storeErr(op, err)
	}

	s.metrics.SalaryPaymentRecorded()
	s.invalidateReports(ctx)
	s.log.Info("salary paid",
		zap.Uint("employee_id", employeeID),
		zap.String("month_year", record.MonthYear),
		zap.String("amount", util.FormatCents(amount)))
	v := toSalaryView(&record)
	return &v, nil
}

// SalaryUpdate is a partial update of a salary payment.
type SalaryUpdate struct {
	AmountPaid    *util.Amount
	PaymentMethod *string
	Notes         *string
}

// Update edits a payment and keeps its mirrored expense in step.
func (s *SalaryService) Update(ctx context.Context, id uint, in SalaryUpdate) (*SalaryView, error) {
	const op = "salaries.Update"

	updates := map[string]interface{}{}
	if in.AmountPaid != nil {
		amount, err := in.AmountPaid.Cents()
		if err != nil {
			return nil, validationf(op, "amount_paid must be a valid number")
		}
		if err := checkAmount(op, "amount_paid", amount); err != nil {
			return nil, err
		}
		updates["amount_paid_cent"] = amount
	}
	if in.PaymentMethod != nil {
		method := strings.TrimSpace(*in.PaymentMethod)
		if method == "" || len(method) > 50 {
			return nil, validationf(op, "payment_method must be 1 to 50 characters")
		}
		updates["payment_method"] = method
	}
	if in.Notes != nil {
		updates["notes"] = strings.TrimSpace(*in.Notes)
	}

	var record models.SalaryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Employee").First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf(op, "Salary record %d not found", id)
			}
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.SalaryRecord{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if amount, ok := updates["amount_paid_cent"]; ok {
			if err := tx.Model(&models.Expense{}).Where("salary_record_id = ?", id).
				Update("price_cent", amount).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Employee").First(&record, id).Error
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	s.invalidateReports(ctx)
	v := toSalaryView(&record)
	return &v, nil
}

// Delete removes a payment together with its mirrored expense.
func (s *SalaryService) Delete(ctx context.Context, id uint) error {
	const op = "salaries.Delete"
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.SalaryRecord
		if err := tx.First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf(op, "Salary record %d not found", id)
			}
			return err
		}
		if err := tx.Where("salary_record_id = ?", id).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		return storeErr(op, err)
	}
	s.invalidateReports(ctx)
	return nil
}

// MonthSummary covers the payments of one month against the active headcount.
type MonthSummary struct {
	MonthYear       string       `json:"month_year"`
	TotalPaidCent   int64        `json:"total_paid_cent"`
	TotalPaid       string       `json:"total_paid"`
	TotalEmployees  int64        `json:"total_employees"`
	PaidEmployees   int          `json:"paid_employees"`
	UnpaidEmployees int64        `json:"unpaid_employees"`
	Payments        []SalaryView `json:"payments"`
}

func (s *SalaryService) MonthlySummary(ctx context.Context, monthYear string) (*MonthSummary, error) {
	const op = "salaries.MonthlySummary"
	key := strings.TrimSpace(monthYear)
	if err := util.ValidateMonth(key); err != nil {
		return nil, validationf(op, "Invalid month_year. Use YYYY-MM")
	}
	db := s.db.WithContext(ctx)

	var records []models.SalaryRecord
	if err := db.Preload("Employee").Where("month_year = ?", key).Order("id ASC").Find(&records).Error; err != nil {
		return nil, storeErr(op, err)
	}
	var active int64
	if err := db.Model(&models.Employee{}).Where("status = ?", models.EmployeeActive).Count(&active).Error; err != nil {
		return nil, storeErr(op, err)
	}

	sum := &MonthSummary{
		MonthYear:      key,
		TotalEmployees: active,
		PaidEmployees:  len(records),
		Payments:       make([]SalaryView, 0, len(records)),
	}
	for i := range records {
		sum.TotalPaidCent += records[i].AmountPaidCent
		sum.Payments = append(sum.Payments, toSalaryView(&records[i]))
	}
	sum.TotalPaid = util.FormatCents(sum.TotalPaidCent)
	sum.UnpaidEmployees = max(active-int64(len(records)), 0)
	return sum, nil
}

type MonthBreakdown struct {
	Month         string       `json:"month"`
	TotalPaidCent int64        `json:"total_paid_cent"`
	TotalPaid     string       `json:"total_paid"`
	EmployeeCount int          `json:"employee_count"`
	Payments      []SalaryView `json:"payments"`
}

type YearSummary struct {
	Year            int              `json:"year"`
	YearlyTotalCent int64            `json:"yearly_total_cent"`
	YearlyTotal     string           `json:"yearly_total"`
	TotalEmployees  int64            `json:"total_employees"`
	Months          []MonthBreakdown `json:"monthly_breakdown"`
}

// YearlySummary returns twelve month buckets for year, empty months included.
func (s *SalaryService) YearlySummary(ctx context.Context, year int) (*YearSummary, error) {
	const op = "salaries.YearlySummary"
	first, err := util.YearMonth(year, 1)
	if err != nil {
		return nil, validationf(op, "%s", err.Error())
	}
	db := s.db.WithContext(ctx)

	var records []models.SalaryRecord
	if err := db.Preload("Employee").
		Where("month_year LIKE ?", fmt.Sprintf("%04d-%%", year)).
		Order("month_year ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, storeErr(op, err)
	}
	var active int64
	if err := db.Model(&models.Employee{}).Where("status = ?", models.EmployeeActive).Count(&active).Error; err != nil {
		return nil, storeErr(op, err)
	}

	sum := &YearSummary{Year: year, TotalEmployees: active, Months: make([]MonthBreakdown, 12)}
	index := make(map[string]int, 12)
	for i := 0; i < 12; i++ {
		key := util.MonthKey(first.AddDate(0, i, 0))
		index[key] = i
		sum.Months[i] = MonthBreakdown{Month: key, Payments: []SalaryView{}}
	}
	for i := range records {
		r := &records[i]
		idx, ok := index[r.MonthYear]
		if !ok {
			continue
		}
		m := &sum.Months[idx]
		m.TotalPaidCent += r.AmountPaidCent
		m.EmployeeCount++
		m.Payments = append(m.Payments, toSalaryView(r))
		sum.YearlyTotalCent += r.AmountPaidCent
	}
	for i := range sum.Months {
		sum.Months[i].TotalPaid = util.FormatCents(sum.Months[i].TotalPaidCent)
	}
	sum.YearlyTotal = util.FormatCents(sum.YearlyTotalCent)
	return sum, nil
}

type AvailableMonths struct {
	Months []string `json:"available_months"`
	Years  []string `json:"available_years"`
}

// AvailableMonths lists the months and years that have salary payments, latest first.
func (s *SalaryService) AvailableMonths(ctx context.Context) (*AvailableMonths, error) {
	var months []string
	if err := s.db.WithContext(ctx).Model(&models.SalaryRecord{}).
		Distinct("month_year").
		Order("month_year DESC").
		Pluck("month_year", &months).Error; err != nil {
		return nil, storeErr("salaries.AvailableMonths", err)
	}
	out := &AvailableMonths{Months: months, Years: []string{}}
	if out.Months == nil {
		out.Months = []string{}
	}
	seen := make(map[string]bool)
	for _, m := range months {
		if len(m) < 4 || seen[m[:4]] {
			continue
		}
		seen[m[:4]] = true
		out.Years = append(out.Years, m[:4])
	}
	return out, nil
}

// paidInMonth totals the salaries recorded for month.
func paidInMonth(db *gorm.DB, month time.Time) (int64, error) {
	var total int64
	err := db.Model(&models.SalaryRecord{}).
		Select("COALESCE(SUM(amount_paid_cent), 0)").
		Where("month_year = ?", util.MonthKey(month)).
		Scan(&total).Error
	return total, err
}
