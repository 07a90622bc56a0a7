package service

import (
	"context"
	"errors"

	"hostel-admin/internal/cache"
	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"go.uber.org/zap"
)

type ReportService struct {
	*base
}

type ExpenseCategory struct {
	ItemName  string `json:"item_name"`
	TotalCent int64  `json:"total_cent"`
	Total     string `json:"total"`
}

// Dashboard is the admin landing page aggregate for the current month.
type Dashboard struct {
	Month             string            `json:"month"`
	TotalStudents     int64             `json:"total_students"`
	Months            []string          `json:"months"`
	MonthlyExpenses   []string          `json:"monthly_expenses"`
	MonthlyIncome     []string          `json:"monthly_income"`
	ExpenseCategories []ExpenseCategory `json:"expense_categories"`
	CurrentExpenses   string            `json:"current_month_expenses"`
	CurrentIncome     string            `json:"current_month_income"`
	ProfitLoss        string            `json:"profit_loss"`
	TotalFeeCurrent   string            `json:"total_fee_current"`
	ReceivedFee       string            `json:"received_fee_current"`
	PendingFee        string            `json:"pending_fee_current"`
	FullyPaid         int               `json:"fully_paid"`
	PartiallyPaid     int               `json:"partially_paid"`
	Unpaid            int               `json:"unpaid"`
	SalariesCurrent   string            `json:"total_salaries_current"`
	SalariesPrevious  string            `json:"total_salaries_previous"`
}

// Dashboard returns the current month's aggregate, served from the cache when present.
func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	month := util.MonthStart(s.today())
	key := cache.DashboardKey(util.MonthKey(month))

	var cached Dashboard
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		return &cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		s.log.Warn("dashboard cache read", zap.Error(err))
	}

	d, err := s.buildDashboard(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, d, s.cacheTTL); err != nil {
		s.log.Warn("dashboard cache write", zap.Error(err))
	}
	return d, nil
}

func (s *ReportService) buildDashboard(ctx context.Context) (*Dashboard, error) {
	const op = "reports.Dashboard"
	db := s.db.WithContext(ctx)
	month := util.MonthStart(s.today())
	first := month.AddDate(0, -5, 0)

	d := &Dashboard{Month: util.MonthKey(month)}
	if err := db.Model(&models.Student{}).Where("status = ?", models.StudentActive).Count(&d.TotalStudents).Error; err != nil {
		return nil, storeErr(op, err)
	}

	expenses, err := monthlySums(db, &models.Expense{}, "price_cent", "date", first, 6)
	if err != nil {
		return nil, storeErr(op, err)
	}
	income, err := monthlySums(db, &models.FeeRecord{}, "amount_cent", "date_paid", first, 6)
	if err != nil {
		return nil, storeErr(op, err)
	}
	for i := range expenses {
		d.Months = append(d.Months, expenses[i].Label[:3])
		d.MonthlyExpenses = append(d.MonthlyExpenses, expenses[i].Total)
		d.MonthlyIncome = append(d.MonthlyIncome, income[i].Total)
	}

	var cats []struct {
		ItemName string
		Total    int64
	}
	if err := db.Model(&models.Expense{}).
		Select("item_name, COALESCE(SUM(price_cent), 0) AS total").
		Group("item_name").
		Order("total DESC").
		Scan(&cats).Error; err != nil {
		return nil, storeErr(op, err)
	}
	d.ExpenseCategories = make([]ExpenseCategory, 0, len(cats))
	for _, c := range cats {
		d.ExpenseCategories = append(d.ExpenseCategories, ExpenseCategory{
			ItemName:  c.ItemName,
			TotalCent: c.Total,
			Total:     util.FormatCents(c.Total),
		})
	}

	curExpense := expenses[len(expenses)-1].TotalCent
	curIncome := income[len(income)-1].TotalCent
	d.CurrentExpenses = util.FormatCents(curExpense)
	d.CurrentIncome = util.FormatCents(curIncome)
	d.ProfitLoss = util.FormatCents(curIncome - curExpense)

	due, err := activeFeeTotal(db)
	if err != nil {
		return nil, storeErr(op, err)
	}
	d.TotalFeeCurrent = util.FormatCents(due)
	d.ReceivedFee = util.FormatCents(curIncome)
	d.PendingFee = util.FormatCents(max(due-curIncome, 0))

	var active []models.Student
	if err := db.Where("status = ?", models.StudentActive).Find(&active).Error; err != nil {
		return nil, storeErr(op, err)
	}
	statuses, err := statusesFor(db, active, month)
	if err != nil {
		return nil, storeErr(op, err)
	}
	for _, fs := range statuses {
		switch fs.Status {
		case models.FeePaid:
			d.FullyPaid++
		case models.FeePartial:
			d.PartiallyPaid++
		default:
			d.Unpaid++
		}
	}

	cur, err := paidInMonth(db, month)
	if err != nil {
		return nil, storeErr(op, err)
	}
	prev, err := paidInMonth(db, month.AddDate(0, -1, 0))
	if err != nil {
		return nil, storeErr(op, err)
	}
	d.SalariesCurrent = util.FormatCents(cur)
	d.SalariesPrevious = util.FormatCents(prev)
	return d, nil
}
