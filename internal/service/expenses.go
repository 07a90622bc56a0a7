package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ExpenseService struct {
	*base
}

type ExpenseView struct {
	ID             uint   `json:"id"`
	ItemName       string `json:"item_name"`
	PriceCent      int64  `json:"price_cent"`
	Price          string `json:"price"`
	Date           string `json:"date"`
	AdminID        uint   `json:"admin_id"`
	SalaryRecordID *uint  `json:"salary_record_id"`
}

func toExpenseView(e *models.Expense) ExpenseView {
	return ExpenseView{
		ID:             e.ID,
		ItemName:       e.ItemName,
		PriceCent:      e.PriceCent,
		Price:          util.FormatCents(e.PriceCent),
		Date:           e.Date.Format(util.DateLayout),
		AdminID:        e.AdminID,
		SalaryRecordID: e.SalaryRecordID,
	}
}

// ExpenseInput is a manual expense entry.
type ExpenseInput struct {
	ItemName string
	Price    util.Amount
	Date     string // YYYY-MM-DD
	AdminID  uint
}

func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (*ExpenseView, error) {
	const op = "expenses.Create"

	var missing []string
	if strings.TrimSpace(in.ItemName) == "" {
		missing = append(missing, "item_name")
	}
	if !in.Price.IsSet() {
		missing = append(missing, "price")
	}
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return nil, validationf(op, "Missing required fields: %s", strings.Join(missing, ", "))
	}

	name := strings.TrimSpace(in.ItemName)
	if err := util.ValidateName("item_name", name, 100); err != nil {
		return nil, validationf(op, "%s", err.Error())
	}
	price, err := in.Price.Cents()
	if err != nil {
		return nil, validationf(op, "Price must be a valid number")
	}
	if err := checkAmount(op, "Price", price); err != nil {
		return nil, err
	}
	if err := util.ValidateDate(strings.TrimSpace(in.Date)); err != nil {
		return nil, validationf(op, "Invalid date format. Use YYYY-MM-DD")
	}
	date, _ := time.Parse(util.DateLayout, strings.TrimSpace(in.Date))

	e := models.Expense{
		ItemName:  name,
		PriceCent: price,
		Date:      date,
		AdminID:   in.AdminID,
	}
	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, storeErr(op, err)
	}
	s.invalidateReports(ctx)
	s.log.Info("expense recorded", zap.Uint("expense_id", e.ID), zap.String("price", util.FormatCents(price)))
	v := toExpenseView(&e)
	return &v, nil
}

// Delete removes a manual expense. Expenses mirrored from a salary payment are
// owned by the salary record and must be removed through it.
func (s *ExpenseService) Delete(ctx context.Context, id uint) error {
	const op = "expenses.Delete"
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Expense
		if err := tx.First(&e, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf(op, "Expense %d not found", id)
			}
			return err
		}
		if e.SalaryRecordID != nil {
			return conflictf(op, "Expense belongs to salary payment %d; delete the salary payment instead", *e.SalaryRecordID)
		}
		return tx.Delete(&e).Error
	})
	if err != nil {
		return storeErr(op, err)
	}
	s.invalidateReports(ctx)
	return nil
}

// InMonth lists the expenses dated within month, newest first.
func (s *ExpenseService) InMonth(ctx context.Context, month time.Time) ([]ExpenseView, int64, error) {
	start, end := util.MonthRange(month)
	var list []models.Expense
	if err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("date DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, 0, storeErr("expenses.InMonth", err)
	}
	out := make([]ExpenseView, 0, len(list))
	var total int64
	for i := range list {
		total += list[i].PriceCent
		out = append(out, toExpenseView(&list[i]))
	}
	return out, total, nil
}

// MonthLedger is the expense page for one month next to its previous month.
type MonthLedger struct {
	Month                string        `json:"month"`
	PrevMonth            string        `json:"prev_month"`
	ExpensesCurrent      []ExpenseView `json:"expenses_current"`
	ExpensesPrevious     []ExpenseView `json:"expenses_previous"`
	TotalExpensesCurrent string        `json:"total_expenses_current"`
	TotalExpensesPrev    string        `json:"total_expenses_previous"`
	TotalIncomeCurrent   string        `json:"total_income_current"`
	TotalIncomePrev      string        `json:"total_income_previous"`
	BalanceCurrent       string        `json:"remaining_balance_current"`
	BalancePrev          string        `json:"remaining_balance_previous"`
}

func (s *ExpenseService) Ledger(ctx context.Context, month time.Time) (*MonthLedger, error) {
	cur := util.MonthStart(month)
	prev := cur.AddDate(0, -1, 0)

	curList, curExp, err := s.InMonth(ctx, cur)
	if err != nil {
		return nil, err
	}
	prevList, prevExp, err := s.InMonth(ctx, prev)
	if err != nil {
		return nil, err
	}
	income, err := monthlySums(s.db.WithContext(ctx), &models.FeeRecord{}, "amount_cent", "date_paid", prev, 2)
	if err != nil {
		return nil, storeErr("expenses.Ledger", err)
	}
	prevInc, curInc := income[0].TotalCent, income[1].TotalCent

	return &MonthLedger{
		Month:                util.MonthKey(cur),
		PrevMonth:            util.MonthKey(prev),
		ExpensesCurrent:      curList,
		ExpensesPrevious:     prevList,
		TotalExpensesCurrent: util.FormatCents(curExp),
		TotalExpensesPrev:    util.FormatCents(prevExp),
		TotalIncomeCurrent:   util.FormatCents(curInc),
		TotalIncomePrev:      util.FormatCents(prevInc),
		BalanceCurrent:       util.FormatCents(curInc - curExp),
		BalancePrev:          util.FormatCents(prevInc - prevExp),
	}, nil
}
