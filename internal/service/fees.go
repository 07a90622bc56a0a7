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

type FeeService struct {
	*base
}

// ClassifyFee maps the amount paid in a month against the monthly fee.
func ClassifyFee(paidCent, feeCent int64) string {
	switch {
	case paidCent <= 0:
		return models.FeeUnpaid
	case paidCent < feeCent:
		return models.FeePartial
	default:
		return models.FeePaid
	}
}

// FeeStatus is the computed payment position of one student for one calendar month.
type FeeStatus struct {
	StudentID     uint   `json:"student_id"`
	Month         string `json:"month"`
	Status        string `json:"status"`
	FeeCent       int64  `json:"fee_cent"`
	PaidCent      int64  `json:"paid_cent"`
	RemainingCent int64  `json:"remaining_cent"`
}

func newFeeStatus(st *models.Student, month time.Time, paid int64) FeeStatus {
	return FeeStatus{
		StudentID:     st.ID,
		Month:         util.MonthKey(month),
		Status:        ClassifyFee(paid, st.FeeCent),
		FeeCent:       st.FeeCent,
		PaidCent:      paid,
		RemainingCent: max(st.FeeCent-paid, 0),
	}
}

// sumPaid totals a student's payments with date_paid in [month start, next month start).
func sumPaid(tx *gorm.DB, studentID uint, month time.Time) (int64, error) {
	start, end := util.MonthRange(month)
	var total int64
	err := tx.Model(&models.FeeRecord{}).
		Select("COALESCE(SUM(amount_cent), 0)").
		Where("student_id = ? AND date_paid >= ? AND date_paid < ?", studentID, start, end).
		Scan(&total).Error
	return total, err
}

// MonthlyStatus computes a student's fee status for the calendar month containing month.
func (s *FeeService) MonthlyStatus(ctx context.Context, studentID uint, month time.Time) (*FeeStatus, error) {
	const op = "fees.MonthlyStatus"
	db := s.db.WithContext(ctx)

	var st models.Student
	if err := db.First(&st, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf(op, "Student %d not found", studentID)
		}
		return nil, storeErr(op, err)
	}
	paid, err := sumPaid(db, st.ID, month)
	if err != nil {
		return nil, storeErr(op, err)
	}
	fs := newFeeStatus(&st, month, paid)
	return &fs, nil
}

// StatusesFor computes the month status of many students with one grouped query.
func (s *FeeService) StatusesFor(ctx context.Context, students []models.Student, month time.Time) (map[uint]FeeStatus, error) {
	out, err := statusesFor(s.db.WithContext(ctx), students, month)
	if err != nil {
		return nil, storeErr("fees.StatusesFor", err)
	}
	return out, nil
}

func statusesFor(db *gorm.DB, students []models.Student, month time.Time) (map[uint]FeeStatus, error) {
	out := make(map[uint]FeeStatus, len(students))
	if len(students) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(students))
	for i := range students {
		ids = append(ids, students[i].ID)
	}

	start, end := util.MonthRange(month)
	var rows []struct {
		StudentID uint
		Total     int64
	}
	err := db.Model(&models.FeeRecord{}).
		Select("student_id, COALESCE(SUM(amount_cent), 0) AS total").
		Where("student_id IN ? AND date_paid >= ? AND date_paid < ?", ids, start, end).
		Group("student_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	paid := make(map[uint]int64, len(rows))
	for _, r := range rows {
		paid[r.StudentID] = r.Total
	}
	for i := range students {
		st := &students[i]
		out[st.ID] = newFeeStatus(st, month, paid[st.ID])
	}
	return out, nil
}

// PaymentInput is a fee payment as submitted by an admin.
type PaymentInput struct {
	StudentID     uint
	Amount        util.Amount // decimal, e.g. "1500" or "1500.50"
	Date          string      // YYYY-MM-DD, defaults to today
	PaymentMethod string
	AdminID       uint
}

// RecordPayment validates and stores a payment, then recomputes the student's
// status for the payment's month and stamps last_fee_payment. Both writes share
// one transaction.
func (s *FeeService) RecordPayment(ctx context.Context, in PaymentInput) (*models.FeeRecord, *FeeStatus, error) {
	const op = "fees.RecordPayment"

	if in.StudentID == 0 {
		return nil, nil, validationf(op, "student_id is required")
	}
	amount, err := in.Amount.Cents()
	if err != nil {
		return nil, nil, validationf(op, "Amount must be a valid number")
	}
	if err := checkAmount(op, "Amount", amount); err != nil {
		return nil, nil, err
	}

	paidOn := s.today()
	if strings.TrimSpace(in.Date) != "" {
		d, err := util.ParseDate(strings.TrimSpace(in.Date))
		if err != nil {
			return nil, nil, validationf(op, "Invalid date format. Use YYYY-MM-DD")
		}
		paidOn = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	if util.IsAfterDay(paidOn, s.today()) {
		return nil, nil, validationf(op, "Payment date cannot be in the future")
	}

	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = "cash"
	}
	if len(method) > 50 {
		return nil, nil, validationf(op, "payment_method too long")
	}

	record := models.FeeRecord{
		StudentID:     in.StudentID,
		AmountCent:    amount,
		DatePaid:      paidOn,
		MonthYear:     util.MonthKey(paidOn),
		PaymentMethod: method,
	}
	if in.AdminID != 0 {
		adminID := in.AdminID
		record.RecordedBy = &adminID
	}

	var status FeeStatus
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st models.Student
		if err := tx.First(&st, in.StudentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf(op, "Student %d not found", in.StudentID)
			}
			return err
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		paid, err := sumPaid(tx, st.ID, paidOn)
		if err != nil {
			return err
		}
		status = newFeeStatus(&st, paidOn, paid)
		return tx.Model(&models.Student{}).Where("id = ?", st.ID).Updates(map[string]interface{}{
			"fee_status":       status.Status,
			"last_fee_payment": paidOn,
		}).Error
	})
	if err != nil {
		return nil, nil, storeErr(op, err)
	}

	s.metrics.FeePaymentRecorded(amount)
	s.invalidateReports(ctx)
	s.log.Info("fee payment recorded",
		zap.Uint("student_id", in.StudentID),
		zap.String("amount", util.FormatCents(amount)),
		zap.String("month", record.MonthYear),
		zap.String("fee_status", status.Status))
	return &record, &status, nil
}

// RefreshStatuses recomputes and stores fee_status of every student for month.
// It returns how many snapshots changed.
func (s *FeeService) RefreshStatuses(ctx context.Context, month time.Time) (int, error) {
	const op = "fees.RefreshStatuses"
	changed := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var students []models.Student
		if err := tx.Find(&students).Error; err != nil {
			return err
		}
		statuses, err := statusesFor(tx, students, month)
		if err != nil {
			return err
		}
		for i := range students {
			st := &students[i]
			next := statuses[st.ID].Status
			if st.FeeStatus == next {
				continue
			}
			if err := tx.Model(&models.Student{}).Where("id = ?", st.ID).Update("fee_status", next).Error; err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, storeErr(op, err)
	}
	if changed > 0 {
		s.invalidateReports(ctx)
	}
	s.log.Info("fee statuses refreshed", zap.String("month", util.MonthKey(month)), zap.Int("changed", changed))
	return changed, nil
}

// FeeRecordView is a payment joined with a summary of its student.
type FeeRecordView struct {
	ID            uint           `json:"id"`
	StudentID     uint           `json:"student_id"`
	AmountCent    int64          `json:"amount_cent"`
	Amount        string         `json:"amount"`
	DatePaid      string         `json:"date_paid"`
	MonthYear     string         `json:"month_year"`
	PaymentMethod string         `json:"payment_method"`
	Student       StudentSummary `json:"student"`
}

type StudentSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	FeeStatus  string `json:"fee_status"`
	RoomNumber int    `json:"room_number"`
}

func toFeeRecordViews(records []models.FeeRecord) []FeeRecordView {
	out := make([]FeeRecordView, 0, len(records))
	for i := range records {
		r := &records[i]
		v := FeeRecordView{
			ID:            r.ID,
			StudentID:     r.StudentID,
			AmountCent:    r.AmountCent,
			Amount:        util.FormatCents(r.AmountCent),
			DatePaid:      r.DatePaid.Format(util.DateLayout),
			MonthYear:     r.MonthYear,
			PaymentMethod: r.PaymentMethod,
		}
		if r.Student != nil {
			v.Student = StudentSummary{ID: r.Student.ID, Name: r.Student.Name, FeeStatus: r.Student.FeeStatus}
			if r.Student.Room != nil {
				v.Student.RoomNumber = r.Student.Room.RoomNumber
			}
		}
		out = append(out, v)
	}
	return out
}

// RecordsBetween lists payments with date_paid in [from, to), newest first.
func (s *FeeService) RecordsBetween(ctx context.Context, from, to time.Time) ([]FeeRecordView, error) {
	var records []models.FeeRecord
	q := s.db.WithContext(ctx).Preload("Student.Room").Order("date_paid DESC, id DESC")
	if !from.IsZero() {
		q = q.Where("date_paid >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date_paid < ?", to)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, storeErr("fees.RecordsBetween", err)
	}
	return toFeeRecordViews(records), nil
}

// MonthTotal is the money moved in one calendar month.
type MonthTotal struct {
	Month     string `json:"month"`
	Label     string `json:"label"`
	TotalCent int64  `json:"total_cent"`
	Total     string `json:"total"`
}

// FeeOverview is the fee page: a month, the month before it and the year's totals.
type FeeOverview struct {
	Month             string          `json:"month"`
	PrevMonth         string          `json:"prev_month"`
	RecordsCurrent    []FeeRecordView `json:"fee_records_current"`
	RecordsPrevious   []FeeRecordView `json:"fee_records_previous"`
	TotalCurrentCent  int64           `json:"total_fees_current_cent"`
	TotalCurrent      string          `json:"total_fees_current"`
	TotalPreviousCent int64           `json:"total_fees_previous_cent"`
	TotalPrevious     string          `json:"total_fees_previous"`
	MonthlyTotals     []MonthTotal    `json:"monthly_totals"`
}

func (s *FeeService) Overview(ctx context.Context, month time.Time) (*FeeOverview, error) {
	start, end := util.MonthRange(month)
	prev := start.AddDate(0, -1, 0)

	current, err := s.RecordsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	previous, err := s.RecordsBetween(ctx, prev, start)
	if err != nil {
		return nil, err
	}
	yearly, err := monthlySums(s.db.WithContext(ctx), &models.FeeRecord{}, "amount_cent", "date_paid",
		time.Date(start.Year(), 1, 1, 0, 0, 0, 0, time.UTC), 12)
	if err != nil {
		return nil, storeErr("fees.Overview", err)
	}

	ov := &FeeOverview{
		Month:           util.MonthKey(start),
		PrevMonth:       util.MonthKey(prev),
		RecordsCurrent:  current,
		RecordsPrevious: previous,
		MonthlyTotals:   yearly,
	}
	for _, r := range current {
		ov.TotalCurrentCent += r.AmountCent
	}
	for _, r := range previous {
		ov.TotalPreviousCent += r.AmountCent
	}
	ov.TotalCurrent = util.FormatCents(ov.TotalCurrentCent)
	ov.TotalPrevious = util.FormatCents(ov.TotalPreviousCent)
	return ov, nil
}

// monthlySums returns n consecutive month totals of column starting at first.
// Each month is summed over its own [start, next start) range.
func monthlySums(db *gorm.DB, model interface{}, column, dateColumn string, first time.Time, n int) ([]MonthTotal, error) {
	out := make([]MonthTotal, 0, n)
	for i := 0; i < n; i++ {
		start, end := util.MonthRange(first.AddDate(0, i, 0))
		var total int64
		err := db.Model(model).
			Select("COALESCE(SUM("+column+"), 0)").
			Where(dateColumn+" >= ? AND "+dateColumn+" < ?", start, end).
			Scan(&total).Error
		if err != nil {
			return nil, err
		}
		out = append(out, MonthTotal{
			Month:     util.MonthKey(start),
			Label:     start.Month().String(),
			TotalCent: total,
			Total:     util.FormatCents(total),
		})
	}
	return out, nil
}
