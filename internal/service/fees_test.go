package service

import (
	"context"
	"testing"
	"time"

	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFee(t *testing.T) {
	cases := []struct {
		paid, fee int64
		want      string
	}{
		{0, 500000, models.FeeUnpaid},
		{1, 500000, models.FeePartial},
		{499999, 500000, models.FeePartial},
		{500000, 500000, models.FeePaid},
		{600000, 500000, models.FeePaid},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyFee(c.paid, c.fee), "paid=%d fee=%d", c.paid, c.fee)
	}
}

func TestRecordPayment_Reconciliation(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	st := enroll(t, svc, "Asha", "5000", 1)

	_, fs, err := svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: st.ID, Amount: "2000", Date: "2025-03-02"})
	require.NoError(t, err)
	assert.Equal(t, models.FeePartial, fs.Status)
	assert.EqualValues(t, 300000, fs.RemainingCent)

	_, fs, err = svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: st.ID, Amount: "2000", Date: "2025-03-05"})
	require.NoError(t, err)
	assert.Equal(t, models.FeePartial, fs.Status)
	assert.EqualValues(t, 400000, fs.PaidCent)
	assert.EqualValues(t, 100000, fs.RemainingCent)

	rec, fs, err := svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: st.ID, Amount: "1000", Date: "2025-03-10", PaymentMethod: "bank_transfer"})
	require.NoError(t, err)
	assert.Equal(t, models.FeePaid, fs.Status)
	assert.EqualValues(t, 0, fs.RemainingCent)
	assert.Equal(t, "2025-03", rec.MonthYear)
	assert.Equal(t, "bank_transfer", rec.PaymentMethod)

	var stored models.Student
	require.NoError(t, db.First(&stored, st.ID).Error)
	assert.Equal(t, models.FeePaid, stored.FeeStatus)
	require.NotNil(t, stored.LastFeePayment)
	assert.Equal(t, "2025-03-10", stored.LastFeePayment.UTC().Format("2006-01-02"))
}

func TestRecordPayment_MonthBoundaries(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := enroll(t, svc, "Bilal", "3000", 2)

	// last day of February counts for February only
	_, fs, err := svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: st.ID, Amount: "3000", Date: "2025-02-28"})
	require.NoError(t, err)
	assert.Equal(t, "2025-02", fs.Month)
	assert.Equal(t, models.FeePaid, fs.Status)

	march, err := svc.Fees.MonthlyStatus(ctx, st.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, models.FeeUnpaid, march.Status)
	assert.EqualValues(t, 300000, march.RemainingCent)

	_, _, err = svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: st.ID, Amount: "500", Date: "2025-03-01"})
	require.NoError(t, err)
	march, err = svc.Fees.MonthlyStatus(ctx, st.ID, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, models.FeePartial, march.Status)
	assert.EqualValues(t, 50000, march.PaidCent)
}

func TestRecordPayment_Rejections(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	st := enroll(t, svc, "Chen", "4000", 3)

	cases := []struct {
		name string
		in   PaymentInput
		kind error
		msg  string
	}{
		{"zero amount", PaymentInput{StudentID: st.ID, Amount: "0"}, ErrValidation, "Amount must be greater than 0"},
		{"negative amount", PaymentInput{StudentID: st.ID, Amount: "-5"}, ErrValidation, "Amount must be greater than 0"},
		{"not a number", PaymentInput{StudentID: st.ID, Amount: "abc"}, ErrValidation, "Amount must be a valid number"},
		{"bad date", PaymentInput{StudentID: st.ID, Amount: "10", Date: "03/01/2025"}, ErrValidation, "Invalid date format. Use YYYY-MM-DD"},
		{"future date", PaymentInput{StudentID: st.ID, Amount: "10", Date: "2025-03-16"}, ErrValidation, "Payment date cannot be in the future"},
		{"missing student", PaymentInput{Amount: "10"}, ErrValidation, "student_id is required"},
		{"unknown student", PaymentInput{StudentID: 999, Amount: "10"}, ErrNotFound, "Student 999 not found"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := svc.Fees.RecordPayment(ctx, c.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, c.kind)
			assert.Equal(t, c.msg, Message(err))
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.FeeRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordPayment_DefaultsToToday(t *testing.T) {
	svc, _ := newTestServices(t)
	st := enroll(t, svc, "Dina", "1000", 4)

	rec, _, err := svc.Fees.RecordPayment(context.Background(), PaymentInput{StudentID: st.ID, Amount: "250.50"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", rec.DatePaid.Format("2006-01-02"))
	assert.EqualValues(t, 25050, rec.AmountCent)
	assert.Equal(t, "cash", rec.PaymentMethod)
}

func TestRefreshStatuses(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	a := enroll(t, svc, "Esi", "1000", 5)
	b := enroll(t, svc, "Femi", "1000", 5)

	_, _, err := svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: a.ID, Amount: "1000", Date: "2025-02-10"})
	require.NoError(t, err)
	// stale snapshot on b
	require.NoError(t, db.Model(&models.Student{}).Where("id = ?", b.ID).Update("fee_status", models.FeePaid).Error)

	changed, err := svc.Fees.RefreshStatuses(ctx, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	var students []models.Student
	require.NoError(t, db.Order("id").Find(&students).Error)
	for _, st := range students {
		assert.Equal(t, models.FeeUnpaid, st.FeeStatus, st.Name)
	}
}

func TestOverview(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := enroll(t, svc, "Gita", "2000", 6)

	for _, p := range []struct{ amount, date string }{
		{"2000", "2025-01-05"},
		{"1500", "2025-02-03"},
		{"500", "2025-02-25"},
		{"700", "2025-03-01"},
	} {
		_, _, err := svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: st.ID, Amount: util.Amount(p.amount), Date: p.date})
		require.NoError(t, err)
	}

	ov, err := svc.Fees.Overview(ctx, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-03", ov.Month)
	assert.Equal(t, "2025-02", ov.PrevMonth)
	assert.Len(t, ov.RecordsCurrent, 1)
	assert.Len(t, ov.RecordsPrevious, 2)
	assert.Equal(t, "700.00", ov.TotalCurrent)
	assert.Equal(t, "2000.00", ov.TotalPrevious)
	require.Len(t, ov.MonthlyTotals, 12)
	assert.Equal(t, "January", ov.MonthlyTotals[0].Label)
	assert.EqualValues(t, 200000, ov.MonthlyTotals[0].TotalCent)
	assert.EqualValues(t, 200000, ov.MonthlyTotals[1].TotalCent)
	assert.EqualValues(t, 70000, ov.MonthlyTotals[2].TotalCent)
	assert.EqualValues(t, 0, ov.MonthlyTotals[11].TotalCent)
	assert.Equal(t, "Gita", ov.RecordsCurrent[0].Student.Name)
	assert.Equal(t, 6, ov.RecordsCurrent[0].Student.RoomNumber)
}
