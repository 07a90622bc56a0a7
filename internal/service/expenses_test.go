package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExpense(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	v, err := svc.Expenses.Create(ctx, ExpenseInput{ItemName: " Rice ", Price: "1200.5", Date: "2025-03-04", AdminID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Rice", v.ItemName)
	assert.Equal(t, "1200.50", v.Price)
	assert.Equal(t, "2025-03-04", v.Date)
	assert.Nil(t, v.SalaryRecordID)

	cases := []struct {
		in  ExpenseInput
		msg string
	}{
		{ExpenseInput{Price: "1"}, "Missing required fields: item_name, date"},
		{ExpenseInput{ItemName: "Gas", Price: "x", Date: "2025-03-01"}, "Price must be a valid number"},
		{ExpenseInput{ItemName: "Gas", Price: "-1", Date: "2025-03-01"}, "Price must be greater than 0"},
		{ExpenseInput{ItemName: "Gas", Price: "1", Date: "2025/03/01"}, "Invalid date format. Use YYYY-MM-DD"},
	}
	for _, c := range cases {
		_, err := svc.Expenses.Create(ctx, c.in)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, c.msg, Message(err))
	}
}

func TestDeleteExpense(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	v, err := svc.Expenses.Create(ctx, ExpenseInput{ItemName: "Soap", Price: "50", Date: "2025-03-02"})
	require.NoError(t, err)

	require.NoError(t, svc.Expenses.Delete(ctx, v.ID))
	assert.ErrorIs(t, svc.Expenses.Delete(ctx, v.ID), ErrNotFound)
}

func TestExpenseLedger(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := enroll(t, svc, "Yusuf", "5000", 11)

	for _, e := range []ExpenseInput{
		{ItemName: "Rice", Price: "300", Date: "2025-03-01"},
		{ItemName: "Oil", Price: "200", Date: "2025-03-31"},
		{ItemName: "Rice", Price: "250", Date: "2025-02-28"},
		{ItemName: "Water", Price: "99", Date: "2025-04-01"},
	} {
		_, err := svc.Expenses.Create(ctx, e)
		require.NoError(t, err)
	}
	for _, p := range []PaymentInput{
		{StudentID: st.ID, Amount: "1000", Date: "2025-03-03"},
		{StudentID: st.ID, Amount: "400", Date: "2025-02-03"},
	} {
		_, _, err := svc.Fees.RecordPayment(ctx, p)
		require.NoError(t, err)
	}

	l, err := svc.Expenses.Ledger(ctx, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025-03", l.Month)
	assert.Equal(t, "2025-02", l.PrevMonth)
	require.Len(t, l.ExpensesCurrent, 2)
	require.Len(t, l.ExpensesPrevious, 1)
	assert.Equal(t, "500.00", l.TotalExpensesCurrent)
	assert.Equal(t, "250.00", l.TotalExpensesPrev)
	assert.Equal(t, "1000.00", l.TotalIncomeCurrent)
	assert.Equal(t, "400.00", l.TotalIncomePrev)
	assert.Equal(t, "500.00", l.BalanceCurrent)
	assert.Equal(t, "150.00", l.BalancePrev)
}
