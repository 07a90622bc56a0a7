package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"hostel-admin/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	paid := enroll(t, svc, "Paid", "1000", 12)
	partial := enroll(t, svc, "Partial", "1000", 12)
	enroll(t, svc, "Unpaid", "1000", 12)
	gone := enroll(t, svc, "Gone", "1000", 13)
	status := "inactive"
	_, err := svc.Students.Update(ctx, gone.ID, StudentUpdate{Status: &status})
	require.NoError(t, err)

	_, _, err = svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: paid.ID, Amount: "1000", Date: "2025-03-02"})
	require.NoError(t, err)
	_, _, err = svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: partial.ID, Amount: "400", Date: "2025-03-02"})
	require.NoError(t, err)
	_, _, err = svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: partial.ID, Amount: "900", Date: "2024-12-20"})
	require.NoError(t, err)

	_, err = svc.Expenses.Create(ctx, ExpenseInput{ItemName: "Rice", Price: "300", Date: "2025-03-05"})
	require.NoError(t, err)
	_, err = svc.Expenses.Create(ctx, ExpenseInput{ItemName: "Rice", Price: "100", Date: "2025-01-05"})
	require.NoError(t, err)
	e := hire(t, svc, "Zawadi", "Cook", "500")
	_, err = svc.Salaries.Pay(ctx, e.ID, SalaryInput{MonthYear: "2025-02", AmountPaid: "500"})
	require.NoError(t, err)

	d, err := svc.Reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03", d.Month)
	assert.EqualValues(t, 3, d.TotalStudents)
	assert.Equal(t, []string{"Oct", "Nov", "Dec", "Jan", "Feb", "Mar"}, d.Months)
	assert.Equal(t, []string{"0.00", "0.00", "0.00", "100.00", "500.00", "300.00"}, d.MonthlyExpenses)
	assert.Equal(t, []string{"0.00", "0.00", "900.00", "0.00", "0.00", "1400.00"}, d.MonthlyIncome)
	require.Len(t, d.ExpenseCategories, 2)
	assert.Equal(t, "Salary paid to Zawadi (Cook)", d.ExpenseCategories[0].ItemName)
	assert.Equal(t, "Rice", d.ExpenseCategories[1].ItemName)
	assert.Equal(t, "400.00", d.ExpenseCategories[1].Total)
	assert.Equal(t, "300.00", d.CurrentExpenses)
	assert.Equal(t, "1400.00", d.CurrentIncome)
	assert.Equal(t, "1100.00", d.ProfitLoss)
	assert.Equal(t, "3000.00", d.TotalFeeCurrent)
	assert.Equal(t, "1400.00", d.ReceivedFee)
	assert.Equal(t, "1600.00", d.PendingFee)
	assert.Equal(t, 1, d.FullyPaid)
	assert.Equal(t, 1, d.PartiallyPaid)
	assert.Equal(t, 1, d.Unpaid)
	assert.Equal(t, "0.00", d.SalariesCurrent)
	assert.Equal(t, "500.00", d.SalariesPrevious)
}

// memStore is an in-process cache.Store that counts reads served from cache.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func (m *memStore) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	m.hits++
	return json.Unmarshal(b, dest)
}

func (m *memStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *memStore) DeleteByPrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func TestDashboard_CachedUntilWrite(t *testing.T) {
	store := &memStore{data: map[string][]byte{}}
	svc := New(newTestDB(t), Options{Now: func() time.Time { return testNow }, Cache: store})
	ctx := context.Background()

	first, err := svc.Reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.00", first.CurrentExpenses)
	assert.Contains(t, store.data, cache.DashboardKey("2025-03"))

	_, err = svc.Reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.hits)

	_, err = svc.Expenses.Create(ctx, ExpenseInput{ItemName: "Gas", Price: "75", Date: "2025-03-10"})
	require.NoError(t, err)
	assert.NotContains(t, store.data, cache.DashboardKey("2025-03"))

	fresh, err := svc.Reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "75.00", fresh.CurrentExpenses)
	assert.Equal(t, 1, store.hits)
}
