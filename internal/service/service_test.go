package service

import (
	"context"
	"testing"
	"time"

	"hostel-admin/internal/database/dbtest"
	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testNow is the fixed clock of the service tests: 15 March 2025.
var testNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t)
}

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := New(db, Options{
		Now:                 func() time.Time { return testNow },
		RecordSalaryExpense: true,
	})
	return svc, db
}

func enroll(t *testing.T, svc *Services, name, fee string, room int) *StudentView {
	t.Helper()
	st, err := svc.Students.Create(context.Background(), StudentInput{Name: name, Fee: util.Amount(fee), RoomID: room})
	require.NoError(t, err)
	return st
}

func occupied(t *testing.T, db *gorm.DB, room uint) int {
	t.Helper()
	var r models.Room
	require.NoError(t, db.First(&r, room).Error)
	return r.Occupied
}

func strPtr(s string) *string { return &s }

func amountPtr(s string) *util.Amount { a := util.Amount(s); return &a }
