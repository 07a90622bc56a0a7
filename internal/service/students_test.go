package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hostel-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStudent(t *testing.T) {
	svc, db := newTestServices(t)

	st, err := svc.Students.Create(context.Background(), StudentInput{
		Name:   "  Imani  ",
		Fee:    "4500.50",
		RoomID: 15,
		Email:  "imani@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Imani", st.Name)
	assert.EqualValues(t, 450050, st.FeeCent)
	assert.Equal(t, "4500.50", st.Fee)
	assert.Equal(t, models.StudentActive, st.Status)
	assert.Equal(t, models.FeeUnpaid, st.FeeStatus)
	assert.Equal(t, "2025-03-15", st.EnrollmentDate)
	assert.Equal(t, 1, occupied(t, db, 15))
}

func TestCreateStudent_Validation(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   StudentInput
		msg  string
	}{
		{"no name", StudentInput{Fee: "100", RoomID: 1}, "Name, fee, and room_id are required"},
		{"bad fee", StudentInput{Name: "A", Fee: "x", RoomID: 1}, "Fee must be a valid number"},
		{"zero fee", StudentInput{Name: "A", Fee: "0", RoomID: 1}, "Fee must be greater than 0"},
		{"huge fee", StudentInput{Name: "A", Fee: "10000000", RoomID: 1}, "Fee must be less than 10000000.00"},
		{"room low", StudentInput{Name: "A", Fee: "100", RoomID: 0}, "Room ID must be between 1 and 18"},
		{"room high", StudentInput{Name: "A", Fee: "100", RoomID: 19}, "Room ID must be between 1 and 18"},
		{"bad enrollment", StudentInput{Name: "A", Fee: "100", RoomID: 1, EnrollmentDate: "tomorrow"}, "Invalid enrollment_date. Use YYYY-MM-DD"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Students.Create(ctx, c.in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, c.msg, Message(err))
		})
	}
	assert.Equal(t, 0, occupied(t, db, 1))
}

func TestCreateStudent_FullRoom(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		enroll(t, svc, name, "1000", 2)
	}

	_, err := svc.Students.Create(ctx, StudentInput{Name: "D", Fee: "1000", RoomID: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Room 2 is at full capacity (3/3)", Message(err))

	var count int64
	require.NoError(t, db.Model(&models.Student{}).Where("name = ?", "D").Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 3, occupied(t, db, 2))
}

func TestCreateStudent_ConcurrentLastSeat(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	const attempts = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Students.Create(ctx, StudentInput{Name: string(rune('A' + i)), Fee: "100", RoomID: 16})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, ok)
	assert.Equal(t, attempts-4, conflicts)
	assert.Equal(t, 4, occupied(t, db, 16))
}

func TestCreateStudent_DuplicateEmail(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Students.Create(ctx, StudentInput{Name: "A", Fee: "100", RoomID: 3, Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.Students.Create(ctx, StudentInput{Name: "B", Fee: "100", RoomID: 3, Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrConflict)
	// the seat taken inside the failed transaction is rolled back
	assert.Equal(t, 1, occupied(t, db, 3))
}

func TestUpdateStudent_MoveRoom(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	st := enroll(t, svc, "Kofi", "1000", 4)

	room := 5
	v, err := svc.Students.Update(ctx, st.ID, StudentUpdate{RoomID: &room})
	require.NoError(t, err)
	assert.EqualValues(t, 5, v.RoomID)
	assert.Equal(t, 0, occupied(t, db, 4))
	assert.Equal(t, 1, occupied(t, db, 5))

	// same room is a no-op and does not double count
	v, err = svc.Students.Update(ctx, st.ID, StudentUpdate{RoomID: &room})
	require.NoError(t, err)
	assert.EqualValues(t, 5, v.RoomID)
	assert.Equal(t, 1, occupied(t, db, 5))
}

func TestUpdateStudent_MoveIntoFullRoom(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		enroll(t, svc, name, "1000", 6)
	}
	mover := enroll(t, svc, "Lina", "1000", 7)

	room := 6
	name := "Lina Renamed"
	_, err := svc.Students.Update(ctx, mover.ID, StudentUpdate{RoomID: &room, Name: &name})
	assert.ErrorIs(t, err, ErrConflict)

	var stored models.Student
	require.NoError(t, db.First(&stored, mover.ID).Error)
	assert.EqualValues(t, 7, stored.RoomID)
	assert.Equal(t, "Lina", stored.Name)
	assert.Equal(t, 3, occupied(t, db, 6))
	assert.Equal(t, 1, occupied(t, db, 7))
}

func TestUpdateStudent_Fields(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	st := enroll(t, svc, "Musa", "1000", 8)

	v, err := svc.Students.Update(ctx, st.ID, StudentUpdate{
		Fee:    amountPtr("1200"),
		Status: strPtr(models.StudentGraduated),
		Phone:  strPtr(" 0700 "),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 120000, v.FeeCent)
	assert.Equal(t, models.StudentGraduated, v.Status)
	assert.Equal(t, "0700", v.Phone)

	_, err = svc.Students.Update(ctx, st.ID, StudentUpdate{Status: strPtr("expelled")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Students.Update(ctx, 404, StudentUpdate{Phone: strPtr("1")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteStudent_Cascade(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	st := enroll(t, svc, "Nia", "1000", 9)
	other := enroll(t, svc, "Omar", "1000", 9)

	for _, d := range []string{"2025-02-01", "2025-03-01"} {
		_, _, err := svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: st.ID, Amount: "500", Date: d})
		require.NoError(t, err)
	}
	_, _, err := svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: other.ID, Amount: "500", Date: "2025-03-01"})
	require.NoError(t, err)

	removed, err := svc.Students.Delete(ctx, st.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	var n int64
	require.NoError(t, db.Model(&models.FeeRecord{}).Where("student_id = ?", st.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.FeeRecord{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, occupied(t, db, 9))

	_, err = svc.Students.Delete(ctx, st.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListStudents(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	for i, name := range []string{"Amara", "Baraka", "Chidi", "Dalia", "Amani"} {
		enroll(t, svc, name, "1000", 10+i)
	}
	amara := enroll(t, svc, "Amaru", "2000", 17)
	_, _, err := svc.Fees.RecordPayment(ctx, PaymentInput{StudentID: amara.ID, Amount: "500", Date: "2025-03-03"})
	require.NoError(t, err)

	items, meta, err := svc.Students.List(ctx, Page{Page: 1, PerPage: 2}, "")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.EqualValues(t, 6, meta.Total)
	assert.EqualValues(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
	// newest first
	assert.Equal(t, "Amaru", items[0].Name)
	assert.Equal(t, models.FeePartial, items[0].ComputedFeeStatus)
	assert.Equal(t, "1500.00", items[0].RemainingFee)

	items, meta, err = svc.Students.List(ctx, Page{}, "ama")
	require.NoError(t, err)
	assert.EqualValues(t, 3, meta.Total)
	assert.Len(t, items, 3)
}

func TestListRooms(t *testing.T) {
	svc, _ := newTestServices(t)
	enroll(t, svc, "Zed", "1000", 18)
	enroll(t, svc, "Abe", "1000", 18)

	rooms, err := svc.Rooms.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 18)
	last := rooms[17]
	assert.Equal(t, 18, last.RoomNumber)
	assert.Equal(t, 4, last.Capacity)
	assert.Equal(t, 2, last.CurrentOccupancy)
	assert.Equal(t, 2, last.Free)
	require.Len(t, last.Students, 2)
	assert.Equal(t, "Abe", last.Students[0].Name)
	assert.Nil(t, last.Students[0].Picture)
}
