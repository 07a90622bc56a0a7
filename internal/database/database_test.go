package database_test

import (
	"testing"
	"time"

	"hostel-admin/internal/database"
	"hostel-admin/internal/database/dbtest"
	"hostel-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRooms_Layout(t *testing.T) {
	db := dbtest.Open(t)

	var rooms []models.Room
	require.NoError(t, db.Order("id").Find(&rooms).Error)
	require.Len(t, rooms, database.MaxRoomID)

	for _, r := range rooms {
		assert.Equal(t, uint(r.RoomNumber), r.ID)
		if r.RoomNumber <= 14 {
			assert.Equal(t, 3, r.Capacity, "room %d", r.RoomNumber)
		} else {
			assert.Equal(t, 4, r.Capacity, "room %d", r.RoomNumber)
		}
	}
}

func TestSeedRooms_Idempotent(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", 1).Update("capacity", 5).Error)
	require.NoError(t, database.SeedRooms(db))

	var count int64
	require.NoError(t, db.Model(&models.Room{}).Count(&count).Error)
	assert.EqualValues(t, database.MaxRoomID, count)

	var room models.Room
	require.NoError(t, db.First(&room, 1).Error)
	assert.Equal(t, 5, room.Capacity, "existing rows are not overwritten")
}

func TestReconcileOccupancy(t *testing.T) {
	db := dbtest.Open(t)

	for _, name := range []string{"A", "B"} {
		s := models.Student{Name: name, FeeCent: 100, RoomID: 2, EnrollmentDate: time.Now()}
		require.NoError(t, db.Create(&s).Error)
	}
	require.NoError(t, db.Model(&models.Room{}).Where("id = ?", 3).Update("occupied", 3).Error)

	require.NoError(t, database.ReconcileOccupancy(db))

	var r2, r3 models.Room
	require.NoError(t, db.First(&r2, 2).Error)
	require.NoError(t, db.First(&r3, 3).Error)
	assert.Equal(t, 2, r2.Occupied)
	assert.Equal(t, 0, r3.Occupied)
}

func TestCreateAdmin(t *testing.T) {
	db := dbtest.Open(t)

	admin, err := database.CreateAdmin(db, "warden", "secret-pass", "", "", 4)
	require.NoError(t, err)
	assert.Equal(t, "warden", admin.Name)
	assert.Equal(t, "warden@hostel.local", admin.Email)
	assert.NotEqual(t, "secret-pass", admin.PasswordHash)

	_, err = database.CreateAdmin(db, "WARDEN", "other", "", "x@y.z", 4)
	assert.ErrorIs(t, err, database.ErrAdminExists)

	_, err = database.CreateAdmin(db, "", "pw", "", "", 4)
	assert.Error(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	db := dbtest.Open(t)

	created, err := database.EnsureAdmin(db, "", "", "", "", 4)
	require.NoError(t, err)
	assert.False(t, created, "no bootstrap credentials configured")

	created, err = database.EnsureAdmin(db, "admin", "pw", "Admin", "admin@example.com", 4)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = database.EnsureAdmin(db, "second", "pw", "", "", 4)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSeedEmployees(t *testing.T) {
	db := dbtest.Open(t)
	hire := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	n, err := database.SeedEmployees(db, database.DefaultStaff, hire)
	require.NoError(t, err)
	assert.Equal(t, len(database.DefaultStaff), n)

	n, err = database.SeedEmployees(db, database.DefaultStaff, hire)
	require.NoError(t, err)
	assert.Zero(t, n)

	var e models.Employee
	require.NoError(t, db.Where("name = ?", "Head Cook").First(&e).Error)
	assert.Equal(t, models.EmployeeActive, e.Status)
	assert.True(t, e.HireDate.Equal(hire))
}
