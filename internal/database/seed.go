package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hostel-admin/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Room layout: rooms 1-14 hold three students, rooms 15-18 hold four.
const (
	MinRoomID  = 1
	MaxRoomID  = 18
	smallRooms = 14
	smallSeats = 3
	largeSeats = 4
)

// RoomCapacity returns the fixed capacity of a room number.
func RoomCapacity(number int) int {
	if number <= smallRooms {
		return smallSeats
	}
	return largeSeats
}

// SeedRooms creates the fixed rooms when missing. Room id equals room number.
// Existing rows are left untouched.
func SeedRooms(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for n := MinRoomID; n <= MaxRoomID; n++ {
			var count int64
			if err := tx.Model(&models.Room{}).Where("room_number = ?", n).Count(&count).Error; err != nil {
				return fmt.Errorf("seed rooms: %w", err)
			}
			if count > 0 {
				continue
			}
			room := models.Room{ID: uint(n), RoomNumber: n, Capacity: RoomCapacity(n)}
			if err := tx.Create(&room).Error; err != nil {
				return fmt.Errorf("seed room %d: %w", n, err)
			}
		}
		return nil
	})
}

// ReconcileOccupancy recounts rooms.occupied from the student rows.
func ReconcileOccupancy(db *gorm.DB) error {
	err := db.Exec(`UPDATE rooms SET occupied = (
		SELECT COUNT(*) FROM students WHERE students.room_id = rooms.id
	)`).Error
	if err != nil {
		return fmt.Errorf("reconcile occupancy: %w", err)
	}
	return nil
}

// DefaultStaff is the sample staff list used by `hostel seed --staff`.
var DefaultStaff = []models.Employee{
	{Name: "Hostel Manager", Position: "Manager", BaseSalaryCent: 5_000_000},
	{Name: "Head Cook", Position: "Cook", BaseSalaryCent: 3_000_000},
	{Name: "Assistant Cook", Position: "Cook", BaseSalaryCent: 2_000_000},
}

// SeedEmployees inserts the given employees unless one with the same name exists.
// It returns the number of rows created.
func SeedEmployees(db *gorm.DB, staff []models.Employee, hireDate time.Time) (int, error) {
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, e := range staff {
			var count int64
			if err := tx.Model(&models.Employee{}).Where("name = ?", e.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			e.ID = 0
			if e.HireDate.IsZero() {
				e.HireDate = hireDate
			}
			if e.Status == "" {
				e.Status = models.EmployeeActive
			}
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed employees: %w", err)
	}
	return created, nil
}

// ErrAdminExists is returned by CreateAdmin when the username or email is taken.
var ErrAdminExists = errors.New("admin already exists")

// CreateAdmin hashes the password with bcrypt and stores a new admin account.
func CreateAdmin(db *gorm.DB, username, password, name, email string, cost int) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	if email == "" {
		email = username + "@hostel.local"
	}
	if name == "" {
		name = username
	}
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}

	var count int64
	if err := db.Model(&models.Admin{}).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", username, email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("query admin: %w", err)
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	admin := models.Admin{
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return &admin, nil
}

// EnsureAdmin creates the bootstrap account when the admins table is empty.
// It reports whether an account was created.
func EnsureAdmin(db *gorm.DB, username, password, name, email string, cost int) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if _, err := CreateAdmin(db, username, password, name, email, cost); err != nil {
		return false, err
	}
	return true, nil
}
