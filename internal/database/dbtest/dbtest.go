// Package dbtest opens throwaway sqlite databases for tests.
package dbtest

import (
	"fmt"
	"regexp"
	"testing"

	"hostel-admin/internal/config"
	"hostel-admin/internal/database"

	"gorm.io/gorm"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Open opens a private in-memory sqlite database for one test, migrated and
// seeded with the fixed rooms. It is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(t.Name(), "_"))
	db, err := database.Init(config.DatabaseConfig{Driver: "sqlite", Path: dsn, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Setup(db); err != nil {
		t.Fatalf("setup test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
