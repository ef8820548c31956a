// Package dbtest provides an in-memory store for tests.
package dbtest

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"wateradmin/internal/db"
)

// New opens a migrated and seeded in-memory SQLite database for tests.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gormDB) })

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.SeedReferenceData(context.Background(), gormDB); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return gormDB
}
