package activity

import (
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	databasePath := filepath.Join(t.TempDir(), "activity.db")
	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("failed to migrate record schema: %v", err)
	}
	store, err := NewStore(StoreConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func strPtr(value string) *string { return &value }

func intPtr(value int) *int { return &value }

func timePtr(value time.Time) *time.Time { return &value }

func day(t *testing.T, year int, month time.Month, dayOfMonth int) time.Time {
	t.Helper()
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}
