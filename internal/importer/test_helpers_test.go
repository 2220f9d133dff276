package importer

import (
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/aktivalab/aktiva/backend/internal/activity"
)

func newTestStore(t *testing.T) *activity.Store {
	t.Helper()
	databasePath := filepath.Join(t.TempDir(), "import.db")
	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&activity.Record{}); err != nil {
		t.Fatalf("failed to migrate record schema: %v", err)
	}
	store, err := activity.NewStore(activity.StoreConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func mustRangeFilter(t *testing.T, from, to time.Time) DateFilter {
	t.Helper()
	filter, err := NewRangeDateFilter(from, to)
	if err != nil {
		t.Fatalf("unexpected range filter error: %v", err)
	}
	return filter
}

func fixedClock(moment time.Time) func() time.Time {
	return func() time.Time { return moment }
}
