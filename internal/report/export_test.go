package report

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/aktivalab/aktiva/backend/internal/activity"
	"github.com/xuri/excelize/v2"
)

func newTestStore(t *testing.T) *activity.Store {
	t.Helper()
	databasePath := filepath.Join(t.TempDir(), "report.db")
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

func seedReportRecords(t *testing.T, store *activity.Store) {
	t.Helper()
	march13 := time.Date(2025, time.March, 13, 0, 0, 0, 0, time.UTC)
	march14 := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	billing := "billing"
	inventory := "inventory"
	fast := activity.TierFast
	slow := activity.TierSlow
	records := []activity.Record{
		{ActivityDate: &march13, Application: &billing, DurationMinutes: 5, Tier: &fast},
		{ActivityDate: &march14, Application: &billing, DurationMinutes: 400, Tier: &slow},
		{ActivityDate: &march14, Application: &inventory, DurationMinutes: 7, Tier: &fast},
	}
	if _, err := store.InsertMany(context.Background(), records); err != nil {
		t.Fatalf("failed to seed records: %v", err)
	}
}

func TestExportCSVWritesHeaderAndFilteredRows(t *testing.T) {
	store := newTestStore(t)
	seedReportRecords(t, store)
	exporter, err := NewExporter(store)
	if err != nil {
		t.Fatalf("failed to create exporter: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.csv")
	billing := "billing"
	written, err := exporter.ExportCSV(context.Background(), path, activity.Filter{Application: &billing})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if written != 2 {
		t.Fatalf("expected 2 exported rows, got %d", written)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen export: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][11] != "Duration (min)" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}
	// Store ordering is date descending, so the slow March 14 run leads.
	if rows[1][11] != "400" || rows[2][11] != "5" {
		t.Fatalf("unexpected row order: %v / %v", rows[1], rows[2])
	}
}

func TestExportXLSXRoundTripsThroughExcelize(t *testing.T) {
	store := newTestStore(t)
	seedReportRecords(t, store)
	exporter, err := NewExporter(store)
	if err != nil {
		t.Fatalf("failed to create exporter: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	written, err := exporter.ExportXLSX(context.Background(), path, activity.Filter{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if written != 3 {
		t.Fatalf("expected 3 exported rows, got %d", written)
	}

	workbook, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer workbook.Close()

	cells, err := workbook.GetRows(sheetName)
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(cells) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(cells))
	}
	if cells[0][2] != "Application" {
		t.Fatalf("unexpected header row: %v", cells[0])
	}
}

func TestExportCSVOfEmptyStoreWritesHeaderOnly(t *testing.T) {
	store := newTestStore(t)
	exporter, err := NewExporter(store)
	if err != nil {
		t.Fatalf("failed to create exporter: %v", err)
	}

	path := filepath.Join(t.TempDir(), "empty.csv")
	written, err := exporter.ExportCSV(context.Background(), path, activity.Filter{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if written != 0 {
		t.Fatalf("expected 0 exported rows, got %d", written)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if len(content) == 0 {
		t.Fatalf("expected header row in empty export")
	}
}
