// Package report renders filtered activity listings into spreadsheet
// artifacts. It consumes only the store's filtered-query contract.
package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aktivalab/aktiva/backend/internal/activity"
)

var errMissingStore = errors.New("report: record store is required")

var columnTitles = []string{
	"ID", "Date", "Application", "Depot", "Kind", "Collection", "Object",
	"Start Scheduler", "Finish Scheduler", "Start Bridge", "Finish Bridge",
	"Duration (min)", "Status", "Notes", "Scheduled At", "Tier",
}

const sheetName = "Activities"

// Exporter writes activity listings to disk in the canonical column order.
type Exporter struct {
	store *activity.Store
}

// NewExporter constructs an exporter over the given store.
func NewExporter(store *activity.Store) (*Exporter, error) {
	if store == nil {
		return nil, errMissingStore
	}
	return &Exporter{store: store}, nil
}

// ExportCSV writes the filtered listing as a comma-separated file.
func (e *Exporter) ExportCSV(ctx context.Context, path string, filter activity.Filter) (int, error) {
	records, err := e.store.ListFiltered(ctx, filter)
	if err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("report: create csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(columnTitles); err != nil {
		return 0, fmt.Errorf("report: write csv header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(recordCells(record)); err != nil {
			return 0, fmt.Errorf("report: write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("report: flush csv: %w", err)
	}
	return len(records), nil
}

// ExportXLSX writes the filtered listing as a single-sheet workbook.
func (e *Exporter) ExportXLSX(ctx context.Context, path string, filter activity.Filter) (int, error) {
	records, err := e.store.ListFiltered(ctx, filter)
	if err != nil {
		return 0, err
	}

	workbook := excelize.NewFile()
	defer workbook.Close()

	index, err := workbook.NewSheet(sheetName)
	if err != nil {
		return 0, fmt.Errorf("report: create sheet: %w", err)
	}
	workbook.SetActiveSheet(index)
	if err := workbook.DeleteSheet("Sheet1"); err != nil {
		return 0, fmt.Errorf("report: drop default sheet: %w", err)
	}

	header := make([]any, len(columnTitles))
	for i, title := range columnTitles {
		header[i] = title
	}
	if err := workbook.SetSheetRow(sheetName, "A1", &header); err != nil {
		return 0, fmt.Errorf("report: write header row: %w", err)
	}
	for i, record := range records {
		cells := recordCells(record)
		row := make([]any, len(cells))
		for j, cell := range cells {
			row[j] = cell
		}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, fmt.Errorf("report: compute cell anchor: %w", err)
		}
		if err := workbook.SetSheetRow(sheetName, anchor, &row); err != nil {
			return 0, fmt.Errorf("report: write row %d: %w", i+2, err)
		}
	}

	if err := workbook.SaveAs(path); err != nil {
		return 0, fmt.Errorf("report: save workbook: %w", err)
	}
	return len(records), nil
}

func recordCells(record activity.Record) []string {
	return []string{
		strconv.FormatUint(uint64(record.ID), 10),
		formatDate(record.ActivityDate),
		textOrEmpty(record.Application),
		textOrEmpty(record.Depot),
		textOrEmpty(record.Kind),
		textOrEmpty(record.Collection),
		textOrEmpty(record.Object),
		formatTimestamp(record.StartScheduler),
		formatTimestamp(record.FinishScheduler),
		formatTimestamp(record.StartBridge),
		formatTimestamp(record.FinishBridge),
		strconv.Itoa(record.DurationMinutes),
		textOrEmpty(record.Status),
		textOrEmpty(record.Notes),
		formatTimestamp(record.ScheduledAt),
		formatTier(record.Tier),
	}
}

func formatDate(moment *time.Time) string {
	if moment == nil {
		return ""
	}
	return moment.Format("2006-01-02")
}

func formatTimestamp(moment *time.Time) string {
	if moment == nil {
		return ""
	}
	return moment.Format(time.RFC3339)
}

func formatTier(tier *int) string {
	if tier == nil {
		return ""
	}
	return strconv.Itoa(*tier)
}

func textOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
