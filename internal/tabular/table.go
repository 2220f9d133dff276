// Package tabular provides the source-table collaborators consumed by the
// import pipeline: an ordered sequence of rows, each a mapping from header
// name to cell value. Sources exist for CSV files, XLSX workbooks, and
// in-memory fixtures.
package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates the file extension maps to no known reader.
var ErrUnsupportedFormat = errors.New("tabular: unsupported file format")

// Row maps a source header name to the raw cell value. Values may be text,
// numbers, or timestamps depending on the backing source.
type Row map[string]any

// Table exposes a fully materialized source table. Row order is the source's
// natural order; imports never reorder.
type Table interface {
	Headers() []string
	Rows() []Row
}

// Open reads the table at path, dispatching on the file extension.
// The sheet name applies to workbook formats and is ignored for CSV.
func Open(path, sheet string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return OpenCSV(path)
	case ".xlsx", ".xlsm":
		return OpenXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

type memoryTable struct {
	headers []string
	rows    []Row
}

// NewMemoryTable builds a Table from already-materialized rows.
func NewMemoryTable(headers []string, rows []Row) Table {
	return &memoryTable{headers: headers, rows: rows}
}

func (t *memoryTable) Headers() []string { return t.headers }

func (t *memoryTable) Rows() []Row { return t.rows }
