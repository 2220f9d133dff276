package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// OpenCSV reads a comma-separated file whose first row carries the headers.
// All cell values surface as strings; the import pipeline's parsers handle
// numeric and clock-like content downstream.
func OpenCSV(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tabular: open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return &memoryTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tabular: read csv header: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tabular: read csv row: %w", err)
		}
		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return &memoryTable{headers: headers, rows: rows}, nil
}
