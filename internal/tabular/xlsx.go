package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// OpenXLSX reads one sheet of a workbook whose first row carries the headers.
// An empty sheet name selects the workbook's active sheet. Cell values
// surface as the formatted strings excelize produces, which keeps time
// serials and clock strings in the shape the import parsers expect.
func OpenXLSX(path, sheet string) (Table, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("tabular: open workbook: %w", err)
	}
	defer workbook.Close()

	if sheet == "" {
		sheet = workbook.GetSheetName(workbook.GetActiveSheetIndex())
	}

	cells, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("tabular: read sheet %q: %w", sheet, err)
	}
	if len(cells) == 0 {
		return &memoryTable{}, nil
	}

	headers := cells[0]
	rows := make([]Row, 0, len(cells)-1)
	for _, record := range cells[1:] {
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
