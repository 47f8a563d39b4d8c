package payroll

import (
	"fmt"
	"strings"
)

// MapRecords assigns the payroll schema to a sheet whose leading metadata rows
// have already been removed. The first row is the sheet's own header and is
// dropped. offset is the number of rows removed above, used for row numbers.
func MapRecords(rows [][]string, offset int) ([]Record, error) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width != len(Columns) {
		return nil, fmt.Errorf("%w: got %d columns, expected %d", ErrColumnMismatch, width, len(Columns))
	}

	records := make([]Record, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		fields := make(map[string]string, len(Columns))
		for col, name := range Columns {
			if col < len(row) {
				fields[name] = row[col]
			} else {
				fields[name] = ""
			}
		}
		records = append(records, Record{Row: offset + i + 1, Fields: fields})
	}
	return records, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
