package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrNoWorksheet    = errors.New("no worksheet found")
	ErrEmptyWorksheet = errors.New("worksheet is empty")
)

// ReadRows returns the cells of the first worksheet. Legacy .xls files are
// decoded with xls, everything else is treated as xlsx. xlsx cells are read
// raw, so numbers keep their stored value instead of the display format.
func ReadRows(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		return readXLS(data)
	default:
		return readXLSX(data)
	}
}

// ReadPayroll reads the first worksheet and drops the leading metadata rows.
func ReadPayroll(r io.Reader, filename string, skipRows int) ([][]string, error) {
	rows, err := ReadRows(r, filename)
	if err != nil {
		return nil, err
	}
	if skipRows >= len(rows) {
		return nil, fmt.Errorf("%w: %d rows, %d skipped", ErrEmptyWorksheet, len(rows), skipRows)
	}
	return rows[skipRows:], nil
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoWorksheet
	}

	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorksheet
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, ErrNoWorksheet
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoWorksheet
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for col := range cells {
			cells[col] = row.Col(col)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorksheet
	}
	return rows, nil
}
