package import_excel

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// ReadGrid loads the first worksheet of an .xls or .xlsx file as raw strings,
// one slice per sheet row. Row i of the grid is sheet line i+1. Numeric cells
// keep their raw value, so dates arrive as serials.
func ReadGrid(filename string, data []byte) ([][]string, error) {
	const op = "import_excel.ReadGrid"

	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		rows, err = readXLS(data)
	default:
		rows, err = readXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, filename, err)
	}

	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: no worksheet found", ErrUnreadableWorkbook)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}

	return rows, nil
}

// formulaCell is what the BIFF reader returns for a formula cell instead of
// its cached result.
const formulaCell = "FormulaCol"

func readXLS(data []byte) (rows [][]string, err error) {
	// the BIFF reader panics on some truncated files
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: no worksheet found", ErrUnreadableWorkbook)
	}

	// Without cell formats the reader returns raw numbers. With them, date
	// formats render as "2006.01" and custom formats as RFC3339, so a hire
	// day or a "# ##0" salary would be lost.
	wb.Xfs = nil

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: no worksheet found", ErrUnreadableWorkbook)
	}

	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			v := row.Col(j)
			if v == formulaCell {
				v = ""
			}
			cells = append(cells, v)
		}
		rows = append(rows, cells)
	}

	return rows, nil
}

// xlsRow returns nil for a line the sheet does not store; the reader
// dereferences a missing row.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()

	return sheet.Row(i)
}
