package import_excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkerTemplate returns an empty .xlsx whose header row the worker import
// recognises.
func WorkerTemplate() ([]byte, error) {
	return buildTemplate(workerSheet)
}

func ProductTemplate() ([]byte, error) {
	return buildTemplate(productSheet)
}

func buildTemplate(sheet sheetLayout) ([]byte, error) {
	const op = "import_excel.buildTemplate"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: style: %w", op, err)
	}

	for i, fld := range sheet.templateFields {
		if err := f.SetCellValue(sheet.name, cellName(i+1, 1), sheet.label(fld)); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	lastCol := cellName(len(sheet.templateFields), 1)
	if err := f.SetCellStyle(sheet.name, "A1", lastCol, headerStyle); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// header stays visible while scrolling
	if err := f.SetPanes(sheet.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lastColName, _ := excelize.ColumnNumberToName(len(sheet.templateFields))
	if err := f.SetColWidth(sheet.name, "A", lastColName, 20); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
