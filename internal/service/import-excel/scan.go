package import_excel

import (
	"strings"
	"unicode/utf8"
)

type rowKind int

const (
	rowEmpty rowKind = iota
	rowBanner
	rowHeader
	rowPreamble
	rowData
)

func (k rowKind) String() string {
	switch k {
	case rowEmpty:
		return "empty"
	case rowBanner:
		return "banner"
	case rowHeader:
		return "header"
	case rowPreamble:
		return "preamble"
	case rowData:
		return "data"
	default:
		return "unknown"
	}
}

// sheetLayout describes one kind of import sheet.
type sheetLayout struct {
	name           string
	columns        []column
	templateFields []field
	banners        bool
	isHeader       func(row []string, m columnMap) bool
}

var workerSheet = sheetLayout{
	name:    "Personnel",
	columns: workerColumns,
	templateFields: []field{
		fieldLastName, fieldFirstName, fieldNationalID, fieldContact, fieldAddress,
		fieldSalary, fieldSite, fieldHireDate, fieldBirthDate, fieldStatus,
	},
	banners: true,
	isHeader: func(_ []string, m columnMap) bool {
		return m.has(fieldFirstName) && m.has(fieldLastName)
	},
}

var productSheet = sheetLayout{
	name:    "Produits",
	columns: productColumns,
	templateFields: []field{
		fieldProductName, fieldCode, fieldCategory, fieldUnit, fieldQuantity, fieldAlertThreshold,
	},
	isHeader: func(row []string, m columnMap) bool {
		for _, cell := range row {
			if strings.Contains(normalizeHeader(cell), productHeaderMarker) {
				return true
			}
		}
		return m.has(fieldCode) && m.has(fieldCategory)
	},
}

func (s sheetLayout) label(f field) string {
	for _, c := range s.columns {
		if c.field == f {
			return c.label
		}
	}
	return string(f)
}

// scanState is threaded through the rows of a sheet. It is replaced, never
// mutated, so every step is a pure function of the previous state and a row.
type scanState struct {
	site       string
	siteSeen   bool
	columns    columnMap
	headerSeen bool
}

type scanner struct {
	sheet           sheetLayout
	bannerMinLength int
}

func newScanState(defaultSite string) scanState {
	return scanState{site: defaultSite}
}

// step classifies row and returns the state the next row starts from.
//
// A row with a single filled cell is tested as a site banner before anything
// else, including in the middle of a data block. A worker row where only one
// long cell is filled is therefore read as a site switch.
func (sc scanner) step(st scanState, row []string) (scanState, rowKind) {
	cells := nonEmptyCells(row)
	if len(cells) == 0 {
		return st, rowEmpty
	}

	if sc.isBanner(cells) {
		st.site = cells[0]
		st.siteSeen = true
		return st, rowBanner
	}

	if m := mapColumns(sc.sheet.columns, row); sc.sheet.isHeader(row, m) {
		st.columns = m
		st.headerSeen = true
		return st, rowHeader
	}

	if !st.headerSeen {
		return st, rowPreamble
	}

	return st, rowData
}

func (sc scanner) isBanner(cells []string) bool {
	if !sc.sheet.banners || len(cells) != 1 {
		return false
	}

	cell := cells[0]
	if utf8.RuneCountInString(cell) <= sc.bannerMinLength {
		return false
	}

	// totals and subtotals under a block
	if isAmount(cell) {
		return false
	}

	return !isHeaderWord(sc.sheet.columns, cell)
}
