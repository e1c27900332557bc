package import_excel

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// spreadsheet serial of 1970-01-01
	excelEpochOffset = 25569
	msPerDay         = 86400 * 1000
	// serial of 9999-12-31 plus one; spreadsheets stop there
	maxDateSerial    = 2958466
)

var textDateLayouts = []string{
	"2/1/2006",
	"2006-01-02",
	time.RFC3339,
}

// ParseAmount reads salaries and quantities typed by hand: "3 500,50" is
// 3500.50. Anything unparsable is zero.
func ParseAmount(v string) decimal.Decimal {
	d, err := parseAmount(v)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// isAmount reports whether v reads as a number, such as a subtotal cell.
func isAmount(v string) bool {
	_, err := parseAmount(v)
	return err == nil
}

func parseAmount(v string) (decimal.Decimal, error) {
	v = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, v)
	v = strings.ReplaceAll(v, ",", ".")

	return decimal.NewFromString(v)
}

// ParseDate accepts a spreadsheet date serial or DD/MM/YYYY text and returns
// nil for anything else.
func ParseDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		// also rejects NaN and Inf
		if !(serial > 0 && serial < maxDateSerial) {
			return nil
		}
		ms := int64(math.Round((serial - excelEpochOffset) * msPerDay))
		t := time.UnixMilli(ms).UTC()
		return &t
	}

	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t
		}
	}

	return nil
}

// normalizeHeader uppercases, trims and strips accents so that "Catégorie"
// and "CATEGORIE" compare equal.
func normalizeHeader(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}

	return strings.ToUpper(strings.Join(strings.Fields(folded), " "))
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func nonEmptyCells(row []string) []string {
	var cells []string
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}
