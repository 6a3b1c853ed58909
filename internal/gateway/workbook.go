package gateway

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"deal-rebilling/internal/domain"
)

// rawOptions makes excelize return stored cell values (date serials, unformatted numbers).
var rawOptions = excelize.Options{RawCellValue: true}

// openWorkbook parses workbook bytes; any failure is reported as InvalidFileFormat.
func openWorkbook(file []byte) (*excelize.File, error) {
	if len(file) == 0 {
		return nil, domain.NewValidationError(domain.KindInvalidFileFormat, "", "", "file is empty")
	}
	f, err := excelize.OpenReader(bytes.NewReader(file), rawOptions)
	if err != nil {
		return nil, domain.NewValidationError(domain.KindInvalidFileFormat, "", "", "file is not a readable workbook: %v", err)
	}
	return f, nil
}

// sheetRows returns every row of a sheet with raw cell values.
func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet, rawOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// column is a resolved spreadsheet column: its letter and 0-based index.
type column struct {
	Letter string
	Index  int
}

func mustColumn(letter string) column {
	c, err := parseColumn(letter)
	if err != nil {
		panic(err)
	}
	return c
}

func parseColumn(letter string) (column, error) {
	letter = domain.Normalize(letter)
	n, err := excelize.ColumnNameToNumber(letter)
	if err != nil {
		return column{}, fmt.Errorf("invalid column %q: %w", letter, err)
	}
	return column{Letter: letter, Index: n - 1}, nil
}

// cell returns the trimmed value at c, empty when the row is shorter.
func cell(row []string, c column) string {
	if c.Index < 0 || c.Index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[c.Index])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sheetWidth is the populated column count of a sheet.
func sheetWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// parseDecimal reads a numeric cell. Thousands separators, currency signs and
// accounting parentheses are accepted.
func parseDecimal(value string) (decimal.Decimal, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, false
	}
	negative := false
	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		negative = true
		value = strings.TrimSuffix(strings.TrimPrefix(value, "("), ")")
	}
	value = strings.NewReplacer(",", "", "$", "", " ", "").Replace(value)
	d, err := decimal.NewFromString(value)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(f)
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

func parseNullDecimal(value string) decimal.NullDecimal {
	d, ok := parseDecimal(value)
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseDate accepts an Excel serial number or one of the textual layouts.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
