package gateway

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"deal-rebilling/internal/domain"
)

const (
	firstDataRow     = 3
	monthGroupSpacer = 3

	missingSheetName = "Missing from Raw"
	missingNote      = "Not present in latest raw data"
	highlightColor   = "FF0000"
)

var missingHeaders = []interface{}{"VSA deal", "Product", "Qty BBL", "Notes"}

// ExcelWorkbookRenderer implements the WorkbookRenderer interface with excelize.
type ExcelWorkbookRenderer struct{}

// NewExcelWorkbookRenderer creates a new renderer.
func NewExcelWorkbookRenderer() *ExcelWorkbookRenderer {
	return &ExcelWorkbookRenderer{}
}

type sheetStyles struct {
	header    int
	month     int
	highlight int
}

// RenderWorkbook writes the assembled sheet and, when a diff is attached,
// its highlights and the missing deals sheet.
func (w *ExcelWorkbookRenderer) RenderWorkbook(ctx context.Context, sheet *domain.OutputSheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = domain.DefaultOutputSheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("failed to name output sheet %q: %w", name, err)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}
	if err := writeHeaders(f, name, styles.header); err != nil {
		return nil, err
	}

	newRows := make(map[int]bool)
	var changed map[int][]domain.Column
	if sheet.Diff != nil {
		for _, i := range sheet.Diff.NewRows {
			newRows[i] = true
		}
		changed = sheet.Diff.ChangedCells
	}

	current := firstDataRow
	firstGroup := true
	for i, row := range sheet.Rows {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if row.MonthStart {
			if !firstGroup {
				current += monthGroupSpacer
			}
			firstGroup = false
			if err := setStyledValue(f, name, domain.ColumnA, current, row.MonthLabel, styles.month); err != nil {
				return nil, err
			}
			current++
		}

		if err := writeDataRow(f, name, current, row); err != nil {
			return nil, err
		}
		if err := highlightRow(f, name, current, row, newRows[i], changed[i], styles.highlight); err != nil {
			return nil, err
		}
		current++
	}

	if sheet.Diff != nil && len(sheet.Diff.MissingDeals) > 0 {
		if err := writeMissingSheet(f, sheet.Diff.MissingDeals, styles.header); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	if s.month, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Italic: true}}); err != nil {
		return s, fmt.Errorf("failed to create month style: %w", err)
	}
	if s.highlight, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: highlightColor}}); err != nil {
		return s, fmt.Errorf("failed to create highlight style: %w", err)
	}
	return s, nil
}

func writeHeaders(f *excelize.File, sheet string, style int) error {
	headers := make([]interface{}, domain.OutputColumnCount)
	for i, h := range domain.OutputHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	last := domain.ColumnV.Letter() + "1"
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}
	return f.SetColWidth(sheet, "A", domain.ColumnV.Letter(), 16)
}

func writeDataRow(f *excelize.File, sheet string, rowNumber int, row domain.OutputRow) error {
	for col, value := range row.Cells() {
		if value == nil {
			continue
		}
		ref := cellRef(domain.Column(col), rowNumber)
		if err := f.SetCellValue(sheet, ref, value); err != nil {
			return fmt.Errorf("failed to write %s: %w", ref, err)
		}
	}
	ref := cellRef(domain.ColumnL, rowNumber)
	formula := fmt.Sprintf("SUM(%s:%s)", cellRef(domain.ColumnE, rowNumber), cellRef(domain.ColumnK, rowNumber))
	if err := f.SetCellFormula(sheet, ref, formula); err != nil {
		return fmt.Errorf("failed to write %s formula: %w", ref, err)
	}
	return nil
}

// highlightRow paints every populated cell of a new deal, or only the
// changed cells of a known one.
func highlightRow(f *excelize.File, sheet string, rowNumber int, row domain.OutputRow, isNew bool, changed []domain.Column, style int) error {
	cols := changed
	if isNew {
		cols = nil
		for col, value := range row.Cells() {
			if value != nil {
				cols = append(cols, domain.Column(col))
			}
		}
	}
	for _, col := range cols {
		ref := cellRef(col, rowNumber)
		if err := f.SetCellStyle(sheet, ref, ref, style); err != nil {
			return fmt.Errorf("failed to highlight %s: %w", ref, err)
		}
	}
	return nil
}

func writeMissingSheet(f *excelize.File, missing []domain.FormattedRow, headerStyle int) error {
	if _, err := f.NewSheet(missingSheetName); err != nil {
		return fmt.Errorf("failed to create %q sheet: %w", missingSheetName, err)
	}
	headers := missingHeaders
	if err := f.SetSheetRow(missingSheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write %q headers: %w", missingSheetName, err)
	}
	if err := f.SetCellStyle(missingSheetName, "A1", "D1", headerStyle); err != nil {
		return err
	}
	for i, prev := range missing {
		values := []interface{}{
			prev.Deal,
			prev.Values[domain.ColumnN],
			prev.Values[domain.ColumnP],
			missingNote,
		}
		ref := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(missingSheetName, ref, &values); err != nil {
			return fmt.Errorf("failed to write missing deal %q: %w", prev.Deal, err)
		}
	}
	return nil
}

func setStyledValue(f *excelize.File, sheet string, col domain.Column, rowNumber int, value interface{}, style int) error {
	ref := cellRef(col, rowNumber)
	if err := f.SetCellValue(sheet, ref, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", ref, err)
	}
	return f.SetCellStyle(sheet, ref, ref, style)
}

func cellRef(col domain.Column, rowNumber int) string {
	return fmt.Sprintf("%s%d", col.Letter(), rowNumber)
}
