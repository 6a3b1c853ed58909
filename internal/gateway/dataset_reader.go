package gateway

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"deal-rebilling/internal/domain"
)

var dealHeaderPriority = []string{
	"deal_id", "varo_deal", "deal", "deal_number", "deal_no", "dealname", "vsa_deal",
}

var quantityHeaderHints = []string{
	"total_usd", "total", "usd_total", "qty_usd", "amount", "usd",
}

var costHeaderKeywords = []string{
	"cost", "insurance", "inspection", "superintendent", "charge", "fee", "logistics",
}

// ExcelDatasetRepository implements the DatasetRepository interface for xlsx workbooks.
type ExcelDatasetRepository struct{}

// NewExcelDatasetRepository creates a new repository instance.
func NewExcelDatasetRepository() *ExcelDatasetRepository {
	return &ExcelDatasetRepository{}
}

type header struct {
	key   string
	label string
	col   column
}

// LoadDataset reads one sheet: the first row holds the headers, blank rows
// and rows without a deal are dropped.
func (r *ExcelDatasetRepository) LoadDataset(ctx context.Context, file []byte, source domain.DatasetSource) (*domain.Dataset, error) {
	f, err := openWorkbook(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, err := resolveDatasetSheet(f, source)
	if err != nil {
		return nil, err
	}
	rows, err := sheetRows(f, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || blankRow(rows[0]) {
		return nil, domain.NewValidationError(domain.KindInsufficientRows, sheet, "",
			"%s workbook sheet '%s' has no header row", source.Name, sheet)
	}

	headers := buildHeaders(rows[0], sheetWidth(rows))
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if !blankRow(row) {
			data = append(data, row)
		}
	}

	dealCol, err := resolveDealColumn(sheet, source, headers)
	if err != nil {
		return nil, err
	}
	qtyCol, err := resolveQuantityColumn(sheet, source, headers, data, dealCol)
	if err != nil {
		return nil, err
	}

	var costHeaders []header
	for _, h := range headers {
		if h.col.Index == dealCol.Index || h.col.Index == qtyCol.Index {
			continue
		}
		if isCostHeader(h.key) {
			costHeaders = append(costHeaders, h)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds := &domain.Dataset{
		Name:           source.Name,
		Sheet:          sheet,
		DealColumn:     dealCol.Letter,
		QuantityColumn: qtyCol.Letter,
		CostColumns:    make([]domain.CostColumn, 0, len(costHeaders)),
		Rows:           make([]domain.DatasetRow, 0, len(data)),
	}
	for _, h := range costHeaders {
		ds.CostColumns = append(ds.CostColumns, domain.CostColumn{Key: h.key, Label: h.label})
	}
	for _, row := range data {
		deal := cell(row, dealCol)
		if deal == "" {
			continue
		}
		qty, _ := parseDecimal(cell(row, qtyCol))
		dr := domain.DatasetRow{DealID: deal, Quantity: qty}
		if len(costHeaders) > 0 {
			dr.Costs = make(map[string]decimal.Decimal, len(costHeaders))
			for _, h := range costHeaders {
				amount, _ := parseDecimal(cell(row, h.col))
				dr.Costs[h.key] = amount
			}
		}
		ds.Rows = append(ds.Rows, dr)
	}
	return ds, nil
}

func resolveDatasetSheet(f *excelize.File, source domain.DatasetSource) (string, error) {
	if source.Sheet != "" {
		if idx, _ := f.GetSheetIndex(source.Sheet); idx < 0 {
			return "", domain.NewValidationError(domain.KindMissingSheet, source.Sheet, "",
				"%s workbook sheet '%s' not found", source.Name, source.Sheet)
		}
		return source.Sheet, nil
	}
	list := f.GetSheetList()
	if len(list) == 0 {
		return "", domain.NewValidationError(domain.KindMissingSheet, "", "", "%s workbook has no sheets", source.Name)
	}
	return list[0], nil
}

// buildHeaders snake-cases the header row. Unnamed columns are keyed by
// letter, repeated keys get a _2, _3... suffix.
func buildHeaders(row []string, width int) []header {
	headers := make([]header, 0, width)
	seen := make(map[string]int, width)
	caser := cases.Title(language.English)
	for i := 0; i < width; i++ {
		letter, _ := excelize.ColumnNumberToName(i + 1)
		raw := ""
		if i < len(row) {
			raw = strings.TrimSpace(row[i])
		}
		key := snakeCase(raw)
		if key == "" {
			key = "column_" + strings.ToLower(letter)
		}
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s_%d", key, n)
		}
		label := raw
		if label == "" {
			label = letter
		}
		headers = append(headers, header{
			key:   key,
			label: caser.String(strings.ReplaceAll(label, "_", " ")),
			col:   column{Letter: letter, Index: i},
		})
	}
	return headers
}

func snakeCase(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func isCostHeader(key string) bool {
	for _, kw := range costHeaderKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

func resolveDealColumn(sheet string, source domain.DatasetSource, headers []header) (column, error) {
	if source.DealColumn != "" {
		return letterColumn(sheet, source.DealColumn, headers)
	}
	byKey := make(map[string]header, len(headers))
	for _, h := range headers {
		if _, ok := byKey[h.key]; !ok {
			byKey[h.key] = h
		}
	}
	for _, name := range dealHeaderPriority {
		if h, ok := byKey[name]; ok {
			return h.col, nil
		}
	}
	for _, h := range headers {
		if strings.Contains(h.key, "deal") {
			return h.col, nil
		}
	}
	return column{}, domain.NewValidationError(domain.KindMissingColumn, sheet, "",
		"%s workbook sheet '%s' has no deal column", source.Name, sheet)
}

func resolveQuantityColumn(sheet string, source domain.DatasetSource, headers []header, data [][]string, deal column) (column, error) {
	if source.QuantityColumn != "" {
		return letterColumn(sheet, source.QuantityColumn, headers)
	}
	for _, hint := range quantityHeaderHints {
		for _, h := range headers {
			if h.key == hint && h.col.Index != deal.Index {
				return h.col, nil
			}
		}
	}
	if source.FallbackQuantityColumn != "" {
		if c, err := letterColumn(sheet, source.FallbackQuantityColumn, headers); err == nil && c.Index != deal.Index {
			return c, nil
		}
	}
	for _, h := range headers {
		if h.col.Index != deal.Index && numericColumn(data, h.col) {
			return h.col, nil
		}
	}
	return column{}, domain.NewValidationError(domain.KindMissingColumn, sheet, "",
		"%s workbook sheet '%s' has no quantity column", source.Name, sheet)
}

// letterColumn resolves an explicit column letter against the populated width.
func letterColumn(sheet, letter string, headers []header) (column, error) {
	c, err := parseColumn(letter)
	if err != nil || c.Index >= len(headers) {
		return column{}, domain.NewValidationError(domain.KindMissingColumn, sheet, domain.Normalize(letter),
			"sheet '%s' is missing required column %s", sheet, domain.Normalize(letter))
	}
	return c, nil
}

// numericColumn reports whether every populated value of the column is a number.
func numericColumn(data [][]string, c column) bool {
	populated := 0
	for _, row := range data {
		v := cell(row, c)
		if v == "" {
			continue
		}
		if _, ok := parseDecimal(v); !ok {
			return false
		}
		populated++
	}
	return populated > 0
}
