package gateway

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"deal-rebilling/internal/domain"
)

// Source columns of the deals sheet.
var (
	dealNumberColumn = mustColumn("B")
	hedgeColumn      = mustColumn("L")
	productColumn    = mustColumn("M")
	quantityColumn   = mustColumn("Q")
	dateColumn       = mustColumn("X")
	vesselColumn     = mustColumn("AA")
	incoColumn       = mustColumn("AB")
	locationColumn   = mustColumn("AD")
	riskColumn       = mustColumn("AL")
	whbMarkerColumn  = mustColumn("BZ")
)

// Source columns of the costs sheet; the deal column is configurable.
var (
	costTypeColumn   = mustColumn("AQ")
	costAmountColumn = mustColumn("AV")
)

// Source columns of the hedges sheet.
var (
	hedgeNumberColumn    = mustColumn("M")
	vsaCommentColumn     = mustColumn("BR")
	additionalInfoColumn = mustColumn("CN")
)

var dealSheetColumns = []column{
	dealNumberColumn, hedgeColumn, productColumn, quantityColumn, dateColumn,
	vesselColumn, incoColumn, locationColumn, riskColumn, whbMarkerColumn,
}

var hedgeSheetColumns = []column{hedgeNumberColumn, vsaCommentColumn, additionalInfoColumn}

// ExcelSheetRepository implements the SheetRepository interface for xlsx workbooks.
type ExcelSheetRepository struct{}

// NewExcelSheetRepository creates a new repository instance.
func NewExcelSheetRepository() *ExcelSheetRepository {
	return &ExcelSheetRepository{}
}

// LoadDealSheets validates the workbook shape and parses the deals, costs and hedges sheets.
func (r *ExcelSheetRepository) LoadDealSheets(ctx context.Context, file []byte, settings domain.ProcessSettings) (*domain.DealSheets, error) {
	settings = settings.WithDefaults()
	costDealColumn, err := parseColumn(settings.DealColumn)
	if err != nil {
		return nil, domain.NewValidationError(domain.KindMissingColumn, "", settings.DealColumn, "invalid deal column %q", settings.DealColumn)
	}

	f, err := openWorkbook(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names, presence, err := resolveRawSheets(f, settings)
	if err != nil {
		return nil, err
	}

	rows := make([][][]string, len(names))
	for i, name := range names {
		if rows[i], err = sheetRows(f, name); err != nil {
			return nil, err
		}
	}
	if len(rows[0]) < 2 {
		return nil, domain.NewValidationError(domain.KindInsufficientRows, names[0], "",
			"Raw Sheet 1 '%s' must have at least one data row", names[0])
	}

	costColumns := []column{costDealColumn, costTypeColumn, costAmountColumn}
	for i, required := range [][]column{dealSheetColumns, costColumns, hedgeSheetColumns} {
		if err := requireColumns(names[i], rows[i], required); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deals, err := parseDeals(names[0], rows[0])
	if err != nil {
		return nil, err
	}
	return &domain.DealSheets{
		SheetPresence: presence,
		PrimarySheet:  names[0],
		Deals:         deals,
		Costs:         parseCosts(rows[1], costDealColumn),
		Hedges:        parseHedges(rows[2]),
	}, nil
}

// resolveRawSheets maps the three raw sheet settings to names, defaulting to
// the first three sheets of the workbook.
func resolveRawSheets(f *excelize.File, settings domain.ProcessSettings) ([]string, map[string]bool, error) {
	list := f.GetSheetList()
	available := make(map[string]bool, len(list))
	for _, name := range list {
		available[name] = true
	}

	requested := []string{settings.RawSheet1Name, settings.RawSheet2Name, settings.RawSheet3Name}
	names := make([]string, len(requested))
	presence := make(map[string]bool, len(requested))
	for i, name := range requested {
		if name == "" && i < len(list) {
			name = list[i]
		}
		if name == "" || !available[name] {
			label := name
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			return nil, nil, domain.NewValidationError(domain.KindMissingSheet, label, "",
				"Raw Sheet %d '%s' not found", i+1, label)
		}
		names[i] = name
		presence[name] = true
	}
	return names, presence, nil
}

// requireColumns checks the columns in ascending order and reports the first
// one beyond the populated width of the sheet.
func requireColumns(sheet string, rows [][]string, required []column) error {
	width := sheetWidth(rows)
	for _, c := range required {
		if c.Index >= width {
			return domain.NewValidationError(domain.KindMissingColumn, sheet, c.Letter,
				"sheet '%s' is missing required column %s", sheet, c.Letter)
		}
	}
	return nil
}

func parseDeals(sheet string, rows [][]string) ([]domain.RawDealRecord, error) {
	deals := make([]domain.RawDealRecord, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		rowNumber := i + 1
		deal := cell(row, dealNumberColumn)
		if deal == "" {
			vErr := domain.NewValidationError(domain.KindMissingColumn, sheet, dealNumberColumn.Letter,
				"sheet '%s' row %d has no deal number in column %s", sheet, rowNumber, dealNumberColumn.Letter)
			vErr.Row = rowNumber
			return nil, vErr
		}

		qtyText := cell(row, quantityColumn)
		dateText := cell(row, dateColumn)
		date, _ := parseDate(dateText)
		inco := cell(row, incoColumn)
		deals = append(deals, domain.RawDealRecord{
			Row:                 rowNumber,
			DealNumber:          deal,
			Vessel:              cell(row, vesselColumn),
			Product:             cell(row, productColumn),
			HedgeNumber:         cell(row, hedgeColumn),
			QuantityBbl:         parseNullDecimal(qtyText),
			QuantityText:        qtyText,
			Inco:                inco,
			ContractualLocation: cell(row, locationColumn),
			Risk:                cell(row, riskColumn),
			Date:                date,
			DateText:            dateText,
			IsWhbCifDeal:        domain.Normalize(inco) == "CIF" && domain.Normalize(cell(row, whbMarkerColumn)) == "WHB",
		})
	}
	return deals, nil
}

func parseCosts(rows [][]string, dealColumn column) []domain.CostEntry {
	costs := make([]domain.CostEntry, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		costs = append(costs, domain.CostEntry{
			Row:        i + 1,
			DealNumber: cell(row, dealColumn),
			CostType:   domain.CostType(domain.Normalize(cell(row, costTypeColumn))),
			Amount:     parseNullDecimal(cell(row, costAmountColumn)),
		})
	}
	return costs
}

func parseHedges(rows [][]string) []domain.HedgeRecord {
	hedges := make([]domain.HedgeRecord, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		hedges = append(hedges, domain.HedgeRecord{
			Row:            i + 1,
			HedgeNumber:    cell(row, hedgeNumberColumn),
			VSAComment:     cell(row, vsaCommentColumn),
			AdditionalInfo: cell(row, additionalInfoColumn),
		})
	}
	return hedges
}

// LoadFormattedRows reads the deal rows of a previously rendered output sheet.
// Month label rows and blank rows are skipped.
func (r *ExcelSheetRepository) LoadFormattedRows(ctx context.Context, file []byte, sheetName string) ([]domain.FormattedRow, error) {
	f, err := openWorkbook(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := sheetName
	if idx, _ := f.GetSheetIndex(sheet); sheet == "" || idx < 0 {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, domain.NewValidationError(domain.KindMissingSheet, sheetName, "", "workbook has no sheets")
		}
		sheet = list[0]
	}

	rows, err := sheetRows(f, sheet)
	if err != nil {
		return nil, err
	}

	var out []domain.FormattedRow
	for i := 1; i < len(rows); i++ {
		deal := cell(rows[i], dealNumberColumn)
		if deal == "" {
			continue
		}
		var fr domain.FormattedRow
		fr.Deal = deal
		for col := 0; col < domain.OutputColumnCount; col++ {
			fr.Values[col] = cell(rows[i], column{Index: col})
		}
		out = append(out, fr)
	}
	return out, nil
}
