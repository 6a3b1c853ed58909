package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column is a zero-based position in the A-V output layout.
type Column int

const (
	ColumnA Column = iota // Varo deal
	ColumnB               // VSA deal
	ColumnC               // Vessel
	ColumnD               // VMAG %
	ColumnE               // L/C costs
	ColumnF               // Load inspection
	ColumnG               // Discharge inspection
	ColumnH               // Superintendent
	ColumnI               // CIN insurance
	ColumnJ               // CLI insurance
	ColumnK               // Provisional charge
	ColumnL               // TOTAL USD
	ColumnM               // Varo comments
	ColumnN               // Product
	ColumnO               // Hedge
	ColumnP               // Qty BBL
	ColumnQ               // Inco
	ColumnR               // Contractual location
	ColumnS               // Risk
	ColumnT               // Date
	ColumnU               // VSA comments
	ColumnV               // Additional information

	OutputColumnCount = int(ColumnV) + 1
)

// CostColumnCount is the width of the E-K cost block.
const CostColumnCount = int(ColumnK-ColumnE) + 1

// OutputHeaders are the row-1 captions of the output sheet.
var OutputHeaders = [OutputColumnCount]string{
	"Varo deal", "VSA deal", "VESSEL", "VMAG %", "L/C costs",
	"Load insp", "Discharge inspection", "Superintendent", "CIN insurance",
	"CLI insurance", "Provisional charge", "TOTAL USD", "VARO comments",
	"Product", "Hedge", "Qty BBL", "Inco", "Contractual Location",
	"Risk", "Date", "VSA comments", "Additional information",
}

// Letter returns the spreadsheet letter of the column.
func (c Column) Letter() string {
	return string(rune('A' + int(c)))
}

// IsCost reports whether the column is part of the E-K block summed into L.
func (c Column) IsCost() bool {
	return c >= ColumnE && c <= ColumnK
}

// DisplayDateLayout is how column T is rendered.
const DisplayDateLayout = "02/01/2006"

// OutputRow is one A-V row derived from exactly one RawDealRecord.
type OutputRow struct {
	SourceRow int
	Position  int // order of the record in the source sheet

	VaroDeal            string
	DealNumber          string
	Vessel              string
	VMAG                string
	Costs               [CostColumnCount]decimal.NullDecimal
	Total               decimal.Decimal
	Comments            string
	Product             string
	Hedge               string
	Quantity            decimal.NullDecimal
	QuantityText        string
	Inco                string
	ContractualLocation string
	Risk                string
	Date                time.Time
	DateText            string
	VSAComments         string
	AdditionalInfo      string

	WhbCif     bool
	MonthStart bool
	MonthLabel string
}

// Cost returns the value of a cost column, zero when unset.
func (r OutputRow) Cost(col Column) decimal.Decimal {
	return r.Costs[col-ColumnE].Decimal
}

// WithCost returns a copy of the row with the cost column set.
func (r OutputRow) WithCost(col Column, value decimal.Decimal) OutputRow {
	r.Costs[col-ColumnE] = decimal.NullDecimal{Decimal: value, Valid: true}
	return r
}

// CostTotal sums columns E through K.
func (r OutputRow) CostTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Costs {
		if c.Valid {
			total = total.Add(c.Decimal)
		}
	}
	return total
}

// DisplayDate renders column T.
func (r OutputRow) DisplayDate() string {
	if r.Date.IsZero() {
		return r.DateText
	}
	return r.Date.Format(DisplayDateLayout)
}

// Cells returns the typed A-V values; nil marks an empty cell.
func (r OutputRow) Cells() [OutputColumnCount]interface{} {
	var cells [OutputColumnCount]interface{}
	str := func(col Column, v string) {
		if v != "" {
			cells[col] = v
		}
	}
	str(ColumnA, r.VaroDeal)
	str(ColumnB, r.DealNumber)
	str(ColumnC, r.Vessel)
	str(ColumnD, r.VMAG)
	for i, c := range r.Costs {
		if c.Valid {
			cells[int(ColumnE)+i] = c.Decimal.InexactFloat64()
		}
	}
	cells[ColumnL] = r.Total.InexactFloat64()
	str(ColumnM, r.Comments)
	str(ColumnN, r.Product)
	str(ColumnO, r.Hedge)
	if r.Quantity.Valid {
		cells[ColumnP] = r.Quantity.Decimal.InexactFloat64()
	} else {
		str(ColumnP, r.QuantityText)
	}
	str(ColumnQ, r.Inco)
	str(ColumnR, r.ContractualLocation)
	str(ColumnS, r.Risk)
	str(ColumnT, r.DisplayDate())
	str(ColumnU, r.VSAComments)
	str(ColumnV, r.AdditionalInfo)
	return cells
}

// Text returns the cell value as it reads in a rendered sheet.
func (r OutputRow) Text(col Column) string {
	switch {
	case col.IsCost():
		c := r.Costs[col-ColumnE]
		if !c.Valid {
			return ""
		}
		return c.Decimal.String()
	case col == ColumnL:
		return r.Total.String()
	case col == ColumnP:
		if r.Quantity.Valid {
			return r.Quantity.Decimal.String()
		}
		return r.QuantityText
	case col == ColumnT:
		return r.DisplayDate()
	}
	if v, ok := r.Cells()[col].(string); ok {
		return v
	}
	return ""
}

// MonthLabel formats the group caption of a month, e.g. JAN-24.
func MonthLabel(t time.Time) string {
	return strings.ToUpper(t.Format("Jan")) + "-" + t.Format("06")
}

// EnrichmentSummary holds the diagnostics of one enrichment run.
type EnrichmentSummary struct {
	TotalRows          int             `json:"total_rows"`
	CountableRows      int             `json:"countable_rows"`
	TotalQuantityBbl   decimal.Decimal `json:"total_quantity_bbl"`
	MidlandsRows       int             `json:"midlands_rows"`
	WhbCifRows         int             `json:"whb_cif_rows"`
	CostEntries        int             `json:"cost_entries"`
	SkippedCostEntries int             `json:"skipped_cost_entries"`
	HedgeRecords       int             `json:"hedge_records"`
	Months             int             `json:"months"`
}

// FormattedRow is one deal row read back from a previously formatted workbook.
type FormattedRow struct {
	Deal   string
	Values [OutputColumnCount]string
}

// OutputDiff describes how a freshly built sheet differs from an existing one.
// Row keys index OutputSheet.Rows.
type OutputDiff struct {
	ChangedCells map[int][]Column
	NewRows      []int
	MissingDeals []FormattedRow
}

// Empty reports whether there is nothing to highlight.
func (d *OutputDiff) Empty() bool {
	return d == nil || (len(d.ChangedCells) == 0 && len(d.NewRows) == 0 && len(d.MissingDeals) == 0)
}

// OutputSheet is the assembled sheet handed to the workbook renderer.
type OutputSheet struct {
	Name    string
	Rows    []OutputRow
	Summary EnrichmentSummary
	Diff    *OutputDiff
}
