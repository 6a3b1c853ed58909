package domain

// DefaultOutputSheetName is used when a request does not name the output sheet.
const DefaultOutputSheetName = "Q1-Q2-Q3-Q4-2024"

// DefaultDealColumn is the deal number column of the costs sheet.
const DefaultDealColumn = "N"

// ProcessSettings are the options of an enrichment request.
// Empty raw sheet names fall back to the first, second and third sheet.
type ProcessSettings struct {
	OutputSheetName string `json:"output_sheet_name"`
	RawSheet1Name   string `json:"raw_sheet1_name,omitempty"`
	RawSheet2Name   string `json:"raw_sheet2_name,omitempty"`
	RawSheet3Name   string `json:"raw_sheet3_name,omitempty"`
	DealColumn      string `json:"deal_column_name,omitempty"`
}

// WithDefaults fills unset options.
func (s ProcessSettings) WithDefaults() ProcessSettings {
	if s.OutputSheetName == "" {
		s.OutputSheetName = DefaultOutputSheetName
	}
	if s.DealColumn == "" {
		s.DealColumn = DefaultDealColumn
	}
	s.DealColumn = Normalize(s.DealColumn)
	return s
}

// DatasetSource describes where one side of a reconciliation is read from.
// Empty column letters mean "detect from the headers".
type DatasetSource struct {
	Name           string
	Sheet          string
	DealColumn     string
	QuantityColumn string
	// FallbackQuantityColumn is tried after header hints fail.
	FallbackQuantityColumn string
}

// CompareSettings are the options of a reconciliation request.
type CompareSettings struct {
	FormattedSheet           string `json:"formatted_sheet,omitempty"`
	ComparisonSheet          string `json:"comparison_sheet,omitempty"`
	FormattedDealColumn      string `json:"formatted_deal_column,omitempty"`
	ComparisonDealColumn     string `json:"comparison_deal_column,omitempty"`
	FormattedQuantityColumn  string `json:"formatted_quantity_column,omitempty"`
	ComparisonQuantityColumn string `json:"comparison_quantity_column,omitempty"`
}

// FormattedSource returns the dataset source of the formatted workbook.
// Deals default to column B (VSA deal) and quantities to column L (TOTAL USD).
func (s CompareSettings) FormattedSource() DatasetSource {
	deal := Normalize(s.FormattedDealColumn)
	if deal == "" {
		deal = ColumnB.Letter()
	}
	qty := Normalize(s.FormattedQuantityColumn)
	if qty == "" {
		qty = ColumnL.Letter()
	}
	return DatasetSource{
		Name:           "formatted",
		Sheet:          s.FormattedSheet,
		DealColumn:     deal,
		QuantityColumn: qty,
	}
}

// ComparisonSource returns the dataset source of the reference extract.
func (s CompareSettings) ComparisonSource() DatasetSource {
	fallback := Normalize(s.FormattedQuantityColumn)
	if fallback == "" {
		fallback = ColumnL.Letter()
	}
	return DatasetSource{
		Name:                   "comparison",
		Sheet:                  s.ComparisonSheet,
		DealColumn:             Normalize(s.ComparisonDealColumn),
		QuantityColumn:         Normalize(s.ComparisonQuantityColumn),
		FallbackQuantityColumn: fallback,
	}
}
