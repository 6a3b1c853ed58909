package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"deal-rebilling/internal/domain"
)

type sheetSpec struct {
	name  string
	cells map[string]interface{}
}

func buildWorkbook(t *testing.T, sheets ...sheetSpec) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for ref, v := range s.cells {
			require.NoError(t, f.SetCellValue(s.name, ref, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func dealsSheet(cells map[string]interface{}) sheetSpec {
	base := map[string]interface{}{"A1": "header", "BZ1": "marker"}
	for k, v := range cells {
		base[k] = v
	}
	return sheetSpec{name: "RawData1", cells: base}
}

func costsSheet() sheetSpec {
	return sheetSpec{name: "RawData2", cells: map[string]interface{}{
		"A1": "header", "AV1": "amount",
		"N2": "D1", "AQ2": "blc", "AV2": 300,
		"N3": "D1", "AQ3": "CIN", "AV3": "(12.50)",
	}}
}

func hedgesSheet() sheetSpec {
	return sheetSpec{name: "RawData3", cells: map[string]interface{}{
		"A1": "header", "CN1": "info",
		"M2": "H1", "BR2": "checked", "CN2": "extra",
	}}
}

func TestExcelSheetRepository_LoadDealSheets(t *testing.T) {
	file := buildWorkbook(t,
		dealsSheet(map[string]interface{}{
			"B2": "D1", "L2": "H1", "M2": "BRENT", "Q2": 1000, "X2": 45306,
			"AA2": "NORDIC STAR", "AB2": "cif", "AD2": "ROTTERDAM", "AL2": "LOW", "BZ2": "whb",
			"B4": "D2", "M4": "WTI", "Q4": "1,250.5", "X4": "2024-02-03", "AB4": "FOB",
		}),
		costsSheet(),
		hedgesSheet(),
	)

	got, err := NewExcelSheetRepository().LoadDealSheets(context.Background(), file, domain.ProcessSettings{})
	require.NoError(t, err)

	assert.Equal(t, "RawData1", got.PrimarySheet)
	assert.Equal(t, map[string]bool{"RawData1": true, "RawData2": true, "RawData3": true}, got.SheetPresence)

	require.Len(t, got.Deals, 2, "blank rows are skipped")
	d1 := got.Deals[0]
	assert.Equal(t, 2, d1.Row)
	assert.Equal(t, "D1", d1.DealNumber)
	assert.Equal(t, "H1", d1.HedgeNumber)
	assert.Equal(t, "BRENT", d1.Product)
	assert.Equal(t, "1000", d1.QuantityBbl.Decimal.String())
	assert.True(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC).Equal(d1.Date))
	assert.Equal(t, "NORDIC STAR", d1.Vessel)
	assert.Equal(t, "ROTTERDAM", d1.ContractualLocation)
	assert.Equal(t, "LOW", d1.Risk)
	assert.True(t, d1.IsWhbCifDeal)

	d2 := got.Deals[1]
	assert.Equal(t, 4, d2.Row)
	assert.Equal(t, "1250.5", d2.QuantityBbl.Decimal.String())
	assert.True(t, time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC).Equal(d2.Date))
	assert.False(t, d2.IsWhbCifDeal)

	require.Len(t, got.Costs, 2)
	assert.Equal(t, domain.CostTypeBLC, got.Costs[0].CostType)
	assert.Equal(t, "300", got.Costs[0].Amount.Decimal.String())
	assert.Equal(t, domain.CostTypeCIN, got.Costs[1].CostType)
	assert.Equal(t, "-12.5", got.Costs[1].Amount.Decimal.String())

	require.Len(t, got.Hedges, 1)
	assert.Equal(t, domain.HedgeRecord{Row: 2, HedgeNumber: "H1", VSAComment: "checked", AdditionalInfo: "extra"}, got.Hedges[0])
}

func TestExcelSheetRepository_LoadDealSheets_Validation(t *testing.T) {
	validDeals := dealsSheet(map[string]interface{}{"B2": "D1", "Q2": 10})

	tests := []struct {
		name       string
		file       []byte
		settings   domain.ProcessSettings
		wantKind   domain.ErrorKind
		wantColumn string
		wantRow    int
		wantMsg    string
	}{
		{
			name:     "empty upload",
			file:     nil,
			wantKind: domain.KindInvalidFileFormat,
			wantMsg:  "file is empty",
		},
		{
			name:     "not a workbook",
			file:     []byte("deal,qty\nD1,10\n"),
			wantKind: domain.KindInvalidFileFormat,
		},
		{
			name:     "third sheet absent",
			file:     buildWorkbook(t, validDeals, costsSheet()),
			wantKind: domain.KindMissingSheet,
			wantMsg:  "Raw Sheet 3 '#3' not found",
		},
		{
			name:     "named sheet absent",
			file:     buildWorkbook(t, validDeals, costsSheet(), hedgesSheet()),
			settings: domain.ProcessSettings{RawSheet2Name: "Costs"},
			wantKind: domain.KindMissingSheet,
			wantMsg:  "Raw Sheet 2 'Costs' not found",
		},
		{
			name:     "header row only",
			file:     buildWorkbook(t, dealsSheet(nil), costsSheet(), hedgesSheet()),
			wantKind: domain.KindInsufficientRows,
			wantMsg:  "Raw Sheet 1 'RawData1' must have at least one data row",
		},
		{
			name: "deals sheet stops before BZ",
			file: buildWorkbook(t,
				sheetSpec{name: "RawData1", cells: map[string]interface{}{"A1": "header", "A2": "x", "AL2": "LOW"}},
				costsSheet(), hedgesSheet()),
			wantKind:   domain.KindMissingColumn,
			wantColumn: "BZ",
			wantMsg:    "sheet 'RawData1' is missing required column BZ",
		},
		{
			name: "hedges sheet stops before CN",
			file: buildWorkbook(t, validDeals, costsSheet(),
				sheetSpec{name: "RawData3", cells: map[string]interface{}{"M2": "H1", "BR2": "ok"}}),
			wantKind:   domain.KindMissingColumn,
			wantColumn: "CN",
			wantMsg:    "sheet 'RawData3' is missing required column CN",
		},
		{
			name:       "deal number missing on a data row",
			file:       buildWorkbook(t, dealsSheet(map[string]interface{}{"B2": "D1", "Q3": 5}), costsSheet(), hedgesSheet()),
			wantKind:   domain.KindMissingColumn,
			wantColumn: "B",
			wantRow:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExcelSheetRepository().LoadDealSheets(context.Background(), tt.file, tt.settings)
			require.Error(t, err)

			vErr, ok := domain.AsValidationError(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.Equal(t, tt.wantKind, vErr.Kind)
			if tt.wantColumn != "" {
				assert.Equal(t, tt.wantColumn, vErr.Column)
			}
			if tt.wantRow != 0 {
				assert.Equal(t, tt.wantRow, vErr.Row)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, vErr.Message)
			}
		})
	}
}

func TestExcelSheetRepository_LoadDealSheets_Cancelled(t *testing.T) {
	file := buildWorkbook(t, dealsSheet(map[string]interface{}{"B2": "D1"}), costsSheet(), hedgesSheet())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExcelSheetRepository().LoadDealSheets(ctx, file, domain.ProcessSettings{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExcelSheetRepository_CustomDealColumn(t *testing.T) {
	costs := sheetSpec{name: "RawData2", cells: map[string]interface{}{
		"A1": "header", "AV1": "amount",
		"C2": "D1", "AQ2": "BLC", "AV2": 40,
	}}
	file := buildWorkbook(t, dealsSheet(map[string]interface{}{"B2": "D1"}), costs, hedgesSheet())

	got, err := NewExcelSheetRepository().LoadDealSheets(context.Background(), file, domain.ProcessSettings{DealColumn: "c"})
	require.NoError(t, err)
	require.Len(t, got.Costs, 1)
	assert.Equal(t, "D1", got.Costs[0].DealNumber)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "12", want: "12", wantOK: true},
		{in: " $1,200.50 ", want: "1200.5", wantOK: true},
		{in: "(30)", want: "-30", wantOK: true},
		{in: "1e3", want: "1000", wantOK: true},
		{in: "", want: "0"},
		{in: "n/a", want: "0"},
	}
	for _, tt := range tests {
		got, ok := parseDecimal(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}
}

func TestParseDate(t *testing.T) {
	jan15 := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{in: "45306", want: jan15, wantOK: true},
		{in: "2024-01-15", want: jan15, wantOK: true},
		{in: "15/01/2024", want: jan15, wantOK: true},
		{in: "0"},
		{in: "soon"},
	}
	for _, tt := range tests {
		got, ok := parseDate(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.True(t, tt.want.Equal(got), "%s parsed to %v", tt.in, got)
	}
}
