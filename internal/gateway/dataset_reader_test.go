package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deal-rebilling/internal/domain"
)

func TestExcelDatasetRepository_LoadDataset(t *testing.T) {
	file := buildWorkbook(t, sheetSpec{name: "Extract", cells: map[string]interface{}{
		"A1": "Deal ID", "B1": "Total USD", "C1": "Insurance Cost", "D1": "Notes", "E1": "Freight Fee",
		"A2": "D1", "B2": 100, "C2": 10, "D2": "late", "E2": "5",
		"B3": 40,
		"A5": "D2", "B5": "1,000", "E5": 7.5,
	}})

	ds, err := NewExcelDatasetRepository().LoadDataset(context.Background(), file, domain.DatasetSource{Name: "comparison"})
	require.NoError(t, err)

	assert.Equal(t, "Extract", ds.Sheet)
	assert.Equal(t, "A", ds.DealColumn)
	assert.Equal(t, "B", ds.QuantityColumn)
	assert.Equal(t, []domain.CostColumn{
		{Key: "insurance_cost", Label: "Insurance Cost"},
		{Key: "freight_fee", Label: "Freight Fee"},
	}, ds.CostColumns)

	require.Len(t, ds.Rows, 2, "rows without a deal are dropped")
	assert.Equal(t, "D1", ds.Rows[0].DealID)
	assert.Equal(t, "100", ds.Rows[0].Quantity.String())
	assert.Equal(t, "10", ds.Rows[0].Costs["insurance_cost"].String())
	assert.Equal(t, "5", ds.Rows[0].Costs["freight_fee"].String())
	assert.Equal(t, "1000", ds.Rows[1].Quantity.String())
	assert.Equal(t, "0", ds.Rows[1].Costs["insurance_cost"].String())
	assert.Equal(t, "7.5", ds.Rows[1].Costs["freight_fee"].String())
}

func TestExcelDatasetRepository_ColumnResolution(t *testing.T) {
	tests := []struct {
		name     string
		cells    map[string]interface{}
		source   domain.DatasetSource
		wantDeal string
		wantQty  string
	}{
		{
			name:     "explicit letters",
			cells:    map[string]interface{}{"A1": "x", "B1": "y", "C1": "z", "B2": "D1", "C2": 3},
			source:   domain.DatasetSource{DealColumn: "B", QuantityColumn: "C"},
			wantDeal: "B",
			wantQty:  "C",
		},
		{
			name:     "deal header by substring",
			cells:    map[string]interface{}{"A1": "Vessel", "B1": "Our Deal Ref", "C1": "Amount", "B2": "D1", "C2": 3},
			wantDeal: "B",
			wantQty:  "C",
		},
		{
			name:     "fallback letter",
			cells:    map[string]interface{}{"A1": "VSA deal", "B1": "Volume", "C1": "Value", "A2": "D1", "B2": 1, "C2": 2},
			source:   domain.DatasetSource{FallbackQuantityColumn: "C"},
			wantDeal: "A",
			wantQty:  "C",
		},
		{
			name:     "first numeric column",
			cells:    map[string]interface{}{"A1": "Deal", "B1": "Vessel", "C1": "Volume", "A2": "D1", "B2": "STAR", "C2": 5},
			wantDeal: "A",
			wantQty:  "C",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := buildWorkbook(t, sheetSpec{name: "Sheet1", cells: tt.cells})
			tt.source.Name = "comparison"

			ds, err := NewExcelDatasetRepository().LoadDataset(context.Background(), file, tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeal, ds.DealColumn)
			assert.Equal(t, tt.wantQty, ds.QuantityColumn)
		})
	}
}

func TestExcelDatasetRepository_Validation(t *testing.T) {
	oneSheet := buildWorkbook(t, sheetSpec{name: "Sheet1", cells: map[string]interface{}{
		"A1": "Deal", "B1": "Total", "A2": "D1", "B2": 1,
	}})
	headerless := buildWorkbook(t, sheetSpec{name: "Sheet1", cells: map[string]interface{}{"A3": "D1"}})
	noDeal := buildWorkbook(t, sheetSpec{name: "Sheet1", cells: map[string]interface{}{"A1": "Vessel", "B1": "Total", "A2": "STAR"}})

	tests := []struct {
		name     string
		file     []byte
		source   domain.DatasetSource
		wantKind domain.ErrorKind
		wantMsg  string
	}{
		{
			name:     "named sheet missing",
			file:     oneSheet,
			source:   domain.DatasetSource{Name: "formatted", Sheet: "Q9"},
			wantKind: domain.KindMissingSheet,
			wantMsg:  "formatted workbook sheet 'Q9' not found",
		},
		{
			name:     "quantity letter beyond the sheet",
			file:     oneSheet,
			source:   domain.DatasetSource{Name: "formatted", DealColumn: "A", QuantityColumn: "L"},
			wantKind: domain.KindMissingColumn,
			wantMsg:  "sheet 'Sheet1' is missing required column L",
		},
		{
			name:     "no header row",
			file:     headerless,
			source:   domain.DatasetSource{Name: "comparison"},
			wantKind: domain.KindInsufficientRows,
		},
		{
			name:     "no deal column",
			file:     noDeal,
			source:   domain.DatasetSource{Name: "comparison"},
			wantKind: domain.KindMissingColumn,
		},
		{
			name:     "not a workbook",
			file:     []byte("%PDF-1.4"),
			source:   domain.DatasetSource{Name: "comparison"},
			wantKind: domain.KindInvalidFileFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExcelDatasetRepository().LoadDataset(context.Background(), tt.file, tt.source)
			vErr, ok := domain.AsValidationError(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.Equal(t, tt.wantKind, vErr.Kind)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, vErr.Message)
			}
		})
	}
}

func TestBuildHeaders(t *testing.T) {
	headers := buildHeaders([]string{"Fee", " fee ", "", "L/C costs"}, 5)

	keys := make([]string, len(headers))
	labels := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = h.key
		labels[i] = h.label
	}
	assert.Equal(t, []string{"fee", "fee_2", "column_c", "l_c_costs", "column_e"}, keys)
	assert.Equal(t, []string{"Fee", "Fee", "C", "L/C Costs", "E"}, labels)
	assert.Equal(t, 3, headers[3].col.Index)
	assert.Equal(t, "D", headers[3].col.Letter)
}
