package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"deal-rebilling/internal/domain"
	"deal-rebilling/internal/usecase"
)

func TestBuildCostIndex(t *testing.T) {
	idx := usecase.BuildCostIndex([]domain.CostEntry{
		{DealNumber: "D1", CostType: domain.CostTypeBLC, Amount: amount("100.10")},
		{DealNumber: " d1 ", CostType: "blc", Amount: amount("0.20")},
		{DealNumber: "D1", CostType: domain.CostTypeCIN, Amount: decimal.NullDecimal{}},
		{DealNumber: "", CostType: domain.CostTypeBLC, Amount: amount("999")},
		{DealNumber: "D2", CostType: "", Amount: amount("999")},
		{DealNumber: "D2", CostType: "XYZ", Amount: amount("12")},
	})

	tests := []struct {
		name     string
		deal     string
		costType domain.CostType
		want     string
		has      bool
	}{
		{name: "duplicates are summed across case and spacing", deal: "D1", costType: domain.CostTypeBLC, want: "100.3", has: true},
		{name: "unparseable amount counts as zero", deal: "D1", costType: domain.CostTypeCIN, want: "0", has: true},
		{name: "absent pair", deal: "D1", costType: domain.CostTypeCLI, want: "0", has: false},
		{name: "unknown cost types are still indexed", deal: "d2", costType: "XYZ", want: "12", has: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.Lookup(tt.deal, tt.costType).String())
			assert.Equal(t, tt.has, idx.Has(tt.deal, tt.costType))
		})
	}

	assert.Equal(t, 4, idx.Entries())
	assert.Equal(t, 1, idx.Skipped())
}

func TestBuildHedgeIndex_LastOccurrenceWins(t *testing.T) {
	idx := usecase.BuildHedgeIndex([]domain.HedgeRecord{
		{HedgeNumber: "H1", VSAComment: "first"},
		{HedgeNumber: "h2", VSAComment: "other"},
		{HedgeNumber: " h1", VSAComment: "second", AdditionalInfo: "latest"},
		{HedgeNumber: "", VSAComment: "ignored"},
	})

	rec, ok := idx.Lookup("H1")
	assert.True(t, ok)
	assert.Equal(t, "second", rec.VSAComment)
	assert.Equal(t, "latest", rec.AdditionalInfo)
	assert.Equal(t, 2, idx.Len())

	_, ok = idx.Lookup("H3")
	assert.False(t, ok)
}
