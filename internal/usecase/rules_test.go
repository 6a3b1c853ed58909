package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"deal-rebilling/internal/domain"
	"deal-rebilling/internal/usecase"
)

func amount(v string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(v), Valid: true}
}

func testIndexes() usecase.Indexes {
	return usecase.BuildIndexes(&domain.DealSheets{
		Costs: []domain.CostEntry{
			{DealNumber: "D1", CostType: domain.CostTypeBLC, Amount: amount("200")},
			{DealNumber: "D1", CostType: domain.CostTypeCIN, Amount: amount("100")},
			{DealNumber: "D1", CostType: domain.CostTypeCLI, Amount: amount("50")},
			{DealNumber: "D2", CostType: domain.CostTypeBLC, Amount: amount("500")},
			{DealNumber: "D3", CostType: domain.CostTypeBLC, Amount: amount("75.5")},
			{DealNumber: "D3", CostType: domain.CostTypeCIN, Amount: amount("10")},
			{DealNumber: "D3", CostType: domain.CostTypeCLI, Amount: amount("5")},
		},
		Hedges: []domain.HedgeRecord{
			{HedgeNumber: "H1", VSAComment: "checked", AdditionalInfo: "ok"},
		},
	})
}

func TestRuleEngine_Apply(t *testing.T) {
	tests := []struct {
		name      string
		row       domain.OutputRow
		wantCosts map[domain.Column]string
		wantTotal string
		wantLocks []domain.Column
		wantU     string
		wantV     string
	}{
		{
			name: "regular deal picks up every cost and hedge comment",
			row:  domain.OutputRow{DealNumber: "D1", Product: "BRENT", Hedge: "H1"},
			wantCosts: map[domain.Column]string{
				domain.ColumnE: "200",
				domain.ColumnI: "100",
				domain.ColumnJ: "50",
			},
			wantTotal: "350",
			wantU:     "checked",
			wantV:     "ok",
		},
		{
			name: "midlands product zeroes and locks E through K",
			row:  domain.OutputRow{DealNumber: "D2", Product: " midlands "},
			wantCosts: map[domain.Column]string{
				domain.ColumnE: "0",
				domain.ColumnF: "0",
				domain.ColumnK: "0",
			},
			wantTotal: "0",
			wantLocks: []domain.Column{domain.ColumnE, domain.ColumnF, domain.ColumnG, domain.ColumnH, domain.ColumnI, domain.ColumnJ, domain.ColumnK},
		},
		{
			name: "whb cif deal keeps L/C costs but zeroes insurance",
			row:  domain.OutputRow{DealNumber: "D1", Product: "WTI", WhbCif: true},
			wantCosts: map[domain.Column]string{
				domain.ColumnE: "200",
				domain.ColumnI: "0",
				domain.ColumnJ: "0",
			},
			wantTotal: "200",
			wantLocks: []domain.Column{domain.ColumnI, domain.ColumnJ},
		},
		{
			name:      "deal without costs or hedge",
			row:       domain.OutputRow{DealNumber: "D9", Product: "WTI", Hedge: "H404"},
			wantCosts: map[domain.Column]string{domain.ColumnE: "0", domain.ColumnI: "0", domain.ColumnJ: "0"},
			wantTotal: "0",
		},
		{
			name:      "fractional costs sum exactly",
			row:       domain.OutputRow{DealNumber: "d3", Product: "WTI"},
			wantCosts: map[domain.Column]string{domain.ColumnE: "75.5", domain.ColumnI: "10", domain.ColumnJ: "5"},
			wantTotal: "90.5",
		},
	}

	engine := usecase.NewRuleEngine()
	idx := testIndexes()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := engine.Apply(tt.row, idx)

			for col, want := range tt.wantCosts {
				assert.Equal(t, want, state.Row.Cost(col).String(), "column %s", col.Letter())
			}
			assert.Equal(t, tt.wantTotal, state.Row.Total.String())
			assert.True(t, state.Row.Total.Equal(state.Row.CostTotal()))
			for _, col := range tt.wantLocks {
				assert.True(t, state.Locks.Locked(col), "column %s should be locked", col.Letter())
			}
			assert.Equal(t, tt.wantU, state.Row.VSAComments)
			assert.Equal(t, tt.wantV, state.Row.AdditionalInfo)
		})
	}
}

func TestRuleEngine_EnrichIsIdempotent(t *testing.T) {
	engine := usecase.NewRuleEngine()
	idx := testIndexes()
	rows := []domain.OutputRow{
		{DealNumber: "D1", Product: "BRENT", Hedge: "H1"},
		{DealNumber: "D2", Product: "MIDLANDS"},
		{DealNumber: "D1", Product: "WTI", WhbCif: true},
		{DealNumber: "D9"},
	}

	once := engine.Enrich(rows, idx)
	twice := engine.Enrich(once, idx)

	assert.Len(t, twice, len(once))
	for i := range once {
		for col := domain.ColumnA; int(col) < domain.OutputColumnCount; col++ {
			assert.Equal(t, once[i].Text(col), twice[i].Text(col), "row %d column %s", i, col.Letter())
		}
	}
	// Input rows are left untouched.
	assert.False(t, rows[0].Costs[0].Valid)
}

func TestLockingRules_ReapplyKeepsLocks(t *testing.T) {
	tests := []struct {
		name   string
		rule   usecase.Rule
		row    domain.OutputRow
		locked []domain.Column
	}{
		{
			name:   "midlands",
			rule:   usecase.MidlandsRule{},
			row:    domain.OutputRow{DealNumber: "D2", Product: "MIDLANDS"},
			locked: []domain.Column{domain.ColumnE, domain.ColumnF, domain.ColumnG, domain.ColumnH, domain.ColumnI, domain.ColumnJ, domain.ColumnK},
		},
		{
			name:   "whb cif",
			rule:   usecase.WhbCifRule{},
			row:    domain.OutputRow{DealNumber: "D1", WhbCif: true},
			locked: []domain.Column{domain.ColumnI, domain.ColumnJ},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := tt.rule.Apply(usecase.RowState{Row: tt.row}, usecase.Indexes{})
			twice := tt.rule.Apply(once, usecase.Indexes{})

			assert.Equal(t, once.Locks, twice.Locks)
			assert.Equal(t, once.Row, twice.Row)
			for _, col := range tt.locked {
				assert.True(t, twice.Locks.Locked(col), "column %s should be locked", col.Letter())
				assert.Equal(t, "0", twice.Row.Text(col))
			}
			assert.False(t, twice.Locks.Locked(domain.ColumnL))
		})
	}
}

func TestDefaultRules_Order(t *testing.T) {
	var names []string
	for _, rule := range usecase.NewRuleEngine().Rules() {
		names = append(names, rule.Name())
	}

	assert.Equal(t, []string{
		"midlands-zero",
		"whb-cif-insurance",
		"cost-BLC",
		"cost-CIN",
		"cost-CLI",
		"total-usd",
		"hedge-vsa-comment",
		"hedge-additional-info",
	}, names)
}

func TestCellLocks(t *testing.T) {
	var locks usecase.CellLocks
	assert.False(t, locks.Locked(domain.ColumnE))

	locks = locks.Lock(domain.ColumnE).Lock(domain.ColumnV)
	assert.True(t, locks.Locked(domain.ColumnE))
	assert.True(t, locks.Locked(domain.ColumnV))
	assert.False(t, locks.Locked(domain.ColumnF))
}
