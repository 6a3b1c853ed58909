package usecase

import (
	"github.com/shopspring/decimal"

	"deal-rebilling/internal/domain"
)

// CellLocks is a per-cell lock set over the A-V columns of one row.
type CellLocks uint32

// Lock returns the set with col added.
func (l CellLocks) Lock(col domain.Column) CellLocks {
	return l | 1<<uint(col)
}

// Locked reports whether col is in the set.
func (l CellLocks) Locked(col domain.Column) bool {
	return l&(1<<uint(col)) != 0
}

// RowState is the value threaded through the rule fold.
type RowState struct {
	Row   domain.OutputRow
	Locks CellLocks
}

// assign sets a cost cell unless it is locked.
func (s RowState) assign(col domain.Column, value decimal.Decimal) RowState {
	if s.Locks.Locked(col) {
		return s
	}
	s.Row = s.Row.WithCost(col, value)
	return s
}

// zeroAndLock forces a cost cell to 0 and locks it. Cells already locked are left alone.
func (s RowState) zeroAndLock(col domain.Column) RowState {
	if s.Locks.Locked(col) {
		return s
	}
	s.Row = s.Row.WithCost(col, decimal.Zero)
	s.Locks = s.Locks.Lock(col)
	return s
}

// Rule is one business rule of the enrichment step.
type Rule interface {
	Name() string
	Apply(state RowState, idx Indexes) RowState
}

// MidlandsRule zeroes and locks E-K for MIDLANDS product rows.
type MidlandsRule struct{}

func (MidlandsRule) Name() string { return "midlands-zero" }

func (MidlandsRule) Apply(state RowState, _ Indexes) RowState {
	if domain.Normalize(state.Row.Product) != "MIDLANDS" {
		return state
	}
	for col := domain.ColumnE; col <= domain.ColumnK; col++ {
		state = state.zeroAndLock(col)
	}
	return state
}

// WhbCifRule zeroes and locks the insurance columns of WHB+CIF deals.
type WhbCifRule struct{}

func (WhbCifRule) Name() string { return "whb-cif-insurance" }

func (WhbCifRule) Apply(state RowState, _ Indexes) RowState {
	if !state.Row.WhbCif {
		return state
	}
	state = state.zeroAndLock(domain.ColumnI)
	return state.zeroAndLock(domain.ColumnJ)
}

// CostLookupRule copies a cost index total into an unlocked column.
type CostLookupRule struct {
	Column   domain.Column
	CostType domain.CostType
}

func (r CostLookupRule) Name() string { return "cost-" + string(r.CostType) }

func (r CostLookupRule) Apply(state RowState, idx Indexes) RowState {
	return state.assign(r.Column, idx.Costs.Lookup(state.Row.DealNumber, r.CostType))
}

// TotalRule recomputes column L as the sum of E-K.
type TotalRule struct{}

func (TotalRule) Name() string { return "total-usd" }

func (TotalRule) Apply(state RowState, _ Indexes) RowState {
	if state.Locks.Locked(domain.ColumnL) {
		return state
	}
	state.Row.Total = state.Row.CostTotal()
	return state
}

// HedgeField selects which hedge record field a HedgeLookupRule copies.
type HedgeField int

const (
	HedgeVSAComment HedgeField = iota
	HedgeAdditionalInfo
)

// HedgeLookupRule copies a hedge comment into column U or V.
type HedgeLookupRule struct {
	Column domain.Column
	Field  HedgeField
}

func (r HedgeLookupRule) Name() string {
	if r.Field == HedgeAdditionalInfo {
		return "hedge-additional-info"
	}
	return "hedge-vsa-comment"
}

func (r HedgeLookupRule) Apply(state RowState, idx Indexes) RowState {
	if state.Locks.Locked(r.Column) {
		return state
	}
	value := ""
	if rec, ok := idx.Hedges.Lookup(state.Row.Hedge); ok {
		if r.Field == HedgeAdditionalInfo {
			value = rec.AdditionalInfo
		} else {
			value = rec.VSAComment
		}
	}
	switch r.Column {
	case domain.ColumnU:
		state.Row.VSAComments = value
	case domain.ColumnV:
		state.Row.AdditionalInfo = value
	}
	return state
}

// DefaultRules returns the eight enrichment rules in evaluation order.
// Product level overrides run before the cost lookups so their locks hold.
func DefaultRules() []Rule {
	return []Rule{
		MidlandsRule{},
		WhbCifRule{},
		CostLookupRule{Column: domain.ColumnE, CostType: domain.CostTypeBLC},
		CostLookupRule{Column: domain.ColumnI, CostType: domain.CostTypeCIN},
		CostLookupRule{Column: domain.ColumnJ, CostType: domain.CostTypeCLI},
		TotalRule{},
		HedgeLookupRule{Column: domain.ColumnU, Field: HedgeVSAComment},
		HedgeLookupRule{Column: domain.ColumnV, Field: HedgeAdditionalInfo},
	}
}

// RuleEngine folds an ordered rule list over each row.
type RuleEngine struct {
	rules []Rule
}

// NewRuleEngine creates an engine; with no rules it uses DefaultRules.
func NewRuleEngine(rules ...Rule) *RuleEngine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &RuleEngine{rules: rules}
}

// Rules returns the evaluation order.
func (e *RuleEngine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Apply runs every rule over one row and returns the final state.
func (e *RuleEngine) Apply(row domain.OutputRow, idx Indexes) RowState {
	state := RowState{Row: row}
	for _, rule := range e.rules {
		state = rule.Apply(state, idx)
	}
	return state
}

// Enrich applies the rules to every row.
func (e *RuleEngine) Enrich(rows []domain.OutputRow, idx Indexes) []domain.OutputRow {
	out := make([]domain.OutputRow, len(rows))
	for i, row := range rows {
		out[i] = e.Apply(row, idx).Row
	}
	return out
}
