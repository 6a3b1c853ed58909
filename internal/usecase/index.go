package usecase

import (
	"github.com/shopspring/decimal"

	"deal-rebilling/internal/domain"
)

type costKey struct {
	deal     string
	costType domain.CostType
}

// CostIndex maps (deal, cost type) to the summed amount of its cost entries.
// It is built once per request and only read afterwards.
type CostIndex struct {
	totals  map[costKey]decimal.Decimal
	entries int
	skipped int
}

// BuildCostIndex sums the cost entries in a single pass. Entries with an
// unparseable amount count as zero and are reported by Skipped.
func BuildCostIndex(entries []domain.CostEntry) *CostIndex {
	idx := &CostIndex{totals: make(map[costKey]decimal.Decimal, len(entries))}
	for _, entry := range entries {
		key := costKey{deal: domain.Normalize(entry.DealNumber), costType: domain.CostType(domain.Normalize(string(entry.CostType)))}
		if key.deal == "" || key.costType == "" {
			continue
		}
		idx.entries++
		amount := decimal.Zero
		if entry.Amount.Valid {
			amount = entry.Amount.Decimal
		} else {
			idx.skipped++
		}
		idx.totals[key] = idx.totals[key].Add(amount)
	}
	return idx
}

// Lookup returns the total for the deal and cost type, zero when absent.
func (c *CostIndex) Lookup(deal string, costType domain.CostType) decimal.Decimal {
	return c.totals[costKey{deal: domain.Normalize(deal), costType: costType}]
}

// Has reports whether any entry exists for the deal and cost type.
func (c *CostIndex) Has(deal string, costType domain.CostType) bool {
	_, ok := c.totals[costKey{deal: domain.Normalize(deal), costType: costType}]
	return ok
}

// Entries is the number of indexed cost entries.
func (c *CostIndex) Entries() int { return c.entries }

// Skipped is the number of entries whose amount could not be parsed.
func (c *CostIndex) Skipped() int { return c.skipped }

// HedgeIndex maps a hedge number to its record; the last occurrence wins.
type HedgeIndex struct {
	records map[string]domain.HedgeRecord
}

// BuildHedgeIndex indexes hedge records by normalized hedge number.
func BuildHedgeIndex(records []domain.HedgeRecord) *HedgeIndex {
	idx := &HedgeIndex{records: make(map[string]domain.HedgeRecord, len(records))}
	for _, rec := range records {
		key := domain.Normalize(rec.HedgeNumber)
		if key == "" {
			continue
		}
		idx.records[key] = rec
	}
	return idx
}

// Lookup returns the record of a hedge.
func (h *HedgeIndex) Lookup(hedge string) (domain.HedgeRecord, bool) {
	rec, ok := h.records[domain.Normalize(hedge)]
	return rec, ok
}

// Len is the number of distinct hedges.
func (h *HedgeIndex) Len() int { return len(h.records) }

// Indexes bundles the lookups the rule engine reads from.
type Indexes struct {
	Costs  *CostIndex
	Hedges *HedgeIndex
}

// BuildIndexes builds both lookup indexes for one workbook.
func BuildIndexes(sheets *domain.DealSheets) Indexes {
	return Indexes{
		Costs:  BuildCostIndex(sheets.Costs),
		Hedges: BuildHedgeIndex(sheets.Hedges),
	}
}
