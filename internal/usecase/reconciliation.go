package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"deal-rebilling/internal/domain"
)

// DefaultAnomalyLimit is the number of deals kept in the anomaly list.
const DefaultAnomalyLimit = 20

// ReconciliationOptions tune anomaly detection.
type ReconciliationOptions struct {
	AnomalyLimit     int
	AnomalyThreshold decimal.Decimal
	CostAnomalySigma float64
}

func (o ReconciliationOptions) withDefaults() ReconciliationOptions {
	if o.AnomalyLimit <= 0 {
		o.AnomalyLimit = DefaultAnomalyLimit
	}
	if o.CostAnomalySigma <= 0 {
		o.CostAnomalySigma = 2
	}
	return o
}

// ReconciliationEngine joins a formatted dataset against a reference dataset.
// It never modifies its inputs.
type ReconciliationEngine struct {
	opts ReconciliationOptions
}

// NewReconciliationEngine creates an engine with the given options.
func NewReconciliationEngine(opts ReconciliationOptions) *ReconciliationEngine {
	return &ReconciliationEngine{opts: opts.withDefaults()}
}

type dealAggregate struct {
	quantity decimal.Decimal
	costs    map[string]decimal.Decimal
}

// joinedDeal keeps exact values until the result is rounded for output.
type joinedDeal struct {
	id         string
	formatted  dealAggregate
	comparison dealAggregate
	difference decimal.Decimal
	costs      []costCell // one per registry cost type, same order
	status     domain.RegistryStatus
}

type costCell struct {
	formatted  decimal.Decimal
	comparison decimal.Decimal
	difference decimal.Decimal
	status     domain.RegistryStatus // empty when neither side has the cost
}

// Reconcile runs the full comparison and returns one immutable result.
func (e *ReconciliationEngine) Reconcile(formatted, comparison *domain.Dataset) *domain.ReconciliationResult {
	// Step 1: Per-deal aggregation
	formattedDeals := aggregateDeals(formatted)
	comparisonDeals := aggregateDeals(comparison)
	registry := buildCostRegistry(formatted, comparison)

	// Step 2 & 3: Full outer join with per-cost classification
	deals := joinDeals(formattedDeals, comparisonDeals, registry)

	result := &domain.ReconciliationResult{
		Deals:             make([]domain.ReconciliationDeal, 0, len(deals)),
		Anomalies:         make([]domain.Anomaly, 0),
		CostAnomalies:     make([]domain.CostAnomaly, 0),
		CostBreakdown:     make([]domain.CostBreakdown, 0, len(registry)),
		UnregisteredCosts: make([]domain.UnregisteredCost, 0),
	}
	for i, deal := range deals {
		result.Deals = append(result.Deals, deal.toDomain(i+1, registry))
	}

	// Step 4: KPIs
	result.Overview = e.overview(deals, registry)

	// Step 5: Anomalies
	result.Anomalies = e.anomalies(deals)
	result.CostAnomalies = e.costAnomalies(deals, registry)
	result.Overview.AnomalyCount = len(result.Anomalies)

	// Step 6: Repeating patterns
	result.Patterns = detectPatterns(result.Deals)

	// Step 7: Heatmap and per cost type totals
	result.Heatmap = buildHeatmap(deals, registry)
	result.CostBreakdown, result.UnregisteredCosts = costTotals(deals, registry)

	result.SummaryReport = BuildSummaryReport(result)
	return result
}

func aggregateDeals(ds *domain.Dataset) map[string]*dealAggregate {
	out := make(map[string]*dealAggregate)
	if ds == nil {
		return out
	}
	for _, row := range ds.Rows {
		id := domain.Normalize(row.DealID)
		if id == "" {
			continue
		}
		agg, ok := out[id]
		if !ok {
			agg = &dealAggregate{costs: make(map[string]decimal.Decimal)}
			out[id] = agg
		}
		agg.quantity = agg.quantity.Add(row.Quantity)
		for key, amount := range row.Costs {
			agg.costs[key] = agg.costs[key].Add(amount)
		}
	}
	return out
}

// buildCostRegistry merges the cost columns of both sides by key, formatted
// side first, and orders them by label.
func buildCostRegistry(formatted, comparison *domain.Dataset) []domain.CostColumn {
	seen := make(map[string]bool)
	var registry []domain.CostColumn
	for _, ds := range []*domain.Dataset{formatted, comparison} {
		if ds == nil {
			continue
		}
		for _, col := range ds.CostColumns {
			if seen[col.Key] {
				continue
			}
			seen[col.Key] = true
			if col.Label == "" {
				col.Label = col.Key
			}
			registry = append(registry, col)
		}
	}
	sort.SliceStable(registry, func(i, j int) bool {
		li, lj := strings.ToLower(registry[i].Label), strings.ToLower(registry[j].Label)
		if li != lj {
			return li < lj
		}
		return registry[i].Key < registry[j].Key
	})
	return registry
}

func joinDeals(formatted, comparison map[string]*dealAggregate, registry []domain.CostColumn) []joinedDeal {
	ids := make(map[string]struct{}, len(formatted)+len(comparison))
	for id := range formatted {
		ids[id] = struct{}{}
	}
	for id := range comparison {
		ids[id] = struct{}{}
	}

	deals := make([]joinedDeal, 0, len(ids))
	for id := range ids {
		deal := joinedDeal{id: id}
		if agg, ok := formatted[id]; ok {
			deal.formatted = *agg
		}
		if agg, ok := comparison[id]; ok {
			deal.comparison = *agg
		}
		deal.difference = deal.formatted.quantity.Sub(deal.comparison.quantity)
		deal.costs, deal.status = classifyCosts(deal.formatted.costs, deal.comparison.costs, registry)
		deals = append(deals, deal)
	}

	sort.Slice(deals, func(i, j int) bool {
		ai, aj := deals[i].difference.Abs(), deals[j].difference.Abs()
		if c := ai.Cmp(aj); c != 0 {
			return c > 0
		}
		return deals[i].id < deals[j].id
	})
	return deals
}

// classifyCosts compares every registry cost type of one deal.
// Reference-only amounts are Unregistered, equal amounts on both sides
// Registered, any other discrepancy Partial.
func classifyCosts(formatted, comparison map[string]decimal.Decimal, registry []domain.CostColumn) ([]costCell, domain.RegistryStatus) {
	cells := make([]costCell, len(registry))
	status := domain.StatusRegistered
	for i, col := range registry {
		f, c := formatted[col.Key], comparison[col.Key]
		cell := costCell{formatted: f, comparison: c, difference: f.Sub(c)}
		hasF, hasC := !f.IsZero(), !c.IsZero()
		switch {
		case !hasF && !hasC:
		case !hasF && hasC:
			cell.status = domain.StatusUnregistered
			status = domain.StatusUnregistered
		case f.Equal(c):
			cell.status = domain.StatusRegistered
		default:
			cell.status = domain.StatusPartial
			if status != domain.StatusUnregistered {
				status = domain.StatusPartial
			}
		}
		cells[i] = cell
	}
	return cells, status
}

func (d joinedDeal) toDomain(rank int, registry []domain.CostColumn) domain.ReconciliationDeal {
	out := domain.ReconciliationDeal{
		DealID:             d.id,
		FormattedQuantity:  round2(d.formatted.quantity),
		ComparisonQuantity: round2(d.comparison.quantity),
		Difference:         round2(d.difference),
		PercentageVariance: percentOf(d.difference, d.comparison.quantity),
		Rank:               rank,
		Status:             d.status,
		Costs:              make([]domain.CostComparison, 0),
		UnregisteredCosts:  make([]string, 0),
		PartialCosts:       make([]string, 0),
	}
	for i, cell := range d.costs {
		if cell.status == "" {
			continue
		}
		label := registry[i].Label
		out.Costs = append(out.Costs, domain.CostComparison{
			CostType:   label,
			Formatted:  round2(cell.formatted),
			Comparison: round2(cell.comparison),
			Difference: round2(cell.difference),
			Percentage: percentOf(cell.difference, cell.comparison),
			Status:     cell.status,
		})
		switch cell.status {
		case domain.StatusUnregistered:
			out.UnregisteredCosts = append(out.UnregisteredCosts, label)
		case domain.StatusPartial:
			out.PartialCosts = append(out.PartialCosts, label)
		}
	}
	return out
}

func (e *ReconciliationEngine) overview(deals []joinedDeal, registry []domain.CostColumn) domain.Overview {
	total := decimal.Zero
	varianceSum := decimal.Zero
	varianceCount := 0
	counts := map[string]int{"higher": 0, "lower": 0, "aligned": 0}
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)

	for _, deal := range deals {
		switch deal.difference.Sign() {
		case 1:
			total = total.Add(deal.difference)
			counts["higher"]++
		case -1:
			counts["lower"]++
		default:
			counts["aligned"]++
		}
		if !deal.comparison.quantity.IsZero() {
			denominator := decimal.Max(deal.comparison.quantity, one)
			varianceSum = varianceSum.Add(deal.difference.Div(denominator).Mul(hundred))
			varianceCount++
		}
	}

	average := decimal.Zero
	if varianceCount > 0 {
		average = varianceSum.Div(decimal.NewFromInt(int64(varianceCount)))
	}

	unregistered := 0
	for i := range registry {
		for _, deal := range deals {
			if deal.costs[i].status == domain.StatusUnregistered {
				unregistered++
				break
			}
		}
	}

	return domain.Overview{
		TotalDeals:                len(deals),
		TotalDifference:           round2(total),
		AverageVariance:           round2(average),
		UnregisteredCostTypeCount: unregistered,
		DealStatusCounts:          counts,
	}
}

// anomalies keeps the largest positive differences above the threshold.
func (e *ReconciliationEngine) anomalies(deals []joinedDeal) []domain.Anomaly {
	candidates := make([]joinedDeal, 0)
	for _, deal := range deals {
		if deal.difference.IsPositive() && deal.difference.GreaterThan(e.opts.AnomalyThreshold) {
			candidates = append(candidates, deal)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].difference.GreaterThan(candidates[j].difference)
	})
	if len(candidates) > e.opts.AnomalyLimit {
		candidates = candidates[:e.opts.AnomalyLimit]
	}

	out := make([]domain.Anomaly, 0, len(candidates))
	for _, deal := range candidates {
		out = append(out, domain.Anomaly{
			DealID:             deal.id,
			Difference:         round2(deal.difference),
			FormattedQuantity:  round2(deal.formatted.quantity),
			ComparisonQuantity: round2(deal.comparison.quantity),
		})
	}
	return out
}

// costAnomalies flags per cost type differences above mean + sigma·σ.
func (e *ReconciliationEngine) costAnomalies(deals []joinedDeal, registry []domain.CostColumn) []domain.CostAnomaly {
	out := make([]domain.CostAnomaly, 0)
	if len(deals) < 2 {
		return out
	}
	for i, col := range registry {
		diffs := make([]float64, len(deals))
		var sum float64
		for j, deal := range deals {
			diffs[j] = deal.costs[i].difference.InexactFloat64()
			sum += diffs[j]
		}
		mean := sum / float64(len(diffs))
		var sq float64
		for _, d := range diffs {
			sq += (d - mean) * (d - mean)
		}
		std := math.Sqrt(sq / float64(len(diffs)))
		if std <= 0 {
			continue
		}
		threshold := mean + e.opts.CostAnomalySigma*std
		for j, deal := range deals {
			if diffs[j] > threshold {
				out = append(out, domain.CostAnomaly{
					DealID:     deal.id,
					CostType:   col.Label,
					Difference: round2(deal.costs[i].difference),
				})
			}
		}
	}
	return out
}

// detectPatterns groups deals sharing the same set of unregistered cost types.
func detectPatterns(deals []domain.ReconciliationDeal) domain.Patterns {
	patterns := domain.Patterns{
		StatusCounts: map[domain.RegistryStatus]int{
			domain.StatusRegistered:   0,
			domain.StatusPartial:      0,
			domain.StatusUnregistered: 0,
		},
		RepeatingPatterns: make([]domain.RepeatingPattern, 0),
	}

	var order []string
	groups := make(map[string]*domain.RepeatingPattern)
	for _, deal := range deals {
		patterns.StatusCounts[deal.Status]++
		if len(deal.UnregisteredCosts) == 0 {
			continue
		}
		costTypes := append([]string(nil), deal.UnregisteredCosts...)
		sort.Strings(costTypes)
		key := strings.Join(costTypes, "\x00")
		group, ok := groups[key]
		if !ok {
			group = &domain.RepeatingPattern{CostTypes: costTypes}
			groups[key] = group
			order = append(order, key)
		}
		group.Deals = append(group.Deals, deal.DealID)
	}

	for _, key := range order {
		if len(groups[key].Deals) >= 2 {
			patterns.RepeatingPatterns = append(patterns.RepeatingPatterns, *groups[key])
		}
	}
	return patterns
}

func buildHeatmap(deals []joinedDeal, registry []domain.CostColumn) domain.Heatmap {
	heatmap := domain.Heatmap{
		DealIDs:      make([]string, len(deals)),
		CostTypes:    make([]string, len(registry)),
		Matrix:       make([][]float64, len(deals)),
		StatusMatrix: make([][]string, len(deals)),
	}
	for i, col := range registry {
		heatmap.CostTypes[i] = col.Label
	}
	for i, deal := range deals {
		heatmap.DealIDs[i] = deal.id
		values := make([]float64, len(registry))
		statuses := make([]string, len(registry))
		for j, cell := range deal.costs {
			values[j] = round2(cell.difference)
			statuses[j] = string(cell.status)
		}
		heatmap.Matrix[i] = values
		heatmap.StatusMatrix[i] = statuses
	}
	return heatmap
}

func costTotals(deals []joinedDeal, registry []domain.CostColumn) ([]domain.CostBreakdown, []domain.UnregisteredCost) {
	breakdown := make([]domain.CostBreakdown, 0, len(registry))
	unregistered := make([]domain.UnregisteredCost, 0)

	for i, col := range registry {
		formatted, comparison, impact := decimal.Zero, decimal.Zero, decimal.Zero
		entry := domain.CostBreakdown{CostType: col.Label}
		var missingDeals []string
		for _, deal := range deals {
			cell := deal.costs[i]
			formatted = formatted.Add(cell.formatted)
			comparison = comparison.Add(cell.comparison)
			switch cell.status {
			case domain.StatusUnregistered:
				entry.UnregisteredDeals++
				impact = impact.Add(cell.comparison)
				missingDeals = append(missingDeals, deal.id)
			case domain.StatusPartial:
				entry.PartialDeals++
			}
		}
		difference := formatted.Sub(comparison)
		entry.FormattedTotal = round2(formatted)
		entry.ComparisonTotal = round2(comparison)
		entry.Difference = round2(difference)
		switch {
		case formatted.IsZero() && !comparison.IsZero():
			entry.Status = domain.StatusUnregistered
		case difference.IsZero():
			entry.Status = domain.StatusRegistered
		default:
			entry.Status = domain.StatusPartial
		}
		breakdown = append(breakdown, entry)

		if len(missingDeals) > 0 {
			sort.Strings(missingDeals)
			unregistered = append(unregistered, domain.UnregisteredCost{
				CostType:  col.Label,
				Impact:    round2(impact),
				DealCount: len(missingDeals),
				Deals:     missingDeals,
			})
		}
	}

	sort.SliceStable(unregistered, func(i, j int) bool {
		return unregistered[i].Impact > unregistered[j].Impact
	})
	return breakdown, unregistered
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// percentOf returns part/whole·100 rounded to two places, nil when whole is zero.
func percentOf(part, whole decimal.Decimal) *float64 {
	if whole.IsZero() {
		return nil
	}
	v := round2(part.Div(whole).Mul(decimal.NewFromInt(100)))
	return &v
}
