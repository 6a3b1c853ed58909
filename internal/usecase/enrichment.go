package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"deal-rebilling/internal/domain"
)

// EnrichmentOutput is the rendered workbook together with the sheet it was built from.
type EnrichmentOutput struct {
	Workbook []byte
	Sheet    *domain.OutputSheet
}

// EnrichmentUseCase runs ingest → index → rules → assemble → render for one workbook.
type EnrichmentUseCase struct {
	sheets    SheetRepository
	renderer  WorkbookRenderer
	engine    *RuleEngine
	assembler *OutputAssembler
}

// NewEnrichmentUseCase creates a new instance of the usecase.
func NewEnrichmentUseCase(sheets SheetRepository, renderer WorkbookRenderer) *EnrichmentUseCase {
	return &EnrichmentUseCase{
		sheets:    sheets,
		renderer:  renderer,
		engine:    NewRuleEngine(),
		assembler: NewOutputAssembler(),
	}
}

// Process enriches the raw workbook. When existing is not empty the output
// is compared against that previously formatted workbook.
func (uc *EnrichmentUseCase) Process(ctx context.Context, file, existing []byte, settings domain.ProcessSettings) (*EnrichmentOutput, error) {
	settings = settings.WithDefaults()

	// Step 1: Ingestion
	dealSheets, err := uc.sheets.LoadDealSheets(ctx, file, settings)
	if err != nil {
		return nil, fmt.Errorf("could not load deal sheets: %w", err)
	}

	// Step 2: Lookup indexes
	idx := BuildIndexes(dealSheets)

	// Step 3: Rules and assembly
	sheet := uc.BuildSheet(dealSheets, idx, settings.OutputSheetName)

	// Step 4: Optional comparison with an earlier output
	if len(existing) > 0 {
		previous, err := uc.sheets.LoadFormattedRows(ctx, existing, settings.OutputSheetName)
		if err != nil {
			// An unreadable earlier workbook only disables highlighting.
			log.Warn().Err(err).Msg("skipping difference highlighting")
		} else {
			sheet.Diff = DiffAgainstExisting(sheet.Rows, previous)
		}
	}

	workbook, err := uc.renderer.RenderWorkbook(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("could not render output workbook: %w", err)
	}

	log.Info().
		Str("sheet", sheet.Name).
		Int("rows", sheet.Summary.TotalRows).
		Int("months", sheet.Summary.Months).
		Int("skipped_cost_entries", sheet.Summary.SkippedCostEntries).
		Msg("enrichment completed")

	return &EnrichmentOutput{Workbook: workbook, Sheet: sheet}, nil
}

// BuildSheet applies the rules to every deal record and arranges the result.
func (uc *EnrichmentUseCase) BuildSheet(dealSheets *domain.DealSheets, idx Indexes, name string) *domain.OutputSheet {
	rows := uc.engine.Enrich(uc.assembler.BuildRows(dealSheets.Deals), idx)
	rows = uc.assembler.Arrange(rows)

	summary := domain.EnrichmentSummary{
		TotalRows:          len(rows),
		TotalQuantityBbl:   decimal.Zero,
		CostEntries:        idx.Costs.Entries(),
		SkippedCostEntries: idx.Costs.Skipped(),
		HedgeRecords:       idx.Hedges.Len(),
		Months:             CountMonths(rows),
	}
	for _, rec := range dealSheets.Deals {
		if rec.Countable() {
			summary.CountableRows++
			summary.TotalQuantityBbl = summary.TotalQuantityBbl.Add(rec.QuantityBbl.Decimal)
		}
		if domain.Normalize(rec.Product) == "MIDLANDS" {
			summary.MidlandsRows++
		}
		if rec.IsWhbCifDeal {
			summary.WhbCifRows++
		}
	}

	return &domain.OutputSheet{Name: name, Rows: rows, Summary: summary}
}

// DiffAgainstExisting matches rows by normalized VSA deal. Changed cells of
// known deals, rows of new deals, and deals no longer present are reported.
func DiffAgainstExisting(rows []domain.OutputRow, existing []domain.FormattedRow) *domain.OutputDiff {
	byDeal := make(map[string]domain.FormattedRow, len(existing))
	for _, prev := range existing {
		byDeal[domain.Normalize(prev.Deal)] = prev
	}

	diff := &domain.OutputDiff{ChangedCells: make(map[int][]domain.Column)}
	seen := make(map[string]bool)
	for i, row := range rows {
		key := domain.Normalize(row.DealNumber)
		if key == "" {
			continue
		}
		prev, ok := byDeal[key]
		if !ok {
			diff.NewRows = append(diff.NewRows, i)
			continue
		}
		seen[key] = true
		for col := domain.ColumnA; int(col) < domain.OutputColumnCount; col++ {
			if valuesDiffer(row.Text(col), prev.Values[col]) {
				diff.ChangedCells[i] = append(diff.ChangedCells[i], col)
			}
		}
	}

	for _, prev := range existing {
		key := domain.Normalize(prev.Deal)
		if seen[key] {
			continue
		}
		seen[key] = true
		diff.MissingDeals = append(diff.MissingDeals, byDeal[key])
	}
	sort.Slice(diff.MissingDeals, func(i, j int) bool {
		return domain.Normalize(diff.MissingDeals[i].Deal) < domain.Normalize(diff.MissingDeals[j].Deal)
	})
	return diff
}

func valuesDiffer(current, previous string) bool {
	current, previous = strings.TrimSpace(current), strings.TrimSpace(previous)
	if current == "" && previous == "" {
		return false
	}
	a, errA := strconv.ParseFloat(current, 64)
	b, errB := strconv.ParseFloat(previous, 64)
	if errA == nil && errB == nil {
		return math.Abs(a-b) > 0.0001
	}
	return current != previous
}
