package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"deal-rebilling/internal/domain"
)

// ComparisonUseCase reconciles a formatted workbook against a reference
// workbook and keeps the result for later export.
type ComparisonUseCase struct {
	datasets DatasetRepository
	engine   *ReconciliationEngine
	store    ResultStore
	exporter ResultExporter
}

// NewComparisonUseCase creates a new instance of the usecase.
func NewComparisonUseCase(datasets DatasetRepository, store ResultStore, exporter ResultExporter, opts ReconciliationOptions) *ComparisonUseCase {
	return &ComparisonUseCase{
		datasets: datasets,
		engine:   NewReconciliationEngine(opts),
		store:    store,
		exporter: exporter,
	}
}

// Compare loads both datasets, reconciles them and stores the result.
// The returned result carries the token to export it with.
func (uc *ComparisonUseCase) Compare(ctx context.Context, formattedFile, comparisonFile []byte, settings domain.CompareSettings) (*domain.ReconciliationResult, error) {
	formatted, err := uc.datasets.LoadDataset(ctx, formattedFile, settings.FormattedSource())
	if err != nil {
		return nil, fmt.Errorf("could not load formatted workbook: %w", err)
	}
	comparison, err := uc.datasets.LoadDataset(ctx, comparisonFile, settings.ComparisonSource())
	if err != nil {
		return nil, fmt.Errorf("could not load comparison workbook: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := uc.engine.Reconcile(formatted, comparison)

	token, err := uc.store.Save(result)
	if err != nil {
		return nil, fmt.Errorf("could not store reconciliation result: %w", err)
	}

	log.Info().
		Str("token", token).
		Int("deals", result.Overview.TotalDeals).
		Float64("total_difference", result.Overview.TotalDifference).
		Int("anomalies", len(result.Anomalies)).
		Msg("comparison completed")

	out := *result
	out.Token = token
	return &out, nil
}

// Export renders a stored result. Repeated exports of the same token and
// format return identical bytes.
func (uc *ComparisonUseCase) Export(ctx context.Context, token string, format domain.ExportFormat) ([]byte, error) {
	if format.ContentType() == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	return uc.store.Export(token, format, func(result *domain.ReconciliationResult) ([]byte, error) {
		data, err := uc.exporter.Export(ctx, result, format)
		if err != nil {
			return nil, fmt.Errorf("could not render %s export: %w", format, err)
		}
		return data, nil
	})
}
