package usecase

import (
	"context"

	"deal-rebilling/internal/domain"
)

// SheetRepository reads the raw deal workbook and previously formatted output.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type SheetRepository interface {
	LoadDealSheets(ctx context.Context, file []byte, settings domain.ProcessSettings) (*domain.DealSheets, error)
	LoadFormattedRows(ctx context.Context, file []byte, sheetName string) ([]domain.FormattedRow, error)
}

// WorkbookRenderer turns an assembled sheet into workbook bytes.
type WorkbookRenderer interface {
	RenderWorkbook(ctx context.Context, sheet *domain.OutputSheet) ([]byte, error)
}

// DatasetRepository reads one side of a reconciliation.
type DatasetRepository interface {
	LoadDataset(ctx context.Context, file []byte, source domain.DatasetSource) (*domain.Dataset, error)
}

// ResultExporter renders a reconciliation result in a given format.
type ResultExporter interface {
	Export(ctx context.Context, result *domain.ReconciliationResult, format domain.ExportFormat) ([]byte, error)
}

// ResultStore keeps reconciliation results addressable by token.
type ResultStore interface {
	Save(result *domain.ReconciliationResult) (string, error)
	Load(token string) (*domain.ReconciliationResult, error)
	Export(token string, format domain.ExportFormat, render func(*domain.ReconciliationResult) ([]byte, error)) ([]byte, error)
}
