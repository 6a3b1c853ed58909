package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deal-rebilling/internal/domain"
	"deal-rebilling/internal/usecase"
	mock_usecase "deal-rebilling/internal/usecase/mocks"
)

func TestComparisonUseCase_Compare(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	formattedFile, comparisonFile := []byte("formatted"), []byte("comparison")
	settings := domain.CompareSettings{FormattedSheet: "Q1"}

	tests := []struct {
		name          string
		formattedErr  error
		comparisonErr error
		saveErr       error
		wantErr       bool
	}{
		{name: "result is stored and tokenised"},
		{name: "formatted workbook fails to load", formattedErr: errors.New("boom"), wantErr: true},
		{name: "comparison workbook fails to load", comparisonErr: errors.New("boom"), wantErr: true},
		{name: "store rejects result", saveErr: errors.New("full"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mDatasets := mock_usecase.NewMockDatasetRepository(ctrl)
			mStore := mock_usecase.NewMockResultStore(ctrl)
			mExporter := mock_usecase.NewMockResultExporter(ctrl)

			// Setup mock expectations
			mDatasets.EXPECT().
				LoadDataset(gomock.Any(), formattedFile, settings.FormattedSource()).
				Return(dataset("formatted", nil, "D1 1000"), tt.formattedErr)
			if tt.formattedErr == nil {
				mDatasets.EXPECT().
					LoadDataset(gomock.Any(), comparisonFile, settings.ComparisonSource()).
					Return(dataset("comparison", nil, "D1 800"), tt.comparisonErr)
				if tt.comparisonErr == nil {
					mStore.EXPECT().Save(gomock.Any()).Return("tok-1", tt.saveErr)
				}
			}

			uc := usecase.NewComparisonUseCase(mDatasets, mStore, mExporter, usecase.ReconciliationOptions{})
			got, gotErr := uc.Compare(context.Background(), formattedFile, comparisonFile, settings)

			if tt.wantErr {
				assert.Error(t, gotErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, "tok-1", got.Token)
			assert.Equal(t, 200.0, got.Overview.TotalDifference)
		})
	}
}

func TestComparisonUseCase_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stored := &domain.ReconciliationResult{}

	tests := []struct {
		name      string
		format    domain.ExportFormat
		storeErr  error
		wantErr   error
	}{
		{name: "csv export", format: domain.ExportCSV},
		{name: "unsupported format", format: "docx", wantErr: domain.ErrUnsupportedFormat},
		{name: "unknown token", format: domain.ExportPDF, storeErr: domain.ErrUnknownToken, wantErr: domain.ErrUnknownToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := mock_usecase.NewMockResultStore(ctrl)
			mExporter := mock_usecase.NewMockResultExporter(ctrl)

			// Setup mock expectations
			if tt.format.ContentType() != "" {
				if tt.storeErr != nil {
					mStore.EXPECT().Export("tok", tt.format, gomock.Any()).Return(nil, tt.storeErr)
				} else {
					mStore.EXPECT().Export("tok", tt.format, gomock.Any()).DoAndReturn(
						func(token string, format domain.ExportFormat, render func(*domain.ReconciliationResult) ([]byte, error)) ([]byte, error) {
							return render(stored)
						})
					mExporter.EXPECT().Export(gomock.Any(), stored, tt.format).Return([]byte("deal_id\n"), nil)
				}
			}

			uc := usecase.NewComparisonUseCase(mock_usecase.NewMockDatasetRepository(ctrl), mStore, mExporter, usecase.ReconciliationOptions{})
			got, gotErr := uc.Export(context.Background(), "tok", tt.format)

			if tt.wantErr != nil {
				assert.ErrorIs(t, gotErr, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, gotErr)
			assert.Equal(t, []byte("deal_id\n"), got)
		})
	}
}
