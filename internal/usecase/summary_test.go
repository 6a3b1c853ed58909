package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"deal-rebilling/internal/domain"
	"deal-rebilling/internal/usecase"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "$0.00"},
		{in: 1234.5, want: "$1,234.50"},
		{in: 1234567.891, want: "$1,234,567.89"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, usecase.FormatCurrency(tt.in))
	}
}

func TestBuildSummaryReport(t *testing.T) {
	keys := []string{"insurance"}
	result := usecase.NewReconciliationEngine(usecase.ReconciliationOptions{}).Reconcile(
		dataset("formatted", keys, "D1 1500", "D2 100", "D3 100"),
		dataset("comparison", keys, "D1 300 insurance=40", "D2 100", "D3 100"),
	)

	report := result.SummaryReport
	assert.Equal(t, "1 deals require attention (1 with higher totals, 1 with unregistered costs), totaling $1,200.00 variance.", report.Headline)
	assert.Equal(t, "Top 1 deals contributing to variance: D1: $1,200.00.", report.TopContributors)
	assert.Equal(t, "Unregistered costs remain for Insurance across 1 deals totaling $40.00.", report.UnregisteredCosts)
	assert.Equal(t, []string{
		"Register missing cost types (Insurance) in the formatted workbook.",
		"Review the deals listed as anomalies before rebilling.",
	}, report.RecommendedActions)
}

func TestBuildSummaryReport_Aligned(t *testing.T) {
	report := usecase.BuildSummaryReport(&domain.ReconciliationResult{
		Deals: []domain.ReconciliationDeal{
			{DealID: "D1", Status: domain.StatusRegistered},
			{DealID: "D2", Status: domain.StatusRegistered},
		},
	})

	assert.Equal(t, "All 2 deals are aligned with the comparison workbook.", report.Headline)
	assert.Equal(t, "No significant deal variances detected.", report.TopContributors)
	assert.Equal(t, "No unregistered cost types detected.", report.UnregisteredCosts)
	assert.Equal(t, []string{"No action required; both workbooks agree."}, report.RecommendedActions)
}
