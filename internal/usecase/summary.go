package usecase

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"deal-rebilling/internal/domain"
)

const topContributorCount = 3

var currencyPrinter = message.NewPrinter(language.English)

// FormatCurrency renders v as a grouped dollar amount, e.g. $1,234.56.
func FormatCurrency(v float64) string {
	return currencyPrinter.Sprintf("$%.2f", v)
}

// BuildSummaryReport derives the narrative summary from a computed result.
func BuildSummaryReport(result *domain.ReconciliationResult) domain.SummaryReport {
	report := domain.SummaryReport{
		Headline:           headline(result),
		TopContributors:    topContributors(result.Deals),
		UnregisteredCosts:  unregisteredSummary(result.UnregisteredCosts),
		RecommendedActions: recommendedActions(result),
	}
	return report
}

func headline(result *domain.ReconciliationResult) string {
	if len(result.Deals) == 0 {
		return "No qualifying deals were found in either workbook."
	}

	flagged, higher, unregistered := 0, 0, 0
	for _, deal := range result.Deals {
		if deal.Difference > 0 {
			higher++
		}
		if deal.Status == domain.StatusUnregistered {
			unregistered++
		}
		if deal.Difference != 0 || deal.Status != domain.StatusRegistered {
			flagged++
		}
	}
	if flagged == 0 {
		return currencyPrinter.Sprintf("All %d deals are aligned with the comparison workbook.", len(result.Deals))
	}

	var parts []string
	if higher > 0 {
		parts = append(parts, currencyPrinter.Sprintf("%d with higher totals", higher))
	}
	if unregistered > 0 {
		parts = append(parts, currencyPrinter.Sprintf("%d with unregistered costs", unregistered))
	}
	detail := ""
	if len(parts) > 0 {
		detail = " (" + strings.Join(parts, ", ") + ")"
	}
	return currencyPrinter.Sprintf("%d deals require attention%s, totaling %s variance.",
		flagged, detail, FormatCurrency(result.Overview.TotalDifference))
}

func topContributors(deals []domain.ReconciliationDeal) string {
	positive := make([]domain.ReconciliationDeal, 0)
	for _, deal := range deals {
		if deal.Difference > 0 {
			positive = append(positive, deal)
		}
	}
	if len(positive) == 0 {
		return "No significant deal variances detected."
	}
	sort.SliceStable(positive, func(i, j int) bool {
		return positive[i].Difference > positive[j].Difference
	})
	if len(positive) > topContributorCount {
		positive = positive[:topContributorCount]
	}

	items := make([]string, len(positive))
	for i, deal := range positive {
		items[i] = deal.DealID + ": " + FormatCurrency(deal.Difference)
	}
	return currencyPrinter.Sprintf("Top %d deals contributing to variance: %s.", len(items), strings.Join(items, ", "))
}

func unregisteredSummary(costs []domain.UnregisteredCost) string {
	if len(costs) == 0 {
		return "No unregistered cost types detected."
	}
	top := costs[0]
	return currencyPrinter.Sprintf("Unregistered costs remain for %s across %d deals totaling %s.",
		top.CostType, top.DealCount, FormatCurrency(top.Impact))
}

func recommendedActions(result *domain.ReconciliationResult) []string {
	actions := make([]string, 0, 3)
	if len(result.UnregisteredCosts) > 0 {
		actions = append(actions, "Register missing cost types ("+joinCostTypes(result.UnregisteredCosts)+") in the formatted workbook.")
	}
	if len(result.Anomalies) > 0 {
		actions = append(actions, "Review the deals listed as anomalies before rebilling.")
	}
	if len(result.Patterns.RepeatingPatterns) > 0 {
		actions = append(actions, "Investigate repeating unregistered cost patterns across deals.")
	}
	if len(actions) == 0 {
		actions = append(actions, "No action required; both workbooks agree.")
	}
	return actions
}

func joinCostTypes(costs []domain.UnregisteredCost) string {
	names := make([]string, len(costs))
	for i, c := range costs {
		names[i] = c.CostType
	}
	return strings.Join(names, ", ")
}
