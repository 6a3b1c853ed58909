package gateway

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"deal-rebilling/internal/domain"
)

// pdfTimestamp pins the document dates so a result always renders to the same bytes.
var pdfTimestamp = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var dealExportHeaders = []string{
	"deal_id", "formatted_quantity", "comparison_quantity", "difference",
	"percentage_variance", "rank", "cost_registry_status", "unregistered_costs", "partial_costs",
}

// ResultExportWriter implements the ResultExporter interface.
type ResultExportWriter struct{}

// NewResultExportWriter creates a new exporter.
func NewResultExportWriter() *ResultExportWriter {
	return &ResultExportWriter{}
}

// Export renders the result in the requested format.
func (w *ResultExportWriter) Export(ctx context.Context, result *domain.ReconciliationResult, format domain.ExportFormat) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch format {
	case domain.ExportXLSX:
		return w.exportXLSX(result)
	case domain.ExportCSV:
		return w.exportCSV(result)
	case domain.ExportPDF:
		return w.exportPDF(result)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
}

func (w *ResultExportWriter) exportCSV(result *domain.ReconciliationResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(dealExportHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, deal := range result.Deals {
		if err := writer.Write(dealRecord(deal)); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", deal.DealID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func dealRecord(deal domain.ReconciliationDeal) []string {
	variance := ""
	if deal.PercentageVariance != nil {
		variance = formatFloat(*deal.PercentageVariance)
	}
	return []string{
		deal.DealID,
		formatFloat(deal.FormattedQuantity),
		formatFloat(deal.ComparisonQuantity),
		formatFloat(deal.Difference),
		variance,
		strconv.Itoa(deal.Rank),
		string(deal.Status),
		strings.Join(deal.UnregisteredCosts, "; "),
		strings.Join(deal.PartialCosts, "; "),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (w *ResultExportWriter) exportXLSX(result *domain.ReconciliationResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{"Overview", overviewRows(result.Overview)},
		{"Deal Differences", dealRows(result.Deals)},
		{"Cost Breakdown", breakdownRows(result.CostBreakdown)},
		{"Unregistered Costs", unregisteredRows(result.UnregisteredCosts)},
		{"Heatmap", heatmapRows(result.Heatmap)},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %q: %w", sheet.name, err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", sheet.name, err)
		}
		for r, values := range sheet.rows {
			values := values
			if err := f.SetSheetRow(sheet.name, fmt.Sprintf("A%d", r+1), &values); err != nil {
				return nil, fmt.Errorf("failed to write sheet %q row %d: %w", sheet.name, r+1, err)
			}
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write export workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func overviewRows(o domain.Overview) [][]interface{} {
	return [][]interface{}{
		{"Metric", "Value"},
		{"Deals compared", o.TotalDeals},
		{"Total USD discrepancy", o.TotalDifference},
		{"Average variance %", o.AverageVariance},
		{"Unregistered cost types", o.UnregisteredCostTypeCount},
		{"Anomalies", o.AnomalyCount},
	}
}

func dealRows(deals []domain.ReconciliationDeal) [][]interface{} {
	rows := [][]interface{}{{
		"Deal", "Formatted quantity", "Comparison quantity", "Difference",
		"Variance %", "Rank", "Cost registry status", "Unregistered costs", "Partial costs",
	}}
	for _, d := range deals {
		var variance interface{}
		if d.PercentageVariance != nil {
			variance = *d.PercentageVariance
		}
		rows = append(rows, []interface{}{
			d.DealID, d.FormattedQuantity, d.ComparisonQuantity, d.Difference,
			variance, d.Rank, string(d.Status),
			strings.Join(d.UnregisteredCosts, ", "), strings.Join(d.PartialCosts, ", "),
		})
	}
	return rows
}

func breakdownRows(items []domain.CostBreakdown) [][]interface{} {
	rows := [][]interface{}{{
		"Cost type", "Formatted total", "Comparison total", "Difference",
		"Status", "Unregistered deals", "Partial deals",
	}}
	for _, b := range items {
		rows = append(rows, []interface{}{
			b.CostType, b.FormattedTotal, b.ComparisonTotal, b.Difference,
			string(b.Status), b.UnregisteredDeals, b.PartialDeals,
		})
	}
	return rows
}

func unregisteredRows(items []domain.UnregisteredCost) [][]interface{} {
	rows := [][]interface{}{{"Cost type", "Impact", "Deal count", "Deals"}}
	for _, u := range items {
		rows = append(rows, []interface{}{u.CostType, u.Impact, u.DealCount, strings.Join(u.Deals, ", ")})
	}
	return rows
}

// heatmapRows lays out the status matrix with one row per deal.
func heatmapRows(h domain.Heatmap) [][]interface{} {
	head := make([]interface{}, 0, len(h.CostTypes)+1)
	head = append(head, "Deal")
	for _, ct := range h.CostTypes {
		head = append(head, ct)
	}
	rows := [][]interface{}{head}
	for i, deal := range h.DealIDs {
		row := make([]interface{}, 0, len(h.CostTypes)+1)
		row = append(row, deal)
		for _, status := range h.StatusMatrix[i] {
			row = append(row, status)
		}
		rows = append(rows, row)
	}
	return rows
}

func (w *ResultExportWriter) exportPDF(result *domain.ReconciliationResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(pdfTimestamp)
	pdf.SetModificationDate(pdfTimestamp)
	pdf.SetTitle("Deal Comparison Summary", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	summary := result.SummaryReport
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Deal Comparison Summary", "", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	for _, text := range []string{summary.Headline, summary.TopContributors, summary.UnregisteredCosts} {
		pdf.MultiCell(0, 8, tr(text), "", "", false)
		pdf.Ln(2)
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Recommended Actions", "", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, item := range summary.RecommendedActions {
		pdf.MultiCell(0, 6, tr("• "+item), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
