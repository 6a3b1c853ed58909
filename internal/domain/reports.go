package domain

import "github.com/shopspring/decimal"

// RegistryStatus describes how a cost type is registered on the formatted side.
type RegistryStatus string

const (
	StatusRegistered   RegistryStatus = "Registered"
	StatusPartial      RegistryStatus = "Partial"
	StatusUnregistered RegistryStatus = "Unregistered"
)

// CostColumn identifies a cost type across both datasets. Key is the
// normalized header, Label the display caption.
type CostColumn struct {
	Key   string
	Label string
}

// DatasetRow is one sheet row of a reconciliation input.
type DatasetRow struct {
	DealID   string
	Quantity decimal.Decimal
	Costs    map[string]decimal.Decimal // keyed by CostColumn.Key
}

// Dataset is one side of a reconciliation, read from a workbook.
type Dataset struct {
	Name           string
	Sheet          string
	DealColumn     string
	QuantityColumn string
	CostColumns    []CostColumn
	Rows           []DatasetRow
}

// CostComparison compares one cost type of one deal across both sides.
type CostComparison struct {
	CostType   string         `json:"cost_type"`
	Formatted  float64        `json:"formatted"`
	Comparison float64        `json:"comparison"`
	Difference float64        `json:"difference"`
	Percentage *float64       `json:"percentage"`
	Status     RegistryStatus `json:"status"`
}

// ReconciliationDeal is one joined deal.
type ReconciliationDeal struct {
	DealID             string           `json:"deal_id"`
	FormattedQuantity  float64          `json:"formatted_quantity"`
	ComparisonQuantity float64          `json:"comparison_quantity"`
	Difference         float64          `json:"difference"`
	PercentageVariance *float64         `json:"percentage_variance"`
	Rank               int              `json:"rank"`
	Status             RegistryStatus   `json:"cost_registry_status"`
	Costs              []CostComparison `json:"costs"`
	UnregisteredCosts  []string         `json:"unregistered_costs"`
	PartialCosts       []string         `json:"partial_costs"`
}

// Overview holds the headline KPIs.
type Overview struct {
	TotalDeals                int            `json:"total_deals"`
	TotalDifference           float64        `json:"total_difference"`
	AverageVariance           float64        `json:"average_variance"`
	UnregisteredCostTypeCount int            `json:"unregistered_cost_types"`
	DealStatusCounts          map[string]int `json:"deal_status_counts"`
	AnomalyCount              int            `json:"anomaly_count"`
}

// Anomaly is a deal with an outsized positive difference.
type Anomaly struct {
	DealID             string  `json:"deal_id"`
	Difference         float64 `json:"difference"`
	FormattedQuantity  float64 `json:"formatted_quantity"`
	ComparisonQuantity float64 `json:"comparison_quantity"`
}

// CostAnomaly is a cost difference above mean + 2σ for its cost type.
type CostAnomaly struct {
	DealID     string  `json:"deal_id"`
	CostType   string  `json:"cost_type"`
	Difference float64 `json:"difference"`
}

// RepeatingPattern is a set of cost types unregistered together on several deals.
type RepeatingPattern struct {
	CostTypes []string `json:"cost_types"`
	Deals     []string `json:"deals"`
}

// Patterns summarises registry statuses across deals.
type Patterns struct {
	StatusCounts      map[RegistryStatus]int `json:"status_counts"`
	RepeatingPatterns []RepeatingPattern     `json:"repeating_patterns"`
}

// Heatmap is the dense deal × cost type matrix of signed differences.
type Heatmap struct {
	DealIDs      []string    `json:"deal_ids"`
	CostTypes    []string    `json:"cost_types"`
	Matrix       [][]float64 `json:"matrix"`
	StatusMatrix [][]string  `json:"status_matrix"`
}

// CostBreakdown totals one cost type across all deals.
type CostBreakdown struct {
	CostType          string         `json:"cost_type"`
	FormattedTotal    float64        `json:"formatted_total"`
	ComparisonTotal   float64        `json:"comparison_total"`
	Difference        float64        `json:"difference"`
	Status            RegistryStatus `json:"status"`
	UnregisteredDeals int            `json:"unregistered_deals"`
	PartialDeals      int            `json:"partial_deals"`
}

// UnregisteredCost is the impact of one cost type missing from the formatted side.
type UnregisteredCost struct {
	CostType  string   `json:"cost_type"`
	Impact    float64  `json:"impact"`
	DealCount int      `json:"deal_count"`
	Deals     []string `json:"deals"`
}

// SummaryReport is the narrative summary shown to reviewers and printed.
type SummaryReport struct {
	Headline           string   `json:"headline"`
	TopContributors    string   `json:"top_contributors"`
	UnregisteredCosts  string   `json:"unregistered_costs"`
	RecommendedActions []string `json:"recommended_actions"`
}

// ReconciliationResult is the immutable outcome of one comparison run.
type ReconciliationResult struct {
	Token             string               `json:"token,omitempty"`
	Overview          Overview             `json:"overview"`
	SummaryReport     SummaryReport        `json:"summary_report"`
	Deals             []ReconciliationDeal `json:"deals"`
	Anomalies         []Anomaly            `json:"anomalies"`
	CostAnomalies     []CostAnomaly        `json:"cost_anomalies"`
	Patterns          Patterns             `json:"patterns"`
	Heatmap           Heatmap              `json:"heatmap"`
	CostBreakdown     []CostBreakdown      `json:"cost_breakdown"`
	UnregisteredCosts []UnregisteredCost   `json:"unregistered_costs"`
}

// ExportFormat selects the rendering of an exported result.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
)

// ContentType returns the MIME type of the format, empty when unsupported.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportCSV:
		return "text/csv"
	case ExportPDF:
		return "application/pdf"
	}
	return ""
}
