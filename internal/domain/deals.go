package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CostType classifies a cost entry on the costs sheet (BOT, BLC, CIN, CLI, ...).
type CostType string

const (
	CostTypeBOT CostType = "BOT"
	CostTypeBLC CostType = "BLC"
	CostTypeCIN CostType = "CIN"
	CostTypeCLI CostType = "CLI"
)

// Known reports whether the enrichment rules recognise the cost type.
// Other codes are still indexed and are only relevant to reconciliation.
func (c CostType) Known() bool {
	switch c {
	case CostTypeBOT, CostTypeBLC, CostTypeCIN, CostTypeCLI:
		return true
	}
	return false
}

// RawDealRecord is one data row of the primary deals sheet.
type RawDealRecord struct {
	Row                 int // 1-based row in the source sheet
	DealNumber          string
	Vessel              string
	Product             string
	HedgeNumber         string
	QuantityBbl         decimal.NullDecimal
	QuantityText        string
	Inco                string
	ContractualLocation string
	Risk                string
	Date                time.Time // zero when DateText could not be parsed
	DateText            string
	IsWhbCifDeal        bool
}

// Countable reports whether the record contributes to aggregate metrics:
// it needs a product and a non-negative quantity.
func (r RawDealRecord) Countable() bool {
	return Normalize(r.Product) != "" && r.QuantityBbl.Valid && !r.QuantityBbl.Decimal.IsNegative()
}

// CostEntry is one row of the costs sheet.
type CostEntry struct {
	Row        int
	DealNumber string
	CostType   CostType
	Amount     decimal.NullDecimal // invalid when the cell was not a number
}

// HedgeRecord carries the comments attached to a hedge on the hedges sheet.
type HedgeRecord struct {
	Row            int
	HedgeNumber    string
	VSAComment     string
	AdditionalInfo string
}

// DealSheets is everything the ingestor extracted from one workbook.
type DealSheets struct {
	SheetPresence map[string]bool
	PrimarySheet  string
	Deals         []RawDealRecord
	Costs         []CostEntry
	Hedges        []HedgeRecord
}

// Normalize trims and upper-cases a value for key and trigger comparisons.
func Normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
