package usecase

import (
	"sort"

	"deal-rebilling/internal/domain"
)

// OutputAssembler maps raw records to output rows and arranges them into sheet order.
type OutputAssembler struct{}

// NewOutputAssembler creates a new assembler.
func NewOutputAssembler() *OutputAssembler {
	return &OutputAssembler{}
}

// BuildRow copies the raw fields of a record into their output columns:
// B←B, C←AA, N←M, O←L, P←Q, Q←AB, R←AD, S←AL, T←X.
// Column A is left blank.
func (a *OutputAssembler) BuildRow(position int, rec domain.RawDealRecord) domain.OutputRow {
	return domain.OutputRow{
		SourceRow:           rec.Row,
		Position:            position,
		DealNumber:          rec.DealNumber,
		Vessel:              rec.Vessel,
		Product:             rec.Product,
		Hedge:               rec.HedgeNumber,
		Quantity:            rec.QuantityBbl,
		QuantityText:        rec.QuantityText,
		Inco:                rec.Inco,
		ContractualLocation: rec.ContractualLocation,
		Risk:                rec.Risk,
		Date:                rec.Date,
		DateText:            rec.DateText,
		WhbCif:              rec.IsWhbCifDeal,
	}
}

// BuildRows maps every record, keeping source order.
func (a *OutputAssembler) BuildRows(records []domain.RawDealRecord) []domain.OutputRow {
	rows := make([]domain.OutputRow, len(records))
	for i, rec := range records {
		rows[i] = a.BuildRow(i, rec)
	}
	return rows
}

// Arrange stable-sorts rows by ascending date, undated rows last, and tags
// the first row of each calendar month. The input slice is not modified.
func (a *OutputAssembler) Arrange(rows []domain.OutputRow) []domain.OutputRow {
	sorted := make([]domain.OutputRow, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].Date, sorted[j].Date
		switch {
		case di.IsZero():
			return false
		case dj.IsZero():
			return true
		}
		return di.Before(dj)
	})

	var currentYear, currentMonth int
	for i := range sorted {
		sorted[i].MonthStart = false
		sorted[i].MonthLabel = ""
		d := sorted[i].Date
		if d.IsZero() {
			continue
		}
		if d.Year() != currentYear || int(d.Month()) != currentMonth {
			currentYear, currentMonth = d.Year(), int(d.Month())
			sorted[i].MonthStart = true
			sorted[i].MonthLabel = domain.MonthLabel(d)
		}
	}
	return sorted
}

// CountMonths returns the number of month groups in arranged rows.
func CountMonths(rows []domain.OutputRow) int {
	n := 0
	for _, row := range rows {
		if row.MonthStart {
			n++
		}
	}
	return n
}
