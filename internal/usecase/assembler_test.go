package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"deal-rebilling/internal/domain"
	"deal-rebilling/internal/usecase"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOutputAssembler_BuildRow(t *testing.T) {
	rec := domain.RawDealRecord{
		Row:                 7,
		DealNumber:          "VSA-1",
		Vessel:              "NORDIC STAR",
		Product:             "WTI",
		HedgeNumber:         "H1",
		QuantityBbl:         amount("600000"),
		QuantityText:        "600000",
		Inco:                "CIF",
		ContractualLocation: "ROTTERDAM",
		Risk:                "LOW",
		Date:                day(2024, time.January, 15),
		DateText:            "45306",
		IsWhbCifDeal:        true,
	}

	row := usecase.NewOutputAssembler().BuildRow(3, rec)

	assert.Equal(t, 7, row.SourceRow)
	assert.Equal(t, 3, row.Position)
	assert.Equal(t, "", row.Text(domain.ColumnA))
	assert.Equal(t, "VSA-1", row.Text(domain.ColumnB))
	assert.Equal(t, "NORDIC STAR", row.Text(domain.ColumnC))
	assert.Equal(t, "WTI", row.Text(domain.ColumnN))
	assert.Equal(t, "H1", row.Text(domain.ColumnO))
	assert.Equal(t, "600000", row.Text(domain.ColumnP))
	assert.Equal(t, "CIF", row.Text(domain.ColumnQ))
	assert.Equal(t, "ROTTERDAM", row.Text(domain.ColumnR))
	assert.Equal(t, "LOW", row.Text(domain.ColumnS))
	assert.Equal(t, "15/01/2024", row.Text(domain.ColumnT))
	assert.True(t, row.WhbCif)
}

func TestOutputAssembler_Arrange(t *testing.T) {
	rows := []domain.OutputRow{
		{DealNumber: "undated-1"},
		{DealNumber: "feb", Date: day(2024, time.February, 3)},
		{DealNumber: "jan-b", Date: day(2024, time.January, 20)},
		{DealNumber: "jan-a", Date: day(2024, time.January, 5)},
		{DealNumber: "jan-b2", Date: day(2024, time.January, 20)},
		{DealNumber: "undated-2"},
		{DealNumber: "jan-25", Date: day(2025, time.January, 1)},
	}

	got := usecase.NewOutputAssembler().Arrange(rows)

	var order []string
	var labels []string
	for _, row := range got {
		order = append(order, row.DealNumber)
		if row.MonthStart {
			labels = append(labels, row.MonthLabel)
		}
	}
	assert.Equal(t, []string{"jan-a", "jan-b", "jan-b2", "feb", "jan-25", "undated-1", "undated-2"}, order)
	assert.Equal(t, []string{"JAN-24", "FEB-24", "JAN-25"}, labels)
	assert.Equal(t, 3, usecase.CountMonths(got))

	// The input keeps its order.
	assert.Equal(t, "undated-1", rows[0].DealNumber)
}

func TestOutputAssembler_ArrangeEmpty(t *testing.T) {
	got := usecase.NewOutputAssembler().Arrange(nil)
	assert.Empty(t, got)
	assert.Equal(t, 0, usecase.CountMonths(got))
}
