package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"deal-rebilling/internal/domain"
)

// Compare reconciles the formatted workbook against the comparison workbook.
func (h *RebillingHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}

	formatted, err := formFile(r, "formatted_file", true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	comparison, err := formFile(r, "comparison_file", true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	settings := domain.CompareSettings{
		FormattedSheet:           formValue(r, "formatted_sheet"),
		ComparisonSheet:          formValue(r, "comparison_sheet"),
		FormattedDealColumn:      formValue(r, "formatted_deal_column"),
		ComparisonDealColumn:     formValue(r, "comparison_deal_column"),
		FormattedQuantityColumn:  formValue(r, "formatted_quantity_column"),
		ComparisonQuantityColumn: formValue(r, "comparison_quantity_column"),
	}

	result, err := h.Comparer.Compare(r.Context(), formatted, comparison, settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.Metrics.Comparisons.Inc()
	h.Metrics.ComparedDeals.Observe(float64(result.Overview.TotalDeals))
	writeJSON(w, http.StatusOK, result)
}

// Export returns a stored result as xlsx, csv or pdf. The format defaults to xlsx.
func (h *RebillingHandler) Export(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	format := domain.ExportFormat(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))))
	if format == "" {
		format = domain.ExportXLSX
	}

	data, err := h.Comparer.Export(r.Context(), token, format)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.Metrics.Exports.WithLabelValues(string(format)).Inc()
	writeAttachment(w, format.ContentType(), "deal_comparison_"+token+"."+string(format), data)
}
