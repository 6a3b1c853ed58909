package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"deal-rebilling/internal/domain"
)

const (
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	multipartMemory     = 32 << 20
	formattedOutputName = "formatted_output.xlsx"
)

// Health reports liveness.
func (h *RebillingHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Process enriches an uploaded raw workbook and returns the formatted workbook.
func (h *RebillingHandler) Process(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}

	file, err := formFile(r, "file", true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	existing, err := formFile(r, "existing_file", false)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	settings := domain.ProcessSettings{
		OutputSheetName: formValue(r, "output_sheet_name"),
		RawSheet1Name:   formValue(r, "raw_sheet1_name"),
		RawSheet2Name:   formValue(r, "raw_sheet2_name"),
		RawSheet3Name:   formValue(r, "raw_sheet3_name"),
		DealColumn:      formValue(r, "deal_column_name"),
	}

	out, err := h.Enricher.Process(r.Context(), file, existing, settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.Metrics.ProcessedRows.Add(float64(out.Sheet.Summary.TotalRows))
	h.Metrics.SkippedCosts.Add(float64(out.Sheet.Summary.SkippedCostEntries))
	w.Header().Set("X-Total-Rows", fmt.Sprint(out.Sheet.Summary.TotalRows))
	w.Header().Set("X-Skipped-Cost-Entries", fmt.Sprint(out.Sheet.Summary.SkippedCostEntries))
	writeAttachment(w, xlsxContentType, formattedOutputName, out.Workbook)
}

// parseUpload caps the body and parses the multipart form.
func (h *RebillingHandler) parseUpload(w http.ResponseWriter, r *http.Request) error {
	if h.MaxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return badRequest("request must be multipart/form-data")
	}
	return nil
}

// formFile reads an uploaded file; absent optional files return nil.
func formFile(r *http.Request, field string, required bool) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !required {
			return nil, nil
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, badRequest(fmt.Sprintf("missing file field %q", field))
		}
		return nil, fmt.Errorf("read form file %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", field, err)
	}
	return data, nil
}

func formValue(r *http.Request, field string) string {
	return strings.TrimSpace(r.FormValue(field))
}
