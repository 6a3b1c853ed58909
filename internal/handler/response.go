package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"deal-rebilling/internal/domain"
)

const internalErrorMessage = "internal processing error"

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("failed to write attachment")
	}
}

// writeError maps err to a status code. Only caller-fixable errors are
// echoed; everything else is logged and reported generically.
func (h *RebillingHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "upload exceeds the size limit"})
	case errors.Is(err, domain.ErrUnknownToken):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: domain.ErrUnknownToken.Error()})
	case errors.Is(err, domain.ErrUnsupportedFormat):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		if vErr, ok := domain.AsValidationError(err); ok {
			h.Metrics.ValidationFails.WithLabelValues(string(vErr.Kind)).Inc()
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: vErr.Message})
			return
		}
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: reqErr.msg})
			return
		}
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
	}
}

// requestError is a malformed request, e.g. a missing form field.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }
