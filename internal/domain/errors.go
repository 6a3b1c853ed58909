package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a caller-fixable input problem.
type ErrorKind string

const (
	KindMissingSheet      ErrorKind = "MissingSheet"
	KindMissingColumn     ErrorKind = "MissingColumn"
	KindInsufficientRows  ErrorKind = "InsufficientRows"
	KindInvalidFileFormat ErrorKind = "InvalidFileFormat"
)

// ValidationError reports an input workbook that does not have the expected shape.
type ValidationError struct {
	Kind    ErrorKind
	Sheet   string
	Column  string
	Row     int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(kind ErrorKind, sheet, column string, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Sheet:   sheet,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrUnknownToken is returned when an export asks for an absent or evicted analysis.
var ErrUnknownToken = errors.New("analysis token not found")

// ErrUnsupportedFormat is returned for an export format that has no renderer.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// AsValidationError unwraps err into a ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
