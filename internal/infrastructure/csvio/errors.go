package csvio

import (
	"errors"
	"fmt"
)

// Row error codes
const (
	ErrCodeMalformedRow      = "ERR_IMPORT_MALFORMED_ROW"
	ErrCodeRequiredField     = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidFormat     = "ERR_IMPORT_INVALID_FORMAT"
	ErrCodeUnsupportedType   = "ERR_IMPORT_UNSUPPORTED_TYPE"
	ErrCodeRejected          = "ERR_IMPORT_REJECTED"
	ErrCodeTooManyRows       = "ERR_IMPORT_TOO_MANY_ROWS"
	defaultMaxReportedErrors = 100
)

var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not UTF-8
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// RowError describes why one row was not imported
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a new RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// ErrorCollection keeps the first maxErrors row errors and counts the rest
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a collection. A non-positive limit uses 100.
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = defaultMaxReportedErrors
	}
	return &ErrorCollection{maxErrors: maxErrors}
}

// Add records an error
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the kept errors in row order of arrival
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount includes errors beyond the limit
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// IsTruncated is true when some errors were counted but not kept
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}
