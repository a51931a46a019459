package dto

import "time"

// DefaultPageSize applies when a list request carries no page size
const DefaultPageSize = 20

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Details   []ValidationDetail `json:"details,omitempty"`
	Help      string             `json:"help,omitempty"`
}

// ValidationDetail names one rejected field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse wraps data in a success envelope
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewSuccessResponseWithMeta adds page metadata. Out-of-range page values fall
// back to page 1 of DefaultPageSize.
func NewSuccessResponseWithMeta(data any, total int64, page, pageSize int) Response {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page = max(page, 1)
	size := int64(pageSize)
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: int((total + size - 1) / size),
		},
	}
}

func failure(code, message, requestID string, decorate ...func(*ErrorInfo)) Response {
	info := &ErrorInfo{Code: code, Message: message, RequestID: requestID, Timestamp: time.Now()}
	for _, d := range decorate {
		d(info)
	}
	return Response{Error: info}
}

// NewErrorResponse builds an error envelope, translating domain codes to API
// codes
func NewErrorResponse(code, message string) Response {
	return failure(NormalizeErrorCode(code), message, "")
}

// NewErrorResponseWithRequestID builds an error envelope for an API code
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return failure(code, message, requestID)
}

// NewValidationErrorResponse lists the rejected fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return failure(ErrCodeValidation, message, requestID, func(e *ErrorInfo) { e.Details = details })
}

// NewErrorResponseWithHelp points the caller at documentation
func NewErrorResponseWithHelp(code, message, requestID, help string) Response {
	return failure(code, message, requestID, func(e *ErrorInfo) { e.Help = help })
}
