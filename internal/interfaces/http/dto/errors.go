package dto

import (
	"net/http"
	"strings"
)

// API error codes. Every code is ERR_ followed by its category.
const (
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE" // optional backend not configured

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID" // malformed or revoked
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ERR_ACCOUNT_LOCKED"

	// ErrCodeNotFound also covers records owned by another user
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeInsufficientBalance = "ERR_INSUFFICIENT_BALANCE"
	ErrCodeRateUnavailable     = "ERR_RATE_UNAVAILABLE" // no exchange rate path

	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

var codesByStatus = map[int][]string{
	http.StatusBadRequest:            {ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON},
	http.StatusUnauthorized:          {ErrCodeUnauthorized, ErrCodeTokenExpired, ErrCodeTokenInvalid, ErrCodeInvalidCredentials},
	http.StatusForbidden:             {ErrCodeForbidden},
	http.StatusNotFound:              {ErrCodeNotFound},
	http.StatusConflict:              {ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict},
	http.StatusRequestEntityTooLarge: {ErrCodePayloadTooLarge},
	http.StatusUnprocessableEntity:   {ErrCodeInvalidState, ErrCodeInsufficientBalance, ErrCodeRateUnavailable},
	http.StatusLocked:                {ErrCodeAccountLocked},
	http.StatusTooManyRequests:       {ErrCodeRateLimited},
	http.StatusInternalServerError:   {ErrCodeInternal},
	http.StatusServiceUnavailable:    {ErrCodeServiceUnavailable},
}

// domainAliases lists, per API code, the domain error codes reported under it
var domainAliases = map[string][]string{
	ErrCodeNotFound:            {"NOT_FOUND"},
	ErrCodeForbidden:           {"FORBIDDEN"},
	ErrCodeUnauthorized:        {"UNAUTHORIZED"},
	ErrCodeInternal:            {"UNKNOWN", "INTERNAL_ERROR"},
	ErrCodeAlreadyExists:       {"ALREADY_EXISTS", "EMAIL_TAKEN"},
	ErrCodeInvalidInput:        {"INVALID_INPUT"},
	ErrCodeValidation:          {"VALIDATION_ERROR"},
	ErrCodeBadRequest:          {"BAD_REQUEST"},
	ErrCodeInvalidState:        {"INVALID_STATE", "INVALID_STATE_TRANSITION", "ACCOUNT_ARCHIVED", "CURRENCY_LOCKED"},
	ErrCodeConcurrencyConflict: {"CONCURRENT_MODIFICATION", "OPTIMISTIC_LOCK_FAILED", "VERSION_CONFLICT"},
	ErrCodeInsufficientBalance: {"INSUFFICIENT_BALANCE"},
	ErrCodeRateUnavailable:     {"RATE_UNAVAILABLE"},
	ErrCodeTokenInvalid:        {"TOKEN_INVALID"},
	ErrCodeTokenExpired:        {"TOKEN_EXPIRED"},
	ErrCodeInvalidCredentials:  {"INVALID_CREDENTIALS"},
	ErrCodeAccountLocked:       {"ACCOUNT_LOCKED"},
	ErrCodeServiceUnavailable:  {"STORAGE_UNAVAILABLE", "PDF_UNAVAILABLE"},
}

// ErrorCodeHTTPStatus is the HTTP status of every API error code
var ErrorCodeHTTPStatus = invert(codesByStatus)

// DomainErrorCodeMapping translates domain error codes to API codes. Codes
// missing here pass through unchanged.
var DomainErrorCodeMapping = invert(domainAliases)

func invert[K comparable, V comparable](groups map[K][]V) map[V]K {
	out := make(map[V]K)
	for k, vs := range groups {
		for _, v := range vs {
			out[v] = k
		}
	}
	return out
}

// GetHTTPStatus returns the status for an API error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode returns the API code for a domain code, or code itself
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}

// DomainErrorStatus resolves the API code and status of a domain error code.
// Unmapped INVALID_* codes are bad input and any other unmapped code is a
// business rule violation.
func DomainErrorStatus(code string) (string, int) {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode, GetHTTPStatus(apiCode)
	}
	if strings.HasPrefix(code, "INVALID_") {
		return code, http.StatusBadRequest
	}
	return code, http.StatusUnprocessableEntity
}
