package dto

import "net/http"

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeBookNotAvailable  = "ERR_BOOK_NOT_AVAILABLE"
	ErrCodeDebtLimitReached  = "ERR_DEBT_LIMIT_REACHED"
	ErrCodeDebtLimitExceeded = "ERR_DEBT_LIMIT_EXCEEDED"
	ErrCodeAlreadyIssued     = "ERR_ALREADY_ISSUED"
	ErrCodeAlreadyReturned   = "ERR_ALREADY_RETURNED"
)

// Upstream error codes
const (
	ErrCodeUpstream = "ERR_UPSTREAM"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Business rule violations surface as 400 with a human-readable message.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusBadRequest,
	ErrCodeBusinessRule:      http.StatusBadRequest,
	ErrCodeBookNotAvailable:  http.StatusBadRequest,
	ErrCodeDebtLimitReached:  http.StatusBadRequest,
	ErrCodeDebtLimitExceeded: http.StatusBadRequest,
	ErrCodeAlreadyIssued:     http.StatusBadRequest,
	ErrCodeAlreadyReturned:   http.StatusBadRequest,

	ErrCodeUpstream: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to transport codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONFLICT":             ErrCodeConflict,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"UPSTREAM_ERROR":       ErrCodeUpstream,
	"BOOK_NOT_AVAILABLE":   ErrCodeBookNotAvailable,
	"DEBT_LIMIT_REACHED":   ErrCodeDebtLimitReached,
	"DEBT_LIMIT_EXCEEDED":  ErrCodeDebtLimitExceeded,
	"ALREADY_ISSUED":       ErrCodeAlreadyIssued,
	"ALREADY_RETURNED":     ErrCodeAlreadyReturned,
	"INVALID_TITLE":        ErrCodeValidation,
	"INVALID_AUTHORS":      ErrCodeValidation,
	"INVALID_NAME":         ErrCodeValidation,
	"INVALID_EMAIL":        ErrCodeValidation,
	"INVALID_STOCK":        ErrCodeValidation,
	"INVALID_RENT":         ErrCodeValidation,
	"INVALID_FEE":          ErrCodeValidation,
	"INVALID_QUERY":        ErrCodeValidation,
	"INVALID_EXTERNAL_ID":  ErrCodeValidation,
	"INVALID_BOOK":         ErrCodeValidation,
	"INVALID_MEMBER":       ErrCodeValidation,
}

// NormalizeErrorCode converts a domain error code to the transport format.
// Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if transportCode, ok := DomainErrorCodeMapping[code]; ok {
		return transportCode
	}
	return code
}
