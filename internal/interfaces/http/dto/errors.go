package dto

import "net/http"

// Error codes returned in the response envelope.
// Format: ERR_<DESCRIPTION>

// General error codes
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeItemNotFound        = "ERR_ITEM_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeBatchExists         = "ERR_BATCH_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "ERR_DUPLICATE_REQUEST"
)

// Ledger rule error codes
const (
	ErrCodeInvalidInput        = "ERR_INVALID_INPUT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock   = "ERR_INSUFFICIENT_STOCK"
	ErrCodeOverReceipt         = "ERR_OVER_RECEIPT"
	ErrCodeNoSupplierAvailable = "ERR_NO_SUPPLIER_AVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeItemNotFound:        http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeBatchExists:         http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	// Ledger rule violations -> 422, malformed input -> 400
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeOverReceipt:         http.StatusUnprocessableEntity,
	ErrCodeNoSupplierAvailable: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps shared.DomainError codes to response codes
var domainErrorCodes = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"ITEM_NOT_FOUND":        ErrCodeItemNotFound,
	"ALREADY_EXISTS":        ErrCodeAlreadyExists,
	"BATCH_EXISTS":          ErrCodeBatchExists,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_STATE":         ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":  ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":    ErrCodeInsufficientStock,
	"OVER_RECEIPT":          ErrCodeOverReceipt,
	"NO_SUPPLIER_AVAILABLE": ErrCodeNoSupplierAvailable,
	"DUPLICATE_REQUEST":     ErrCodeDuplicateRequest,
}

// NormalizeErrorCode converts a domain error code to its response code.
// Codes already in ERR_ form, or unknown, are returned unchanged.
func NormalizeErrorCode(code string) string {
	if c, ok := domainErrorCodes[code]; ok {
		return c
	}
	return code
}
