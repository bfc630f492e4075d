package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUnavailable is used when the data store cannot be reached
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
	// ErrCodeRequestTimeout is used when the request deadline expired
	ErrCodeRequestTimeout = "ERR_REQUEST_TIMEOUT"
)

// Validation error codes
const (
	// ErrCodeValidation is used when request binding fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationFailed is used when business validation collected field errors
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
	// ErrCodeDuplicateSubmission is used when an Idempotency-Key was already used
	ErrCodeDuplicateSubmission = "ERR_DUPLICATE_SUBMISSION"
	// ErrCodeHasDistributions is used when deleting a household that already received aid
	ErrCodeHasDistributions = "ERR_HAS_DISTRIBUTIONS"
)

// Business rule error codes
const (
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	// ErrCodePayloadTooLarge is used when the body exceeds the configured limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// Access error codes
const (
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:        http.StatusInternalServerError,
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeUnavailable:    http.StatusServiceUnavailable,
	ErrCodeRequestTimeout: http.StatusGatewayTimeout,

	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFailed: http.StatusUnprocessableEntity,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeDuplicateSubmission: http.StatusConflict,
	ErrCodeHasDistributions:    http.StatusConflict,

	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	ErrCodeForbidden: http.StatusForbidden,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to API error codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":                     ErrCodeNotFound,
	"DUPLICATE_KEY":                 ErrCodeAlreadyExists,
	"INVALID_INPUT":                 ErrCodeInvalidInput,
	"VALIDATION_FAILED":             ErrCodeValidationFailed,
	"TRANSACTION_ABORTED":           ErrCodeInternal,
	"UNAVAILABLE":                   ErrCodeUnavailable,
	"BENEFICIARY_HAS_DISTRIBUTIONS": ErrCodeHasDistributions,
	"DEFAULT_PROGRAM_MISSING":       ErrCodeInternal,
	"INVALID_BENEFICIARY":           ErrCodeBusinessRule,
	"INVALID_LOCATION":              ErrCodeBusinessRule,
	"INVALID_PRODUCT":               ErrCodeBusinessRule,
	"INVALID_PROGRAM":               ErrCodeBusinessRule,
	"INVALID_QUANTITY":              ErrCodeBusinessRule,
	"INTERNAL_ERROR":                ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown pass through unchanged.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
