package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes
// directly; the mapping below decides the HTTP status.
const (
	// ErrCodeInvalidInput is used when the request data fails validation
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeNotFound is used when a requested entry does not exist
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeMissingLayoutKey is used when the layout has no entry for a field
	ErrCodeMissingLayoutKey = "MISSING_LAYOUT_KEY"
	// ErrCodeTemplateUnavailable is used when the letterhead template cannot be used
	ErrCodeTemplateUnavailable = "TEMPLATE_UNAVAILABLE"
	// ErrCodeResourceUnavailable is used when a deployment resource cannot be loaded
	ErrCodeResourceUnavailable = "RESOURCE_UNAVAILABLE"
	// ErrCodeOutputWriteFailed is used when the generated invoice cannot be written
	ErrCodeOutputWriteFailed = "OUTPUT_WRITE_FAILED"
	// ErrCodeDeliveryFailed is used when print or email dispatch fails
	ErrCodeDeliveryFailed = "DELIVERY_FAILED"
	// ErrCodeInternal is used for unexpected errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,

	// A resolvable-but-broken layout is a configuration defect, not a
	// client error, yet the request itself was well formed.
	ErrCodeMissingLayoutKey: http.StatusUnprocessableEntity,

	ErrCodeTemplateUnavailable: http.StatusInternalServerError,
	ErrCodeResourceUnavailable: http.StatusInternalServerError,
	ErrCodeOutputWriteFailed:   http.StatusInternalServerError,

	// The invoice was generated; the downstream hand-off failed.
	ErrCodeDeliveryFailed: http.StatusBadGateway,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
