package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Request errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodePayloadTooLarge indicates the request body exceeds the limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Transcription errors
const (
	// ErrCodeResourceUnavailable indicates the model could not be initialized.
	// It is memoized for the process lifetime and never retried.
	ErrCodeResourceUnavailable ErrorCode = "RESOURCE_UNAVAILABLE"
	// ErrCodeInferenceFailed indicates the model raised while transcribing.
	ErrCodeInferenceFailed ErrorCode = "INFERENCE_FAILED"
	// ErrCodeExtractionFailed indicates the model returned no usable text.
	ErrCodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable:  true,
	ErrCodeTimeout:             true,
	ErrCodeRateLimited:         true,
	ErrCodeResourceUnavailable: false,
	ErrCodeInternal:            false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
