package errors

import (
	stderrors "errors"
)

// ErrorResponse is the envelope every failed request answers with:
//
//	{"error": {"code": "...", "message": "...", "retryable": false}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the client-visible part of an AppError.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse builds the envelope. The cause is never exposed.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}}
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Respond maps any error to its HTTP status and envelope. Errors that are
// not AppErrors become INTERNAL_ERROR.
func Respond(err error) (int, ErrorResponse) {
	appErr := Wrap(err)
	if appErr == nil {
		appErr = Internal(nil)
	}
	return appErr.HTTPStatus, appErr.ToResponse()
}
