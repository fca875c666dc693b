package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestResourceUnavailable_UsesCauseMessage(t *testing.T) {
	cause := fmt.Errorf("device not found")
	err := ResourceUnavailable(cause)
	if err.Message != "device not found" {
		t.Errorf("expected cause message, got %q", err.Message)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected ResourceUnavailable to wrap its cause")
	}
	if err.Retryable {
		t.Error("RESOURCE_UNAVAILABLE must not be retryable")
	}
}

func TestResourceUnavailable_NilCause(t *testing.T) {
	err := ResourceUnavailable(nil)
	if err.Message == "" {
		t.Error("expected a default message")
	}
}

func TestInferenceFailed_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("cuda out of memory")
	err := InferenceFailed(cause)
	if !strings.HasPrefix(err.Message, "Failed to transcribe audio: ") {
		t.Errorf("unexpected message %q", err.Message)
	}
	if !strings.Contains(err.Message, "cuda out of memory") {
		t.Errorf("expected cause in message, got %q", err.Message)
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"ServiceUnavailable", ServiceUnavailable("model"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true},
		{"RateLimited", RateLimited(), ErrCodeRateLimited, http.StatusTooManyRequests, true},
		{"NotFound", NotFound("Frontend not built"), ErrCodeNotFound, http.StatusNotFound, false},
		{"InvalidInput", InvalidInput("file", "missing"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"Unauthorized", Unauthorized(""), ErrCodeUnauthorized, http.StatusUnauthorized, false},
		{"PayloadTooLarge", PayloadTooLarge(), ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge, false},
		{"ResourceUnavailable", ResourceUnavailable(fmt.Errorf("x")), ErrCodeResourceUnavailable, http.StatusBadRequest, false},
		{"InferenceFailed", InferenceFailed(fmt.Errorf("x")), ErrCodeInferenceFailed, http.StatusBadRequest, false},
		{"ExtractionFailed", ExtractionFailed(), ErrCodeExtractionFailed, http.StatusBadRequest, false},
		{"Internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := Validation("The uploaded file is empty.").WithCause(fmt.Errorf("root cause"))
	s := err.Error()
	if !strings.Contains(s, "INVALID_INPUT") {
		t.Errorf("expected error string to contain code, got %q", s)
	}
	if !strings.Contains(s, "root cause") {
		t.Errorf("expected error string to contain cause, got %q", s)
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ExtractionFailed())
	if !HasCode(wrapped, ErrCodeExtractionFailed) {
		t.Error("expected HasCode to see through wrapping")
	}
	if HasCode(wrapped, ErrCodeInferenceFailed) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("expected HasCode to reject non-AppErrors")
	}
}

func TestAppError_ToResponse_Success(t *testing.T) {
	err := InvalidInput("file", "a file upload is required")
	resp := err.ToResponse()
	if resp.Error.Code != ErrCodeInvalidInput {
		t.Errorf("expected code INVALID_INPUT in response, got %s", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "file" {
		t.Error("expected field=file in response details")
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	appErr := Internal(nil)
	wrapped := fmt.Errorf("wrap: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got != appErr {
		t.Error("expected the same AppError instance")
	}

	if _, ok := AsAppError(fmt.Errorf("not an app error")); ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := ExtractionFailed()
	if Wrap(fmt.Errorf("outer: %w", orig)) != orig {
		t.Error("Wrap should return the wrapped AppError unchanged")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal || got.Cause != plain {
		t.Errorf("expected internal error wrapping plain error, got %+v", got)
	}
}

func TestAppError_ImplementsErrorInterface(t *testing.T) {
	var err error = NotFound("missing")
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		t.Error("stderrors.As should work with AppError")
	}
}

func TestRespond(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"app error", ExtractionFailed(), http.StatusBadRequest, ErrCodeExtractionFailed},
		{"wrapped app error", fmt.Errorf("ctx: %w", PayloadTooLarge()), http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge},
		{"plain error", fmt.Errorf("disk full"), http.StatusInternalServerError, ErrCodeInternal},
		{"nil", nil, http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := Respond(tc.err)
			if status != tc.status || body.Error.Code != tc.code {
				t.Errorf("got %d %s, want %d %s", status, body.Error.Code, tc.status, tc.code)
			}
			if tc.code == ErrCodeInternal && strings.Contains(body.Error.Message, "disk full") {
				t.Error("internal causes must not leak into the message")
			}
		})
	}
}
