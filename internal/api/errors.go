package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a failure reported by the backend with an HTTP status. The
// server-supplied message is kept verbatim so callers can surface it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// AuthFailure reports whether the error is a 401/403 the upstream layer
// handles by forcing re-login.
func (e *APIError) AuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// errorBody matches the backend's structured error payloads. Some endpoints
// use "error", others "message".
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(statusCode int, body []byte) *APIError {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return &APIError{StatusCode: statusCode, Message: parsed.Error}
		}
		if parsed.Message != "" {
			return &APIError{StatusCode: statusCode, Message: parsed.Message}
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return &APIError{StatusCode: statusCode, Message: text}
}

// UserMessage normalizes any error to something an operator can read: the
// server message when present, the fallback otherwise.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Normalize prepares an error for display at the action boundary. A
// server-supplied message passes through verbatim; anything else gets the
// fallback prefix while keeping the cause wrapped.
func Normalize(err error, fallback string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return err
	}
	return fmt.Errorf("%s: %w", fallback, err)
}
