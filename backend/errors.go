package backend

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps network level failures talking to the backend.
	ErrTransport = errors.New("backend unreachable")
	// ErrDecode is returned when a 2xx response body is not the expected JSON.
	ErrDecode = errors.New("invalid backend response")
	// ErrRetriesExhausted is returned once every attempt of a retried call failed.
	ErrRetriesExhausted = errors.New("retries exhausted")
	// ErrRetryInterrupted is returned when the context ends while waiting
	// between attempts.
	ErrRetryInterrupted = errors.New("retry interrupted")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Detail returns the server supplied error text carried by err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// parseDetail pulls "detail" out of an error body. Validation errors carry a
// list there instead of a string, those are reported by their first msg.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &list); err == nil && len(list) > 0 {
		return list[0].Msg
	}
	return ""
}
