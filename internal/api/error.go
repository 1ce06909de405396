package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a gateway failure. Downstream code branches on the kind,
// never on raw response bodies or status codes.
type Kind string

const (
	// KindTransport covers network-level failures: no backend message exists.
	KindTransport Kind = "transport"
	// KindBackend covers non-success responses carrying a human-readable detail.
	KindBackend Kind = "backend"
	// KindUnauthorized covers 401/403 responses: the credential was rejected.
	KindUnauthorized Kind = "unauthorized"
	// KindNotFound covers 404 responses.
	KindNotFound Kind = "not_found"
)

// Error is the normalized failure shape for every gateway operation.
type Error struct {
	Kind   Kind
	Status int    // HTTP status, 0 for transport failures
	Detail string // backend-provided message, empty for transport failures
	Op     string // the operation that failed, e.g. "sync repositories"
	Err    error  // underlying cause, set for transport failures
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	}
	if e.Kind == KindTransport {
		if e.Err != nil {
			return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("%s: backend unreachable", e.Op)
	}
	return fmt.Sprintf("%s: backend error (status %d)", e.Op, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the text to show a user: the backend detail verbatim when
// present, else a generic description of the failure.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Kind == KindTransport {
		return "could not reach the backend"
	}
	return fmt.Sprintf("request failed (status %d)", e.Status)
}

// IsUnauthorized reports whether err is a gateway error caused by a rejected
// or missing credential.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// IsNotFound reports whether err is a gateway 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// UserMessage extracts the user-facing text from any error returned by this
// package. Non-gateway errors fall back to err.Error().
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// detailBody matches the backend's error envelope. The detail field is
// duck-typed on the wire: a plain string, an object, or a validation array.
type detailBody struct {
	Detail json.RawMessage `json:"detail"`
}

// parseDetail flattens whatever shape the backend put in "detail" into a
// single message string. Returns "" if body carries no usable detail.
func parseDetail(body []byte) string {
	var envelope detailBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	// Validation errors arrive as [{"msg": ..., "loc": ...}, ...]
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		var msgs []string
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	var obj map[string]any
	if err := json.Unmarshal(envelope.Detail, &obj); err == nil {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return ""
}
