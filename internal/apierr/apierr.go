// Package apierr defines the typed error every backend call is translated into.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an APIError.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindServer     Kind = "server"
	KindNetwork    Kind = "network"
	KindUnknown    Kind = "unknown"
)

// Well-known error codes set by this layer (the backend may supply others).
const (
	CodeNetwork         = "NETWORK_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeTokenMalformed  = "TOKEN_MALFORMED"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeFileType        = "INVALID_FILE_TYPE"
)

// Fixed messages for the statuses the admin UI treats specially.
const (
	MsgUnauthorized = "Unauthorized. Please log in as admin."
	MsgForbidden    = "Access denied. Admin privileges required."
	MsgInvalidData  = "Invalid data provided. Please check all fields."
	MsgServerError  = "Server error. Please try again later."
	MsgNotFound     = "Resource not found."
)

// APIError is the normalized shape of any failed backend interaction.
type APIError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Err     error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s error (HTTP %d): %s", e.Kind, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// MessageForStatus returns the fixed human-readable message for a status code,
// or "" when the status has no fixed message.
func MessageForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return MsgUnauthorized
	case http.StatusForbidden:
		return MsgForbidden
	case http.StatusUnprocessableEntity:
		return MsgInvalidData
	case http.StatusInternalServerError:
		return MsgServerError
	case http.StatusNotFound:
		return MsgNotFound
	}
	return ""
}

// KindForStatus maps an HTTP status onto the taxonomy.
func KindForStatus(status int) Kind {
	switch {
	case status == 0:
		return KindNetwork
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return KindValidation
	case status >= 500:
		return KindServer
	}
	return KindUnknown
}

// FromStatus builds an APIError for a non-2xx response. bodyMessage is the
// message the backend sent, if any; it is used only when the status has no fixed message.
func FromStatus(status int, bodyMessage, code string) *APIError {
	msg := MessageForStatus(status)
	if msg == "" {
		msg = bodyMessage
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}
	return &APIError{Kind: KindForStatus(status), Message: msg, Status: status, Code: code}
}

// Network wraps a transport failure (no response received).
func Network(err error) *APIError {
	msg := "Network error. Please check your internet connection and try again."
	if err != nil {
		msg = err.Error()
	}
	return &APIError{Kind: KindNetwork, Message: msg, Status: 0, Code: CodeNetwork, Err: err}
}

// Validation builds a local validation error.
func Validation(code, message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, Code: code}
}

// Auth builds a locally detected authentication error.
func Auth(code, message string) *APIError {
	return &APIError{Kind: KindAuth, Message: message, Code: code}
}

// As extracts an *APIError from err.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Kind == kind
}

// Message returns the user-facing message for err, falling back to fallback.
func Message(err error, fallback string) string {
	if apiErr, ok := As(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
