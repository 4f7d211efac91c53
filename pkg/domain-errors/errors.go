// Package derrors defines the domain error vocabulary shared by services and
// the HTTP layer. Services return these errors; the transport layer translates
// them into status codes and JSON envelopes without inspecting error strings.
package derrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error. Values double as the wire-level error code.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeInternal     Code = "internal_error"
	CodeUnavailable  Code = "unavailable"
)

// DomainError carries a code plus a human-readable description.
type DomainError struct {
	Code        Code
	Description string
	wrapped     error
}

func (e *DomainError) Error() string {
	if e.Description == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *DomainError) Unwrap() error { return e.wrapped }

// New creates a domain error with the given code and description.
func New(code Code, description string) error {
	return &DomainError{Code: code, Description: description}
}

// Wrap attaches a domain code to an underlying error, preserving the chain.
func Wrap(code Code, description string, err error) error {
	return &DomainError{Code: code, Description: description, wrapped: err}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the domain code from err, defaulting to CodeInternal so
// unclassified failures never leak details to clients.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// DescriptionOf returns the description attached to err, if any.
func DescriptionOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Description
	}
	return ""
}

// ToHTTPStatus maps a domain code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
