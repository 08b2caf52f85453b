package action

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies action failures. Each kind maps to a fixed HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindMalformedRequest
	KindConfiguration
	KindUnauthorized
	KindNotFound
	KindUpstreamFailure
)

var kindNames = map[Kind]string{
	KindInternal:         "internal_error",
	KindMalformedRequest: "malformed_request",
	KindConfiguration:    "configuration_error",
	KindUnauthorized:     "unauthorized",
	KindNotFound:         "not_found",
	KindUpstreamFailure:  "upstream_failure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return kindNames[KindInternal]
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindMalformedRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConfiguration, KindUpstreamFailure, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Pipeline failures.
var (
	// Malformed request (400).
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidDataFormat  = errors.New("invalid data format")
	ErrMissingActionRunID = errors.New("missing actionRunId")
	ErrMissingIDList      = errors.New("missing idList")

	// Configuration (500).
	ErrSecretNotConfigured = errors.New("server configuration error")

	// Unauthorized (401).
	ErrInvalidSignature = errors.New("invalid signature")
)

// Error is the typed failure returned by the authentication pipeline.
type Error struct {
	Kind   Kind
	Locale string // locale for user-facing messages, empty until the payload is decoded
	Err    error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", e.Kind, e.Err, e.Detail)
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newError(kind Kind, locale string, err error) *Error {
	return &Error{Kind: kind, Locale: locale, Err: err}
}

// KindOf returns the Kind carried by err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var actionErr *Error
	if errors.As(err, &actionErr) {
		return actionErr.Kind
	}

	return KindInternal
}
