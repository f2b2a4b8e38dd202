package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes cover the failure taxonomy of the whole backend. Inference-server
// codes (timeout, upstream, network) are recovered per model inside the
// processor and never surface to an HTTP caller; the rest map to statuses.
const (
	CodeValidation  = "validation"
	CodeNotFound    = "not_found"
	CodeForbidden   = "forbidden"
	CodeUnauthorized = "unauthorized"
	CodeTimeout     = "timeout"
	CodeUpstream    = "upstream"
	CodeNetwork     = "network"
	CodeNoModels    = "no_models_available"
	CodePersistence = "persistence"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidation, err)
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s not found", what))
}

func Forbidden() *Error {
	return New(http.StatusForbidden, CodeForbidden, errors.New("forbidden"))
}

func Unauthorized(err error) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, err)
}

func Timeout(err error) *Error {
	return New(http.StatusGatewayTimeout, CodeTimeout, err)
}

func Upstream(err error) *Error {
	return New(http.StatusBadGateway, CodeUpstream, err)
}

func Network(err error) *Error {
	return New(http.StatusBadGateway, CodeNetwork, err)
}

func NoModels() *Error {
	return New(http.StatusConflict, CodeNoModels, errors.New("no active models available for processing"))
}

func Persistence(err error) *Error {
	return New(http.StatusInternalServerError, CodePersistence, err)
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for err, defaulting to 500 for errors
// outside the taxonomy.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the taxonomy code for err, defaulting to persistence.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return CodePersistence
}
