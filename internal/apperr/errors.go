package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure surfaced to API callers.
type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeInvalidSelections Code = "INVALID_SELECTIONS"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidBank       Code = "INVALID_BANK_ACCOUNT"
	CodeInvalidState      Code = "INVALID_STATE_TRANSITION"
	CodeNotCancellable    Code = "NOT_CANCELLABLE"
	CodeAlreadySettled    Code = "ALREADY_SETTLED"
	CodeAlreadyProcessed  Code = "ALREADY_PROCESSED"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeUpstream          Code = "UPSTREAM_FAILURE"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// parents lists the broader class a refined code also belongs to.
var parents = map[Code]Code{
	CodeInvalidSelections: CodeValidation,
	CodeInvalidBank:       CodeValidation,
	CodeNotCancellable:    CodeInvalidState,
	CodeAlreadySettled:    CodeInvalidState,
	CodeAlreadyProcessed:  CodeInvalidState,
}

// Error is the error type returned by services for every expected failure.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given code.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and caller-safe message to an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(CodeValidation, format, args...)
}

func InvalidSelections(format string, args ...interface{}) *Error {
	return New(CodeInvalidSelections, format, args...)
}

func InsufficientFunds() *Error {
	return New(CodeInsufficientFunds, "Insufficient wallet balance")
}

func NotFound(what string) *Error {
	return New(CodeNotFound, "%s not found", what)
}

func Internal(message string, err error) *Error {
	return Wrap(CodeInternal, message, err)
}

// Is reports whether err carries code, either directly or through a refined code.
func Is(err error, code Code) bool {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return false
	}
	for c := appErr.Code; c != ""; c = parents[c] {
		if c == code {
			return true
		}
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus maps a code to the status the API responds with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidSelections, CodeInvalidBank, CodeInsufficientFunds:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidState, CodeNotCancellable, CodeAlreadySettled, CodeAlreadyProcessed:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a caller. Internal errors
// never leak their cause.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Code != CodeInternal {
		return appErr.Message
	}
	return "Something went wrong, please try again"
}
