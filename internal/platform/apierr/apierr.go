package apierr

import (
	"fmt"
	"net/http"
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

// External marks a failure of an outside collaborator (search or text
// generation): unreachable, non-success status, or timeout.
func External(code string, err error) *Error {
	return &Error{Status: http.StatusBadGateway, Code: code, Err: err}
}

// Validation marks a collaborator response missing required structured
// fields. The operation does not proceed with partial data.
func Validation(code string, err error) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: code, Err: err}
}

// Business marks a rule violation rejected before any external call.
func Business(code string, err error) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Err: err}
}
