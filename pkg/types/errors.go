package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents an XPath engine error code.
type ErrorCode string

// Error codes, grouped by the stage that raises them.
const (
	// S0xxx: Lexical and syntax errors
	ErrStringNotClosed   ErrorCode = "S0101"
	ErrUnexpectedChar    ErrorCode = "S0105"
	ErrSyntaxError       ErrorCode = "S0201"
	ErrExpectedToken     ErrorCode = "S0202"
	ErrUnknownAxis       ErrorCode = "S0203"
	ErrExpressionTooDeep ErrorCode = "S0204"

	// T0xxx: Type errors
	ErrArgumentCountMismatch ErrorCode = "T0410"
	ErrNodesetExpected       ErrorCode = "T2001"

	// D0xxx: Evaluation errors
	ErrStackOverflow ErrorCode = "D3020"

	// U0xxx: Runtime errors
	ErrUndefinedVariable ErrorCode = "U1001"
	ErrUndefinedFunction ErrorCode = "U1002"
)

// Error represents a structured XPath error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new XPath error. Use -1 as position when the error is
// not tied to a location in the source expression.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// IsCode reports whether err, or any error it wraps, is an *Error with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var xerr *Error
	if !errors.As(err, &xerr) {
		return false
	}
	if xerr.Code == code {
		return true
	}
	if xerr.Err != nil {
		return IsCode(xerr.Err, code)
	}
	return false
}
