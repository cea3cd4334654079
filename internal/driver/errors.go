package driver

import (
	"errors"
	"fmt"
)

// Common driver errors
var (
	ErrNotFound  = errors.New("no element matches selector")
	ErrAmbiguous = errors.New("more than one element matches selector")
	ErrClosed    = errors.New("browser session is closed")
	ErrStale     = errors.New("element is no longer attached to the page")
)

// Op names the driver command that failed.
type Op string

const (
	OpOpen     Op = "open"
	OpNavigate Op = "navigate"
	OpQuery    Op = "query"
	OpText     Op = "text"
	OpClick    Op = "click"
	OpVisible  Op = "visible"
	OpClose    Op = "close"
)

// Error records a failed driver command.
type Error struct {
	Op       Op
	Selector string
	URL      string
	Err      error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Selector != "":
		return fmt.Sprintf("%s %q: %v", e.Op, e.Selector, e.Err)
	case e.URL != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err as a failure of op.
func NewError(op Op, selector string, err error) *Error {
	return &Error{Op: op, Selector: selector, Err: err}
}

// NotFound returns the error QueryOne implementations report for no match.
func NotFound(selector string) *Error {
	return NewError(OpQuery, selector, ErrNotFound)
}
