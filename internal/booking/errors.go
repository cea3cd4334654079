package booking

import (
	"errors"
	"fmt"
)

// Search-button resolution errors. Both mean the visible-button heuristic no
// longer matches the page, usually after a redesign.
var (
	ErrNoButtonFound          = errors.New("no search button found")
	ErrMoreThanOneButtonFound = errors.New("more than one search button found")
)

// Kind classifies extraction failures.
type Kind string

const (
	KindSession      Kind = "SESSION"
	KindNavigate     Kind = "NAVIGATE"
	KindSearchButton Kind = "SEARCH_BUTTON"
	KindQuery        Kind = "QUERY"
	KindClick        Kind = "CLICK"
	KindText         Kind = "TEXT"
)

// Error is the failure of one extraction step.
type Error struct {
	Kind Kind
	// Step describes what was being extracted, e.g. "room title".
	Step string
	// Card is the zero-based index of the room card, or -1 outside card extraction.
	Card int
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Card >= 0 {
		return fmt.Sprintf("%s: %s (card %d): %v", e.Kind, e.Step, e.Card, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Step, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindClick}) works.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func newError(kind Kind, step string, err error) *Error {
	return &Error{Kind: kind, Step: step, Card: -1, Err: err}
}

func cardError(kind Kind, step string, card int, err error) *Error {
	return &Error{Kind: kind, Step: step, Card: card, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
