// Package sql defines the value model, document shape, and execution
// context shared by every stage of the query pipeline.
package sql

import (
	"fmt"

	"gopkg.in/src-d/go-errors.v1"
)

// Kind identifies which error category an error belongs to.
type Kind string

const (
	KindParse    Kind = "ParseError"
	KindPlan     Kind = "PlanError"
	KindStore    Kind = "StoreError"
	KindType     Kind = "TypeError"
	KindNotFound Kind = "NotFound"
)

// Error kinds: ParseError, PlanError, StoreError, TypeError, NotFound.
// Built with go-errors.v1's errors.NewKind.
var (
	// ErrParse is returned when the grammar fails to recognize a statement.
	// The %d is the source offset at which scanning/parsing gave up.
	ErrParse = errors.NewKind("parse error at offset %d: %s")
	// ErrPlan is returned for unresolved aliases/columns, unsupported OR
	// across aliases, or mixing aggregated and non-aggregated columns.
	ErrPlan = errors.NewKind("plan error: %s")
	// ErrStore is returned when the external document store fails.
	ErrStore = errors.NewKind("store error: %s")
	// ErrType is returned when a literal's type is incompatible with the
	// operator applying it (e.g. array_contains_any against a scalar).
	ErrType = errors.NewKind("type error: %s")
	// ErrNotFound is returned when a docid-qualified lookup misses.
	ErrNotFound = errors.NewKind("not found: %s")
)

// WireError is the structured error shape callers see: kind plus message,
// with an optional source offset carried for parse errors.
type WireError struct {
	Kind    Kind
	Message string
	Offset  int
	cause   error
}

func (e *WireError) Error() string {
	if e.Kind == KindParse {
		return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *WireError) Unwrap() error { return e.cause }

// AsWireError classifies an error produced by one of the ErrXxx kinds above
// into the wire shape above. Errors not produced by this package are
// wrapped as a generic StoreError, since every blocking call able to fail
// outside these kinds is a store call.
func AsWireError(err error) *WireError {
	if err == nil {
		return nil
	}
	if we, ok := err.(*WireError); ok {
		return we
	}
	kind := KindStore
	switch {
	case ErrParse.Is(err):
		kind = KindParse
	case ErrPlan.Is(err):
		kind = KindPlan
	case ErrType.Is(err):
		kind = KindType
	case ErrNotFound.Is(err):
		kind = KindNotFound
	case ErrStore.Is(err):
		kind = KindStore
	}
	return &WireError{Kind: kind, Message: err.Error(), cause: err}
}

// NewParseError builds a ParseError carrying the source offset at which the
// grammar gave up.
func NewParseError(offset int, msg string) error {
	return &WireError{Kind: KindParse, Message: msg, Offset: offset, cause: ErrParse.New(offset, msg)}
}
