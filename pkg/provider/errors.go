package provider

import (
	"errors"
	"fmt"
)

// ErrNoEligibleProvider is returned by the factory when no implementation is
// registered for the requested provider identifier.
var ErrNoEligibleProvider = errors.New("provider: no eligible provider found")

// Error is the uniform failure wrapper for provider operations. Client-level
// transport and content errors never escape a provider implementation raw;
// they are wrapped here together with the inputs of the failed operation so
// the importer can log actionable context.
type Error struct {
	Provider Name
	Op       string
	Context  string
	Err      error
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s provider: %s (%s): %v", e.Provider, e.Op, e.Context, e.Err)
	}
	return fmt.Sprintf("%s provider: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a provider Error with formatted input context.
func NewError(name Name, op string, err error, contextFormat string, args ...any) *Error {
	return &Error{
		Provider: name,
		Op:       op,
		Context:  fmt.Sprintf(contextFormat, args...),
		Err:      err,
	}
}

// DataValidationError indicates a response batch failed schema validation.
// Validation is all-or-nothing: one malformed record rejects the whole batch.
type DataValidationError struct {
	Resource string
	Err      error
}

func (e *DataValidationError) Error() string {
	return fmt.Sprintf("provider: %s response data is not valid: %v", e.Resource, e.Err)
}

func (e *DataValidationError) Unwrap() error { return e.Err }

// UnsupportedCategoryError indicates a capability restriction: the operation
// is not offered for the requested trading category. It is raised before any
// network call.
type UnsupportedCategoryError struct {
	Provider Name
	Op       string
	Category TradingCategory
}

func (e *UnsupportedCategoryError) Error() string {
	return fmt.Sprintf("%s provider: %s does not support trading category %q", e.Provider, e.Op, e.Category)
}
