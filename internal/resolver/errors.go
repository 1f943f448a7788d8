package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for error type checking
var (
	// ErrCircularReference indicates a chain of var() references loops back on itself
	ErrCircularReference = errors.New("circular reference detected")

	// ErrMissingVariable indicates a var() reference names a variable absent from the table
	ErrMissingVariable = errors.New("missing variable")

	// ErrTableSealed indicates a write to a table that has already been resolved
	ErrTableSealed = errors.New("variable table already resolved")
)

// CircularReferenceError represents a reference chain that revisits a name
type CircularReferenceError struct {
	// Name is the variable that was requested while already being resolved
	Name string
	// Chain is the resolution path from Name back to Name
	Chain []string
}

func (e *CircularReferenceError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("circular reference detected at %s", e.Name)
	}
	return fmt.Sprintf("circular reference detected at %s: %s\nSuggestion: Break the circular dependency chain",
		e.Name, strings.Join(e.Chain, " → "))
}

func (e *CircularReferenceError) Unwrap() error {
	return ErrCircularReference
}

// NewCircularReferenceError creates a new circular reference error
func NewCircularReferenceError(name string, chain []string) error {
	return &CircularReferenceError{Name: name, Chain: chain}
}

// MissingVariableError represents a var() reference without a definition or fallback
type MissingVariableError struct {
	// Name is the referenced variable that does not exist
	Name string
	// Referrer is the variable whose value holds the reference
	Referrer string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("variable %s references undefined variable %s\nSuggestion: Declare %s under :root or add a var() fallback",
		e.Referrer, e.Name, e.Name)
}

func (e *MissingVariableError) Unwrap() error {
	return ErrMissingVariable
}

// NewMissingVariableError creates a new missing variable error
func NewMissingVariableError(name, referrer string) error {
	return &MissingVariableError{Name: name, Referrer: referrer}
}
