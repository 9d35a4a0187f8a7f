package digo

import (
	"fmt"
	"strings"
)

// CircularDependencyError represents a circular dependency detection error.
// Path lists the types from the first occurrence of Type back to Type.
type CircularDependencyError struct {
	Type string
	Path []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("circular dependency detected for type %s: %s", e.Type, strings.Join(e.Path, " -> "))
	}
	return fmt.Sprintf("circular dependency detected for type: %s", e.Type)
}

// MissingDependencyError is returned when an ExactlyOne dependency has no provider.
type MissingDependencyError struct {
	Dependency ServiceDependency
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency: no binding found for type: %s", e.Dependency.InjectedType())
}

// AmbiguousDependencyError is returned when a ZeroOrOne or ExactlyOne dependency
// has more than one provider.
type AmbiguousDependencyError struct {
	Dependency ServiceDependency
	Count      int
}

func (e *AmbiguousDependencyError) Error() string {
	return fmt.Sprintf("ambiguous dependency: %d bindings found for type %s, expected %s",
		e.Count, e.Dependency.InjectedType(), e.Dependency.Cardinality().Notation())
}

// InvalidCardinalityError is returned for a dependency whose cardinality is not one of
// ZeroOrOne, ExactlyOne or ZeroOrMore.
type InvalidCardinalityError struct {
	Dependency ServiceDependency
}

func (e *InvalidCardinalityError) Error() string {
	return fmt.Sprintf("invalid cardinality %s for type %s",
		e.Dependency.Cardinality(), e.Dependency.InjectedType())
}

// ValidationError reports a declared dependency of Service that cannot be satisfied.
type ValidationError struct {
	Service    Type
	Dependency ServiceDependency
	Err        error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("service %s: %v", e.Service, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NilServiceError represents an attempt to bind a nil service.
type NilServiceError struct {
	Type string
}

func (e *NilServiceError) Error() string {
	return fmt.Sprintf("nil service provided for type: %s", e.Type)
}

// InitializationError represents a service initialization failure.
type InitializationError struct {
	Type string
	Err  error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialization failed for type %s: %v", e.Type, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// MissingContextValueError represents a missing required context value.
type MissingContextValueError struct {
	Key string
}

func (e *MissingContextValueError) Error() string {
	return fmt.Sprintf("required context value not found: %s", e.Key)
}

// TypeMismatchError represents a type assertion failure.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}

// ShutdownError represents a service shutdown failure.
type ShutdownError struct {
	Type string
	Err  error
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("shutdown failed for type %s: %v", e.Type, e.Err)
}

func (e *ShutdownError) Unwrap() error {
	return e.Err
}

// PredicateError represents a predicate evaluation failure.
type PredicateError struct {
	Type string
	Err  error
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("predicate evaluation failed for type %s: %v", e.Type, e.Err)
}

func (e *PredicateError) Unwrap() error {
	return e.Err
}

// BootError represents a service boot failure.
type BootError struct {
	Type string
	Err  error
}

func (e *BootError) Error() string {
	return fmt.Sprintf("boot failed for type %s: %v", e.Type, e.Err)
}

func (e *BootError) Unwrap() error {
	return e.Err
}

// InvalidScopeError represents an invalid scope usage, such as a singleton
// capturing a request scoped dependency.
type InvalidScopeError struct {
	Type  string
	Scope string
}

func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("invalid scope %s for type %s", e.Scope, e.Type)
}
