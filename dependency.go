package digo

import (
	"fmt"
	"reflect"
)

// Type identifies a service contract. It is comparable and can be used as a map key.
type Type struct {
	rt reflect.Type
}

// TypeOf returns the Type of T. Interface types are kept as the interface itself.
func TypeOf[T any]() Type {
	return Type{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// TypeFor wraps an existing reflect.Type.
func TypeFor(rt reflect.Type) Type {
	return Type{rt: rt}
}

// Reflect returns the underlying reflect.Type, nil for the zero Type.
func (t Type) Reflect() reflect.Type {
	return t.rt
}

// IsZero reports whether t is the zero Type.
func (t Type) IsZero() bool {
	return t.rt == nil
}

// String returns the Go type name, or "<nil>" for the zero Type.
func (t Type) String() string {
	if t.rt == nil {
		return "<nil>"
	}
	if cached, ok := typeStringCache.Load(t.rt); ok {
		return cached.(string)
	}
	name := t.rt.String()
	typeStringCache.Store(t.rt, name)
	return name
}

// ServiceCardinality is the multiplicity of a dependency edge.
// The zero value is not a valid cardinality.
type ServiceCardinality uint8

const (
	// ZeroOrOne indicates a cardinality of zero or one (0:1).
	ZeroOrOne ServiceCardinality = iota + 1
	// ExactlyOne indicates a cardinality of exactly one (1:1).
	ExactlyOne
	// ZeroOrMore indicates a cardinality of zero or more (0:*).
	ZeroOrMore
)

// Cardinalities returns every valid cardinality in declaration order.
func Cardinalities() []ServiceCardinality {
	return []ServiceCardinality{ZeroOrOne, ExactlyOne, ZeroOrMore}
}

// Valid reports whether c is ZeroOrOne, ExactlyOne or ZeroOrMore.
func (c ServiceCardinality) Valid() bool {
	return c >= ZeroOrOne && c <= ZeroOrMore
}

// String returns the constant name of c.
func (c ServiceCardinality) String() string {
	switch c {
	case ZeroOrOne:
		return "ZeroOrOne"
	case ExactlyOne:
		return "ExactlyOne"
	case ZeroOrMore:
		return "ZeroOrMore"
	default:
		return fmt.Sprintf("ServiceCardinality(%d)", uint8(c))
	}
}

// Notation returns the short min:max form, e.g. "0:*".
func (c ServiceCardinality) Notation() string {
	switch c {
	case ZeroOrOne:
		return "0:1"
	case ExactlyOne:
		return "1:1"
	case ZeroOrMore:
		return "0:*"
	default:
		return "?:?"
	}
}

// ServiceDependency describes what a service needs from the container:
// a contract and how many providers may satisfy it.
// Values are immutable; == compares both fields.
type ServiceDependency struct {
	injectedType Type
	cardinality  ServiceCardinality
}

// NewServiceDependency creates a dependency on injectedType with the given cardinality.
func NewServiceDependency(injectedType Type, cardinality ServiceCardinality) ServiceDependency {
	return ServiceDependency{
		injectedType: injectedType,
		cardinality:  cardinality,
	}
}

// DependencyOn is shorthand for NewServiceDependency(TypeOf[T](), cardinality).
func DependencyOn[T any](cardinality ServiceCardinality) ServiceDependency {
	return NewServiceDependency(TypeOf[T](), cardinality)
}

// InjectedType returns the contract the dependency is on.
func (d ServiceDependency) InjectedType() Type {
	return d.injectedType
}

// Cardinality returns how many providers may satisfy the dependency.
func (d ServiceDependency) Cardinality() ServiceCardinality {
	return d.cardinality
}

// String renders the dependency as "<type> (<cardinality>)".
func (d ServiceDependency) String() string {
	return fmt.Sprintf("%s (%s)", d.injectedType, d.cardinality)
}
