package digo

import (
	"reflect"

	"go.uber.org/zap"
)

// CheckCardinality reports whether count providers satisfy dep.
//
//	ZeroOrOne:  0 or 1, more is ambiguous
//	ExactlyOne: 1, none is missing, more is ambiguous
//	ZeroOrMore: any count
func CheckCardinality(dep ServiceDependency, count int) error {
	switch dep.Cardinality() {
	case ZeroOrOne:
		if count > 1 {
			return &AmbiguousDependencyError{Dependency: dep, Count: count}
		}
	case ExactlyOne:
		if count == 0 {
			return &MissingDependencyError{Dependency: dep}
		}
		if count > 1 {
			return &AmbiguousDependencyError{Dependency: dep, Count: count}
		}
	case ZeroOrMore:
	default:
		return &InvalidCardinalityError{Dependency: dep}
	}
	return nil
}

// ResolveDependency returns the booted providers satisfying dep, in registration order.
// The cardinality is checked against the number of bindings before any of them is activated.
func ResolveDependency(dep ServiceDependency) ([]Lifecycle, error) {
	return GetContainer().resolve(dep)
}

// Resolve returns the single provider of T.
// Returns MissingDependencyError when T is not bound and AmbiguousDependencyError
// when it is bound more than once.
func Resolve[T Lifecycle]() (T, error) {
	var zero T
	instances, err := ResolveDependency(DependencyOn[T](ExactlyOne))
	if err != nil {
		return zero, err
	}
	return cast[T](instances[0])
}

// ResolveOptional returns the provider of T if there is one.
// The boolean is false when T is not bound. Returns AmbiguousDependencyError
// when T is bound more than once.
func ResolveOptional[T Lifecycle]() (T, bool, error) {
	var zero T
	instances, err := ResolveDependency(DependencyOn[T](ZeroOrOne))
	if err != nil || len(instances) == 0 {
		return zero, false, err
	}
	typed, err := cast[T](instances[0])
	if err != nil {
		return zero, false, err
	}
	return typed, true, nil
}

// ResolveAll returns every provider of T in registration order.
// The result is empty, not nil, when T is not bound.
func ResolveAll[T Lifecycle]() ([]T, error) {
	instances, err := ResolveDependency(DependencyOn[T](ZeroOrMore))
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(instances))
	for _, instance := range instances {
		typed, err := cast[T](instance)
		if err != nil {
			return nil, err
		}
		result = append(result, typed)
	}
	return result, nil
}

func cast[T Lifecycle](instance Lifecycle) (T, error) {
	typed, ok := instance.(T)
	if !ok {
		var zero T
		return zero, &TypeMismatchError{Expected: TypeOf[T]().String(), Got: reflect.TypeOf(instance).String()}
	}
	return typed, nil
}

func (c *container) resolve(dep ServiceDependency) ([]Lifecycle, error) {
	if err := c.startResolving(dep.InjectedType()); err != nil {
		return nil, err
	}
	defer c.finishResolving(dep.InjectedType())

	c.mu.RLock()
	candidates := append([]*bindingDefinition(nil), c.bindings[dep.InjectedType()]...)
	c.mu.RUnlock()

	if err := CheckCardinality(dep, len(candidates)); err != nil {
		c.log().Warn("dependency not satisfied",
			zap.Stringer("type", dep.InjectedType()),
			zap.Stringer("cardinality", dep.Cardinality()),
			zap.Int("count", len(candidates)),
			zap.Error(err))
		return nil, err
	}

	instances := make([]Lifecycle, 0, len(candidates))
	for _, binding := range candidates {
		instance, err := binding.activate()
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	c.log().Debug("resolved dependency",
		zap.Stringer("type", dep.InjectedType()),
		zap.Stringer("cardinality", dep.Cardinality()),
		zap.Int("count", len(instances)))
	return instances, nil
}
