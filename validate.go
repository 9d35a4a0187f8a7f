package digo

import (
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Validate checks the dependencies declared by every bound Dependent service
// against the current bindings, without activating anything.
// It reports, as one combined error:
//   - dependencies whose binding count violates their cardinality
//   - singletons depending on request scoped bindings
//   - cycles between declared dependencies
//
// Use multierr.Errors to inspect the individual failures.
func Validate() error {
	c := GetContainer()
	graph := c.graph()

	var errs error
	for _, t := range graph.types {
		for _, binding := range graph.bindings[t] {
			for _, dep := range binding.dependencies() {
				providers := graph.bindings[dep.InjectedType()]
				if err := CheckCardinality(dep, len(providers)); err != nil {
					errs = multierr.Append(errs, &ValidationError{Service: t, Dependency: dep, Err: err})
					continue
				}
				if binding.scope != ScopeSingleton {
					continue
				}
				for _, provider := range providers {
					if provider.scope == ScopeRequest {
						errs = multierr.Append(errs, &ValidationError{
							Service:    t,
							Dependency: dep,
							Err:        &InvalidScopeError{Type: dep.InjectedType().String(), Scope: string(provider.scope)},
						})
						break
					}
				}
			}
		}
	}

	errs = multierr.Append(errs, graph.cycles())
	if errs != nil {
		c.log().Warn("container validation failed", zap.Int("errors", len(multierr.Errors(errs))))
	}
	return errs
}

// dependencyGraph is a point in time copy of the bindings, ordered by type name.
type dependencyGraph struct {
	types    []Type
	bindings map[Type][]*bindingDefinition
}

func (c *container) graph() *dependencyGraph {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g := &dependencyGraph{
		types:    make([]Type, 0, len(c.bindings)),
		bindings: make(map[Type][]*bindingDefinition, len(c.bindings)),
	}
	for t, list := range c.bindings {
		g.types = append(g.types, t)
		g.bindings[t] = append([]*bindingDefinition(nil), list...)
	}
	sort.Slice(g.types, func(i, j int) bool {
		return g.types[i].String() < g.types[j].String()
	})
	return g
}

// edges returns the distinct bound types t declares a dependency on.
func (g *dependencyGraph) edges(t Type) []Type {
	seen := make(map[Type]bool)
	var out []Type
	for _, binding := range g.bindings[t] {
		for _, dep := range binding.dependencies() {
			target := dep.InjectedType()
			if seen[target] || len(g.bindings[target]) == 0 {
				continue
			}
			seen[target] = true
			out = append(out, target)
		}
	}
	return out
}

// cycles runs a depth first search over declared dependencies and reports
// each cycle once, starting from the node where it was entered.
func (g *dependencyGraph) cycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[Type]int, len(g.types))
	var path []Type
	var errs error

	var visit func(t Type)
	visit = func(t Type) {
		state[t] = visiting
		path = append(path, t)
		for _, next := range g.edges(t) {
			switch state[next] {
			case unvisited:
				visit(next)
			case visiting:
				errs = multierr.Append(errs, cycleError(path, next))
			}
		}
		path = path[:len(path)-1]
		state[t] = done
	}

	for _, t := range g.types {
		if state[t] == unvisited {
			visit(t)
		}
	}
	return errs
}

func cycleError(path []Type, target Type) *CircularDependencyError {
	start := 0
	for i, t := range path {
		if t == target {
			start = i
			break
		}
	}
	names := make([]string, 0, len(path)-start+1)
	for _, t := range path[start:] {
		names = append(names, t.String())
	}
	names = append(names, target.String())
	return &CircularDependencyError{Type: target.String(), Path: names}
}
