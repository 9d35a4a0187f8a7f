package digo

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ServiceDescription is a read-only view of one binding.
type ServiceDescription struct {
	Type         Type
	Scope        Scope
	Dependencies []ServiceDependency
	Conditional  bool
	Initialized  bool
}

// Describe lists every binding ordered by type name, then registration order.
func Describe() []ServiceDescription {
	graph := GetContainer().graph()

	var out []ServiceDescription
	for _, t := range graph.types {
		for _, binding := range graph.bindings[t] {
			out = append(out, ServiceDescription{
				Type:         t,
				Scope:        binding.scope,
				Dependencies: binding.dependencies(),
				Conditional:  binding.predicate != nil,
				Initialized:  binding.initialized.Load(),
			})
		}
	}
	return out
}

// WriteGraph renders the bindings and their declared dependencies as a tree,
// annotating each dependency with whether the current bindings satisfy it.
// Colors follow color.NoColor.
func WriteGraph(w io.Writer) error {
	var (
		service = color.New(color.FgCyan, color.Bold)
		scope   = color.New(color.FgBlue)
		ok      = color.New(color.FgGreen)
		bad     = color.New(color.FgRed)
		counts  = make(map[Type]int)
	)

	descriptions := Describe()
	for _, d := range descriptions {
		counts[d.Type]++
	}

	var b strings.Builder
	for _, d := range descriptions {
		b.WriteString(service.Sprint(d.Type.String()))
		b.WriteString(" ")
		b.WriteString(scope.Sprintf("[%s]", d.Scope))
		if d.Conditional {
			b.WriteString(" conditional")
		}
		b.WriteString("\n")

		for i, dep := range d.Dependencies {
			branch := "├──"
			if i == len(d.Dependencies)-1 {
				branch = "└──"
			}
			n := counts[dep.InjectedType()]
			fmt.Fprintf(&b, "  %s %s %s (%s)", branch, dep.InjectedType(), dep.Cardinality().Notation(), pluralBindings(n))
			if err := CheckCardinality(dep, n); err != nil {
				b.WriteString(" " + bad.Sprint(dependencyStatus(err)))
			} else {
				b.WriteString(" " + ok.Sprint("ok"))
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func pluralBindings(n int) string {
	if n == 1 {
		return "1 binding"
	}
	return fmt.Sprintf("%d bindings", n)
}

func dependencyStatus(err error) string {
	var (
		missing   *MissingDependencyError
		ambiguous *AmbiguousDependencyError
	)
	switch {
	case errors.As(err, &missing):
		return "missing"
	case errors.As(err, &ambiguous):
		return "ambiguous"
	default:
		return "invalid"
	}
}
