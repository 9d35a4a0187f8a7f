// Package mock holds a Logger contract whose name collides with the one in
// the parent mock package.
package mock

import (
	"github.com/centraunit/digo"
	parent "github.com/centraunit/digo/mock"
)

type Logger interface {
	digo.Lifecycle
	Log(msg string)
}

// ForwardingLogger sends every line to the parent Logger resolved at boot.
type ForwardingLogger struct {
	target parent.Logger
}

func (f *ForwardingLogger) Dependencies() []digo.ServiceDependency {
	return []digo.ServiceDependency{digo.DependencyOn[parent.Logger](digo.ExactlyOne)}
}

func (f *ForwardingLogger) OnBoot(ctx *digo.ContainerContext) error {
	target, err := digo.Resolve[parent.Logger]()
	if err != nil {
		return err
	}
	f.target = target
	return nil
}

func (f *ForwardingLogger) OnShutdown(ctx *digo.ContainerContext) error {
	f.target = nil
	return nil
}

func (f *ForwardingLogger) Log(msg string) {
	f.target.Log("forwarded: " + msg)
}
