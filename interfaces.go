package digo

// Package digo provides a dependency injection container whose bindings are
// resolved against declared service dependencies and their cardinalities.

// Lifecycle defines the interface for services that require initialization and cleanup.
type Lifecycle interface {
	// OnBoot is called when the service is being initialized.
	// It receives a ContainerContext for configuration access.
	OnBoot(ctx *ContainerContext) error

	// OnShutdown is called when the service is being terminated.
	// It should clean up any resources held by the service.
	OnShutdown(ctx *ContainerContext) error
}

// Dependent is implemented by services that declare what they need from the container.
// Validate and WriteGraph read these declarations; resolution itself does not require them.
type Dependent interface {
	Dependencies() []ServiceDependency
}

// ContextPredicate evaluates context conditions to produce the service instance.
// Returns a service instance and any error that occurred during evaluation.
type ContextPredicate func(ctx *ContainerContext) (Lifecycle, error)

// Scope defines the lifetime and sharing behavior of a service.
type Scope string

// Available service scopes
const (
	// ScopeTransient boots the service again on each resolution
	ScopeTransient Scope = "transient"
	// ScopeRequest shares an instance within a request context
	ScopeRequest Scope = "request"
	// ScopeSingleton shares a single instance across the application
	ScopeSingleton Scope = "singleton"
)
