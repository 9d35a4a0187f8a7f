package digo

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// bindingDefinition represents one provider registered for a service type.
// concrete and predicate are fixed at bind time; instance is the booted
// value handed out by request and singleton bindings.
type bindingDefinition struct {
	scope       Scope
	concrete    Lifecycle
	abstract    Type
	ctx         *ContainerContext
	predicate   ContextPredicate
	mu          sync.Mutex
	instance    Lifecycle
	initialized atomic.Bool
}

// resolutionState is the chain of types being resolved on one goroutine.
// stack keeps them in resolution order for error paths.
type resolutionState struct {
	chain map[Type]bool
	mu    sync.Mutex
	stack []Type
}

// container manages service bindings and their lifecycle.
// A type may have any number of bindings; resolution applies the cardinality
// of the requested dependency to that number.
type container struct {
	bindings        map[Type][]*bindingDefinition
	ctx             *ContainerContext
	mu              sync.RWMutex
	resolutionState sync.Map
	resolutionMu    sync.RWMutex
	statePool       sync.Pool
	goidCache       sync.Map
	logger          atomic.Pointer[zap.Logger]
}

var (
	once             sync.Once
	defaultContainer *container
	typeStringCache  sync.Map
)

// GetContainer returns the singleton container instance.
// The container is initialized on first access with default configuration.
func GetContainer() *container {
	once.Do(func() {
		defaultContainer = &container{
			bindings: make(map[Type][]*bindingDefinition, 32),
			ctx:      NewContainerContext(context.Background()),
			statePool: sync.Pool{
				New: func() interface{} {
					return &resolutionState{
						chain: make(map[Type]bool, 8),
						stack: make([]Type, 0, 8),
					}
				},
			},
		}
		defaultContainer.logger.Store(zap.NewNop())
	})
	return defaultContainer
}

// SetLogger replaces the container logger. A nil logger disables logging.
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	GetContainer().logger.Store(logger)
}

func (c *container) log() *zap.Logger {
	return c.logger.Load()
}

// Boot initializes every singleton and request scoped binding that is not yet initialized.
// All failures are reported, each wrapped in a BootError.
func Boot() error {
	c := GetContainer()
	var bootErr error

	for _, binding := range c.snapshot() {
		if binding.scope == ScopeTransient || binding.initialized.Load() {
			continue
		}
		if err := c.boot(binding); err != nil {
			bootErr = multierr.Append(bootErr, &BootError{Type: binding.abstract.String(), Err: err})
			continue
		}
		c.log().Debug("booted service",
			zap.Stringer("type", binding.abstract),
			zap.String("scope", string(binding.scope)))
	}

	return bootErr
}

// boot activates a single binding on the resolution chain, so an OnBoot that
// resolves back into its own type fails instead of blocking on the binding.
func (c *container) boot(binding *bindingDefinition) error {
	if err := c.startResolving(binding.abstract); err != nil {
		return err
	}
	defer c.finishResolving(binding.abstract)

	_, err := binding.activate()
	return err
}

// Shutdown gracefully shuts down services in the container.
// If clearSingletons is true, it also removes singleton bindings from the container.
// Non-singleton bindings are always removed. Every shutdown failure is reported.
func Shutdown(clearSingletons bool) error {
	c := GetContainer()
	var shutdownErr error

	for _, binding := range c.snapshot() {
		if binding.scope == ScopeSingleton && !clearSingletons {
			continue
		}
		shutdownErr = multierr.Append(shutdownErr, binding.shutdown())
	}

	c.mu.Lock()
	if clearSingletons {
		c.bindings = make(map[Type][]*bindingDefinition)
	} else {
		for t, list := range c.bindings {
			kept := list[:0]
			for _, binding := range list {
				if binding.scope == ScopeSingleton {
					kept = append(kept, binding)
				}
			}
			if len(kept) == 0 {
				delete(c.bindings, t)
			} else {
				c.bindings[t] = kept
			}
		}
	}
	c.mu.Unlock()

	if clearSingletons {
		c.resolutionMu.Lock()
		c.resolutionState = sync.Map{}
		c.resolutionMu.Unlock()
	}

	c.log().Debug("container shut down", zap.Bool("clear_singletons", clearSingletons), zap.Error(shutdownErr))
	return shutdownErr
}

// BindTransient registers a transient provider for T.
// An instance binding is booted again on every resolution; a predicate binding
// produces a new instance on every resolution.
// Returns NilServiceError if the service is nil.
func BindTransient[T Lifecycle](service T, ctx *ContainerContext, predicate ...ContextPredicate) error {
	return GetContainer().bind(service, TypeOf[T](), ScopeTransient, ctx, predicate...)
}

// BindRequest registers a request scoped provider for T.
// The binding context must carry a request ID when the service is resolved.
// Returns NilServiceError if the service is nil.
func BindRequest[T Lifecycle](service T, ctx *ContainerContext, predicate ...ContextPredicate) error {
	return GetContainer().bind(service, TypeOf[T](), ScopeRequest, ctx, predicate...)
}

// BindSingleton registers a singleton provider for T.
// Service instance is shared across the entire application.
// Returns NilServiceError if the service is nil.
func BindSingleton[T Lifecycle](service T, ctx ...*ContainerContext) error {
	var bindingCtx *ContainerContext
	if len(ctx) > 0 && ctx[0] != nil {
		bindingCtx = ctx[0]
	}
	return GetContainer().bind(service, TypeOf[T](), ScopeSingleton, bindingCtx)
}

// Unbind removes every provider registered for T, shutting down those that were initialized.
// It returns the number of providers removed.
func Unbind[T Lifecycle]() (int, error) {
	c := GetContainer()
	t := TypeOf[T]()

	c.mu.Lock()
	removed := c.bindings[t]
	delete(c.bindings, t)
	c.mu.Unlock()

	var err error
	for _, binding := range removed {
		err = multierr.Append(err, binding.shutdown())
	}
	c.log().Debug("unbound service", zap.Stringer("type", t), zap.Int("count", len(removed)))
	return len(removed), err
}

// Count returns the number of providers registered for t.
func Count(t Type) int {
	c := GetContainer()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bindings[t])
}

// Contains reports whether at least one provider is registered for T.
func Contains[T Lifecycle]() bool {
	return Count(TypeOf[T]()) > 0
}

// Reset clears all container state.
// This function is intended for testing purposes only.
// It removes all bindings without shutting them down.
func Reset() {
	c := GetContainer()
	c.mu.Lock()
	c.resolutionMu.Lock()

	c.bindings = make(map[Type][]*bindingDefinition)
	c.resolutionState = sync.Map{}

	c.resolutionMu.Unlock()
	c.mu.Unlock()
}

func (c *container) bind(service Lifecycle, serviceType Type, scope Scope, ctx *ContainerContext, predicate ...ContextPredicate) error {
	if service == nil || isNilPointer(service) {
		return &NilServiceError{Type: serviceType.String()}
	}

	bindingCtx := ctx
	if bindingCtx == nil {
		bindingCtx = c.ctx
	}
	bindingCtx = bindingCtx.MergeWith(c.ctx)

	var pred ContextPredicate
	if len(predicate) > 0 {
		pred = predicate[0]
	}

	c.mu.Lock()
	c.bindings[serviceType] = append(c.bindings[serviceType], &bindingDefinition{
		scope:     scope,
		concrete:  service,
		abstract:  serviceType,
		ctx:       bindingCtx,
		predicate: pred,
	})
	count := len(c.bindings[serviceType])
	c.mu.Unlock()

	c.log().Debug("bound service",
		zap.Stringer("type", serviceType),
		zap.String("scope", string(scope)),
		zap.Bool("conditional", pred != nil),
		zap.Int("count", count))
	return nil
}

// snapshot returns every binding in the container ordered by type name, then
// registration order. Callers must not hold c.mu, since activating a binding
// may resolve other services.
func (c *container) snapshot() []*bindingDefinition {
	c.mu.RLock()
	types := make([]Type, 0, len(c.bindings))
	for t := range c.bindings {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].String() < types[j].String()
	})

	all := make([]*bindingDefinition, 0, len(c.bindings))
	for _, t := range types {
		all = append(all, c.bindings[t]...)
	}
	c.mu.RUnlock()
	return all
}

func isNilPointer(service Lifecycle) bool {
	v := reflect.ValueOf(service)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// activate returns a booted instance according to the binding scope.
func (b *bindingDefinition) activate() (Lifecycle, error) {
	switch b.scope {
	case ScopeTransient:
		return b.activateTransient()
	case ScopeRequest:
		if _, ok := b.ctx.RequestID(); !ok {
			return nil, &MissingContextValueError{Key: RequestIDKey}
		}
		return b.activateShared()
	case ScopeSingleton:
		return b.activateShared()
	default:
		return nil, &InvalidScopeError{Type: b.abstract.String(), Scope: string(b.scope)}
	}
}

func (b *bindingDefinition) activateTransient() (Lifecycle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.predicate != nil {
		result, err := b.evaluate()
		if err != nil {
			return nil, err
		}
		if err := result.OnBoot(b.ctx); err != nil {
			return nil, &InitializationError{Type: b.abstract.String(), Err: err}
		}
		return result, nil
	}

	// Instance bindings are shut down before they are reused.
	if b.initialized.Load() {
		if err := b.concrete.OnShutdown(b.ctx); err != nil {
			return nil, &ShutdownError{Type: b.abstract.String(), Err: err}
		}
		b.initialized.Store(false)
	}
	if err := b.concrete.OnBoot(b.ctx); err != nil {
		return nil, &InitializationError{Type: b.abstract.String(), Err: err}
	}
	b.instance = b.concrete
	b.initialized.Store(true)
	return b.concrete, nil
}

func (b *bindingDefinition) activateShared() (Lifecycle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized.Load() {
		return b.instance, nil
	}

	instance := b.concrete
	if b.predicate != nil {
		result, err := b.evaluate()
		if err != nil {
			return nil, err
		}
		instance = result
	}
	if err := instance.OnBoot(b.ctx); err != nil {
		return nil, &InitializationError{Type: b.abstract.String(), Err: err}
	}
	b.instance = instance
	b.initialized.Store(true)
	return instance, nil
}

func (b *bindingDefinition) evaluate() (Lifecycle, error) {
	result, err := b.predicate(b.ctx)
	if err != nil {
		return nil, &PredicateError{Type: b.abstract.String(), Err: err}
	}
	if result == nil || isNilPointer(result) {
		return nil, &PredicateError{Type: b.abstract.String(), Err: errors.New("predicate returned nil service")}
	}
	if !reflect.TypeOf(result).AssignableTo(b.abstract.Reflect()) {
		return nil, &PredicateError{Type: b.abstract.String(), Err: errors.New("predicate returned invalid type")}
	}
	return result, nil
}

func (b *bindingDefinition) shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized.Load() {
		return nil
	}
	b.initialized.Store(false)
	instance := b.instance
	b.instance = nil
	if err := instance.OnShutdown(b.ctx); err != nil {
		return &ShutdownError{Type: reflect.TypeOf(instance).String(), Err: err}
	}
	return nil
}

// dependencies returns what the bound service declares it needs, if anything.
func (b *bindingDefinition) dependencies() []ServiceDependency {
	if d, ok := b.concrete.(Dependent); ok {
		return d.Dependencies()
	}
	return nil
}

func (c *container) getResolutionState() *resolutionState {
	id := c.getGoroutineID()

	c.resolutionMu.RLock()
	state, ok := c.resolutionState.Load(id)
	c.resolutionMu.RUnlock()
	if ok {
		return state.(*resolutionState)
	}

	c.resolutionMu.Lock()
	defer c.resolutionMu.Unlock()

	if state, ok := c.resolutionState.Load(id); ok {
		return state.(*resolutionState)
	}

	state = c.statePool.Get()
	c.resolutionState.Store(id, state)
	return state.(*resolutionState)
}

func (c *container) startResolving(t Type) error {
	state := c.getResolutionState()
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.chain[t] {
		return &CircularDependencyError{Type: t.String(), Path: state.path(t)}
	}
	state.chain[t] = true
	state.stack = append(state.stack, t)
	return nil
}

// path returns the chain from the first resolution of t back to t.
func (s *resolutionState) path(t Type) []string {
	var path []string
	for i, seen := range s.stack {
		if seen == t {
			for _, step := range s.stack[i:] {
				path = append(path, step.String())
			}
			break
		}
	}
	return append(path, t.String())
}

func (c *container) finishResolving(t Type) {
	state := c.getResolutionState()
	state.mu.Lock()
	delete(state.chain, t)
	if n := len(state.stack); n > 0 && state.stack[n-1] == t {
		state.stack = state.stack[:n-1]
	}
	isEmpty := len(state.chain) == 0
	state.mu.Unlock()

	if isEmpty {
		c.resolutionMu.Lock()
		id := c.getGoroutineID()
		if s, ok := c.resolutionState.Load(id); ok {
			c.resolutionState.Delete(id)
			rs := s.(*resolutionState)
			for _, t := range rs.stack {
				delete(rs.chain, t)
			}
			rs.stack = rs.stack[:0]
			c.statePool.Put(rs)
		}
		c.resolutionMu.Unlock()
	}
}

func (c *container) getGoroutineID() string {
	id := goid()
	if cached, ok := c.goidCache.Load(id); ok {
		return cached.(string)
	}
	strID := strconv.FormatInt(id, 10)
	c.goidCache.Store(id, strID)
	return strID
}
