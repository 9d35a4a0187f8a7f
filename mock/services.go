package mock

import (
	"fmt"
	"sync"

	"github.com/centraunit/digo"
)

// Core interfaces
type Database interface {
	digo.Lifecycle
	Connect() error
	GetContextValue(key string) (interface{}, error)
}

type Cache interface {
	digo.Lifecycle
	Get(key string) interface{}
}

type Logger interface {
	digo.Lifecycle
	Log(msg string)
	Lines() []string
}

type Plugin interface {
	digo.Lifecycle
	Name() string
}

// MockLogger records every logged line.
type MockLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *MockLogger) OnBoot(ctx *digo.ContainerContext) error     { return nil }
func (l *MockLogger) OnShutdown(ctx *digo.ContainerContext) error { return nil }

func (l *MockLogger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *MockLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// MockDB needs exactly one Logger.
type MockDB struct {
	isConnected bool
	ctx         *digo.ContainerContext
	RequestID   string
}

func (m *MockDB) Connect() error {
	return nil
}

func (m *MockDB) Dependencies() []digo.ServiceDependency {
	return []digo.ServiceDependency{digo.DependencyOn[Logger](digo.ExactlyOne)}
}

func (m *MockDB) OnBoot(ctx *digo.ContainerContext) error {
	m.isConnected = true
	m.ctx = ctx

	if reqID, ok := ctx.RequestID(); ok {
		m.RequestID = reqID
	}

	return nil
}

func (m *MockDB) GetContextValue(key string) (interface{}, error) {
	if m.ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}
	return m.ctx.Value(key), nil
}

func (m *MockDB) OnShutdown(ctx *digo.ContainerContext) error {
	m.isConnected = false
	m.ctx = nil
	return nil
}

func (m *MockDB) IsConnected() bool {
	return m.isConnected
}

// MockCache resolves its Database when booted.
type MockCache struct {
	DB Database
}

func (m *MockCache) Get(key string) interface{} {
	return nil
}

func (m *MockCache) Dependencies() []digo.ServiceDependency {
	return []digo.ServiceDependency{digo.DependencyOn[Database](digo.ExactlyOne)}
}

func (m *MockCache) OnBoot(ctx *digo.ContainerContext) error {
	db, err := digo.Resolve[Database]()
	if err != nil {
		return err
	}
	m.DB = db
	return nil
}

func (m *MockCache) OnShutdown(ctx *digo.ContainerContext) error {
	return nil
}

// NamedPlugin is a Plugin identified by ID.
type NamedPlugin struct {
	ID     string
	Booted bool
}

func (p *NamedPlugin) Name() string { return p.ID }

func (p *NamedPlugin) OnBoot(ctx *digo.ContainerContext) error {
	p.Booted = true
	return nil
}

func (p *NamedPlugin) OnShutdown(ctx *digo.ContainerContext) error {
	p.Booted = false
	return nil
}

// PluginHost loads every Plugin and uses a Cache when one is bound.
type PluginHost struct {
	Plugins  []Plugin
	Cache    Cache
	HasCache bool
}

func (h *PluginHost) Dependencies() []digo.ServiceDependency {
	return []digo.ServiceDependency{
		digo.DependencyOn[Plugin](digo.ZeroOrMore),
		digo.DependencyOn[Cache](digo.ZeroOrOne),
	}
}

func (h *PluginHost) OnBoot(ctx *digo.ContainerContext) error {
	plugins, err := digo.ResolveAll[Plugin]()
	if err != nil {
		return err
	}
	cache, ok, err := digo.ResolveOptional[Cache]()
	if err != nil {
		return err
	}
	h.Plugins, h.Cache, h.HasCache = plugins, cache, ok
	return nil
}

func (h *PluginHost) OnShutdown(ctx *digo.ContainerContext) error {
	h.Plugins = nil
	return nil
}

// Names returns the names of the loaded plugins in load order.
func (h *PluginHost) Names() []string {
	names := make([]string, 0, len(h.Plugins))
	for _, p := range h.Plugins {
		names = append(names, p.Name())
	}
	return names
}

// Circular dependency test types
type CircularService1 interface {
	digo.Lifecycle
	GetService2() CircularService2
}

type CircularService2 interface {
	digo.Lifecycle
	GetService1() CircularService1
}

type CircularImpl1 struct {
	svc2 CircularService2
}

func (i *CircularImpl1) Dependencies() []digo.ServiceDependency {
	return []digo.ServiceDependency{digo.DependencyOn[CircularService2](digo.ExactlyOne)}
}

func (i *CircularImpl1) OnBoot(ctx *digo.ContainerContext) error {
	var err error
	i.svc2, err = digo.Resolve[CircularService2]()
	return err
}

func (i *CircularImpl1) OnShutdown(ctx *digo.ContainerContext) error { return nil }
func (i *CircularImpl1) GetService2() CircularService2               { return i.svc2 }

type CircularImpl2 struct {
	svc1 CircularService1
}

func (i *CircularImpl2) Dependencies() []digo.ServiceDependency {
	return []digo.ServiceDependency{digo.DependencyOn[CircularService1](digo.ExactlyOne)}
}

func (i *CircularImpl2) OnBoot(ctx *digo.ContainerContext) error {
	var err error
	i.svc1, err = digo.Resolve[CircularService1]()
	return err
}

func (i *CircularImpl2) OnShutdown(ctx *digo.ContainerContext) error { return nil }
func (i *CircularImpl2) GetService1() CircularService1               { return i.svc1 }

// FailingDB fails to boot when ShouldFail is set.
type FailingDB struct {
	MockDB
	ShouldFail bool
}

func (f *FailingDB) OnBoot(ctx *digo.ContainerContext) error {
	if f.ShouldFail {
		return fmt.Errorf("simulated boot failure")
	}
	return f.MockDB.OnBoot(ctx)
}

// FailingShutdownDB fails to shut down.
type FailingShutdownDB struct {
	MockDB
}

func (f *FailingShutdownDB) OnShutdown(ctx *digo.ContainerContext) error {
	return fmt.Errorf("simulated shutdown failure")
}

type DeepService3 interface {
	digo.Lifecycle
	GetValue() string
}

type DeepService2 interface {
	digo.Lifecycle
	GetService3() DeepService3
}

type DeepService1 interface {
	digo.Lifecycle
	GetService2() DeepService2
}

type DeepImpl3 struct {
	Value string
}

func (d *DeepImpl3) OnBoot(ctx *digo.ContainerContext) error {
	d.Value = "deep"
	return nil
}

func (d *DeepImpl3) OnShutdown(ctx *digo.ContainerContext) error {
	return nil
}

func (d *DeepImpl3) GetValue() string {
	return d.Value
}

type DeepImpl2 struct {
	svc3 DeepService3
}

func (d *DeepImpl2) Dependencies() []digo.ServiceDependency {
	return []digo.ServiceDependency{digo.DependencyOn[DeepService3](digo.ExactlyOne)}
}

func (d *DeepImpl2) OnBoot(ctx *digo.ContainerContext) error {
	var err error
	d.svc3, err = digo.Resolve[DeepService3]()
	return err
}

func (d *DeepImpl2) OnShutdown(ctx *digo.ContainerContext) error {
	return nil
}

func (d *DeepImpl2) GetService3() DeepService3 {
	return d.svc3
}

type DeepImpl1 struct {
	svc2 DeepService2
}

func (d *DeepImpl1) Dependencies() []digo.ServiceDependency {
	return []digo.ServiceDependency{digo.DependencyOn[DeepService2](digo.ExactlyOne)}
}

func (d *DeepImpl1) OnBoot(ctx *digo.ContainerContext) error {
	var err error
	d.svc2, err = digo.Resolve[DeepService2]()
	return err
}

func (d *DeepImpl1) OnShutdown(ctx *digo.ContainerContext) error {
	return nil
}

func (d *DeepImpl1) GetService2() DeepService2 {
	return d.svc2
}

type Service interface {
	digo.Lifecycle
	IsInitialized() bool
}

type SingletonTestService struct {
	initialized bool
	BootCount   int
}

func (s *SingletonTestService) OnBoot(ctx *digo.ContainerContext) error {
	s.initialized = true
	s.BootCount++
	return nil
}

func (s *SingletonTestService) OnShutdown(ctx *digo.ContainerContext) error {
	s.initialized = false
	return nil
}

func (s *SingletonTestService) IsInitialized() bool {
	return s.initialized
}

// SessionStore is a singleton that declares a dependency on request scoped Database.
type SessionStore struct {
	SingletonTestService
}

func (s *SessionStore) Dependencies() []digo.ServiceDependency {
	return []digo.ServiceDependency{digo.DependencyOn[Database](digo.ExactlyOne)}
}

// SelfResolvingService resolves its own contract while booting.
type SelfResolvingService struct {
	SingletonTestService
}

func (s *SelfResolvingService) OnBoot(ctx *digo.ContainerContext) error {
	if _, err := digo.Resolve[Service](); err != nil {
		return err
	}
	return s.SingletonTestService.OnBoot(ctx)
}

type ComplexServiceInterface interface {
	digo.Lifecycle
	GetDB() Database
	GetCache() Cache
}

type ComplexService struct {
	DB    Database
	Cache Cache
}

func (c *ComplexService) Dependencies() []digo.ServiceDependency {
	return []digo.ServiceDependency{
		digo.DependencyOn[Database](digo.ExactlyOne),
		digo.DependencyOn[Cache](digo.ExactlyOne),
	}
}

func (c *ComplexService) OnBoot(ctx *digo.ContainerContext) error {
	var err error
	c.DB, err = digo.Resolve[Database]()
	if err != nil {
		return err
	}
	c.Cache, err = digo.Resolve[Cache]()
	return err
}

func (c *ComplexService) OnShutdown(ctx *digo.ContainerContext) error {
	return nil
}

func (c *ComplexService) GetDB() Database {
	return c.DB
}

func (c *ComplexService) GetCache() Cache {
	return c.Cache
}
