package weld

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// registration holds one service binding: its declared lifetime, the factory
// that produces instances, and the cached instance slot for singletons.
// Immutable after creation except for the cache slot.
type registration struct {
	key      string
	lifetime Lifetime
	factory  func(Resolver) (any, error)

	mu       sync.RWMutex
	resolved bool
	instance any
}

// Container is an explicit, constructible service registry and resolver.
// It is a passive shared structure: safe for concurrent use by any number of
// callers, with no goroutine of its own. Create one per process, or one per
// test case.
type Container struct {
	mu            sync.RWMutex
	registrations map[string]*registration
	resolvedOrder []*registration

	// resolving tracks per-goroutine resolution chains for cycle detection.
	resolving sync.Map

	name string
	log  zerolog.Logger
}

// New creates an empty container. Populate it with Register/Replace calls or
// by applying modules.
func New(opts ...Option) *Container {
	c := &Container{
		registrations: make(map[string]*registration, 32),
		name:          "container",
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var typeStringCache sync.Map

func typeKey(t reflect.Type) string {
	if cached, ok := typeStringCache.Load(t); ok {
		return cached.(string)
	}
	s := t.String()
	typeStringCache.Store(t, s)
	return s
}

// Has reports whether a registration exists for key. No side effects.
func (c *Container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.registrations[key]
	return ok
}

// Keys returns all registered service keys in sorted order.
func (c *Container) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.registrations))
	for key := range c.registrations {
		keys = append(keys, key)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

func (c *Container) register(key string, lifetime Lifetime, factory func(Resolver) (any, error), replace bool) error {
	if factory == nil {
		return &NilFactoryError{Key: key}
	}
	if !lifetime.valid() {
		return &InvalidLifetimeError{Key: key, Lifetime: lifetime}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prior, exists := c.registrations[key]
	if exists && !replace {
		return &DuplicateRegistrationError{Key: key}
	}
	if exists {
		// The replaced registration's cached instance is discarded, not
		// shut down; callers owning resources must Close before replacing.
		c.dropResolved(prior)
		c.log.Debug().Str("service", key).Str("lifetime", lifetime.String()).Msg("registration replaced")
	} else {
		c.log.Debug().Str("service", key).Str("lifetime", lifetime.String()).Msg("service registered")
	}

	c.registrations[key] = &registration{
		key:      key,
		lifetime: lifetime,
		factory:  factory,
	}
	return nil
}

// RegisterFactory registers a factory for key with the given lifetime.
// It returns DuplicateRegistrationError if key is already registered.
// Prefer the typed Register function, which derives the key from the
// service type.
func (c *Container) RegisterFactory(key string, lifetime Lifetime, factory func(Resolver) (any, error)) error {
	return c.register(key, lifetime, factory, false)
}

// ReplaceFactory registers a factory for key, overwriting any prior
// registration and discarding its cached instance.
func (c *Container) ReplaceFactory(key string, lifetime Lifetime, factory func(Resolver) (any, error)) error {
	return c.register(key, lifetime, factory, true)
}

// ResolveKey resolves the service registered under key, honoring its
// lifetime. Scoped services cannot be resolved through the container
// directly; use a Scope.
func (c *Container) ResolveKey(key string) (any, error) {
	return c.resolveKey(key, nil)
}

// TryResolveKey is like ResolveKey but reports failure as a boolean.
// It never fails.
func (c *Container) TryResolveKey(key string) (any, bool) {
	v, err := c.resolveKey(key, nil)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (c *Container) resolveKey(key string, sc *Scope) (any, error) {
	c.mu.RLock()
	reg, ok := c.registrations[key]
	c.mu.RUnlock()
	if !ok {
		c.log.Debug().Str("service", key).Msg("resolution miss")
		return nil, &UnregisteredServiceError{Key: key}
	}

	done, err := c.enterResolution(key)
	if err != nil {
		return nil, err
	}
	defer done()

	switch reg.lifetime {
	case Transient:
		return c.construct(reg, sc)
	case Singleton:
		return c.resolveSingleton(reg)
	case Scoped:
		if sc == nil {
			return nil, &InvalidLifetimeError{Key: key, Lifetime: Scoped}
		}
		return sc.resolveScoped(reg)
	default:
		return nil, &InvalidLifetimeError{Key: key, Lifetime: reg.lifetime}
	}
}

// construct invokes the factory, handing it the resolver the request came
// through so nested scoped dependencies stay inside the scope.
func (c *Container) construct(reg *registration, sc *Scope) (any, error) {
	var r Resolver = c
	if sc != nil {
		r = sc
	}
	v, err := reg.factory(r)
	if err != nil {
		return nil, &InitializationError{Key: reg.key, Err: err}
	}
	return v, nil
}

func (c *Container) resolveSingleton(reg *registration) (any, error) {
	// Fast path: cached instance, shared lock only.
	reg.mu.RLock()
	if reg.resolved {
		v := reg.instance
		reg.mu.RUnlock()
		return v, nil
	}
	reg.mu.RUnlock()

	// The registration lock is held across factory execution so concurrent
	// first resolutions construct exactly once. Nested resolution of other
	// keys takes other registrations' locks; same-key re-entry is reported
	// as a cycle before any lock wait.
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.resolved {
		return reg.instance, nil
	}

	v, err := c.construct(reg, nil)
	if err != nil {
		// Not cached: the next resolution retries the factory.
		return nil, err
	}
	reg.instance = v
	reg.resolved = true
	c.noteResolved(reg)
	return v, nil
}

func (c *Container) noteResolved(reg *registration) {
	c.mu.Lock()
	c.resolvedOrder = append(c.resolvedOrder, reg)
	c.mu.Unlock()
}

func (c *Container) dropResolved(reg *registration) {
	for i, r := range c.resolvedOrder {
		if r == reg {
			c.resolvedOrder = append(c.resolvedOrder[:i], c.resolvedOrder[i+1:]...)
			return
		}
	}
}

// Boot eagerly initializes every singleton registration, in sorted key order
// for determinism. It fails fast on the first factory error. Transient and
// scoped registrations are untouched.
func (c *Container) Boot() error {
	c.mu.RLock()
	keys := make([]string, 0, len(c.registrations))
	for key, reg := range c.registrations {
		if reg.lifetime == Singleton {
			keys = append(keys, key)
		}
	}
	c.mu.RUnlock()
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := c.resolveKey(key, nil); err != nil {
			return err
		}
	}
	c.log.Debug().Int("singletons", len(keys)).Msg("container booted")
	return nil
}

// Close shuts down cached singleton instances implementing Shutdowner, in
// reverse construction order, and clears the singleton caches. Registrations
// remain, so a closed container can be resolved against again; instances are
// rebuilt on demand.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	order := c.resolvedOrder
	c.resolvedOrder = nil
	c.mu.Unlock()

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		reg := order[i]
		reg.mu.Lock()
		v := reg.instance
		reg.instance = nil
		reg.resolved = false
		reg.mu.Unlock()

		if s, ok := v.(Shutdowner); ok {
			if err := s.Shutdown(ctx); err != nil && firstErr == nil {
				firstErr = &ShutdownError{Key: reg.key, Err: err}
			}
		}
	}
	c.log.Debug().Int("instances", len(order)).Msg("container closed")
	return firstErr
}

// Reset clears all registrations and caches, returning the container to its
// initial state. It does not shut anything down; it exists so tests can get
// a clean container between cases.
func (c *Container) Reset() {
	c.mu.Lock()
	c.registrations = make(map[string]*registration, 32)
	c.resolvedOrder = nil
	c.mu.Unlock()
}
