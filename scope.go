package weld

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// scopeEntry caches one scoped instance. The entry lock is held across
// factory execution so each scope constructs a given service exactly once.
type scopeEntry struct {
	key string

	mu       sync.Mutex
	resolved bool
	instance any
}

// Scope is a resolution boundary for Scoped services. It shares the parent
// container's registry but keeps its own instance cache: one instance per
// scoped key per scope, released when the scope closes.
//
// Typical use is one scope per request or per unit of work.
type Scope struct {
	container *Container
	id        string

	mu      sync.Mutex
	closed  bool
	entries map[string]*scopeEntry
	order   []*scopeEntry
}

// NewScope opens a new scope against the container.
func (c *Container) NewScope() *Scope {
	s := &Scope{
		container: c,
		id:        uuid.NewString(),
		entries:   make(map[string]*scopeEntry),
	}
	c.log.Debug().Str("scope", s.id).Msg("scope opened")
	return s
}

// ID returns the scope's unique identifier.
func (s *Scope) ID() string {
	return s.id
}

// ResolveKey resolves key within the scope. Singleton and transient services
// resolve exactly as through the container; scoped services are cached per
// scope. Returns ScopeClosedError after Close.
func (s *Scope) ResolveKey(key string) (any, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, &ScopeClosedError{ID: s.id}
	}
	return s.container.resolveKey(key, s)
}

// TryResolveKey is like ResolveKey but reports failure as a boolean.
// It never fails.
func (s *Scope) TryResolveKey(key string) (any, bool) {
	v, err := s.ResolveKey(key)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (s *Scope) resolveScoped(reg *registration) (any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, &ScopeClosedError{ID: s.id}
	}
	entry, ok := s.entries[reg.key]
	if !ok {
		entry = &scopeEntry{key: reg.key}
		s.entries[reg.key] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.resolved {
		return entry.instance, nil
	}

	v, err := s.container.construct(reg, s)
	if err != nil {
		return nil, err
	}
	entry.instance = v
	entry.resolved = true

	s.mu.Lock()
	s.order = append(s.order, entry)
	s.mu.Unlock()
	return v, nil
}

// Close shuts down the scope's cached instances implementing Shutdowner, in
// reverse construction order, and clears the cache. Further resolutions
// through the scope return ScopeClosedError. Closing twice is a no-op.
func (s *Scope) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	order := s.order
	s.order = nil
	s.entries = make(map[string]*scopeEntry)
	s.mu.Unlock()

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		entry := order[i]
		if sh, ok := entry.instance.(Shutdowner); ok {
			if err := sh.Shutdown(ctx); err != nil && firstErr == nil {
				firstErr = &ShutdownError{Key: entry.key, Err: err}
			}
		}
	}
	s.container.log.Debug().Str("scope", s.id).Int("instances", len(order)).Msg("scope closed")
	return firstErr
}
