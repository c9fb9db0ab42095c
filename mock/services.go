// Package mock provides shared service types for the weld test suites.
package mock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Core interfaces

type Logger interface {
	Tag() string
	Log(msg string)
}

type Database interface {
	Connect() error
	IsConnected() bool
}

type Cache interface {
	Get(key string) any
	Put(key string, value any)
}

// TaggedLogger carries a counter tag assigned at construction, so tests can
// tell instances apart by value rather than by pointer identity alone.
type TaggedLogger struct {
	tag string
}

var loggerCounter atomic.Int64

func NewTaggedLogger() *TaggedLogger {
	return &TaggedLogger{tag: fmt.Sprintf("logger-%d", loggerCounter.Add(1))}
}

func (l *TaggedLogger) Tag() string { return l.tag }

func (l *TaggedLogger) Log(msg string) {}

// MemoryDB tracks connection state and records shutdown.
type MemoryDB struct {
	mu        sync.Mutex
	connected bool
	closed    bool
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{connected: true}
}

func (m *MemoryDB) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("database closed")
	}
	m.connected = true
	return nil
}

func (m *MemoryDB) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected && !m.closed
}

func (m *MemoryDB) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	m.closed = true
	return nil
}

func (m *MemoryDB) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MapCache is a Cache backed by a plain map, wired to a Database so tests
// can assert dependency chaining.
type MapCache struct {
	DB      Database
	mu      sync.Mutex
	entries map[string]any
}

func NewMapCache(db Database) *MapCache {
	return &MapCache{DB: db, entries: make(map[string]any)}
}

func (c *MapCache) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key]
}

func (c *MapCache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// ShutdownRecorder appends its name to a shared journal on shutdown, so
// tests can assert release order.
type ShutdownRecorder struct {
	Name    string
	Journal *ShutdownJournal
	Fail    error
}

func (s *ShutdownRecorder) Shutdown(ctx context.Context) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.Journal.Record(s.Name)
	return nil
}

// ShutdownJournal is a concurrency-safe record of shutdown order.
type ShutdownJournal struct {
	mu    sync.Mutex
	names []string
}

func (j *ShutdownJournal) Record(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.names = append(j.names, name)
}

func (j *ShutdownJournal) Names() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.names))
	copy(out, j.names)
	return out
}

// Deep dependency chain types: Outer depends on Middle depends on Inner.

type Inner struct {
	Value string
}

type Middle struct {
	Inner *Inner
}

type Outer struct {
	Middle *Middle
}

// Circular dependency types: each side resolves the other in its factory.

type Chicken struct {
	Egg *Egg
}

type Egg struct {
	Chicken *Chicken
}

// RequestState is the canonical scoped service: per-request accumulator.
type RequestState struct {
	ID     string
	mu     sync.Mutex
	events []string
}

func (r *RequestState) Append(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *RequestState) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}
