package singleton

import (
	"context"
	"sync"

	"github.com/kbukum/dependkit/logger"
)

// Factory produces the value for a cache key. It runs at most once per key
// while its result remains cached.
type Factory func(ctx context.Context) (any, error)

// Registry caches at most one instance per key. First resolution of a key
// takes a per-key lock and runs the factory exactly once; concurrent callers
// block and observe the same instance. Factory errors are not cached, so a
// failed key can be retried.
type Registry struct {
	mutex   sync.Mutex
	entries map[any]*entry
	log     *logger.Logger
}

type entry struct {
	mutex sync.Mutex
	done  bool
	value any
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger attaches a logger for cache hit/miss debug output.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[any]*entry),
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = New()

// Default returns the process-wide Registry used by persistent descriptors
// that were not given an explicit cache.
func Default() *Registry { return defaultRegistry }

// GetOrCreate returns the cached instance for key, running factory under the
// key's lock when no instance exists yet. All callers of the same key get
// reference-identical values.
func (r *Registry) GetOrCreate(ctx context.Context, key any, factory Factory) (any, error) {
	e := r.entryFor(key)

	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.done {
		r.log.Debug("cache hit", logger.Fields(logger.FieldCacheKey, key))
		return e.value, nil
	}

	r.log.Debug("cache miss", logger.Fields(logger.FieldCacheKey, key))
	value, err := factory(ctx)
	if err != nil {
		return nil, err
	}
	e.value = value
	e.done = true
	return value, nil
}

// Get returns the cached instance for key, if one exists.
func (r *Registry) Get(key any) (any, bool) {
	r.mutex.Lock()
	e, ok := r.entries[key]
	r.mutex.Unlock()
	if !ok {
		return nil, false
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	if !e.done {
		return nil, false
	}
	return e.value, true
}

// Set stores an instance for key, replacing any cached value.
func (r *Registry) Set(key any, value any) {
	e := r.entryFor(key)
	e.mutex.Lock()
	e.value = value
	e.done = true
	e.mutex.Unlock()
}

// Invalidate drops the cached instance for key.
func (r *Registry) Invalidate(key any) {
	r.mutex.Lock()
	delete(r.entries, key)
	r.mutex.Unlock()
}

// Reset drops every cached instance. Intended for tests, which should run
// against a fresh cache.
func (r *Registry) Reset() {
	r.mutex.Lock()
	r.entries = make(map[any]*entry)
	r.mutex.Unlock()
}

// Len reports how many keys hold a cached instance.
func (r *Registry) Len() int {
	r.mutex.Lock()
	snapshot := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		snapshot = append(snapshot, e)
	}
	r.mutex.Unlock()

	n := 0
	for _, e := range snapshot {
		e.mutex.Lock()
		if e.done {
			n++
		}
		e.mutex.Unlock()
	}
	return n
}

func (r *Registry) entryFor(key any) *entry {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{}
		r.entries[key] = e
	}
	return e
}
