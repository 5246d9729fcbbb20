package depend

import (
	"fmt"
	"reflect"

	"github.com/kbukum/dependkit/loaders"
	"github.com/kbukum/dependkit/singleton"
)

// Descriptor declares how to obtain a dependency value and its caching
// policy. The source is one of:
//
//   - a reflect.Type or struct pointer prototype: allocate, apply `default`
//     tags, fill dependency-tagged fields, return a pointer
//   - a factory func, zero-arg or context.Context-first, returning
//     T, (T, error), or (T, ReleaseFunc, error)
//   - a loaders.Loader: its Load result is returned directly
//   - a *BoundFunc: recursive composition of injected functions
type Descriptor struct {
	source  any
	persist bool
	key     any
	cache   *singleton.Registry
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// Persist requests singleton resolution: the first resolve caches the
// instance under the descriptor's cache key and every later resolve with the
// same key returns the identical instance.
func Persist() Option {
	return func(d *Descriptor) { d.persist = true }
}

// WithKey overrides the descriptor's cache key. Closures sharing one code
// pointer need explicit keys to cache independently.
func WithKey(key any) Option {
	return func(d *Descriptor) { d.key = key }
}

// WithCache resolves against the given registry instead of the process-wide
// default.
func WithCache(c *singleton.Registry) Option {
	return func(d *Descriptor) { d.cache = c }
}

// Depends builds a Descriptor for the given source.
func Depends(source any, opts ...Option) *Descriptor {
	d := &Descriptor{source: source}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Persisted reports whether the descriptor requests singleton resolution.
func (d *Descriptor) Persisted() bool { return d.persist }

// CacheKey is the identity under which a persistent resolution is cached:
// the explicit key when one was given, otherwise an identity derived from
// the source (the loader or bound-func pointer, the target type, or the
// factory's code pointer).
func (d *Descriptor) CacheKey() any {
	if d.key != nil {
		return d.key
	}
	switch src := d.source.(type) {
	case reflect.Type:
		return src
	case loaders.Loader:
		return src
	case *BoundFunc:
		return src
	}

	v := reflect.ValueOf(d.source)
	switch v.Kind() {
	case reflect.Func:
		return v.Pointer()
	case reflect.Ptr:
		return d.source
	default:
		return reflect.TypeOf(d.source)
	}
}

// Name identifies the dependency in error messages and logs.
func (d *Descriptor) Name() string {
	switch src := d.source.(type) {
	case reflect.Type:
		return src.String()
	case loaders.Loader:
		return fmt.Sprintf("loader[%s]", src.TargetType())
	case *BoundFunc:
		return src.Name()
	case nil:
		return "<nil>"
	}
	return reflect.TypeOf(d.source).String()
}
