package depend

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/kbukum/dependkit/errors"
	"github.com/kbukum/dependkit/logger"
	"github.com/kbukum/dependkit/singleton"
)

// Injector resolves descriptors and wires them into functions and structs.
// The zero-config injector from New resolves persistent descriptors against
// the process-wide singleton registry; tests construct one with their own
// cache.
type Injector struct {
	cache *singleton.Registry
	log   *logger.Logger

	mutex    sync.Mutex
	retained []ReleaseFunc
}

// InjectorOption configures an Injector.
type InjectorOption func(*Injector)

// WithInjectorCache sets the singleton registry used by persistent
// descriptors that carry no cache of their own.
func WithInjectorCache(c *singleton.Registry) InjectorOption {
	return func(inj *Injector) { inj.cache = c }
}

// WithInjectorLogger attaches a logger for resolution debug output.
func WithInjectorLogger(l *logger.Logger) InjectorOption {
	return func(inj *Injector) { inj.log = l }
}

// New creates an Injector.
func New(opts ...InjectorOption) *Injector {
	inj := &Injector{
		cache: singleton.Default(),
		log:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(inj)
	}
	return inj
}

var defaultInjector = New()

// Default returns the process-wide Injector behind the package-level API.
func Default() *Injector { return defaultInjector }

func (inj *Injector) cacheFor(d *Descriptor) *singleton.Registry {
	if d.cache != nil {
		return d.cache
	}
	return inj.cache
}

// retain holds a release that has no scope to run in; Close runs them at
// process shutdown.
func (inj *Injector) retain(release ReleaseFunc) {
	inj.mutex.Lock()
	inj.retained = append(inj.retained, release)
	inj.mutex.Unlock()
}

// Close tears down every retained resource in reverse acquisition order,
// threading outcomes the same way a scope does.
func (inj *Injector) Close(consumer error) error {
	inj.mutex.Lock()
	retained := inj.retained
	inj.retained = nil
	inj.mutex.Unlock()

	current := consumer
	for i := len(retained) - 1; i >= 0; i-- {
		current = retained[i](current)
	}
	return current
}

// Resolve resolves a descriptor with a background context.
func (inj *Injector) Resolve(d *Descriptor) (any, error) {
	return inj.resolve(context.Background(), d, nil)
}

// ResolveCtx resolves a descriptor, threading ctx into context-aware
// factories and loaders.
func (inj *Injector) ResolveCtx(ctx context.Context, d *Descriptor) (any, error) {
	return inj.resolve(ctx, d, nil)
}

// Auto marks a call argument as "resolve me": a bound parameter whose
// argument is Auto (or absent) resolves through its descriptor, while any
// other caller-supplied argument wins over resolution.
var Auto = autoMarker{}

type autoMarker struct{}

// BoundFunc is a function with dependency descriptors bound to its
// parameters. Calling it resolves every unsupplied parameter in declaration
// order, then delegates to the function. A BoundFunc is itself a valid
// descriptor source, so injected functions compose recursively, resource
// shapes included.
type BoundFunc struct {
	inj      *Injector
	fn       reflect.Value
	takesCtx bool
	deps     []*Descriptor
	yields   bool
}

// Bind associates descriptors with fn's parameters, positionally, after an
// optional leading context.Context. A nil descriptor leaves the parameter
// caller-supplied. Bind panics on a non-func or on a descriptor count
// mismatch; bindings are wiring declared at startup, not request-time input.
func (inj *Injector) Bind(fn any, deps ...*Descriptor) *BoundFunc {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(errors.InvalidBinding(fmt.Sprintf("Bind wants a func, got %T", fn)))
	}
	t := v.Type()

	takesCtx := t.NumIn() > 0 && t.In(0) == ctxType
	params := t.NumIn()
	if takesCtx {
		params--
	}
	if len(deps) > params {
		panic(errors.InvalidBinding(fmt.Sprintf(
			"%d descriptors bound to %s, which has %d injectable parameters", len(deps), t, params)))
	}

	yields := false
	for i := 0; i < t.NumOut(); i++ {
		if t.Out(i) == releaseType {
			yields = true
		}
	}

	bound := make([]*Descriptor, params)
	copy(bound, deps)
	return &BoundFunc{inj: inj, fn: v, takesCtx: takesCtx, deps: bound, yields: yields}
}

// Name identifies the bound function in error messages.
func (b *BoundFunc) Name() string { return b.fn.Type().String() }

// Call invokes the function with a background context.
func (b *BoundFunc) Call(args ...any) (any, error) {
	return b.CallCtx(context.Background(), args...)
}

// CallCtx resolves every unsupplied parameter, invokes the function, and
// closes the call's resource scope with the function's outcome. If a release
// absorbs the function's error the call reports a nil value and nil error.
// Resource-yielding targets must go through CallReleaseCtx so their own
// teardown can be deferred to the consumer.
func (b *BoundFunc) CallCtx(ctx context.Context, args ...any) (any, error) {
	if b.yields {
		return nil, errors.InvalidBinding(
			"target yields a resource; use CallRelease so teardown can be deferred")
	}

	scope := b.inj.NewScope()
	value, _, err := b.invoke(ctx, scope, args)
	if err != nil {
		closeErr := scope.Close(err)
		if closeErr == nil {
			return nil, nil
		}
		return nil, closeErr
	}
	if closeErr := scope.Close(nil); closeErr != nil {
		return nil, closeErr
	}
	return value, nil
}

// CallRelease invokes a resource-yielding target with a background context.
func (b *BoundFunc) CallRelease(args ...any) (any, ReleaseFunc, error) {
	return b.CallReleaseCtx(context.Background(), args...)
}

// CallReleaseCtx invokes the function and defers all teardown, the target's
// own release plus those of its resolved dependencies, to the returned
// ReleaseFunc. The release observes the consumer's outcome and runs the
// teardowns in reverse acquisition order.
func (b *BoundFunc) CallReleaseCtx(ctx context.Context, args ...any) (any, ReleaseFunc, error) {
	scope := b.inj.NewScope()
	value, release, err := b.invoke(ctx, scope, args)
	if err != nil {
		closeErr := scope.Close(err)
		if closeErr == nil {
			return nil, nil, nil
		}
		return nil, nil, closeErr
	}
	if release != nil {
		scope.add(release)
	}
	return value, scope.Close, nil
}

// invoke resolves arguments in declaration order and calls the function.
// Any resolution failure aborts before the function runs; the scope holds
// whatever was acquired so the caller can tear it down.
func (b *BoundFunc) invoke(ctx context.Context, scope *Scope, args []any) (any, ReleaseFunc, error) {
	if len(args) > len(b.deps) {
		return nil, nil, errors.InvalidBinding(fmt.Sprintf(
			"%d arguments passed to %s, which takes %d", len(args), b.Name(), len(b.deps)))
	}

	t := b.fn.Type()
	in := make([]reflect.Value, 0, t.NumIn())
	if b.takesCtx {
		in = append(in, reflect.ValueOf(ctx))
	}

	for i := 0; i < len(b.deps); i++ {
		pos := i
		if b.takesCtx {
			pos++
		}
		paramType := t.In(pos)

		if i < len(args) && args[i] != any(Auto) {
			av := reflect.ValueOf(args[i])
			if !av.IsValid() || !av.Type().AssignableTo(paramType) {
				return nil, nil, errors.InvalidBinding(fmt.Sprintf(
					"argument %d of %s: %T is not assignable to %s", i, b.Name(), args[i], paramType))
			}
			in = append(in, av)
			continue
		}

		d := b.deps[i]
		if d == nil {
			return nil, nil, errors.InvalidBinding(fmt.Sprintf(
				"parameter %d of %s has no descriptor and no argument", i, b.Name()))
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		value, err := b.inj.resolve(ctx, d, scope)
		if err != nil {
			return nil, nil, err
		}
		cv, err := coerceTo(value, paramType)
		if err != nil {
			return nil, nil, err
		}
		in = append(in, cv)
	}

	return splitResults(b.fn.Call(in))
}

// coerceTo adapts a resolved value to a parameter or field type, dereferencing
// a constructed pointer when the target wants the bare struct.
func coerceTo(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(target) {
		return v, nil
	}
	if v.Kind() == reflect.Ptr && v.Elem().Type().AssignableTo(target) {
		return v.Elem(), nil
	}
	if v.Type().ConvertibleTo(target) {
		return v.Convert(target), nil
	}
	return reflect.Value{}, errors.InvalidBinding(fmt.Sprintf(
		"resolved %s is not assignable to %s", v.Type(), target))
}
