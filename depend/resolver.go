package depend

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/dependkit/adapt"
	"github.com/kbukum/dependkit/errors"
	"github.com/kbukum/dependkit/loaders"
	"github.com/kbukum/dependkit/logger"
)

// ReleaseFunc is the deferred teardown of a resource-yielding dependency.
// It observes the consumer's outcome: returning the same error re-raises it,
// returning a different error replaces it, returning nil absorbs it so the
// overall call reports no value and no error.
type ReleaseFunc func(consumer error) error

var (
	ctxType     = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType     = reflect.TypeOf((*error)(nil)).Elem()
	releaseType = reflect.TypeOf(ReleaseFunc(nil))
)

// resolve is the one algorithm behind Resolve and ResolveCtx. A persistent
// descriptor goes through the singleton cache; releases produced inside a
// cached resolution outlive any scope and are retained by the injector for
// process shutdown. A fresh resolution registers its release on the caller's
// scope, or retains it when no scope is active.
func (inj *Injector) resolve(ctx context.Context, d *Descriptor, scope *Scope) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if d.Persisted() {
		return inj.cacheFor(d).GetOrCreate(ctx, d.CacheKey(), func(ctx context.Context) (any, error) {
			value, release, err := inj.resolveFresh(ctx, d)
			if err != nil {
				return nil, err
			}
			if release != nil {
				inj.retain(release)
			}
			return value, nil
		})
	}

	value, release, err := inj.resolveFresh(ctx, d)
	if err != nil {
		return nil, err
	}
	if release != nil {
		if scope != nil {
			scope.add(release)
		} else {
			inj.retain(release)
		}
	}
	return value, nil
}

// resolveFresh invokes the descriptor's source once, never touching the
// cache.
func (inj *Injector) resolveFresh(ctx context.Context, d *Descriptor) (any, ReleaseFunc, error) {
	inj.log.Debug("resolving dependency", logger.Fields(logger.FieldDependency, d.Name()))

	switch src := d.source.(type) {
	case nil:
		return nil, nil, errors.InvalidBinding("dependency source is nil")
	case loaders.Loader:
		value, err := src.Load(ctx)
		if err != nil {
			return nil, nil, errors.Resolution(d.Name(), err)
		}
		return value, nil, nil
	case *BoundFunc:
		value, release, err := src.CallReleaseCtx(ctx)
		if err != nil {
			return nil, nil, errors.Resolution(d.Name(), err)
		}
		return value, release, nil
	case reflect.Type:
		value, err := inj.construct(ctx, src)
		if err != nil {
			return nil, nil, errors.Resolution(d.Name(), err)
		}
		return value, nil, nil
	}

	v := reflect.ValueOf(d.source)
	switch v.Kind() {
	case reflect.Func:
		value, release, err := inj.callFactory(ctx, v)
		if err != nil {
			if errors.CodeOf(err) == errors.ErrCodeInvalidBinding {
				return nil, nil, err
			}
			return nil, nil, errors.Resolution(d.Name(), err)
		}
		return value, release, nil
	case reflect.Ptr:
		if v.Type().Elem().Kind() == reflect.Struct {
			value, err := inj.construct(ctx, v.Type())
			if err != nil {
				return nil, nil, errors.Resolution(d.Name(), err)
			}
			return value, nil, nil
		}
	}
	return nil, nil, errors.InvalidBinding(fmt.Sprintf("unsupported dependency source %T", d.source))
}

// callFactory invokes a factory func source. Factories take no parameters
// beyond an optional leading context; funcs needing injected parameters go
// through Bind.
func (inj *Injector) callFactory(ctx context.Context, fn reflect.Value) (any, ReleaseFunc, error) {
	t := fn.Type()

	var in []reflect.Value
	switch {
	case t.NumIn() == 0:
	case t.NumIn() == 1 && t.In(0) == ctxType:
		in = append(in, reflect.ValueOf(ctx))
	default:
		return nil, nil, errors.InvalidBinding(fmt.Sprintf(
			"factory %s takes parameters; bind it with Injector.Bind to inject them", t))
	}

	return splitResults(fn.Call(in))
}

// splitResults maps a factory's return values onto the supported shapes:
// T, (T, error), and (T, ReleaseFunc, error).
func splitResults(outs []reflect.Value) (any, ReleaseFunc, error) {
	var (
		value    any
		hasValue bool
		release  ReleaseFunc
		err      error
	)

	for _, out := range outs {
		switch {
		case out.Type() == releaseType:
			if !out.IsNil() {
				release = out.Interface().(ReleaseFunc)
			}
		case out.Type().Implements(errType) && out.Kind() == reflect.Interface:
			if !out.IsNil() {
				err = out.Interface().(error)
			}
		case !hasValue:
			value = out.Interface()
			hasValue = true
		default:
			return nil, nil, errors.InvalidBinding(
				"factory returns more than one value; want T, (T, error), or (T, ReleaseFunc, error)")
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return value, release, nil
}

// construct builds a plain-type dependency: allocate the struct, apply its
// `default` tags, then fill its dependency-tagged fields. The result is a
// pointer to the struct.
func (inj *Injector) construct(ctx context.Context, t reflect.Type) (any, error) {
	elem := t
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, errors.UnsupportedType(t.String()).
			WithDetail("reason", "plain-type sources must be structs")
	}

	ptr := reflect.New(elem)
	if err := adapt.ApplyDefaults(ptr.Interface()); err != nil {
		return nil, err
	}
	if err := inj.Fill(ctx, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Interface(), nil
}
