package loaders

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cast"

	"github.com/kbukum/dependkit/errors"
	"github.com/kbukum/dependkit/logger"
	"github.com/kbukum/dependkit/schema"
)

// Value loads a single value from one key of a configuration source.
// Scalar targets are coerced from the raw string ("123" into int, "true"
// into bool, "3.14" into float); list and map targets accept JSON-encoded
// strings.
type Value[T any] struct {
	key string
	cfg *config
}

// NewValue builds a Value loader for the given source key.
func NewValue[T any](key string, opts ...Option) *Value[T] {
	return &Value[T]{key: key, cfg: newConfig(opts)}
}

// TargetType is the Go type the loader produces.
func (v *Value[T]) TargetType() reflect.Type { return targetTypeOf[T]() }

// Schema is the structural description of the target type.
func (v *Value[T]) Schema() (*schema.Schema, error) {
	return schema.Describe(v.TargetType())
}

// LoadRaw reads the key from the source. An absent key reads as nil.
func (v *Value[T]) LoadRaw(_ context.Context) (any, error) {
	if s, ok := v.cfg.src.Read(v.key); ok {
		return s, nil
	}
	return nil, nil
}

// Load reads, coerces, and validates the value.
func (v *Value[T]) Load(ctx context.Context) (any, error) {
	s, err := v.Schema()
	if err != nil {
		return nil, err
	}
	if s.Kind == schema.KindScalar {
		raw, err := v.LoadRaw(ctx)
		if err != nil {
			return nil, errors.Source(v.cfg.src.Name(), v.TargetType().String(), err)
		}
		v.cfg.log.Debug("value read", logger.Fields(
			logger.FieldSource, v.cfg.src.Name(),
			logger.FieldKey, v.key,
		))
		if isEmpty(raw) {
			if v.cfg.hasDefault {
				return v.cfg.defaultVal, nil
			}
			return nil, errors.Source(v.cfg.src.Name(), v.key, fmt.Errorf("key not set"))
		}
		return castScalar(raw, v.TargetType())
	}
	return run(ctx, v, v.cfg)
}

// LoadTyped is Load with the result asserted to the concrete type.
func (v *Value[T]) LoadTyped(ctx context.Context) (T, error) {
	var zero T
	out, err := v.Load(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, errors.UnsupportedType(fmt.Sprintf("%T", out)).
			WithDetail("want", v.TargetType().String())
	}
	return typed, nil
}

// castScalar coerces a raw value into a scalar target type.
func castScalar(raw any, t reflect.Type) (any, error) {
	var (
		out any
		err error
	)

	switch {
	case t == reflect.TypeOf(time.Duration(0)):
		out, err = cast.ToDurationE(raw)
	case t == reflect.TypeOf(time.Time{}):
		out, err = cast.ToTimeE(raw)
	default:
		switch t.Kind() {
		case reflect.String:
			out, err = cast.ToStringE(raw)
		case reflect.Bool:
			out, err = cast.ToBoolE(raw)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out, err = cast.ToInt64E(raw)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out, err = cast.ToUint64E(raw)
		case reflect.Float32, reflect.Float64:
			out, err = cast.ToFloat64E(raw)
		default:
			return nil, errors.UnsupportedType(t.String())
		}
	}
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("cannot coerce %v into %s", raw, t)).WithCause(err)
	}

	rv := reflect.ValueOf(out)
	if rv.Type() == t {
		return out, nil
	}
	if !rv.Type().ConvertibleTo(t) {
		return nil, errors.UnsupportedType(t.String())
	}
	return rv.Convert(t).Interface(), nil
}
