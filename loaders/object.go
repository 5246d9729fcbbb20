package loaders

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/kbukum/dependkit/errors"
	"github.com/kbukum/dependkit/schema"
)

// Object loads a struct or discriminated-union value from per-field keys of
// a configuration source. Field keys are prefixed with the UPPER_SNAKE form
// of the target type name. For a union the prefix of the discriminant key is
// the group alias (the longest name run shared by every candidate), the
// discriminant is read first to select the candidate shape, and the selected
// candidate's own name prefixes its field keys:
//
//	DUMMY_STORE_TYPE=A          selects DummyStoreA
//	DUMMY_STORE_A_FOO=hello     populates its foo field
//
// Fields absent from the source keep their declared defaults.
type Object[T any] struct {
	cfg *config
}

// NewObject builds an Object loader for the target type.
func NewObject[T any](opts ...Option) *Object[T] {
	return &Object[T]{cfg: newConfig(opts)}
}

// TargetType is the Go type the loader produces.
func (o *Object[T]) TargetType() reflect.Type { return targetTypeOf[T]() }

// Schema is the structural description of the target type.
func (o *Object[T]) Schema() (*schema.Schema, error) {
	return schema.Describe(o.TargetType())
}

// Load reads, restructures, and validates the object.
func (o *Object[T]) Load(ctx context.Context) (any, error) {
	return run(ctx, o, o.cfg)
}

// LoadTyped is Load with the result asserted to the concrete type.
func (o *Object[T]) LoadTyped(ctx context.Context) (T, error) {
	var zero T
	out, err := o.Load(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, errors.UnsupportedType(fmt.Sprintf("%T", out)).
			WithDetail("want", o.TargetType().String())
	}
	return typed, nil
}

// LoadRaw assembles the raw field map from the source. Only keys present in
// the source appear in the map, so declared defaults survive decoding.
func (o *Object[T]) LoadRaw(_ context.Context) (any, error) {
	s, err := o.Schema()
	if err != nil {
		return nil, err
	}

	switch s.Kind {
	case schema.KindStruct:
		prefix := schema.EnvPrefix(s.Type.Name())
		return o.readFields(prefix, s), nil
	case schema.KindUnion:
		return o.readUnion(s)
	default:
		return nil, errors.UnsupportedType(o.TargetType().String()).
			WithDetail("kind", s.Kind.String())
	}
}

// readUnion reads the discriminant under the group alias prefix, selects the
// candidate shape, and reads its fields under the candidate's own prefix.
func (o *Object[T]) readUnion(s *schema.Schema) (map[string]any, error) {
	alias := schema.Alias(s.VariantNames())
	if alias == "" {
		return nil, errors.Alias(s.VariantNames())
	}

	discKey := schema.EnvPrefix(alias) + "_" + strings.ToUpper(s.Discriminant)
	tag, ok := o.cfg.src.Read(discKey)
	if !ok {
		tag = o.cfg.defaultTag
	}
	if tag == "" {
		return nil, errors.Discriminator(fmt.Sprintf("discriminant key %q not set and no default configured", discKey)).
			WithDetail("candidates", s.VariantNames())
	}

	variant, ok := s.VariantByTag(tag)
	if !ok {
		return nil, errors.Discriminator(fmt.Sprintf("no candidate matches discriminant value %q", tag)).
			WithDetail("candidates", s.VariantNames())
	}

	raw := o.readFields(schema.EnvPrefix(variant.Name), variant.Schema)
	raw[s.Discriminant] = tag
	return raw, nil
}

// readFields collects every field key present in the source.
func (o *Object[T]) readFields(prefix string, s *schema.Schema) map[string]any {
	raw := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		key := prefix + "_" + strings.ToUpper(f.Name)
		if v, ok := o.cfg.src.Read(key); ok {
			raw[f.Name] = v
		}
	}
	return raw
}
