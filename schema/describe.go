package schema

import (
	"reflect"
	"strings"
	"time"

	"github.com/kbukum/dependkit/errors"
)

var timeType = reflect.TypeOf(time.Time{})

// Describe builds the structural description of a Go type. Struct field
// names come from mapstructure tags, then json tags, then the snake_case of
// the Go name. Interface types resolve through the union registry; an
// unregistered interface describes as KindAny.
func Describe(t reflect.Type) (*Schema, error) {
	return describe(t, make(map[reflect.Type]*Schema))
}

// Supported reports whether Describe can produce a structural description
// for the type.
func Supported(t reflect.Type) bool {
	_, err := Describe(t)
	return err == nil
}

func describe(t reflect.Type, seen map[reflect.Type]*Schema) (*Schema, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if s, ok := seen[t]; ok {
		return s, nil
	}

	switch t.Kind() {
	case reflect.Interface:
		if spec, ok := unionFor(t); ok {
			return describeUnion(t, spec, seen)
		}
		return &Schema{Kind: KindAny, Type: t}, nil

	case reflect.Struct:
		if t == timeType {
			return &Schema{Kind: KindScalar, Type: t}, nil
		}
		return describeStruct(t, seen)

	case reflect.Slice, reflect.Array:
		elem, err := describe(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return &Schema{Kind: KindList, Type: t, Elem: elem}, nil

	case reflect.Map:
		elem, err := describe(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return &Schema{Kind: KindMap, Type: t, Elem: elem}, nil

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return &Schema{Kind: KindScalar, Type: t}, nil

	default:
		return nil, errors.UnsupportedType(t.String())
	}
}

func describeStruct(t reflect.Type, seen map[reflect.Type]*Schema) (*Schema, error) {
	s := &Schema{Kind: KindStruct, Type: t}
	seen[t] = s // placeholder first, so recursive types terminate

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := fieldKey(sf)
		if key == "-" {
			continue
		}
		fs, err := describe(sf.Type, seen)
		if err != nil {
			// Per-member fallback: a member no convention can describe is
			// accepted as any shape instead of failing the whole type.
			fs = &Schema{Kind: KindAny, Type: sf.Type}
		}
		s.Fields = append(s.Fields, Field{
			Name:    key,
			GoName:  sf.Name,
			Schema:  fs,
			Default: sf.Tag.Get("default"),
		})
	}
	return s, nil
}

func describeUnion(t reflect.Type, spec unionSpec, seen map[reflect.Type]*Schema) (*Schema, error) {
	s := &Schema{Kind: KindUnion, Type: t, Discriminant: spec.discriminant}
	for _, vt := range spec.variants {
		vs, err := describe(vt, seen)
		if err != nil {
			return nil, err
		}
		tag, _ := discriminantTag(vt, spec.discriminant)
		s.Variants = append(s.Variants, Variant{
			Tag:    tag,
			Name:   vt.Name(),
			Schema: vs,
		})
	}
	return s, nil
}

// fieldKey returns the source key for a struct field: mapstructure tag,
// then json tag, then snake_case of the Go name.
func fieldKey(sf reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		if v, ok := sf.Tag.Lookup(tag); ok {
			name := strings.SplitN(v, ",", 2)[0]
			if name != "" {
				return name
			}
		}
	}
	return ToSnake(sf.Name)
}
