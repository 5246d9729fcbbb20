package depend

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/kbukum/dependkit/errors"
)

// FieldBind attaches a descriptor to one struct field for Fill.
type FieldBind struct {
	Field string
	Desc  *Descriptor
}

// BindField builds a FieldBind.
func BindField(field string, d *Descriptor) FieldBind {
	return FieldBind{Field: field, Desc: d}
}

// Fill resolves the dependency-annotated fields of a struct pointer. A field
// is eligible when a FieldBind names it or when it carries a `depend` tag:
//
//	type Server struct {
//		Store  *Store  `depend:"fill"`
//		Config *Config `depend:"fill,persist"`
//	}
//
// Tagged fields are constructed from their own type, recursively; the
// persist option resolves them through the singleton cache keyed by type.
// Fields holding a non-zero value were supplied by the caller and are never
// overridden.
func (inj *Injector) Fill(ctx context.Context, target any, binds ...FieldBind) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return errors.InvalidBinding(fmt.Sprintf("Fill wants a struct pointer, got %T", target))
	}
	elem := v.Elem()
	t := elem.Type()

	byField := make(map[string]*Descriptor, len(binds))
	for _, b := range binds {
		if _, ok := t.FieldByName(b.Field); !ok {
			return errors.InvalidBinding(fmt.Sprintf("%s has no field %q", t, b.Field))
		}
		byField[b.Field] = b.Desc
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := elem.Field(i)
		if !sf.IsExported() || !fv.IsZero() {
			continue
		}

		d, bound := byField[sf.Name]
		if !bound {
			tag, ok := sf.Tag.Lookup("depend")
			if !ok {
				continue
			}
			var err error
			d, err = descriptorForField(sf, tag)
			if err != nil {
				return err
			}
		}

		value, err := inj.resolve(ctx, d, nil)
		if err != nil {
			return err
		}
		cv, err := coerceTo(value, sf.Type)
		if err != nil {
			return err
		}
		fv.Set(cv)
	}
	return nil
}

// descriptorForField turns a `depend` tag into a plain-type descriptor for
// the field's own type.
func descriptorForField(sf reflect.StructField, tag string) (*Descriptor, error) {
	parts := strings.Split(tag, ",")
	if parts[0] != "fill" {
		return nil, errors.InvalidBinding(fmt.Sprintf(
			"field %s: unknown depend tag %q; want \"fill\" or \"fill,persist\"", sf.Name, tag))
	}

	ft := sf.Type
	for ft.Kind() == reflect.Ptr {
		ft = ft.Elem()
	}
	if ft.Kind() != reflect.Struct {
		return nil, errors.InvalidBinding(fmt.Sprintf(
			"field %s: depend-tagged fields must be structs, got %s", sf.Name, sf.Type))
	}

	opts := []Option{}
	for _, p := range parts[1:] {
		switch p {
		case "persist":
			opts = append(opts, Persist(), WithKey(ft))
		default:
			return nil, errors.InvalidBinding(fmt.Sprintf(
				"field %s: unknown depend tag option %q", sf.Name, p))
		}
	}
	return Depends(ft, opts...), nil
}
