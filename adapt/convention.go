package adapt

import (
	"reflect"
)

// Convention is the type-adaptation bridge for one struct tagging style.
// The adapter depends only on this interface; it never inspects tags
// directly, so foreign tagging styles plug in without core changes.
type Convention interface {
	// Name identifies the convention.
	Name() string
	// Matches reports whether the struct type uses this convention's tags.
	Matches(t reflect.Type) bool
	// TagName is the struct tag consulted when decoding.
	TagName() string
}

// tagConvention matches any struct carrying at least one field with the tag.
type tagConvention struct {
	name string
}

func (c tagConvention) Name() string    { return c.name }
func (c tagConvention) TagName() string { return c.name }

func (c tagConvention) Matches(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if _, ok := t.Field(i).Tag.Lookup(c.name); ok {
			return true
		}
	}
	return false
}

// defaultConventions is the bridge's lookup order. Types matching none of
// them decode by field name, with members of unknown shape accepted as any.
func defaultConventions() []Convention {
	return []Convention{
		tagConvention{name: "mapstructure"},
		tagConvention{name: "json"},
		tagConvention{name: "yaml"},
	}
}
