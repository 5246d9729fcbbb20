package schema

import (
	"reflect"
)

// Kind classifies a node of a structural description.
type Kind int

const (
	// KindScalar covers strings, booleans, numbers, and time-like leaves.
	KindScalar Kind = iota
	// KindList covers slices and arrays.
	KindList
	// KindMap covers maps with scalar keys.
	KindMap
	// KindStruct covers plain struct shapes.
	KindStruct
	// KindUnion covers discriminated unions registered via DefineUnion.
	KindUnion
	// KindAny accepts any shape; used for interface members with no
	// registered union and for members no convention could describe.
	KindAny
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// Schema is a queryable structural description of a Go type: its fields,
// nested types, and polymorphic variants.
type Schema struct {
	Kind Kind
	Type reflect.Type

	// Fields is populated for KindStruct.
	Fields []Field

	// Elem is populated for KindList and KindMap.
	Elem *Schema

	// Discriminant and Variants are populated for KindUnion.
	Discriminant string
	Variants     []Variant
}

// Field describes one struct field.
type Field struct {
	// Name is the source key for the field (tag-derived, snake_case).
	Name string
	// GoName is the Go identifier of the field.
	GoName string
	// Schema describes the field's type.
	Schema *Schema
	// Default is the raw value of the field's `default` tag, or "".
	Default string
}

// Variant describes one candidate shape of a discriminated union.
type Variant struct {
	// Tag is the concrete discriminant value selecting this candidate.
	Tag string
	// Name is the Go type name of the candidate.
	Name string
	// Schema describes the candidate shape.
	Schema *Schema
}

// VariantByTag returns the candidate selected by the given discriminant
// value, if any.
func (s *Schema) VariantByTag(tag string) (Variant, bool) {
	for _, v := range s.Variants {
		if v.Tag == tag {
			return v, true
		}
	}
	return Variant{}, false
}

// FieldByName returns the field with the given source key, if any.
func (s *Schema) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// VariantNames returns the Go type names of all candidates, in
// registration order.
func (s *Schema) VariantNames() []string {
	names := make([]string, len(s.Variants))
	for i, v := range s.Variants {
		names[i] = v.Name
	}
	return names
}
