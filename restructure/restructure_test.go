package restructure

import (
	"reflect"
	"testing"

	"github.com/kbukum/dependkit/schema"
)

// Fixtures: a three-way discriminated union on "letter", another on
// "number", a multi-word-tag union on "type", and nesting structs.

type letter interface{ isLetter() }

type letterA struct {
	Letter string `default:"A"`
	Extra  string
}

func (letterA) isLetter() {}

type letterB struct {
	Letter string `default:"B"`
	Extra  string
}

func (letterB) isLetter() {}

type letterC struct {
	Letter string `default:"C"`
	Extra  string
}

func (letterC) isLetter() {}

type digit interface{ isDigit() }

type digitOne struct {
	Number string `default:"1"`
	Extra  string
}

func (digitOne) isDigit() {}

type digitTwo struct {
	Number string `default:"2"`
	Extra  string
}

func (digitTwo) isDigit() {}

type digitThree struct {
	Number string `default:"3"`
	Extra  string
}

func (digitThree) isDigit() {}

type multi interface{ isMulti() }

type multiValue1 struct {
	Type  string `default:"MULTI_VALUE1"`
	Extra string
}

func (multiValue1) isMulti() {}

type multiValue2 struct {
	Type  string `default:"MULTI_VALUE2"`
	Extra string
}

func (multiValue2) isMulti() {}

type letterHierarchy struct {
	Char  letter
	Child *letterHierarchy
	Extra string
}

type group struct {
	Char  letter
	Digit digit
	Extra string
}

type groupHierarchy struct {
	Group group
	Child *groupHierarchy
	Extra string
}

type withUnderscore struct {
	SomeField    string
	AnotherValue int
}

func registerUnions(t *testing.T) {
	t.Helper()
	schema.ResetUnions()
	t.Cleanup(schema.ResetUnions)
	schema.MustDefineUnion[letter]("letter", letterA{}, letterB{}, letterC{})
	schema.MustDefineUnion[digit]("number", digitOne{}, digitTwo{}, digitThree{})
	schema.MustDefineUnion[multi]("type", multiValue1{}, multiValue2{})
}

func describe(t *testing.T, v any) *schema.Schema {
	t.Helper()
	typ := reflect.TypeOf(v)
	if p, ok := v.(reflect.Type); ok {
		typ = p
	}
	s, err := schema.Describe(typ)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	return s
}

func ifaceType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func TestRestructure(t *testing.T) {
	registerUnions(t)

	tests := []struct {
		name   string
		before map[string]any
		schema *schema.Schema
		after  map[string]any
	}{
		{
			name:   "underscore field merge",
			before: map[string]any{"some": map[string]any{"field": "hello"}, "another": map[string]any{"value": 42}},
			schema: describe(t, withUnderscore{}),
			after:  map[string]any{"some_field": "hello", "another_value": 42},
		},
		{
			name:   "multi word wrapper",
			before: map[string]any{"type": "MULTI_VALUE1", "multi": map[string]any{"value1": map[string]any{"extra": "blah"}}},
			schema: describe(t, ifaceType[multi]()),
			after:  map[string]any{"type": "MULTI_VALUE1", "extra": "blah"},
		},
		{
			name:   "already flat struct",
			before: map[string]any{"letter": "A", "extra": "blah"},
			schema: describe(t, letterA{}),
			after:  map[string]any{"letter": "A", "extra": "blah"},
		},
		{
			name:   "single segment wrapper",
			before: map[string]any{"letter": "A", "a": map[string]any{"extra": "blah"}},
			schema: describe(t, ifaceType[letter]()),
			after:  map[string]any{"letter": "A", "extra": "blah"},
		},
		{
			name: "wrapper hierarchy",
			before: map[string]any{
				"char": map[string]any{"letter": "A", "a": map[string]any{"extra": "blah"}},
				"child": map[string]any{
					"char": map[string]any{"letter": "B", "b": map[string]any{"extra": "blah"}},
					"child": map[string]any{
						"char":  map[string]any{"letter": "C", "c": map[string]any{"extra": "blah"}},
						"child": nil,
						"extra": "blah",
					},
					"extra": "blah",
				},
				"extra": "blah",
			},
			schema: describe(t, letterHierarchy{}),
			after: map[string]any{
				"char": map[string]any{"letter": "A", "extra": "blah"},
				"child": map[string]any{
					"char": map[string]any{"letter": "B", "extra": "blah"},
					"child": map[string]any{
						"char":  map[string]any{"letter": "C", "extra": "blah"},
						"child": nil,
						"extra": "blah",
					},
					"extra": "blah",
				},
				"extra": "blah",
			},
		},
		{
			name: "multiple unions per level",
			before: map[string]any{
				"char":  map[string]any{"letter": "A", "a": map[string]any{"extra": "blah"}},
				"digit": map[string]any{"number": "1", "1": map[string]any{"extra": "blah"}},
				"extra": "blah",
			},
			schema: describe(t, group{}),
			after: map[string]any{
				"char":  map[string]any{"letter": "A", "extra": "blah"},
				"digit": map[string]any{"number": "1", "extra": "blah"},
				"extra": "blah",
			},
		},
		{
			name: "group hierarchy",
			before: map[string]any{
				"group": map[string]any{
					"char":  map[string]any{"letter": "A", "a": map[string]any{"extra": "blah"}},
					"digit": map[string]any{"number": "1", "1": map[string]any{"extra": "blah"}},
					"extra": "blah",
				},
				"child": map[string]any{
					"group": map[string]any{
						"char":  map[string]any{"letter": "B", "b": map[string]any{"extra": "blah"}},
						"digit": map[string]any{"number": "2", "2": map[string]any{"extra": "blah"}},
						"extra": "blah",
					},
					"child": nil,
					"extra": "blah",
				},
				"extra": "blah",
			},
			schema: describe(t, groupHierarchy{}),
			after: map[string]any{
				"group": map[string]any{
					"char":  map[string]any{"letter": "A", "extra": "blah"},
					"digit": map[string]any{"number": "1", "extra": "blah"},
					"extra": "blah",
				},
				"child": map[string]any{
					"group": map[string]any{
						"char":  map[string]any{"letter": "B", "extra": "blah"},
						"digit": map[string]any{"number": "2", "extra": "blah"},
						"extra": "blah",
					},
					"child": nil,
					"extra": "blah",
				},
				"extra": "blah",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Restructure(tt.before, tt.schema)
			if !reflect.DeepEqual(got, tt.after) {
				t.Errorf("Restructure() = %#v, want %#v", got, tt.after)
			}

			// idempotence: a second pass changes nothing
			again := Restructure(got, tt.schema)
			if !reflect.DeepEqual(again, got) {
				t.Errorf("second pass changed data: %#v -> %#v", got, again)
			}
		})
	}
}

func TestRestructureUnknownDiscriminantPassesThrough(t *testing.T) {
	registerUnions(t)

	raw := map[string]any{"letter": "Z", "z": map[string]any{"extra": "blah"}}
	got := Restructure(raw, describe(t, ifaceType[letter]()))
	if !reflect.DeepEqual(got, raw) {
		t.Errorf("expected passthrough for unknown discriminant, got %#v", got)
	}
}

func TestRestructureDoesNotMutateInput(t *testing.T) {
	registerUnions(t)

	raw := map[string]any{"letter": "A", "a": map[string]any{"extra": "blah"}}
	Restructure(raw, describe(t, ifaceType[letter]()))
	if _, ok := raw["a"]; !ok {
		t.Error("input map was mutated")
	}
}

func TestRestructureScalarLeaves(t *testing.T) {
	s := describe(t, []int{})
	got := Restructure([]any{1, 2, 3}, s)
	if !reflect.DeepEqual(got, []any{1, 2, 3}) {
		t.Errorf("expected list passthrough, got %#v", got)
	}
}
