package adapt

import (
	"reflect"
	"testing"

	"github.com/kbukum/dependkit/errors"
	"github.com/kbukum/dependkit/restructure"
	"github.com/kbukum/dependkit/schema"
)

type dummyStore interface{ isStore() }

type dummyStoreA struct {
	Type string `default:"A"`
	Foo  string `default:"default_foo"`
	Num  int    `default:"1"`
}

func (dummyStoreA) isStore() {}

type dummyStoreB struct {
	Type string `default:"B"`
	Bar  string `validate:"required"`
	Flag bool
}

func (dummyStoreB) isStore() {}

type jsonTagged struct {
	HostName string `json:"host_name"`
	Port     int    `json:"port"`
}

type complexObject struct {
	ListValue     []string
	AnnotatedList []float64
	LiteralList   []string
}

func storeUnion(t *testing.T) reflect.Type {
	t.Helper()
	schema.ResetUnions()
	t.Cleanup(schema.ResetUnions)
	schema.MustDefineUnion[dummyStore]("type", dummyStoreA{}, dummyStoreB{})
	return reflect.TypeOf((*dummyStore)(nil)).Elem()
}

func TestDecodeStructWithDefaults(t *testing.T) {
	a := New()
	got, err := a.Decode(map[string]any{"foo": "hello_world", "num": "42"}, reflect.TypeOf(dummyStoreA{}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := dummyStoreA{Type: "A", Foo: "hello_world", Num: 42}
	if got != want {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}
}

func TestDecodeAppliesAllDefaults(t *testing.T) {
	a := New()
	got, err := a.Decode(map[string]any{}, reflect.TypeOf(dummyStoreA{}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := dummyStoreA{Type: "A", Foo: "default_foo", Num: 1}
	if got != want {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}
}

func TestDecodeWeakTyping(t *testing.T) {
	a := New()
	tests := []struct {
		name   string
		data   map[string]any
		target reflect.Type
		want   any
	}{
		{"string number to int", map[string]any{"num": "42"}, reflect.TypeOf(dummyStoreA{}), 42},
		{"capitalized bool", map[string]any{"bar": "x", "flag": "True"}, reflect.TypeOf(dummyStoreB{}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Decode(tt.data, tt.target)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			switch v := got.(type) {
			case dummyStoreA:
				if v.Num != tt.want {
					t.Errorf("Num = %v, want %v", v.Num, tt.want)
				}
			case dummyStoreB:
				if v.Flag != tt.want {
					t.Errorf("Flag = %v, want %v", v.Flag, tt.want)
				}
			}
		})
	}
}

func TestDecodeJSONListStrings(t *testing.T) {
	a := New()
	data := map[string]any{
		"list_value":     `["A","B","C","D"]`,
		"annotated_list": `[1.1, 2.2, 3.3]`,
		"literal_list":   `["A", "B"]`,
	}
	got, err := a.Decode(data, reflect.TypeOf(complexObject{}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	obj := got.(complexObject)
	if !reflect.DeepEqual(obj.ListValue, []string{"A", "B", "C", "D"}) {
		t.Errorf("ListValue = %v", obj.ListValue)
	}
	if !reflect.DeepEqual(obj.AnnotatedList, []float64{1.1, 2.2, 3.3}) {
		t.Errorf("AnnotatedList = %v", obj.AnnotatedList)
	}
	if !reflect.DeepEqual(obj.LiteralList, []string{"A", "B"}) {
		t.Errorf("LiteralList = %v", obj.LiteralList)
	}
}

func TestDecodeValidateTag(t *testing.T) {
	a := New()
	_, err := a.Decode(map[string]any{"flag": true}, reflect.TypeOf(dummyStoreB{}))
	if err == nil {
		t.Fatal("expected validation error for missing required field")
	}
	if errors.CodeOf(err) != errors.ErrCodeValidation {
		t.Errorf("expected VALIDATION_FAILED, got %s", errors.CodeOf(err))
	}
	if !errors.IsDataError(err) {
		t.Error("validation failure should classify as data error")
	}
}

func TestDecodeUnion(t *testing.T) {
	union := storeUnion(t)
	a := New()

	got, err := a.Decode(map[string]any{"type": "A", "foo": "hello", "num": "7"}, union)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	store, ok := got.(dummyStoreA)
	if !ok {
		t.Fatalf("expected dummyStoreA, got %T", got)
	}
	if store.Foo != "hello" || store.Num != 7 {
		t.Errorf("unexpected decode result: %#v", store)
	}
}

func TestDecodeUnionMissingDiscriminant(t *testing.T) {
	union := storeUnion(t)
	a := New()

	_, err := a.Decode(map[string]any{"foo": "x"}, union)
	if errors.CodeOf(err) != errors.ErrCodeDiscriminator {
		t.Fatalf("expected DISCRIMINATOR_ERROR, got %v", err)
	}
}

func TestDecodeUnionUnknownTag(t *testing.T) {
	union := storeUnion(t)
	a := New()

	_, err := a.Decode(map[string]any{"type": "Z"}, union)
	if errors.CodeOf(err) != errors.ErrCodeDiscriminator {
		t.Fatalf("expected DISCRIMINATOR_ERROR, got %v", err)
	}
}

func TestConventionBridgeJSONTags(t *testing.T) {
	a := New()
	got, err := a.Decode(map[string]any{"host_name": "localhost", "port": "8080"}, reflect.TypeOf(jsonTagged{}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := jsonTagged{HostName: "localhost", Port: 8080}
	if got != want {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}
}

func TestDecodeUnsupportedType(t *testing.T) {
	a := New()
	_, err := a.Decode("x", reflect.TypeOf(make(chan int)))
	if errors.CodeOf(err) != errors.ErrCodeUnsupportedType {
		t.Fatalf("expected UNSUPPORTED_TYPE, got %v", err)
	}
}

func TestDecodePointerTarget(t *testing.T) {
	a := New()
	got, err := a.Decode(map[string]any{"foo": "x"}, reflect.TypeOf(&dummyStoreA{}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	ptr, ok := got.(*dummyStoreA)
	if !ok {
		t.Fatalf("expected *dummyStoreA, got %T", got)
	}
	if ptr.Foo != "x" {
		t.Errorf("Foo = %q", ptr.Foo)
	}
}

func TestSupported(t *testing.T) {
	a := New()
	if !a.Supported(reflect.TypeOf(dummyStoreA{})) {
		t.Error("struct should be supported")
	}
	if a.Supported(reflect.TypeOf(make(chan int))) {
		t.Error("chan should not be supported")
	}
}

func TestApplyDefaultsRejectsNonPointer(t *testing.T) {
	if err := ApplyDefaults(dummyStoreA{}); err == nil {
		t.Fatal("expected error for non-pointer target")
	}
}

func TestUnionRoundTrip(t *testing.T) {
	union := storeUnion(t)
	a := New()

	// A wrapped payload restructured against the union schema must decode to
	// the same value as constructing from the flattened fields directly.
	s, err := schema.Describe(union)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	wrapped := map[string]any{
		"type": "A",
		"a":    map[string]any{"foo": "blah", "num": 5},
	}
	flat := restructure.Restructure(wrapped, s)

	fromWrapped, err := a.Decode(flat, union)
	if err != nil {
		t.Fatalf("Decode of restructured payload failed: %v", err)
	}
	direct, err := a.Decode(map[string]any{"type": "A", "foo": "blah", "num": 5}, union)
	if err != nil {
		t.Fatalf("direct Decode failed: %v", err)
	}
	if fromWrapped != direct {
		t.Errorf("round trip mismatch: %#v vs %#v", fromWrapped, direct)
	}
}
