package schema

import (
	"fmt"
	"reflect"
	"sync"
)

// unionSpec records the registered candidates of a discriminated union.
type unionSpec struct {
	discriminant string
	variants     []reflect.Type
}

var (
	unionMu sync.RWMutex
	unions  = make(map[reflect.Type]unionSpec)
)

// DefineUnion registers interface type I as a discriminated union over the
// given candidate shapes. Each candidate must be a struct implementing I and
// must expose the discriminant field with a concrete `default` tag so the
// discriminant can be read without resolving the union.
//
//	schema.DefineUnion[Store]("type", StoreA{}, StoreB{})
func DefineUnion[I any](discriminant string, candidates ...any) error {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		return fmt.Errorf("schema: union target %s is not an interface", iface)
	}
	if len(candidates) == 0 {
		return fmt.Errorf("schema: union %s needs at least one candidate", iface)
	}

	variants := make([]reflect.Type, 0, len(candidates))
	for _, c := range candidates {
		t := reflect.TypeOf(c)
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return fmt.Errorf("schema: union candidate %s is not a struct", t)
		}
		if !t.Implements(iface) && !reflect.PointerTo(t).Implements(iface) {
			return fmt.Errorf("schema: candidate %s does not implement %s", t, iface)
		}
		if _, ok := discriminantTag(t, discriminant); !ok {
			return fmt.Errorf("schema: candidate %s lacks discriminant field %q with a concrete default", t, discriminant)
		}
		variants = append(variants, t)
	}

	unionMu.Lock()
	defer unionMu.Unlock()
	unions[iface] = unionSpec{discriminant: discriminant, variants: variants}
	return nil
}

// MustDefineUnion is DefineUnion that panics on error; intended for
// package-level var blocks.
func MustDefineUnion[I any](discriminant string, candidates ...any) {
	if err := DefineUnion[I](discriminant, candidates...); err != nil {
		panic(err)
	}
}

// ResetUnions clears all registered unions. Test harness use only.
func ResetUnions() {
	unionMu.Lock()
	defer unionMu.Unlock()
	unions = make(map[reflect.Type]unionSpec)
}

func unionFor(t reflect.Type) (unionSpec, bool) {
	unionMu.RLock()
	defer unionMu.RUnlock()
	spec, ok := unions[t]
	return spec, ok
}

// discriminantTag returns the concrete default value of the discriminant
// field on a candidate struct.
func discriminantTag(t reflect.Type, discriminant string) (string, bool) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if fieldKey(sf) != discriminant {
			continue
		}
		def := sf.Tag.Get("default")
		if def == "" {
			return "", false
		}
		return def, true
	}
	return "", false
}
