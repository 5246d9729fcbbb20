package restructure

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/kbukum/dependkit/schema"
)

// Restructure rewrites raw nested data so that discriminator-wrapper keys
// are unwrapped and underscore-named fields are merged, at every nesting
// level, producing data ready for direct decoding.
//
// The transformation is pure (the input is never mutated), total over any
// structurally well-formed pair, and idempotent on already-flat data. Keys
// the schema does not know pass through unchanged.
func Restructure(raw any, s *schema.Schema) any {
	if s == nil || raw == nil {
		return raw
	}

	switch s.Kind {
	case schema.KindStruct:
		m, ok := raw.(map[string]any)
		if !ok {
			return raw
		}
		return restructureStruct(m, s)

	case schema.KindUnion:
		m, ok := raw.(map[string]any)
		if !ok {
			return raw
		}
		return restructureUnion(m, s)

	case schema.KindList:
		list, ok := raw.([]any)
		if !ok {
			return raw
		}
		out := make([]any, len(list))
		for i, v := range list {
			out[i] = Restructure(v, s.Elem)
		}
		return out

	case schema.KindMap:
		m, ok := raw.(map[string]any)
		if !ok {
			return raw
		}
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = Restructure(v, s.Elem)
		}
		return out

	default:
		// Scalars and any-shaped leaves pass through unchanged.
		return raw
	}
}

// restructureStruct resolves each schema field either from its flat key or
// by merging a nested {"outer": {"inner": v}} shape into "outer_inner": v,
// then recurses into the field's own schema.
func restructureStruct(m map[string]any, s *schema.Schema) map[string]any {
	out := make(map[string]any, len(m))
	consumed := make(map[string]bool, len(m))

	for _, f := range s.Fields {
		if v, ok := m[f.Name]; ok {
			out[f.Name] = Restructure(v, f.Schema)
			consumed[f.Name] = true
			continue
		}
		if !strings.Contains(f.Name, "_") {
			continue
		}
		if v, head, ok := lookupNested(m, f.Name); ok {
			out[f.Name] = Restructure(v, f.Schema)
			consumed[head] = true
		}
	}

	// Unknown keys pass through so the transformation stays total.
	for k, v := range m {
		if consumed[k] {
			continue
		}
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// restructureUnion reads the discriminant, selects the candidate, splices
// the candidate's wrapper subtree (keyed by the lowercased discriminant
// value) up to the current level, and recurses with the candidate schema.
// Data with a missing or unknown discriminant passes through unchanged;
// the loader, not the restructurer, reports that as an error.
func restructureUnion(m map[string]any, s *schema.Schema) any {
	tagRaw, ok := m[s.Discriminant]
	if !ok {
		return m
	}
	variant, ok := s.VariantByTag(cast.ToString(tagRaw))
	if !ok {
		return m
	}

	merged := make(map[string]any, len(m))
	for k, v := range m {
		merged[k] = v
	}

	wrapper := strings.ToLower(cast.ToString(tagRaw))
	if sub, head, found := extractWrapper(merged, wrapper); found {
		delete(merged, head)
		for k, v := range sub {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
	}

	return Restructure(merged, variant.Schema)
}

// extractWrapper locates the wrapper subtree for a lowercased candidate key,
// either as a flat key ("multi_value1") or as a nested path
// ({"multi": {"value1": ...}}). It returns the subtree and the top-level key
// holding it.
func extractWrapper(m map[string]any, key string) (map[string]any, string, bool) {
	if sub, ok := m[key].(map[string]any); ok {
		return sub, key, true
	}
	if v, head, ok := lookupNested(m, key); ok {
		if sub, ok2 := v.(map[string]any); ok2 {
			return sub, head, true
		}
	}
	return nil, "", false
}

// lookupNested resolves an underscore-joined key against nested maps,
// trying every split point: "a_b_c" matches {"a": {"b_c": v}},
// {"a": {"b": {"c": v}}}, and {"a_b": {"c": v}}. It returns the value and
// the top-level key that was consumed.
func lookupNested(m map[string]any, key string) (any, string, bool) {
	segs := strings.Split(key, "_")
	for i := 1; i < len(segs); i++ {
		head := strings.Join(segs[:i], "_")
		rest := strings.Join(segs[i:], "_")
		sub, ok := m[head].(map[string]any)
		if !ok {
			continue
		}
		if v, found := sub[rest]; found {
			return v, head, true
		}
		if v, _, found := lookupNested(sub, rest); found {
			return v, head, true
		}
	}
	return nil, "", false
}
