package docskema

import (
	json "github.com/goccy/go-json"
)

// Encode converts a typed value into its untyped form. MaybeUndefined and
// MaybeNull both encode absence as nil. Values that do not fit the schema
// encode as the schema's default.
func Encode(s *Schema, v any) any {
	switch s.kind {
	case KindBoolean:
		b, _ := v.(bool)
		return b
	case KindNumber:
		f, _ := toFloat(v)
		return f
	case KindString:
		str, _ := v.(string)
		return str
	case KindJSON:
		return Plain(v)
	case KindMaybeUndefined, KindMaybeNull:
		if v == nil || IsUndefined(v) {
			return nil
		}
		return Encode(s.inner, v)
	case KindArray:
		items, ok := sliceOf(v)
		if !ok {
			n, at, isList := asList(v)
			if !isList {
				return []any{}
			}
			items = make([]any, n)
			for i := range items {
				items[i] = at(i)
			}
		}
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = Encode(s.inner, it)
		}
		return out
	case KindObject:
		return encodeFields(s.fields, recordOf(v))
	case KindUnion:
		rec := recordOf(v)
		tag, _ := rec(s.selector)
		name, _ := tag.(string)
		i := s.variantIndex(name)
		if i < 0 {
			i = 0
		}
		out := encodeFields(s.shapes[i].fields, rec)
		out[s.selector] = s.variants[i].Name
		return out
	case KindInvariant:
		return Encode(s.inner, s.to(v))
	case KindDefault:
		return Encode(s.inner, v)
	case KindRecursive:
		return Encode(s.Force(), v)
	}
	return nil
}

func encodeFields(fields []Field, rec func(string) (any, bool)) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		fv, ok := rec(f.Name)
		if !ok {
			fv = SynthesizeDefault(f.Schema)
		}
		out[f.Name] = Encode(f.Schema, fv)
	}
	return out
}

// recordOf views a typed record. Maps and document containers are read
// directly; structs are bridged through their JSON form.
func recordOf(v any) func(string) (any, bool) {
	if get, ok := asMap(v); ok {
		return get
	}
	if v != nil {
		if b, err := json.Marshal(v); err == nil {
			var m map[string]any
			if json.Unmarshal(b, &m) == nil && m != nil {
				return func(k string) (any, bool) { x, ok := m[k]; return x, ok }
			}
		}
	}
	return func(string) (any, bool) { return nil, false }
}
