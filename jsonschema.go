package docskema

import (
	"sort"

	js "github.com/reoring/docskema/jsonschema"
)

// JSONSchema projects s into a JSON Schema describing its encoded form.
// A Recursive node met again on the same path is emitted as an empty schema.
func JSONSchema(s *Schema) (*js.Schema, error) {
	return exportSchema(s, map[*Schema]bool{}), nil
}

func exportSchema(s *Schema, active map[*Schema]bool) *js.Schema {
	switch s.kind {
	case KindBoolean:
		return &js.Schema{Type: "boolean"}
	case KindNumber:
		return &js.Schema{Type: "number"}
	case KindString:
		return &js.Schema{Type: "string"}
	case KindJSON:
		return &js.Schema{}
	case KindMaybeUndefined, KindMaybeNull:
		return &js.Schema{AnyOf: []*js.Schema{exportSchema(s.inner, active), js.Null()}}
	case KindArray:
		return &js.Schema{Type: "array", Items: exportSchema(s.inner, active)}
	case KindObject:
		return exportFields(s.fields, active)
	case KindUnion:
		out := &js.Schema{OneOf: make([]*js.Schema, 0, len(s.variants))}
		for _, v := range s.variants {
			vs := exportFields(v.Fields, active)
			vs.Properties[s.selector] = &js.Schema{Type: "string", Const: v.Name}
			vs.Required = appendSorted(vs.Required, s.selector)
			out.OneOf = append(out.OneOf, vs)
		}
		return out
	case KindInvariant:
		return exportSchema(s.inner, active)
	case KindDefault:
		out := exportSchema(s.inner, active)
		out.Default = Encode(s.inner, s.fallback)
		return out
	case KindRecursive:
		if active[s] {
			return &js.Schema{}
		}
		active[s] = true
		defer delete(active, s)
		return exportSchema(s.Force(), active)
	}
	return &js.Schema{}
}

func exportFields(fields []Field, active map[*Schema]bool) *js.Schema {
	props := make(map[string]*js.Schema, len(fields))
	req := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = exportSchema(f.Schema, active)
		switch f.Schema.kind {
		case KindMaybeUndefined, KindDefault:
		default:
			req = append(req, f.Name)
		}
	}
	sort.Strings(req)
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: true}
}

func appendSorted(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	list = append(list, s)
	sort.Strings(list)
	return list
}
