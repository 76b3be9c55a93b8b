package docskema

// SynthesizeDefault returns the default typed value for s:
//
//	Boolean false, Number 0, String "", Json nil, MaybeUndefined Undefined,
//	MaybeNull nil, Array empty, Object a record of field defaults,
//	Union the first variant with defaulted fields, Invariant from(default(inner)),
//	Default its fallback, Recursive the default of the forced schema.
//
// A Recursive shape whose default requires itself (an Object field pointing
// straight back at its parent) never terminates; route recursion through
// Array, MaybeNull or MaybeUndefined.
func SynthesizeDefault(s *Schema) any {
	switch s.kind {
	case KindBoolean:
		return false
	case KindNumber:
		return float64(0)
	case KindString:
		return ""
	case KindJSON:
		return nil
	case KindMaybeUndefined:
		return Undefined
	case KindMaybeNull:
		return nil
	case KindArray:
		return []any{}
	case KindObject:
		return defaultFields(s.fields)
	case KindUnion:
		out := defaultFields(s.variants[0].Fields)
		out[s.selector] = s.variants[0].Name
		return out
	case KindInvariant:
		return s.from(SynthesizeDefault(s.inner))
	case KindDefault:
		return cloneValue(s.fallback)
	case KindRecursive:
		return SynthesizeDefault(s.Force())
	}
	return nil
}

func defaultFields(fields []Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Name] = SynthesizeDefault(f.Schema)
	}
	return out
}
