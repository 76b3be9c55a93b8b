// Package docskema maps a compact declarative schema onto untyped,
// path-addressable document values.
//
// It provides:
//
// - A closed schema model (Boolean, Number, String, JSON, MaybeUndefined,
// MaybeNull, Array, Object, Union, Invariant, Default, Recursive)
// - Pure codec functions over it: Decode (validating), Encode, SynthesizeDefault
// and Equal
// - A stable error model via Issues (JSON Pointer, code, message)
// - JSON Schema export of the encoded form
//
// Design policy:
// - Keep only the schema model and codec in the root package.
// - Place the fluent builders under dsl/, ready-made Invariant schemas under
// codec/, live document views under projection/, and entity/component
// stores under store/ and registry/; snapshot/ persists serialized worlds.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	point := codec.Vec2Schema()
//	body := dsl.Object().
//	    Field("pos", point).
//	    Field("tags", dsl.Array(dsl.String())).
//	    MustBuild()
//
//	v, err := docskema.Decode(body, map[string]any{"pos": map[string]any{"x": 1, "y": 2}})
//	raw := docskema.Encode(body, v)
package docskema
