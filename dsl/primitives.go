package dsl

import (
	docskema "github.com/reoring/docskema"
)

// Bool returns the boolean schema.
func Bool() *docskema.Schema { return docskema.Boolean() }

// Number returns the number schema (float64 typed values).
func Number() *docskema.Schema { return docskema.Number() }

// String returns the string schema.
func String() *docskema.Schema { return docskema.String() }

// JSON returns the opaque passthrough schema.
func JSON() *docskema.Schema { return docskema.JSON() }

// Optional wraps s so that absence decodes to docskema.Undefined.
func Optional(s *docskema.Schema) *docskema.Schema { return docskema.MaybeUndefined(s) }

// Nullable wraps s so that null decodes to nil.
func Nullable(s *docskema.Schema) *docskema.Schema { return docskema.MaybeNull(s) }

// Array returns an array schema with the given element schema.
func Array(elem *docskema.Schema) *docskema.Schema { return docskema.Array(elem) }

// Default recovers decode failures of s to fallback.
func Default(fallback any, s *docskema.Schema) *docskema.Schema {
	return docskema.Default(fallback, s)
}

// Lazy builds a self-referential schema. The thunk runs on every use, so it
// should return a schema value built once elsewhere:
//
//	var node *docskema.Schema
//	node = dsl.Object().
//	    Field("name", dsl.String()).
//	    Field("children", dsl.Array(dsl.Lazy(func() *docskema.Schema { return node }))).
//	    MustBuild()
func Lazy(thunk func() *docskema.Schema) *docskema.Schema { return docskema.Recursive(thunk) }
