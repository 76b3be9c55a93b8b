package dsl

import (
	docskema "github.com/reoring/docskema"
)

// Invariant presents the domain type T over inner. from receives inner's
// decoded value; to returns a value inner can encode. Typed values that are
// not already T (a plain record, say) are bound to T before to runs.
func Invariant[T any](inner *docskema.Schema, from func(any) T, to func(T) any) *docskema.Schema {
	return docskema.Invariant(
		func(v any) any { return from(v) },
		func(v any) any {
			t, err := docskema.As[T](v)
			if err != nil {
				return docskema.SynthesizeDefault(inner)
			}
			return to(t)
		},
		inner,
	)
}
