// Package dsl provides fluent builders for docskema schemas.
//
// Overview
//   - Object(): declare a record with Field/Optional/Nullable, then Build or MustBuild.
//   - Discriminator(key) + OneOf(Variant(...)): turn the builder into a tagged union.
//   - Primitives: Bool(), Number(), String(), JSON().
//   - Wrappers: Optional(s), Nullable(s), Array(elem), Default(fallback, s), Lazy(thunk).
//   - Invariant[T](inner, from, to): present a Go domain type over a plain encoding.
//
// Quickstart
//
//	point := dsl.Invariant[Point](
//	    dsl.Object().Field("x", dsl.Number()).Field("y", dsl.Number()).MustBuild(),
//	    func(v any) Point { m := v.(map[string]any); return Point{m["x"].(float64), m["y"].(float64)} },
//	    func(p Point) any { return map[string]any{"x": p.X, "y": p.Y} },
//	)
//
//	event := dsl.Object().
//	    Discriminator("type").
//	    OneOf(
//	        dsl.Variant("click", dsl.Object().Field("x", dsl.Number()).Field("y", dsl.Number()).MustBuild()),
//	        dsl.Variant("scroll", dsl.Object().Field("deltaY", dsl.Number()).MustBuild()),
//	    ).
//	    MustBuild()
//
// Build reports builder mistakes (empty or duplicate field names, nil
// schemas, unions without variants) as docskema.Issues; MustBuild panics
// with them.
package dsl
