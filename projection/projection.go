// Package projection builds live typed views over document nodes.
//
// A view decodes on every read and writes by encoding the new value and
// handing a mutator to the view's ApplyChange. Nested views compose their
// parent's ApplyChange over the node they were built on, so a write deep in
// the tree runs as a single transaction against the root and always lands on
// the node the view reads. Views are cached per (schema, node) without
// pinning either, so projecting the same node twice yields the same view as
// long as someone still holds it.
package projection

import (
	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/document"
	"github.com/reoring/docskema/internal/weakcache"
)

// ApplyChange runs mutate inside a transaction, passing the node the view
// was built over.
type ApplyChange func(mutate func(node any))

// Node is implemented by *ObjectView and *ArrayView.
type Node interface {
	Schema() *docskema.Schema
	// Value returns a decoded snapshot of the whole node.
	Value() any
	// Assign writes v over the node in one transaction.
	Assign(v any)
}

var (
	objectViews = weakcache.New[document.Map, ObjectView]()
	arrayViews  = weakcache.New[document.List, ArrayView]()
)

// Project returns the view for node under s. It panics with a
// *docskema.SchemaMismatchError when s is neither Object- nor Array-shaped,
// and reports false when node is not the container s calls for.
func Project(s *docskema.Schema, node any, apply ApplyChange) (Node, bool) {
	switch shape(s).Kind() {
	case docskema.KindObject:
		m, ok := node.(*document.Map)
		if !ok {
			return nil, false
		}
		return NewObjectView(s, m, apply), true
	case docskema.KindArray:
		l, ok := node.(*document.List)
		if !ok {
			return nil, false
		}
		return NewArrayView(s, l, apply), true
	}
	panic(mismatch(s, docskema.KindObject, docskema.KindArray))
}

// shape strips the wrappers a view can see through: Recursive thunks and
// Default fallbacks.
func shape(s *docskema.Schema) *docskema.Schema {
	for {
		switch s.Kind() {
		case docskema.KindRecursive:
			s = s.Force()
		case docskema.KindDefault:
			s = s.Inner()
		default:
			return s
		}
	}
}

func mismatch(s *docskema.Schema, want ...docskema.Kind) *docskema.SchemaMismatchError {
	return &docskema.SchemaMismatchError{Want: want, Got: shape(s).Kind()}
}

// child resolves a field or element: Object- and Array-shaped schemas over a
// matching container give a nested view, everything else decodes.
func child(s *docskema.Schema, raw any, present bool, apply ApplyChange) any {
	if present {
		switch shape(s).Kind() {
		case docskema.KindObject:
			if m, ok := raw.(*document.Map); ok {
				return NewObjectView(s, m, apply)
			}
		case docskema.KindArray:
			if l, ok := raw.(*document.List); ok {
				return NewArrayView(s, l, apply)
			}
		}
	}
	return read(s, raw, present)
}

// read decodes raw leniently: a sub-value that fails to decode becomes its
// default and its siblings are kept. Reads never fail.
func read(s *docskema.Schema, raw any, present bool) any {
	if !present {
		return docskema.SynthesizeDefault(s)
	}
	v, _ := docskema.DecodeLenient(s, raw)
	return v
}

// encode turns v into raw form; views are encoded from their snapshot.
func encode(s *docskema.Schema, v any) any {
	if n, ok := v.(Node); ok {
		v = n.Value()
	}
	return docskema.Encode(s, v)
}
