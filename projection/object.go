package projection

import (
	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/document"
)

// ObjectView is a live view over a *document.Map shaped by an Object schema.
type ObjectView struct {
	schema *docskema.Schema
	shape  *docskema.Schema
	node   *document.Map
	apply  ApplyChange
	extras map[string]any
}

// NewObjectView returns the view for m under s, reusing a cached one when
// the same node was already projected with the same schema. It panics with
// a *docskema.SchemaMismatchError unless s is Object-shaped.
func NewObjectView(s *docskema.Schema, m *document.Map, apply ApplyChange) *ObjectView {
	sh := shape(s)
	if sh.Kind() != docskema.KindObject {
		panic(mismatch(s, docskema.KindObject))
	}
	return objectViews.LoadOrCreate(s, m, func() *ObjectView {
		return &ObjectView{schema: s, shape: sh, node: m, apply: apply}
	})
}

// Schema returns the schema the view was built with.
func (v *ObjectView) Schema() *docskema.Schema { return v.schema }

// Node returns the underlying document node.
func (v *ObjectView) Node() *document.Map { return v.node }

// Keys returns the declared field names in order.
func (v *ObjectView) Keys() []string {
	fields := v.shape.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// Get reads a field. Object- and Array-shaped fields return nested views;
// other fields are decoded from the current document state, falling back
// to the field default. Undeclared keys read the view's own extras.
func (v *ObjectView) Get(key string) any {
	fs, ok := v.shape.Field(key)
	if !ok {
		return v.extras[key]
	}
	raw, present := v.node.Get(key)
	return child(fs, raw, present, v.childApply(raw))
}

// Set writes a field. Writes whose encoding matches the current raw value
// are dropped without calling ApplyChange. Undeclared keys are stored as
// extras and never reach the document.
func (v *ObjectView) Set(key string, val any) {
	fs, ok := v.shape.Field(key)
	if !ok {
		v.SetExtra(key, val)
		return
	}
	enc := encode(fs, val)
	if cur, present := v.node.Get(key); present && docskema.EncodedEqual(cur, enc) {
		return
	}
	v.apply(func(n any) {
		if m, ok := n.(*document.Map); ok {
			m.Set(key, enc)
		}
	})
}

// Value decodes the whole node.
func (v *ObjectView) Value() any {
	return read(v.schema, v.node, true)
}

// Assign writes every declared field of val in one transaction, skipping
// fields whose encoding is unchanged. Nested Object and Array fields are
// patched in place, so views over them stay attached.
func (v *ObjectView) Assign(val any) {
	rec, _ := encode(v.shape, val).(map[string]any)
	if !fieldsChanged(v.shape, v.node, rec) {
		return
	}
	v.apply(func(n any) {
		if m, ok := n.(*document.Map); ok {
			patchMap(v.shape, m, rec)
		}
	})
}

// SetExtra stores a value on the view itself.
func (v *ObjectView) SetExtra(key string, val any) {
	if v.extras == nil {
		v.extras = map[string]any{}
	}
	v.extras[key] = val
}

// Extra reads a value stored with SetExtra.
func (v *ObjectView) Extra(key string) (any, bool) {
	val, ok := v.extras[key]
	return val, ok
}

// childApply runs mutate against the node the child view was built over,
// inside this view's transaction. A child replaced in the document meanwhile
// keeps its own node, so the handle reads what it wrote.
func (v *ObjectView) childApply(node any) ApplyChange {
	return func(mutate func(any)) {
		v.apply(func(any) { mutate(node) })
	}
}
