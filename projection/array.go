package projection

import (
	"iter"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/document"
)

// ArrayView is a live view over a *document.List shaped by an Array schema.
type ArrayView struct {
	schema *docskema.Schema
	elem   *docskema.Schema
	node   *document.List
	apply  ApplyChange

	snap    []any
	snapRev uint64
	snapOK  bool
}

// NewArrayView returns the view for l under s, reusing a cached one when
// the same node was already projected with the same schema. It panics with
// a *docskema.SchemaMismatchError unless s is Array-shaped.
func NewArrayView(s *docskema.Schema, l *document.List, apply ApplyChange) *ArrayView {
	sh := shape(s)
	if sh.Kind() != docskema.KindArray {
		panic(mismatch(s, docskema.KindArray))
	}
	return arrayViews.LoadOrCreate(s, l, func() *ArrayView {
		return &ArrayView{schema: s, elem: sh.Inner(), node: l, apply: apply}
	})
}

// Schema returns the schema the view was built with.
func (v *ArrayView) Schema() *docskema.Schema { return v.schema }

// Node returns the underlying document node.
func (v *ArrayView) Node() *document.List { return v.node }

// Len returns the current length of the list.
func (v *ArrayView) Len() int { return v.node.Len() }

// Get reads element i like ObjectView.Get reads a field. Out of range
// indexes read as nil.
func (v *ArrayView) Get(i int) any {
	if i < 0 || i >= v.node.Len() {
		return nil
	}
	raw := v.node.At(i)
	return child(v.elem, raw, true, v.childApply(raw))
}

// Set writes element i. Writing at or past the end grows the list with
// element defaults first. Negative indexes are ignored.
func (v *ArrayView) Set(i int, val any) {
	if i < 0 {
		return
	}
	enc := encode(v.elem, val)
	n := v.node.Len()
	if i < n {
		if docskema.EncodedEqual(v.node.At(i), enc) {
			return
		}
		v.apply(func(node any) {
			if l, ok := node.(*document.List); ok {
				l.SetAt(i, enc)
			}
		})
		return
	}
	pad := v.defaults(i - n)
	v.apply(func(node any) {
		if l, ok := node.(*document.List); ok {
			l.Append(pad...)
			l.Append(enc)
		}
	})
}

// SetLen grows the list with element defaults or drops trailing elements.
func (v *ArrayView) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	cur := v.node.Len()
	switch {
	case n == cur:
		return
	case n < cur:
		v.apply(func(node any) {
			if l, ok := node.(*document.List); ok {
				l.Truncate(n)
			}
		})
	default:
		pad := v.defaults(n - cur)
		v.apply(func(node any) {
			if l, ok := node.(*document.List); ok {
				l.Append(pad...)
			}
		})
	}
}

// Push appends values in one transaction.
func (v *ArrayView) Push(vals ...any) {
	if len(vals) == 0 {
		return
	}
	enc := make([]any, len(vals))
	for i, val := range vals {
		enc[i] = encode(v.elem, val)
	}
	v.apply(func(node any) {
		if l, ok := node.(*document.List); ok {
			l.Append(enc...)
		}
	})
}

// All iterates over the elements as Get returns them.
func (v *ArrayView) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i := 0; i < v.node.Len(); i++ {
			if !yield(i, v.Get(i)) {
				return
			}
		}
	}
}

// Snapshot returns the elements as a plain slice. The slice is rebuilt
// only when the list's own slots changed since the last call; nested views
// in it stay live.
func (v *ArrayView) Snapshot() []any {
	if v.snapOK && v.snapRev == v.node.Rev() {
		return v.snap
	}
	out := make([]any, 0, v.node.Len())
	for _, e := range v.All() {
		out = append(out, e)
	}
	v.snap, v.snapRev, v.snapOK = out, v.node.Rev(), true
	return out
}

// Value decodes the whole list.
func (v *ArrayView) Value() any {
	return read(v.schema, v.node, true)
}

// Assign replaces the contents with val in one transaction, keeping
// unchanged elements in place and patching nested containers.
func (v *ArrayView) Assign(val any) {
	items, _ := encode(shape(v.schema), val).([]any)
	if !elementsChanged(v.node, items) {
		return
	}
	v.apply(func(node any) {
		if l, ok := node.(*document.List); ok {
			patchList(v.elem, l, items)
		}
	})
}

func (v *ArrayView) defaults(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = docskema.Encode(v.elem, docskema.SynthesizeDefault(v.elem))
	}
	return out
}

func (v *ArrayView) childApply(node any) ApplyChange {
	return func(mutate func(any)) {
		v.apply(func(any) { mutate(node) })
	}
}
