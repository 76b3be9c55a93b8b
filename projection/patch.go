package projection

import (
	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/document"
)

// patch writes enc over cur in place when s describes a container and cur
// is the matching document node. It reports false when cur has to be
// replaced instead.
func patch(s *docskema.Schema, cur, enc any) bool {
	switch sh := shape(s); sh.Kind() {
	case docskema.KindObject:
		m, ok := cur.(*document.Map)
		rec, isRec := enc.(map[string]any)
		if !ok || !isRec {
			return false
		}
		patchMap(sh, m, rec)
		return true
	case docskema.KindArray:
		l, ok := cur.(*document.List)
		items, isList := enc.([]any)
		if !ok || !isList {
			return false
		}
		patchList(sh.Inner(), l, items)
		return true
	}
	return false
}

// patchMap writes the declared fields of rec into m. Unchanged fields are
// left alone; undeclared keys of m are kept.
func patchMap(sh *docskema.Schema, m *document.Map, rec map[string]any) {
	for _, f := range sh.Fields() {
		enc := rec[f.Name]
		cur, present := m.Get(f.Name)
		if present && (docskema.EncodedEqual(cur, enc) || patch(f.Schema, cur, enc)) {
			continue
		}
		m.Set(f.Name, enc)
	}
}

// patchList makes l hold items, reusing the nodes of surviving elements.
func patchList(elem *docskema.Schema, l *document.List, items []any) {
	n := l.Len()
	for i := 0; i < len(items) && i < n; i++ {
		cur := l.At(i)
		if docskema.EncodedEqual(cur, items[i]) || patch(elem, cur, items[i]) {
			continue
		}
		l.SetAt(i, items[i])
	}
	switch {
	case len(items) < n:
		l.Truncate(len(items))
	case len(items) > n:
		l.Append(items[n:]...)
	}
}

func fieldsChanged(sh *docskema.Schema, m *document.Map, rec map[string]any) bool {
	for _, f := range sh.Fields() {
		cur, present := m.Get(f.Name)
		if !present || !docskema.EncodedEqual(cur, rec[f.Name]) {
			return true
		}
	}
	return false
}

func elementsChanged(l *document.List, items []any) bool {
	if l.Len() != len(items) {
		return true
	}
	for i, it := range items {
		if !docskema.EncodedEqual(l.At(i), it) {
			return true
		}
	}
	return false
}
