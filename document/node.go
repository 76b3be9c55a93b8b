package document

import (
	"slices"

	docskema "github.com/reoring/docskema"
)

// Map is a keyed container node. Its pointer is its identity: mutating a
// field keeps the node, replacing it with a plain map creates a new one.
// Keys keep insertion order.
type Map struct {
	keys []string
	vals map[string]any
}

// List is an indexed container node.
type List struct {
	items []any
	rev   uint64
}

var (
	_ docskema.MapNode  = (*Map)(nil)
	_ docskema.ListNode = (*List)(nil)
)

// NewMap returns an empty map node.
func NewMap() *Map { return &Map{vals: map[string]any{}} }

// NewList returns a list node holding items converted by FromPlain.
func NewList(items ...any) *List {
	l := &List{items: make([]any, 0, len(items))}
	for _, it := range items {
		l.items = append(l.items, FromPlain(it))
	}
	return l
}

// FromPlain converts plain JSON values into document nodes: map[string]any
// becomes *Map, []any becomes *List, numbers become float64. Existing nodes
// are kept as they are.
func FromPlain(v any) any {
	switch t := v.(type) {
	case *Map, *List:
		return t
	case map[string]any:
		m := NewMap()
		for _, k := range sortedKeys(t) {
			m.Set(k, t[k])
		}
		return m
	case []any:
		return NewList(t...)
	}
	return docskema.Plain(v)
}

// Get returns the value stored at key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Set stores v at key, converting plain containers into fresh nodes.
func (m *Map) Set(key string, v any) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = FromPlain(v)
}

// Delete removes key. Missing keys are ignored.
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the item at i, or nil when i is out of range.
func (l *List) At(i int) any {
	if l == nil || i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// SetAt replaces the item at i. Out of range indexes are ignored.
func (l *List) SetAt(i int, v any) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.items[i] = FromPlain(v)
	l.rev++
}

// Append adds items at the end.
func (l *List) Append(vs ...any) {
	for _, v := range vs {
		l.items = append(l.items, FromPlain(v))
	}
	l.rev++
}

// Truncate keeps the first n items.
func (l *List) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(l.items) {
		return
	}
	clear(l.items[n:])
	l.items = l.items[:n]
	l.rev++
}

// Rev counts the mutations applied to the list's own slots. Changes inside
// child nodes do not bump it.
func (l *List) Rev() uint64 {
	if l == nil {
		return 0
	}
	return l.rev
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
