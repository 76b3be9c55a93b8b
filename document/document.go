package document

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	docskema "github.com/reoring/docskema"
)

// OriginRemote marks changes applied by Merge.
const OriginRemote = "remote"

// ErrNotObject is returned when a document root is not a JSON object.
var ErrNotObject = errors.New("document: root must be an object")

// Event describes one committed change.
type Event struct {
	Origin string // Empty for local changes.
	Seq    uint64
}

// Document is an in-process replicated document: a mutable JSON-like tree
// whose root is always a *Map. Mutations are grouped with Change and
// announced to subscribers after the outermost Change returns.
type Document struct {
	root   *Map
	depth  int
	seq    uint64
	origin string
	subs   []*subscriber
}

type subscriber struct {
	fn func(Event)
}

// New returns an empty document.
func New() *Document { return &Document{root: NewMap()} }

// FromSnapshot builds a document from a plain JSON object.
func FromSnapshot(raw map[string]any) *Document {
	d := New()
	for _, k := range sortedKeys(raw) {
		d.root.Set(k, raw[k])
	}
	return d
}

// Root returns the root node. Reads are always allowed; writes should go
// through Change so subscribers observe them.
func (d *Document) Root() *Map { return d.root }

// Seq returns the number of committed changes.
func (d *Document) Seq() uint64 { return d.seq }

// Change applies fn as one local transaction.
func (d *Document) Change(fn func(root *Map)) { d.ChangeFrom("", fn) }

// ChangeFrom applies fn as one transaction tagged with origin. Nested calls
// join the outermost transaction, which keeps the outermost origin.
func (d *Document) ChangeFrom(origin string, fn func(root *Map)) {
	if d.depth == 0 {
		d.origin = origin
	}
	d.depth++
	defer func() {
		d.depth--
		if d.depth > 0 {
			return
		}
		d.seq++
		ev := Event{Origin: d.origin, Seq: d.seq}
		d.origin = ""
		d.notify(ev)
	}()
	fn(d.root)
}

// Subscribe registers fn for committed changes and returns a cancel func.
func (d *Document) Subscribe(fn func(Event)) (cancel func()) {
	s := &subscriber{fn: fn}
	d.subs = append(d.subs, s)
	return func() {
		for i, x := range d.subs {
			if x == s {
				d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) notify(ev Event) {
	for _, s := range append([]*subscriber(nil), d.subs...) {
		s.fn(ev)
	}
}

// Snapshot returns a deep plain copy of the document.
func (d *Document) Snapshot() map[string]any {
	return docskema.Plain(d.root).(map[string]any)
}

// Merge overwrites the document with a remote snapshot. Containers whose
// kind did not change are updated in place and keep their identity.
func (d *Document) Merge(raw any) error {
	m, ok := raw.(map[string]any)
	if !ok {
		if mn, isNode := raw.(docskema.MapNode); isNode {
			m, _ = docskema.Plain(mn).(map[string]any)
			ok = true
		}
	}
	if !ok {
		return ErrNotObject
	}
	d.ChangeFrom(OriginRemote, func(root *Map) { mergeMap(root, m) })
	return nil
}

func mergeMap(dst *Map, src map[string]any) {
	for _, k := range dst.Keys() {
		if _, keep := src[k]; !keep {
			dst.Delete(k)
		}
	}
	for _, k := range sortedKeys(src) {
		cur, ok := dst.Get(k)
		if !ok || !mergeInto(cur, src[k]) {
			dst.Set(k, src[k])
		}
	}
}

// mergeInto updates cur in place from v when both are containers of the
// same kind. For scalars it reports whether cur already equals v.
func mergeInto(cur, v any) bool {
	switch c := cur.(type) {
	case *Map:
		src, ok := v.(map[string]any)
		if ok {
			mergeMap(c, src)
		}
		return ok
	case *List:
		src, ok := v.([]any)
		if ok {
			mergeList(c, src)
		}
		return ok
	}
	switch v.(type) {
	case map[string]any, []any:
		return false
	}
	return docskema.EncodedEqual(cur, v)
}

func mergeList(dst *List, src []any) {
	if len(src) < dst.Len() {
		dst.Truncate(len(src))
	}
	for i, v := range src {
		if i >= dst.Len() {
			dst.Append(v)
			continue
		}
		if !mergeInto(dst.At(i), v) {
			dst.SetAt(i, v)
		}
	}
}

// MarshalJSON encodes the document snapshot.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Snapshot())
}

// LoadJSON merges a JSON object into the document as a remote change.
func (d *Document) LoadJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("document: load json: %w", err)
	}
	return d.Merge(raw)
}

// MarshalYAML lets yaml.v3 encode the document as its snapshot.
func (d *Document) MarshalYAML() (any, error) {
	return d.Snapshot(), nil
}
