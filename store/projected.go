package store

import (
	"io"
	"log/slog"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/document"
	"github.com/reoring/docskema/projection"
	"github.com/reoring/docskema/reactive"
)

// Types resolves component type names found in a document.
type Types interface {
	Lookup(name string) (*Type, bool)
}

// ProjectedOptions configures a Projected store. The zero value is usable.
type ProjectedOptions struct {
	// Logger receives debug records for recovered decode failures and
	// remote changes. Nil discards them.
	Logger *slog.Logger
	// Origin tags the document changes made by this store.
	Origin string
}

// Projected keeps components in a document shaped
// {entityId: {typeName: encodedState}}. Component state is read from the
// document on every access and writes go through projections, so remote
// changes merged into the document show up as new state.
type Projected struct {
	doc     *document.Document
	types   Types
	known   map[string]*Type
	holders map[*Type]*docskema.Schema
	rt      *reactive.Runtime
	log     *slog.Logger
	origin  string
	changed *reactive.Source
	queries *reactive.Shared[[]EntityID]
	cancel  func()
}

var _ Store = (*Projected)(nil)

// NewProjected returns a store over doc. types may be nil when every
// component type is introduced through this store's own writes.
func NewProjected(doc *document.Document, types Types, rt *reactive.Runtime, opts ProjectedOptions) *Projected {
	if rt == nil {
		rt = reactive.NewRuntime()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Projected{
		doc:     doc,
		types:   types,
		known:   map[string]*Type{},
		holders: map[*Type]*docskema.Schema{},
		rt:      rt,
		log:     log,
		origin:  opts.Origin,
		changed: rt.NewSource(),
		queries: reactive.NewShared[[]EntityID](),
	}
	s.cancel = doc.Subscribe(s.onChange)
	return s
}

// Close stops following the document.
func (s *Projected) Close() { s.cancel() }

// Document returns the backing document.
func (s *Projected) Document() *document.Document { return s.doc }

func (s *Projected) Runtime() *reactive.Runtime { return s.rt }

func (s *Projected) onChange(ev document.Event) {
	if ev.Origin != s.origin {
		s.log.Debug("document changed remotely", "origin", ev.Origin, "seq", ev.Seq)
	}
	s.rt.Batch(s.changed.Bump)
}

func (s *Projected) entity(id EntityID) (*document.Map, bool) {
	v, ok := s.doc.Root().Get(string(id))
	if !ok {
		return nil, false
	}
	m, ok := v.(*document.Map)
	return m, ok
}

func (s *Projected) Entities() []EntityID {
	out := map[EntityID]struct{}{}
	root := s.doc.Root()
	for _, k := range root.Keys() {
		if _, ok := s.entity(EntityID(k)); ok {
			out[EntityID(k)] = struct{}{}
		}
	}
	return sortedIDs(out)
}

func (s *Projected) EntitiesWithComponentType(name string) []EntityID {
	out := map[EntityID]struct{}{}
	for _, id := range s.Entities() {
		e, _ := s.entity(id)
		if _, ok := e.Get(name); ok {
			out[id] = struct{}{}
		}
	}
	return sortedIDs(out)
}

func (s *Projected) CreateEntity(cs ...*Component) EntityID {
	id := NewEntityID()
	for {
		if _, taken := s.doc.Root().Get(string(id)); !taken {
			break
		}
		id = NewEntityID()
	}
	_ = s.CreateEntityWithID(id, cs...)
	return id
}

// CreateEntityWithID writes the entity with every component encoded in one
// document change, then rebinds the passed components to the document.
func (s *Projected) CreateEntityWithID(id EntityID, cs ...*Component) error {
	if _, taken := s.doc.Root().Get(string(id)); taken {
		return ErrEntityExists
	}
	rec := s.encodeAll(cs)
	s.rt.Batch(func() {
		s.doc.ChangeFrom(s.origin, func(root *document.Map) {
			root.Set(string(id), rec)
		})
		s.rebind(id, cs)
	})
	return nil
}

func (s *Projected) DestroyEntity(id EntityID) {
	if _, ok := s.entity(id); !ok {
		return
	}
	s.rt.Batch(func() {
		s.doc.ChangeFrom(s.origin, func(root *document.Map) {
			root.Delete(string(id))
		})
	})
}

func (s *Projected) GetComponent(id EntityID, name string) (*Component, bool) {
	e, ok := s.entity(id)
	if !ok {
		return nil, false
	}
	if _, ok := e.Get(name); !ok {
		return nil, false
	}
	t, ok := s.lookup(name)
	if !ok {
		s.log.Debug("component type not registered", "entity", id, "type", name)
		return nil, false
	}
	c := &Component{typ: t}
	s.bindProjected(c, id)
	return c, true
}

func (s *Projected) GetComponents(id EntityID) map[string]*Component {
	e, ok := s.entity(id)
	if !ok {
		return nil
	}
	out := map[string]*Component{}
	for _, name := range e.Keys() {
		if c, ok := s.GetComponent(id, name); ok {
			out[name] = c
		}
	}
	return out
}

func (s *Projected) SetComponent(id EntityID, c *Component) error {
	return s.SetComponents(id, c)
}

// SetComponents writes the components in one document change and rebinds
// them to the document.
func (s *Projected) SetComponents(id EntityID, cs ...*Component) error {
	if _, ok := s.entity(id); !ok {
		return ErrUnknownEntity
	}
	rec := s.encodeAll(cs)
	s.rt.Batch(func() {
		s.doc.ChangeFrom(s.origin, func(root *document.Map) {
			v, _ := root.Get(string(id))
			e, ok := v.(*document.Map)
			if !ok {
				return
			}
			for _, c := range cs {
				e.Set(c.Type().Name, rec[c.Type().Name])
			}
		})
		s.rebind(id, cs)
	})
	return nil
}

func (s *Projected) UnsetComponent(id EntityID, name string) { s.UnsetComponents(id, name) }

func (s *Projected) UnsetComponents(id EntityID, names ...string) {
	if _, ok := s.entity(id); !ok {
		return
	}
	s.rt.Batch(func() {
		s.doc.ChangeFrom(s.origin, func(root *document.Map) {
			v, _ := root.Get(string(id))
			if e, ok := v.(*document.Map); ok {
				for _, name := range names {
					e.Delete(name)
				}
			}
		})
	})
}

func (s *Projected) WatchEntities() *reactive.Query[[]EntityID] {
	return s.queries.Acquire(allEntitiesKey, func() *reactive.Memo[[]EntityID] {
		return reactive.NewMemo(s.rt, s.Entities, sameIDs, s.changed)
	})
}

func (s *Projected) WatchEntitiesWithComponentType(name string) *reactive.Query[[]EntityID] {
	return s.queries.Acquire(name, func() *reactive.Memo[[]EntityID] {
		return reactive.NewMemo(s.rt, func() []EntityID { return s.EntitiesWithComponentType(name) }, sameIDs, s.changed)
	})
}

func (s *Projected) lookup(name string) (*Type, bool) {
	if t, ok := s.known[name]; ok {
		return t, true
	}
	if s.types == nil {
		return nil, false
	}
	return s.types.Lookup(name)
}

func (s *Projected) encodeAll(cs []*Component) map[string]any {
	rec := make(map[string]any, len(cs))
	for _, c := range cs {
		s.known[c.Type().Name] = c.Type()
		rec[c.Type().Name] = c.Encoded()
	}
	return rec
}

func (s *Projected) rebind(id EntityID, cs []*Component) {
	for _, c := range cs {
		s.bindProjected(c, id)
	}
}

// holder returns the single-field Object schema used to project one
// component slot of an entity record.
func (s *Projected) holder(t *Type) *docskema.Schema {
	h, ok := s.holders[t]
	if !ok {
		h = docskema.Object(docskema.Field{Name: t.Name, Schema: t.Schema})
		s.holders[t] = h
	}
	return h
}

func (s *Projected) entityView(id EntityID, t *Type) *projection.ObjectView {
	e, ok := s.entity(id)
	if !ok {
		return nil
	}
	return projection.NewObjectView(s.holder(t), e, func(mutate func(any)) {
		s.rt.Batch(func() {
			s.doc.ChangeFrom(s.origin, func(root *document.Map) {
				v, _ := root.Get(string(id))
				mutate(v)
			})
		})
	})
}

// bindProjected points c at doc[id][type]: reads decode the current
// document value, writes go through the component's projection.
func (s *Projected) bindProjected(c *Component, id EntityID) {
	t := c.Type()
	view := func() projection.Node {
		ev := s.entityView(id, t)
		if ev == nil {
			return nil
		}
		n, _ := ev.Get(t.Name).(projection.Node)
		return n
	}
	get := func() any {
		e, ok := s.entity(id)
		if !ok {
			return docskema.SynthesizeDefault(t.Schema)
		}
		raw, ok := e.Get(t.Name)
		if !ok {
			return docskema.SynthesizeDefault(t.Schema)
		}
		v, iss := docskema.DecodeLenient(t.Schema, raw)
		if len(iss) > 0 {
			s.log.Debug("component state fell back to defaults", "entity", id, "type", t.Name, "err", iss)
		}
		return v
	}
	set := func(v any) {
		if n := view(); n != nil {
			n.Assign(v)
			return
		}
		if ev := s.entityView(id, t); ev != nil {
			ev.Set(t.Name, v)
		}
	}
	c.bind(get, set, view)
}
