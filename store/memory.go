package store

import (
	"maps"

	"github.com/reoring/docskema/reactive"
)

// Memory is the local backend: an entity table plus a type-name index,
// both maintained incrementally.
type Memory struct {
	rt       *reactive.Runtime
	entities map[EntityID]map[string]*Component
	index    map[string]map[EntityID]struct{}
	changed  *reactive.Source
	queries  *reactive.Shared[[]EntityID]
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty store. A nil runtime gets a private one.
func NewMemory(rt *reactive.Runtime) *Memory {
	if rt == nil {
		rt = reactive.NewRuntime()
	}
	return &Memory{
		rt:       rt,
		entities: map[EntityID]map[string]*Component{},
		index:    map[string]map[EntityID]struct{}{},
		changed:  rt.NewSource(),
		queries:  reactive.NewShared[[]EntityID](),
	}
}

func (s *Memory) Runtime() *reactive.Runtime { return s.rt }

func (s *Memory) Entities() []EntityID { return sortedIDs(s.entities) }

func (s *Memory) EntitiesWithComponentType(name string) []EntityID {
	return sortedIDs(s.index[name])
}

func (s *Memory) CreateEntity(cs ...*Component) EntityID {
	id := NewEntityID()
	for s.entities[id] != nil {
		id = NewEntityID()
	}
	_ = s.CreateEntityWithID(id, cs...)
	return id
}

func (s *Memory) CreateEntityWithID(id EntityID, cs ...*Component) error {
	if _, ok := s.entities[id]; ok {
		return ErrEntityExists
	}
	s.rt.Batch(func() {
		s.entities[id] = map[string]*Component{}
		for _, c := range cs {
			s.put(id, c)
		}
		s.changed.Bump()
	})
	return nil
}

func (s *Memory) DestroyEntity(id EntityID) {
	comps, ok := s.entities[id]
	if !ok {
		return
	}
	s.rt.Batch(func() {
		for name := range comps {
			s.unindex(id, name)
		}
		delete(s.entities, id)
		s.changed.Bump()
	})
}

func (s *Memory) GetComponent(id EntityID, name string) (*Component, bool) {
	c, ok := s.entities[id][name]
	return c, ok
}

func (s *Memory) GetComponents(id EntityID) map[string]*Component {
	comps, ok := s.entities[id]
	if !ok {
		return nil
	}
	return maps.Clone(comps)
}

func (s *Memory) SetComponent(id EntityID, c *Component) error {
	return s.SetComponents(id, c)
}

func (s *Memory) SetComponents(id EntityID, cs ...*Component) error {
	if _, ok := s.entities[id]; !ok {
		return ErrUnknownEntity
	}
	s.rt.Batch(func() {
		for _, c := range cs {
			s.put(id, c)
		}
		s.changed.Bump()
	})
	return nil
}

func (s *Memory) UnsetComponent(id EntityID, name string) { s.UnsetComponents(id, name) }

func (s *Memory) UnsetComponents(id EntityID, names ...string) {
	comps, ok := s.entities[id]
	if !ok {
		return
	}
	s.rt.Batch(func() {
		for _, name := range names {
			if _, ok := comps[name]; !ok {
				continue
			}
			delete(comps, name)
			s.unindex(id, name)
		}
		s.changed.Bump()
	})
}

func (s *Memory) WatchEntities() *reactive.Query[[]EntityID] {
	return s.queries.Acquire(allEntitiesKey, func() *reactive.Memo[[]EntityID] {
		return reactive.NewMemo(s.rt, s.Entities, sameIDs, s.changed)
	})
}

func (s *Memory) WatchEntitiesWithComponentType(name string) *reactive.Query[[]EntityID] {
	return s.queries.Acquire(name, func() *reactive.Memo[[]EntityID] {
		return reactive.NewMemo(s.rt, func() []EntityID { return s.EntitiesWithComponentType(name) }, sameIDs, s.changed)
	})
}

func (s *Memory) put(id EntityID, c *Component) {
	name := c.Type().Name
	s.entities[id][name] = c
	ids, ok := s.index[name]
	if !ok {
		ids = map[EntityID]struct{}{}
		s.index[name] = ids
	}
	ids[id] = struct{}{}
}

func (s *Memory) unindex(id EntityID, name string) {
	ids := s.index[name]
	delete(ids, id)
	if len(ids) == 0 {
		delete(s.index, name)
	}
}
