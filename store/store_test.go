package store_test

import (
	"errors"
	"slices"
	"testing"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/codec"
	"github.com/reoring/docskema/document"
	g "github.com/reoring/docskema/dsl"
	"github.com/reoring/docskema/reactive"
	"github.com/reoring/docskema/store"
)

var (
	position = store.NewType("position", codec.Vec2Schema())
	health   = store.NewType("health", g.Object().Field("hp", g.Number()).Field("max", g.Default(10.0, g.Number())).MustBuild())
	label    = store.NewType("label", g.String())
)

type typeSet map[string]*store.Type

func (ts typeSet) Lookup(name string) (*store.Type, bool) {
	t, ok := ts[name]
	return t, ok
}

var allTypes = typeSet{"position": position, "health": health, "label": label}

func backends() map[string]func() store.Store {
	return map[string]func() store.Store{
		"memory": func() store.Store { return store.NewMemory(nil) },
		"projected": func() store.Store {
			return store.NewProjected(document.New(), allTypes, nil, store.ProjectedOptions{})
		},
	}
}

func TestStoreContract_CreateGetSetUnset(t *testing.T) {
	for name, mk := range backends() {
		t.Run(name, func(t *testing.T) {
			s := mk()
			id := s.CreateEntity(position.New(codec.Vec2{X: 1, Y: 2}), label.New("hero"))

			if !slices.Equal(s.Entities(), []store.EntityID{id}) {
				t.Fatalf("unexpected entities: %v", s.Entities())
			}
			c, ok := s.GetComponent(id, "position")
			if !ok || c.Type() != position {
				t.Fatalf("position missing")
			}
			if p := c.State().(codec.Vec2); p != (codec.Vec2{X: 1, Y: 2}) {
				t.Fatalf("unexpected state %#v", p)
			}
			c.Update(func(v any) any { return v.(codec.Vec2).Add(codec.Vec2{X: 1, Y: 1}) })
			again, _ := s.GetComponent(id, "position")
			if p := again.State().(codec.Vec2); p != (codec.Vec2{X: 2, Y: 3}) {
				t.Fatalf("update not visible through a fresh handle: %#v", p)
			}

			if err := s.SetComponent(id, health.New(map[string]any{"hp": 3})); err != nil {
				t.Fatalf("set: %v", err)
			}
			if got := s.EntitiesWithComponentType("health"); !slices.Equal(got, []store.EntityID{id}) {
				t.Fatalf("index not updated: %v", got)
			}
			if len(s.GetComponents(id)) != 3 {
				t.Fatalf("expected 3 components, got %v", s.GetComponents(id))
			}

			s.UnsetComponents(id, "label", "missing")
			if _, ok := s.GetComponent(id, "label"); ok {
				t.Fatalf("label should be unset")
			}
			if len(s.EntitiesWithComponentType("label")) != 0 {
				t.Fatalf("index kept an unset component")
			}

			if err := s.SetComponent("nope", label.New("x")); !errors.Is(err, store.ErrUnknownEntity) {
				t.Fatalf("expected ErrUnknownEntity, got %v", err)
			}
			if err := s.CreateEntityWithID(id); !errors.Is(err, store.ErrEntityExists) {
				t.Fatalf("expected ErrEntityExists, got %v", err)
			}
		})
	}
}

func TestStoreContract_DestroyWithinBatch(t *testing.T) {
	for name, mk := range backends() {
		t.Run(name, func(t *testing.T) {
			s := mk()
			a := s.CreateEntity(position.New(nil), label.New("a"))
			b := s.CreateEntity(position.New(nil))

			byPos := s.WatchEntitiesWithComponentType("position")
			byLabel := s.WatchEntitiesWithComponentType("label")
			all := s.WatchEntities()
			defer byPos.Close()
			defer byLabel.Close()
			defer all.Close()

			var pushes [][]store.EntityID
			byPos.Subscribe(func(ids []store.EntityID) { pushes = append(pushes, ids) })

			s.Runtime().Batch(func() {
				s.DestroyEntity(a)
				if slices.Contains(s.EntitiesWithComponentType("position"), a) ||
					slices.Contains(s.EntitiesWithComponentType("label"), a) ||
					slices.Contains(byPos.Get(), a) {
					t.Fatalf("destroyed entity still listed inside the batch")
				}
				if len(pushes) != 0 {
					t.Fatalf("subscribers notified before the batch ended")
				}
			})
			if len(pushes) != 1 || !slices.Equal(pushes[0], []store.EntityID{b}) {
				t.Fatalf("expected one push without the destroyed entity, got %v", pushes)
			}
			if len(byLabel.Get()) != 0 || !slices.Equal(all.Get(), []store.EntityID{b}) {
				t.Fatalf("queries not updated")
			}
			if s.GetComponents(a) != nil {
				t.Fatalf("components of a destroyed entity should be gone")
			}
		})
	}
}

func TestStoreContract_CreateNotifiesOnce(t *testing.T) {
	for name, mk := range backends() {
		t.Run(name, func(t *testing.T) {
			s := mk()
			q := s.WatchEntities()
			defer q.Close()
			calls := 0
			q.Subscribe(func([]store.EntityID) { calls++ })
			s.CreateEntity(position.New(nil), health.New(nil), label.New("x"))
			if calls != 1 {
				t.Fatalf("creating an entity with several components should notify once, got %d", calls)
			}
		})
	}
}

func TestNewEntityID_Unique(t *testing.T) {
	seen := map[store.EntityID]bool{}
	for i := 0; i < 1000; i++ {
		id := store.NewEntityID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestMemory_SharedQueries(t *testing.T) {
	s := store.NewMemory(reactive.NewRuntime())
	q1 := s.WatchEntities()
	q2 := s.WatchEntities()
	id := s.CreateEntity()
	if !slices.Equal(q1.Get(), q2.Get()) || len(q1.Get()) != 1 || q1.Get()[0] != id {
		t.Fatalf("queries disagree")
	}
	q1.Close()
	q2.Close()
}

func TestLocalComponent(t *testing.T) {
	c := health.New(nil)
	if !docskema.EncodedEqual(c.Encoded(), map[string]any{"hp": 0, "max": 10}) {
		t.Fatalf("nil state should start from the default: %#v", c.Encoded())
	}
	c.SetState(map[string]any{"hp": 4, "max": 4.0})
	if c.View() != nil {
		t.Fatalf("local component has no view")
	}
	if c.State().(map[string]any)["hp"] != 4 {
		t.Fatalf("local state should be stored as given")
	}
}
