// Package demo holds a small component registry for a 2D scene. The CLI
// uses it as its default registry and tests use it as a realistic fixture.
package demo

import (
	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/codec"
	g "github.com/reoring/docskema/dsl"
	"github.com/reoring/docskema/registry"
	"github.com/reoring/docskema/store"
)

// InputEvent is a union of pointer events keyed by "type".
var InputEvent = g.Object().
	Discriminator("type").
	OneOf(
		g.Variant("click", g.Object().Field("x", g.Number()).Field("y", g.Number()).MustBuild()),
		g.Variant("scroll", g.Object().Field("deltaY", g.Number()).MustBuild()),
	).
	MustBuild()

// SceneNode is a recursive scene graph node.
var SceneNode = sceneNode()

func sceneNode() *docskema.Schema {
	var node *docskema.Schema
	node = g.Object().
		Field("name", g.String()).
		Field("offset", codec.Vec2Schema()).
		Field("children", g.Array(g.Lazy(func() *docskema.Schema { return node }))).
		MustBuild()
	return node
}

// Component types.
var (
	Position = store.NewType("position", codec.Vec2Schema())
	Velocity = store.NewType("velocity", codec.Vec2Schema())
	Sprite   = store.NewType("sprite", g.Object().
			Field("src", g.String()).
			Field("frame", g.Default(0.0, g.Number())).
			Nullable("tint", g.String()).
			Field("visible", g.Default(true, g.Bool())).
			MustBuild())
	Input   = store.NewType("input", InputEvent)
	Scene   = store.NewType("scene", SceneNode)
	Spawned = store.NewType("spawned", codec.TimeRFC3339())
)

// Registry returns a registry of every demo component type.
func Registry() *registry.Registry {
	return registry.MustNew(Position, Velocity, Sprite, Input, Scene, Spawned)
}

// Step advances every entity with both a position and a velocity by dt.
func Step(s store.Store, dt float64) {
	s.Runtime().Batch(func() {
		for _, id := range s.EntitiesWithComponentType(Velocity.Name) {
			pos, ok := s.GetComponent(id, Position.Name)
			if !ok {
				continue
			}
			vel, _ := s.GetComponent(id, Velocity.Name)
			v, _ := vel.State().(codec.Vec2)
			pos.Update(func(cur any) any {
				p, _ := cur.(codec.Vec2)
				return p.Add(v.Scale(dt))
			})
		}
	})
}
