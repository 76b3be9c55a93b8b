package store

import (
	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/projection"
)

// Type describes a component type: a unique name and the schema of its
// state.
type Type struct {
	Name   string
	Schema *docskema.Schema
}

// NewType returns a component type. It panics on an empty name or a nil
// schema.
func NewType(name string, s *docskema.Schema) *Type {
	if name == "" || s == nil {
		panic("store: component type requires a name and a schema")
	}
	return &Type{Name: name, Schema: s}
}

// New returns a local component holding state. A nil state starts from
// the schema default.
func (t *Type) New(state any) *Component {
	if state == nil {
		state = docskema.SynthesizeDefault(t.Schema)
	}
	c := &Component{typ: t}
	c.bindLocal(state)
	return c
}

// Component is a typed state blob owned by one entity. Its accessors are
// bound either to local state or to a document projection; a store may
// rebind them in place when it adopts the component.
type Component struct {
	typ  *Type
	get  func() any
	set  func(any)
	view func() projection.Node
}

// Type returns the component's type descriptor.
func (c *Component) Type() *Type { return c.typ }

// State returns the current decoded state.
func (c *Component) State() any { return c.get() }

// SetState replaces the state.
func (c *Component) SetState(v any) { c.set(v) }

// Update replaces the state with fn applied to the current state.
func (c *Component) Update(fn func(any) any) { c.set(fn(c.get())) }

// View returns the live projection behind the component, or nil when the
// component is local or its state is not Object- or Array-shaped.
func (c *Component) View() projection.Node {
	if c.view == nil {
		return nil
	}
	return c.view()
}

// Encoded returns the schema encoding of the current state.
func (c *Component) Encoded() any { return docskema.Encode(c.typ.Schema, c.get()) }

func (c *Component) bindLocal(state any) {
	c.get = func() any { return state }
	c.set = func(v any) { state = v }
	c.view = nil
}

func (c *Component) bind(get func() any, set func(any), view func() projection.Node) {
	c.get, c.set, c.view = get, set, view
}
