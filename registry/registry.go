// Package registry maps component type names to their types and converts
// whole worlds between stores and their serialized form
// {entityId: {typeName: <encoded state>}}.
package registry

import (
	"errors"
	"fmt"
	"slices"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/i18n"
	"github.com/reoring/docskema/store"
)

// Registry is a closed set of component types keyed by name.
type Registry struct {
	types map[string]*store.Type
	names []string
}

// ErrDuplicateType is returned by New when two types share a name.
var ErrDuplicateType = errors.New("registry: duplicate component type")

// ErrNotObject is returned when a serialized world or entity is not an
// object.
var ErrNotObject = errors.New("registry: expected an object")

// LookupError reports a component type name with no registered type.
type LookupError struct {
	EntityID store.EntityID
	TypeName string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("registry: %s %q (entity %s)", i18n.T(docskema.CodeUnknownComponentType, nil), e.TypeName, e.EntityID)
}

// ComponentDecodeError reports a component whose serialized state does not
// decode under its type's schema.
type ComponentDecodeError struct {
	EntityID store.EntityID
	TypeName string
	Err      error
}

func (e *ComponentDecodeError) Error() string {
	return fmt.Sprintf("registry: decode %s of entity %s: %v", e.TypeName, e.EntityID, e.Err)
}

func (e *ComponentDecodeError) Unwrap() error { return e.Err }

// New builds a registry. Names must be unique.
func New(types ...*store.Type) (*Registry, error) {
	r := &Registry{types: make(map[string]*store.Type, len(types))}
	for _, t := range types {
		if t == nil {
			return nil, errors.New("registry: nil component type")
		}
		if _, dup := r.types[t.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, t.Name)
		}
		r.types[t.Name] = t
		r.names = append(r.names, t.Name)
	}
	slices.Sort(r.names)
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(types ...*store.Type) *Registry {
	r, err := New(types...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*store.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string { return slices.Clone(r.names) }

var _ store.Types = (*Registry)(nil)
