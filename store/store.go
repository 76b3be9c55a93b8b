// Package store defines the entity/component store contract and its two
// backends: Memory keeps components in indexed maps, Projected keeps them
// in a shared document and hands out live projections.
package store

import (
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/reoring/docskema/reactive"
)

// EntityID is an opaque, globally unique entity identifier.
type EntityID string

// NewEntityID returns a fresh time-ordered id (UUIDv7).
func NewEntityID() EntityID {
	id, err := uuid.NewV7()
	if err != nil {
		return EntityID(uuid.NewString())
	}
	return EntityID(id.String())
}

var (
	// ErrEntityExists is returned when creating an entity whose id is taken.
	ErrEntityExists = errors.New("store: entity already exists")
	// ErrUnknownEntity is returned when writing to an entity that does not
	// exist.
	ErrUnknownEntity = errors.New("store: unknown entity")
)

// Store is the uniform entity/component contract. Every multi-step
// operation is applied as one batch of the store's runtime.
type Store interface {
	Runtime() *reactive.Runtime

	Entities() []EntityID
	EntitiesWithComponentType(name string) []EntityID

	CreateEntity(cs ...*Component) EntityID
	CreateEntityWithID(id EntityID, cs ...*Component) error
	DestroyEntity(id EntityID)

	GetComponent(id EntityID, name string) (*Component, bool)
	GetComponents(id EntityID) map[string]*Component
	SetComponent(id EntityID, c *Component) error
	SetComponents(id EntityID, cs ...*Component) error
	UnsetComponent(id EntityID, name string)
	UnsetComponents(id EntityID, names ...string)

	// WatchEntities returns a shared query over Entities. Close it when done.
	WatchEntities() *reactive.Query[[]EntityID]
	// WatchEntitiesWithComponentType returns a shared query over
	// EntitiesWithComponentType. Close it when done.
	WatchEntitiesWithComponentType(name string) *reactive.Query[[]EntityID]
}

const allEntitiesKey = "\x00all"

func sortedIDs[M ~map[EntityID]V, V any](m M) []EntityID {
	out := make([]EntityID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func sameIDs(a, b []EntityID) bool { return slices.Equal(a, b) }
