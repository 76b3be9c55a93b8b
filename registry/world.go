package registry

import (
	"fmt"
	"slices"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/internal/jsondup"
	"github.com/reoring/docskema/store"
)

// World is a decoded world: typed component state per entity and type name.
type World map[store.EntityID]map[string]any

// Encode serializes every component of s whose type is registered.
// Components of unregistered types are skipped.
func (r *Registry) Encode(s store.Store) map[string]any {
	out := map[string]any{}
	for _, id := range s.Entities() {
		rec := map[string]any{}
		for name, c := range s.GetComponents(id) {
			t, ok := r.types[name]
			if !ok {
				continue
			}
			rec[name] = docskema.Encode(t.Schema, c.State())
		}
		out[string(id)] = rec
	}
	return out
}

// Decode converts a serialized world into typed state. It is
// all-or-nothing: the first unknown type name (*LookupError) or undecodable
// component (*ComponentDecodeError) aborts with no partial result. Entities
// and types are visited in sorted order.
func (r *Registry) Decode(raw any) (World, error) {
	entities, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	w := make(World, len(entities))
	for _, id := range sortedKeys(entities) {
		comps, ok := entities[id].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entity %s", ErrNotObject, id)
		}
		rec := make(map[string]any, len(comps))
		for _, name := range sortedKeys(comps) {
			t, ok := r.types[name]
			if !ok {
				return nil, &LookupError{EntityID: store.EntityID(id), TypeName: name}
			}
			v, err := docskema.Decode(t.Schema, comps[name])
			if err != nil {
				return nil, &ComponentDecodeError{EntityID: store.EntityID(id), TypeName: name, Err: err}
			}
			rec[name] = v
		}
		w[store.EntityID(id)] = rec
	}
	return w, nil
}

// Load decodes raw and creates its entities in s within one batch. Nothing
// is written when decoding fails or an entity id is already taken.
func (r *Registry) Load(s store.Store, raw any) error {
	w, err := r.Decode(raw)
	if err != nil {
		return err
	}
	existing := s.Entities()
	ids := w.IDs()
	for _, id := range ids {
		if slices.Contains(existing, id) {
			return fmt.Errorf("%w: %s", store.ErrEntityExists, id)
		}
	}
	s.Runtime().Batch(func() {
		for _, id := range ids {
			_ = s.CreateEntityWithID(id, r.components(w[id])...)
		}
	})
	return nil
}

func (r *Registry) components(rec map[string]any) []*store.Component {
	out := make([]*store.Component, 0, len(rec))
	for _, name := range sortedKeys(rec) {
		out = append(out, r.types[name].New(rec[name]))
	}
	return out
}

// IDs returns the entity ids in sorted order.
func (w World) IDs() []store.EntityID {
	out := make([]store.EntityID, 0, len(w))
	for id := range w {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// EncodeJSON serializes the world held by s as JSON.
func (r *Registry) EncodeJSON(s store.Store) ([]byte, error) {
	return json.Marshal(r.Encode(s))
}

// DecodeJSON parses and decodes a JSON world. Repeated object keys are
// rejected as docskema.Issues before anything is decoded.
func (r *Registry) DecodeJSON(data []byte) (World, error) {
	if iss := jsondup.Detect(data, 0); len(iss) > 0 {
		return nil, iss
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("registry: parse json: %w", err)
	}
	return r.Decode(raw)
}

// EncodeYAML serializes the world held by s as YAML.
func (r *Registry) EncodeYAML(s store.Store) ([]byte, error) {
	return yaml.Marshal(r.Encode(s))
}

// DecodeYAML parses and decodes a YAML world.
func (r *Registry) DecodeYAML(data []byte) (World, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("registry: parse yaml: %w", err)
	}
	return r.Decode(raw)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
