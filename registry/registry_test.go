package registry_test

import (
	"errors"
	"testing"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/codec"
	"github.com/reoring/docskema/document"
	g "github.com/reoring/docskema/dsl"
	"github.com/reoring/docskema/registry"
	"github.com/reoring/docskema/store"
)

var (
	position = store.NewType("position", codec.Vec2Schema())
	stats    = store.NewType("stats", g.Object().
			Field("hp", g.Number()).
			Optional("title", g.String()).
			Field("tags", g.Array(g.String())).
			MustBuild())
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.New(position, stats)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return r
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := registry.New(position, store.NewType("position", g.String()))
	if !errors.Is(err, registry.ErrDuplicateType) {
		t.Fatalf("expected ErrDuplicateType, got %v", err)
	}
	r := registry.MustNew(stats, position)
	if names := r.Names(); len(names) != 2 || names[0] != "position" || names[1] != "stats" {
		t.Fatalf("unexpected names %v", names)
	}
	if _, ok := r.Lookup("velocity"); ok {
		t.Fatalf("unexpected lookup hit")
	}
}

func TestWorldRoundTrip(t *testing.T) {
	r := newRegistry(t)
	backends := map[string]func() store.Store{
		"memory":    func() store.Store { return store.NewMemory(nil) },
		"projected": func() store.Store { return store.NewProjected(document.New(), r, nil, store.ProjectedOptions{}) },
	}
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			src := mk()
			id := src.CreateEntity(
				position.New(codec.Vec2{X: 3, Y: 4}),
				stats.New(map[string]any{"hp": 12.0, "title": docskema.Undefined, "tags": []any{"boss"}}),
			)

			raw := r.Encode(src)
			w, err := r.Decode(raw)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			dst := mk()
			if err := r.Load(dst, raw); err != nil {
				t.Fatalf("load: %v", err)
			}
			if got := w[id]["position"].(codec.Vec2); got != (codec.Vec2{X: 3, Y: 4}) {
				t.Fatalf("unexpected decoded position %#v", got)
			}
			for _, tn := range []*store.Type{position, stats} {
				a, _ := src.GetComponent(id, tn.Name)
				b, ok := dst.GetComponent(id, tn.Name)
				if !ok {
					t.Fatalf("%s missing after load", tn.Name)
				}
				if !docskema.Equal(tn.Schema, a.State(), b.State()) {
					t.Fatalf("%s differs: %#v vs %#v", tn.Name, a.State(), b.State())
				}
			}
		})
	}
}

func TestDecode_UnknownTypeAbortsLoad(t *testing.T) {
	r := newRegistry(t)
	s := store.NewMemory(nil)
	raw := map[string]any{
		"a": map[string]any{"position": map[string]any{"x": 1, "y": 1}},
		"b": map[string]any{"velocity": map[string]any{"x": 1, "y": 1}},
	}
	err := r.Load(s, raw)
	var le *registry.LookupError
	if !errors.As(err, &le) || le.TypeName != "velocity" || le.EntityID != "b" {
		t.Fatalf("expected LookupError naming velocity, got %v", err)
	}
	if len(s.Entities()) != 0 {
		t.Fatalf("a failed load must not apply partially")
	}
}

func TestDecode_ComponentDecodeError(t *testing.T) {
	r := newRegistry(t)
	_, err := r.Decode(map[string]any{"a": map[string]any{"stats": map[string]any{"hp": "lots"}}})
	var de *registry.ComponentDecodeError
	if !errors.As(err, &de) || de.TypeName != "stats" {
		t.Fatalf("expected ComponentDecodeError, got %v", err)
	}
	iss, ok := docskema.AsIssues(err)
	if !ok || iss[0].Path != "/hp" {
		t.Fatalf("decode issues should be reachable through the error, got %v", err)
	}

	if _, err := r.Decode([]any{}); !errors.Is(err, registry.ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
	if _, err := r.Decode(map[string]any{"a": 1}); !errors.Is(err, registry.ErrNotObject) {
		t.Fatalf("expected ErrNotObject for a scalar entity, got %v", err)
	}
}

func TestLoad_RejectsTakenIDs(t *testing.T) {
	r := newRegistry(t)
	s := store.NewMemory(nil)
	_ = s.CreateEntityWithID("a")
	err := r.Load(s, map[string]any{"a": map[string]any{}, "b": map[string]any{}})
	if !errors.Is(err, store.ErrEntityExists) {
		t.Fatalf("expected ErrEntityExists, got %v", err)
	}
	if len(s.Entities()) != 1 {
		t.Fatalf("nothing should be created when an id is taken")
	}
}

func TestJSONAndYAML(t *testing.T) {
	r := newRegistry(t)
	s := store.NewMemory(nil)
	id := s.CreateEntity(position.New(codec.Vec2{X: 1, Y: 2}), stats.New(nil))

	js, err := r.EncodeJSON(s)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	w, err := r.DecodeJSON(js)
	if err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if w[id]["position"] != (codec.Vec2{X: 1, Y: 2}) {
		t.Fatalf("json round trip lost state: %#v", w[id])
	}

	ys, err := r.EncodeYAML(s)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	w, err = r.DecodeYAML(ys)
	if err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	if !docskema.Equal(stats.Schema, w[id]["stats"], map[string]any{"hp": 0, "tags": []any{}}) {
		t.Fatalf("yaml round trip lost state: %#v", w[id])
	}

	if _, err := r.DecodeJSON([]byte("{")); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestDecodeJSON_RejectsDuplicateKeys(t *testing.T) {
	r := newRegistry(t)
	_, err := r.DecodeJSON([]byte(`{"e1":{"position":{"x":1,"y":2,"x":3}}}`))
	iss, ok := docskema.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Code != "duplicate_key" || iss[0].Path != "/e1/position" {
		t.Fatalf("unexpected issue: %+v", iss[0])
	}
}
