package store_test

import (
	"bytes"
	"log/slog"
	"slices"
	"strings"
	"testing"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/codec"
	"github.com/reoring/docskema/document"
	g "github.com/reoring/docskema/dsl"
	"github.com/reoring/docskema/projection"
	"github.com/reoring/docskema/store"
)

func TestProjected_RebindsPassedComponents(t *testing.T) {
	doc := document.New()
	s := store.NewProjected(doc, allTypes, nil, store.ProjectedOptions{Origin: "local"})
	defer s.Close()

	hp := health.New(map[string]any{"hp": 5})
	if err := s.CreateEntityWithID("e1", hp); err != nil {
		t.Fatalf("create: %v", err)
	}
	if doc.Seq() != 1 {
		t.Fatalf("entity should be written in one change, seq=%d", doc.Seq())
	}

	hp.SetState(map[string]any{"hp": 7, "max": 10})
	raw := doc.Snapshot()["e1"].(map[string]any)["health"]
	if !docskema.EncodedEqual(raw, map[string]any{"hp": 7, "max": 10}) {
		t.Fatalf("caller's handle should write to the document, got %#v", raw)
	}

	view, ok := hp.View().(*projection.ObjectView)
	if !ok {
		t.Fatalf("object-shaped component should expose an ObjectView, got %T", hp.View())
	}
	view.Set("hp", 1)
	if hp.State().(map[string]any)["hp"] != 1.0 {
		t.Fatalf("view write not visible through state")
	}
	if hp.View() != view {
		t.Fatalf("view identity should be stable across field writes")
	}
}

func TestProjected_RemoteChangesFlowBack(t *testing.T) {
	local := document.New()
	remote := document.New()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := store.NewProjected(local, allTypes, nil, store.ProjectedOptions{Logger: logger, Origin: "local"})
	peer := store.NewProjected(remote, allTypes, nil, store.ProjectedOptions{Origin: "peer"})

	id := peer.CreateEntity(position.New(codec.Vec2{X: 1, Y: 1}))
	q := s.WatchEntitiesWithComponentType("position")
	defer q.Close()
	var pushes [][]store.EntityID
	q.Subscribe(func(ids []store.EntityID) { pushes = append(pushes, ids) })

	if err := local.Merge(remote.Snapshot()); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(pushes) != 1 || !slices.Equal(pushes[0], []store.EntityID{id}) {
		t.Fatalf("remote entity should reach local queries, got %v", pushes)
	}
	c, ok := s.GetComponent(id, "position")
	if !ok {
		t.Fatalf("remote component not found")
	}

	pc, _ := peer.GetComponent(id, "position")
	pc.SetState(codec.Vec2{X: 9, Y: 9})
	_ = local.Merge(remote.Snapshot())
	if p := c.State().(codec.Vec2); p != (codec.Vec2{X: 9, Y: 9}) {
		t.Fatalf("remote write should show up as new state, got %#v", p)
	}
	if !strings.Contains(logs.String(), "document changed remotely") {
		t.Fatalf("expected a debug record for the remote change, got %q", logs.String())
	}
}

func TestProjected_UndecodableStateFallsBack(t *testing.T) {
	doc := document.FromSnapshot(map[string]any{
		"e1": map[string]any{"label": 42, "mystery": true},
	})
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := store.NewProjected(doc, allTypes, nil, store.ProjectedOptions{Logger: logger})

	c, ok := s.GetComponent("e1", "label")
	if !ok || c.State() != "" {
		t.Fatalf("undecodable state should read the default")
	}
	if !strings.Contains(logs.String(), "fell back to default") {
		t.Fatalf("expected a debug record, got %q", logs.String())
	}
	if _, ok := s.GetComponent("e1", "mystery"); ok {
		t.Fatalf("unregistered types are not returned")
	}
	if got := s.EntitiesWithComponentType("mystery"); len(got) != 1 {
		t.Fatalf("unregistered types still index by key, got %v", got)
	}
	if len(s.GetComponents("e1")) != 1 {
		t.Fatalf("GetComponents should skip unregistered types")
	}

	c.SetState("named")
	if got := doc.Snapshot()["e1"].(map[string]any)["label"]; got != "named" {
		t.Fatalf("leaf component write failed: %#v", got)
	}
}

func TestProjected_CorruptFieldKeepsSiblings(t *testing.T) {
	stats := store.NewType("stats", g.Object().Field("hp", g.Number()).Field("name", g.String()).MustBuild())
	types := typeSet{"stats": stats, "position": position}
	doc := document.FromSnapshot(map[string]any{
		"e1": map[string]any{
			"stats":    map[string]any{"hp": "bad", "name": "alice"},
			"position": map[string]any{"x": "bad", "y": 4},
		},
	})
	s := store.NewProjected(doc, types, nil, store.ProjectedOptions{})

	c, ok := s.GetComponent("e1", "stats")
	if !ok {
		t.Fatalf("stats missing")
	}
	if !docskema.EncodedEqual(c.State(), map[string]any{"hp": 0, "name": "alice"}) {
		t.Fatalf("valid sibling lost on read: %#v", c.State())
	}
	c.Update(func(v any) any {
		m := v.(map[string]any)
		m["hp"] = 3.0
		return m
	})
	e1 := doc.Snapshot()["e1"].(map[string]any)
	if !docskema.EncodedEqual(e1["stats"], map[string]any{"hp": 3, "name": "alice"}) {
		t.Fatalf("update erased a valid sibling: %#v", e1["stats"])
	}

	p, _ := s.GetComponent("e1", "position")
	if got := p.State().(codec.Vec2); got != (codec.Vec2{X: 0, Y: 4}) {
		t.Fatalf("invariant component lost its valid field: %#v", got)
	}
	p.Update(func(v any) any { return v.(codec.Vec2).Add(codec.Vec2{X: 1}) })
	e1 = doc.Snapshot()["e1"].(map[string]any)
	if !docskema.EncodedEqual(e1["position"], map[string]any{"x": 1, "y": 4}) {
		t.Fatalf("unexpected position: %#v", e1["position"])
	}
}

func TestProjected_SetComponentsOneChange(t *testing.T) {
	doc := document.New()
	s := store.NewProjected(doc, nil, nil, store.ProjectedOptions{})
	id := s.CreateEntity()
	before := doc.Seq()
	if err := s.SetComponents(id, label.New("a"), position.New(nil)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if doc.Seq() != before+1 {
		t.Fatalf("expected a single change, got %d", doc.Seq()-before)
	}
	if c, ok := s.GetComponent(id, "label"); !ok || c.State() != "a" {
		t.Fatalf("types introduced by local writes should resolve without a registry")
	}
	s.DestroyEntity(id)
	s.DestroyEntity(id)
	if len(s.Entities()) != 0 {
		t.Fatalf("entity not destroyed")
	}
}
