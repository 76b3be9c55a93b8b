package docskema_test

import (
	"math"
	"testing"

	docskema "github.com/reoring/docskema"
	g "github.com/reoring/docskema/dsl"
)

func TestEncode_AbsenceIsNull(t *testing.T) {
	s := g.Object().
		Optional("a", g.Number()).
		Nullable("b", g.Number()).
		MustBuild()

	raw := docskema.Encode(s, map[string]any{"a": docskema.Undefined, "b": nil}).(map[string]any)
	if v, ok := raw["a"]; !ok || v != nil {
		t.Fatalf("undefined should encode as null, got %#v", raw)
	}
	if v, ok := raw["b"]; !ok || v != nil {
		t.Fatalf("nil should encode as null, got %#v", raw)
	}
}

func TestEncode_StructRecord(t *testing.T) {
	type stats struct {
		HP   float64 `json:"hp"`
		Name string  `json:"name"`
	}
	s := g.Object().Field("hp", g.Number()).Field("name", g.String()).Field("lvl", g.Number()).MustBuild()
	raw := docskema.Encode(s, stats{HP: 3, Name: "bat"})
	if !docskema.EncodedEqual(raw, map[string]any{"hp": 3, "name": "bat", "lvl": 0}) {
		t.Fatalf("unexpected encoding: %#v", raw)
	}
}

func TestEncode_TypedSlice(t *testing.T) {
	raw := docskema.Encode(g.Array(g.Number()), []float64{1, 2})
	if !docskema.EncodedEqual(raw, []any{1, 2}) {
		t.Fatalf("unexpected encoding: %#v", raw)
	}
}

func TestEncode_UnionUnknownSelectorUsesFirstVariant(t *testing.T) {
	raw := docskema.Encode(inputEvent(), map[string]any{"type": "keypress"})
	if !docskema.EncodedEqual(raw, map[string]any{"type": "click", "x": 0, "y": 0}) {
		t.Fatalf("unexpected encoding: %#v", raw)
	}
}

func TestSynthesizeDefault(t *testing.T) {
	tests := []struct {
		name   string
		schema *docskema.Schema
		want   any
	}{
		{"bool", g.Bool(), false},
		{"number", g.Number(), 0.0},
		{"string", g.String(), ""},
		{"json", g.JSON(), nil},
		{"maybe null", g.Nullable(g.String()), nil},
		{"default", g.Default(5.0, g.Number()), 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := docskema.SynthesizeDefault(tt.schema); got != tt.want {
				t.Fatalf("got %#v want %#v", got, tt.want)
			}
		})
	}
	if !docskema.IsUndefined(docskema.SynthesizeDefault(g.Optional(g.String()))) {
		t.Fatalf("maybe undefined should default to Undefined")
	}
	union := docskema.SynthesizeDefault(inputEvent())
	if !docskema.EncodedEqual(union, map[string]any{"type": "click", "x": 0, "y": 0}) {
		t.Fatalf("union should default to the first variant: %#v", union)
	}
	obj := docskema.SynthesizeDefault(g.Object().Field("list", g.Array(g.Number())).MustBuild())
	if !docskema.EncodedEqual(obj, map[string]any{"list": []any{}}) {
		t.Fatalf("unexpected object default: %#v", obj)
	}
}

func TestEqual(t *testing.T) {
	s := g.Object().Field("a", g.Number()).Field("b", g.Array(g.String())).MustBuild()
	a := map[string]any{"a": 1.0, "b": []any{"x"}}
	b := map[string]any{"b": []any{"x"}, "a": 1}
	if !docskema.Equal(s, a, b) {
		t.Fatalf("expected structural equality regardless of key order and number kind")
	}
	if docskema.Equal(s, a, map[string]any{"a": 2.0, "b": []any{"x"}}) {
		t.Fatalf("expected inequality")
	}
	if !docskema.EncodedEqual(math.Inf(1), math.Inf(1)) {
		t.Fatalf("values without JSON text should fall back to deep equality")
	}
}

func TestJSONSchema_Export(t *testing.T) {
	var node *docskema.Schema
	node = g.Object().
		Field("name", g.String()).
		Optional("nick", g.String()).
		Field("hp", g.Default(10.0, g.Number())).
		Field("children", g.Array(g.Lazy(func() *docskema.Schema { return node }))).
		MustBuild()

	out, err := docskema.JSONSchema(node)
	if err != nil {
		t.Fatalf("jsonschema err: %v", err)
	}
	if out.Type != "object" || len(out.Properties) != 4 {
		t.Fatalf("unexpected schema: %#v", out)
	}
	if len(out.Required) != 2 || out.Required[0] != "children" || out.Required[1] != "name" {
		t.Fatalf("unexpected required: %v", out.Required)
	}
	if out.Properties["hp"].Default != 10.0 {
		t.Fatalf("default not exported: %#v", out.Properties["hp"])
	}
	child := out.Properties["children"].Items
	if child == nil || child.Type != "object" {
		t.Fatalf("recursive node should expand once: %#v", child)
	}
	if inner := child.Properties["children"].Items; inner == nil || inner.Type != "" {
		t.Fatalf("recursion should stop at the second visit: %#v", inner)
	}

	u, _ := docskema.JSONSchema(inputEvent())
	if len(u.OneOf) != 2 {
		t.Fatalf("expected oneOf with 2 variants, got %#v", u)
	}
	sel := u.OneOf[0].Properties["type"]
	if sel == nil || sel.Const != "click" {
		t.Fatalf("selector const missing: %#v", sel)
	}
}
