package docskema_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/codec"
	g "github.com/reoring/docskema/dsl"
)

func monster() *docskema.Schema {
	return g.Object().
		Field("name", g.String()).
		Field("hp", g.Number()).
		Field("alive", g.Bool()).
		Field("tags", g.Array(g.String())).
		Field("pos", codec.Vec2Schema()).
		Field("mood", g.Default("calm", g.String())).
		MustBuild()
}

func TestProperty_DecodeEncodeRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	s := monster()

	properties.Property("decode(encode(v)) is structurally equal to v", prop.ForAll(
		func(name string, hp float64, alive bool, tags []string, x, y float64) bool {
			list := make([]any, len(tags))
			for i, tag := range tags {
				list[i] = tag
			}
			v := map[string]any{
				"name":  name,
				"hp":    hp,
				"alive": alive,
				"tags":  list,
				"pos":   codec.Vec2{X: x, Y: y},
				"mood":  name,
			}
			got, err := docskema.Decode(s, docskema.Encode(s, v))
			if err != nil {
				return false
			}
			return docskema.Equal(s, got, v)
		},
		gen.AlphaString(),
		gen.Float64Range(-1e6, 1e6),
		gen.Bool(),
		gen.SliceOf(gen.AlphaString()),
		gen.Float64Range(-1e3, 1e3),
		gen.Float64Range(-1e3, 1e3),
	))

	properties.TestingRun(t)
}

func encounter() *docskema.Schema {
	var link *docskema.Schema
	link = g.Object().
		Field("n", g.Number()).
		Field("next", g.Nullable(g.Lazy(func() *docskema.Schema { return link }))).
		MustBuild()
	return g.Object().
		Field("chain", link).
		Field("event", inputEvent()).
		Field("owner", g.Nullable(g.String())).
		Optional("nick", g.String()).
		Field("spawn", g.Nullable(codec.Vec2Schema())).
		MustBuild()
}

func TestProperty_UnionAndNullableRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	s := encounter()

	properties.Property("decode(encode(v)) is structurally equal to v", prop.ForAll(
		func(click, hasOwner, hasNick, hasSpawn bool, owner string, a, b float64, depth int) bool {
			event := map[string]any{"type": "scroll", "deltaY": a}
			if click {
				event = map[string]any{"type": "click", "x": a, "y": b}
			}
			var chain any
			for i := depth; i >= 0; i-- {
				chain = map[string]any{"n": float64(i), "next": chain}
			}
			v := map[string]any{"chain": chain, "event": event, "owner": nil, "nick": docskema.Undefined, "spawn": nil}
			if hasOwner {
				v["owner"] = owner
			}
			if hasNick {
				v["nick"] = owner
			}
			if hasSpawn {
				v["spawn"] = codec.Vec2{X: a, Y: b}
			}
			got, err := docskema.Decode(s, docskema.Encode(s, v))
			if err != nil {
				return false
			}
			m := got.(map[string]any)
			if tag := m["event"].(map[string]any)["type"]; (tag == "click") != click {
				return false
			}
			if (m["owner"] == nil) == hasOwner || docskema.IsUndefined(m["nick"]) == hasNick {
				return false
			}
			if _, isVec := m["spawn"].(codec.Vec2); isVec != hasSpawn {
				return false
			}
			return docskema.Equal(s, got, v)
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.AlphaString(),
		gen.Float64Range(-1e3, 1e3),
		gen.Float64Range(-1e3, 1e3),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}

func TestProperty_ObjectDecodeIsExhaustive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	s := monster()

	properties.Property("every declared field is present after decode", prop.ForAll(
		func(keepName, keepHP, keepAlive, keepTags bool, junk string) bool {
			raw := map[string]any{"_" + junk: junk}
			if keepName {
				raw["name"] = "bat"
			}
			if keepHP {
				raw["hp"] = 3
			}
			if keepAlive {
				raw["alive"] = true
			}
			if keepTags {
				raw["tags"] = []any{"a"}
			}
			v, err := docskema.Decode(s, raw)
			if err != nil {
				return false
			}
			m := v.(map[string]any)
			if len(m) != len(s.Fields()) {
				return false
			}
			for _, f := range s.Fields() {
				if _, ok := m[f.Name]; !ok {
					return false
				}
			}
			return true
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestProperty_EqualIsSymmetric(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	s := g.Array(g.Number())

	properties.Property("Equal(a, b) == Equal(b, a)", prop.ForAll(
		func(a, b []int) bool {
			return docskema.Equal(s, a, b) == docskema.Equal(s, b, a)
		},
		gen.SliceOf(gen.IntRange(-5, 5)),
		gen.SliceOf(gen.IntRange(-5, 5)),
	))
	properties.Property("integer and float encodings compare equal", prop.ForAll(
		func(n int) bool {
			return docskema.Equal(s, []int{n}, []float64{float64(n)})
		},
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}
