package codec

import (
	"math"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/dsl"
)

// Vec2 is a 2D vector. It encodes as {"x": X, "y": Y}.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns v*k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{X: v.X * k, Y: v.Y * k} }

// Len returns the Euclidean length.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

var vec2Fields = dsl.Object().
	Field("x", dsl.Number()).
	Field("y", dsl.Number()).
	MustBuild()

var vec2Schema = dsl.Invariant[Vec2](vec2Fields, vec2FromRecord, vec2ToRecord)

// Vec2Schema returns the Invariant schema presenting {x, y} records as Vec2.
func Vec2Schema() *docskema.Schema { return vec2Schema }

func vec2FromRecord(v any) Vec2 {
	m, _ := v.(map[string]any)
	x, _ := m["x"].(float64)
	y, _ := m["y"].(float64)
	return Vec2{X: x, Y: y}
}

func vec2ToRecord(v Vec2) any {
	return map[string]any{"x": v.X, "y": v.Y}
}
