package docskema

import "fmt"

// Kind tags a Schema node. The set is closed.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindNumber
	KindString
	KindJSON // opaque passthrough
	KindMaybeUndefined
	KindMaybeNull
	KindArray
	KindObject
	KindUnion
	KindInvariant
	KindDefault
	KindRecursive
)

var kindNames = [...]string{
	KindBoolean:        "boolean",
	KindNumber:         "number",
	KindString:         "string",
	KindJSON:           "json",
	KindMaybeUndefined: "maybe_undefined",
	KindMaybeNull:      "maybe_null",
	KindArray:          "array",
	KindObject:         "object",
	KindUnion:          "union",
	KindInvariant:      "invariant",
	KindDefault:        "default",
	KindRecursive:      "recursive",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Schema describes the shape of a value. Nodes are immutable once built and
// may be shared between parents.
type Schema struct {
	kind     Kind
	inner    *Schema // MaybeUndefined, MaybeNull, Array, Invariant, Default
	fields   []Field
	index    map[string]int
	selector string
	variants []Variant
	shapes   []*Schema // per-variant Object schemas
	from     func(any) any
	to       func(any) any
	fallback any
	thunk    func() *Schema
}

// Field is a named member of an Object schema or a Union variant.
type Field struct {
	Name   string
	Schema *Schema
}

// Variant is one named alternative of a Union. Its fields exclude the selector.
type Variant struct {
	Name   string
	Fields []Field
}

var (
	booleanSchema = &Schema{kind: KindBoolean}
	numberSchema  = &Schema{kind: KindNumber}
	stringSchema  = &Schema{kind: KindString}
	jsonSchema    = &Schema{kind: KindJSON}
)

// Boolean returns the boolean leaf schema.
func Boolean() *Schema { return booleanSchema }

// Number returns the float64 leaf schema.
func Number() *Schema { return numberSchema }

// String returns the string leaf schema.
func String() *Schema { return stringSchema }

// JSON returns the opaque passthrough schema.
func JSON() *Schema { return jsonSchema }

// MaybeUndefined allows the value to be absent (Undefined).
func MaybeUndefined(inner *Schema) *Schema {
	mustSchema(inner, "MaybeUndefined")
	return &Schema{kind: KindMaybeUndefined, inner: inner}
}

// MaybeNull allows the value to be nil.
func MaybeNull(inner *Schema) *Schema {
	mustSchema(inner, "MaybeNull")
	return &Schema{kind: KindMaybeNull, inner: inner}
}

// Array describes a homogeneous list.
func Array(elem *Schema) *Schema {
	mustSchema(elem, "Array")
	return &Schema{kind: KindArray, inner: elem}
}

// Object describes a record with a fixed field set. Field order is kept.
// Duplicate names panic.
func Object(fields ...Field) *Schema {
	s := &Schema{kind: KindObject, fields: append([]Field(nil), fields...)}
	s.index = indexFields(fields, "Object")
	return s
}

// Union describes a tagged variant record selected by the string field
// selector. The first variant is the default.
func Union(selector string, variants ...Variant) *Schema {
	if selector == "" {
		panic("docskema: Union requires a selector field name")
	}
	if len(variants) == 0 {
		panic("docskema: Union requires at least one variant")
	}
	seen := make(map[string]struct{}, len(variants))
	vs := make([]Variant, 0, len(variants))
	shapes := make([]*Schema, 0, len(variants))
	for _, v := range variants {
		if _, dup := seen[v.Name]; dup {
			panic(fmt.Sprintf("docskema: duplicate union variant %q", v.Name))
		}
		seen[v.Name] = struct{}{}
		fs := append([]Field(nil), v.Fields...)
		vs = append(vs, Variant{Name: v.Name, Fields: fs})
		shapes = append(shapes, &Schema{kind: KindObject, fields: fs, index: indexFields(fs, "Union variant "+v.Name)})
	}
	return &Schema{kind: KindUnion, selector: selector, variants: vs, shapes: shapes}
}

// Invariant presents a richer domain value over inner. from maps a decoded
// inner value to the domain value; to maps it back. Both must be pure.
func Invariant(from, to func(any) any, inner *Schema) *Schema {
	mustSchema(inner, "Invariant")
	if from == nil || to == nil {
		panic("docskema: Invariant requires both conversions")
	}
	return &Schema{kind: KindInvariant, inner: inner, from: from, to: to}
}

// Default recovers any decode failure of inner (including panics) to fallback.
func Default(fallback any, inner *Schema) *Schema {
	mustSchema(inner, "Default")
	return &Schema{kind: KindDefault, inner: inner, fallback: fallback}
}

// Recursive defers schema construction to thunk, enabling self-referential
// shapes. The thunk is forced on every use.
func Recursive(thunk func() *Schema) *Schema {
	if thunk == nil {
		panic("docskema: Recursive requires a thunk")
	}
	return &Schema{kind: KindRecursive, thunk: thunk}
}

func mustSchema(s *Schema, ctor string) {
	if s == nil {
		panic("docskema: " + ctor + " requires a non-nil schema")
	}
}

func indexFields(fields []Field, owner string) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		mustSchema(f.Schema, owner+" field "+f.Name)
		if _, dup := idx[f.Name]; dup {
			panic(fmt.Sprintf("docskema: duplicate field %q in %s", f.Name, owner))
		}
		idx[f.Name] = i
	}
	return idx
}

// Kind reports the node tag.
func (s *Schema) Kind() Kind { return s.kind }

// Inner returns the wrapped schema of MaybeUndefined, MaybeNull, Array,
// Invariant and Default nodes; nil otherwise.
func (s *Schema) Inner() *Schema { return s.inner }

// Fields returns the declared fields of an Object in declaration order.
func (s *Schema) Fields() []Field { return s.fields }

// Field looks up an Object field schema by name.
func (s *Schema) Field(name string) (*Schema, bool) {
	if s.kind != KindObject {
		return nil, false
	}
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[i].Schema, true
}

// Selector returns the Union selector field name.
func (s *Schema) Selector() string { return s.selector }

// Variants returns the Union variants in declaration order.
func (s *Schema) Variants() []Variant { return s.variants }

// Variant looks up a Union variant by name.
func (s *Schema) Variant(name string) (Variant, bool) {
	if i := s.variantIndex(name); i >= 0 {
		return s.variants[i], true
	}
	return Variant{}, false
}

// VariantShape returns the Object schema holding a variant's fields.
func (s *Schema) VariantShape(name string) (*Schema, bool) {
	if i := s.variantIndex(name); i >= 0 {
		return s.shapes[i], true
	}
	return nil, false
}

func (s *Schema) variantIndex(name string) int {
	for i, v := range s.variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// Fallback returns the configured value of a Default node.
func (s *Schema) Fallback() any { return s.fallback }

// Force evaluates a Recursive node's thunk. Other nodes return themselves.
func (s *Schema) Force() *Schema {
	if s.kind != KindRecursive {
		return s
	}
	next := s.thunk()
	if next == nil {
		panic("docskema: Recursive thunk returned nil")
	}
	return next
}

// Resolve forces Recursive nodes until a concrete kind is reached.
func (s *Schema) Resolve() *Schema {
	for s.kind == KindRecursive {
		s = s.Force()
	}
	return s
}
