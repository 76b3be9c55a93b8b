package dsl

import (
	docskema "github.com/reoring/docskema"
)

// Discriminator sets the selector key for a discriminated union.
func (b *objectBuilder) Discriminator(key string) *objectBuilder {
	b.discriminator = key
	return b
}

// UnionVariant defines a named variant for discriminated unions.
type UnionVariant struct {
	name   string
	schema *docskema.Schema
}

// Variant constructs a UnionVariant from an Object schema. A field named like
// the discriminator is dropped from the variant; the selector is managed by
// the union itself.
func Variant(name string, s *docskema.Schema) UnionVariant {
	return UnionVariant{name: name, schema: s}
}

// OneOf registers union variants when a discriminator is set.
func (b *objectBuilder) OneOf(vars ...UnionVariant) *objectBuilder {
	b.variants = append(b.variants, vars...)
	return b
}

func (b *objectBuilder) buildUnion() (*docskema.Schema, error) {
	if b.discriminator == "" {
		return nil, docskema.Issues{{Path: "/", Code: docskema.CodeDiscriminatorMissing, Message: "union variants require a discriminator"}}
	}
	if len(b.variants) == 0 {
		return nil, docskema.Issues{{Path: "/", Code: docskema.CodeParseError, Message: "discriminated union requires at least one variant"}}
	}
	seen := make(map[string]struct{}, len(b.variants))
	vs := make([]docskema.Variant, 0, len(b.variants))
	for _, v := range b.variants {
		if v.name == "" || v.schema == nil {
			return nil, docskema.Issues{{Path: "/", Code: docskema.CodeParseError, Message: "variant requires a name and a schema"}}
		}
		if _, dup := seen[v.name]; dup {
			return nil, docskema.Issues{{Path: "/", Code: docskema.CodeParseError, Message: "duplicate variant " + v.name}}
		}
		seen[v.name] = struct{}{}
		shape := v.schema.Resolve()
		if shape.Kind() != docskema.KindObject {
			return nil, docskema.Issues{{Path: "/", Code: docskema.CodeInvalidType, Message: "variant " + v.name + " must be an object schema"}}
		}
		fs := make([]docskema.Field, 0, len(shape.Fields()))
		for _, f := range shape.Fields() {
			if f.Name == b.discriminator {
				continue
			}
			fs = append(fs, f)
		}
		vs = append(vs, docskema.Variant{Name: v.name, Fields: fs})
	}
	return docskema.Union(b.discriminator, vs...), nil
}
