package dsl

import (
	docskema "github.com/reoring/docskema"
)

type objectBuilder struct {
	fields        []docskema.Field
	seen          map[string]struct{}
	discriminator string
	variants      []UnionVariant
	issues        docskema.Issues
}

// Object creates a new object builder. Chain Field calls, then Build or
// MustBuild. Calling Discriminator turns the builder into a union builder.
func Object() *objectBuilder {
	return &objectBuilder{seen: map[string]struct{}{}}
}

// Field registers a field. Declaration order is kept.
func (b *objectBuilder) Field(name string, s *docskema.Schema) *objectBuilder {
	switch {
	case name == "":
		b.issues = docskema.AppendIssues(b.issues, docskema.Issue{Path: "/", Code: docskema.CodeParseError, Message: "field name must not be empty"})
	case s == nil:
		b.issues = docskema.AppendIssues(b.issues, docskema.Issue{Path: "/" + name, Code: docskema.CodeParseError, Message: "field schema must not be nil"})
	default:
		if _, dup := b.seen[name]; dup {
			b.issues = docskema.AppendIssues(b.issues, docskema.Issue{Path: "/" + name, Code: docskema.CodeParseError, Message: "duplicate field"})
			return b
		}
		b.seen[name] = struct{}{}
		b.fields = append(b.fields, docskema.Field{Name: name, Schema: s})
	}
	return b
}

// Optional registers a field that may be absent (MaybeUndefined).
func (b *objectBuilder) Optional(name string, s *docskema.Schema) *objectBuilder {
	if s == nil {
		return b.Field(name, nil)
	}
	return b.Field(name, docskema.MaybeUndefined(s))
}

// Nullable registers a field that may be null (MaybeNull).
func (b *objectBuilder) Nullable(name string, s *docskema.Schema) *objectBuilder {
	if s == nil {
		return b.Field(name, nil)
	}
	return b.Field(name, docskema.MaybeNull(s))
}

// Build validates the builder and returns a Schema.
func (b *objectBuilder) Build() (*docskema.Schema, error) {
	if len(b.issues) > 0 {
		return nil, b.issues
	}
	if b.discriminator != "" || len(b.variants) > 0 {
		return b.buildUnion()
	}
	return docskema.Object(b.fields...), nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() *docskema.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
