package schema

import (
	"github.com/wippyai/memlayout/endian"
)

// Builder collects field declarations for one record type.
//
//	point, err := schema.NewBuilder("Point").
//		Type("x", "uint16").
//		Type("y", "uint16").
//		Build()
type Builder struct {
	registry   *Registry
	err        error
	name       string
	decls      []Decl
	endianness endian.Endianness
	register   bool
}

// NewBuilder starts a record declaration. Type expressions resolve record
// names against the Default registry unless In is used.
func NewBuilder(name string) *Builder {
	return &Builder{name: name, registry: Default}
}

// In resolves type expressions against r and registers the built schema
// in r.
func (b *Builder) In(r *Registry) *Builder {
	b.registry = r
	b.register = true
	return b
}

// Field appends a field with an explicit type.
func (b *Builder) Field(name string, t TypeSpec) *Builder {
	b.decls = append(b.decls, Decl{Name: name, Type: t})
	return b
}

// Type appends a field whose type is given as a type expression such as
// "uint16", "string[10,2]" or "Point[2]".
func (b *Builder) Type(name, expr string) *Builder {
	t, err := ParseType(expr, b.registry)
	if err != nil && b.err == nil {
		b.err = err
	}
	return b.Field(name, t)
}

// Endianness sets the record's own byte order override. The override only
// applies to views constructed directly on this record.
func (b *Builder) Endianness(e endian.Endianness) *Builder {
	b.endianness = e
	return b
}

// Build compiles the declarations.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.register {
		return b.registry.Compile(b.name, b.decls, b.endianness)
	}
	return Compile(b.name, b.decls, b.endianness)
}

// MustBuild is like Build but panics on error. It is meant for
// package-level record declarations.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
