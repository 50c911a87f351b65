package schema

import (
	stderrors "errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/errors"
)

// RecordDecl is the declarative form of a record, as read from YAML:
//
//	name: Rect
//	endianness: LITTLE
//	fields:
//	  - {name: a, type: Point}
//	  - {name: b, type: Point}
//
// fields may also be a mapping of field name to type expression; mapping
// order is preserved.
type RecordDecl struct {
	Name       string      `yaml:"name"`
	Endianness string      `yaml:"endianness,omitempty"`
	Fields     []FieldDecl `yaml:"-"`
}

// FieldDecl is one declared field with a type expression.
type FieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type recordDoc struct {
	Name       string      `yaml:"name"`
	Endianness string      `yaml:"endianness"`
	Fields     yaml.Node   `yaml:"fields"`
	Records    []recordDoc `yaml:"records"`
}

// LoadYAML reads record declarations and compiles them into r in document
// order, so later records may reference earlier ones. The stream may hold
// one record per YAML document or a document with a records list.
func LoadYAML(in io.Reader, r *Registry) ([]*Schema, error) {
	decls, err := ParseYAML(in)
	if err != nil {
		return nil, err
	}
	out := make([]*Schema, 0, len(decls))
	for _, d := range decls {
		s, err := d.Compile(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ParseYAML decodes record declarations without compiling them.
func ParseYAML(in io.Reader) ([]RecordDecl, error) {
	dec := yaml.NewDecoder(in)
	var out []RecordDecl
	for {
		var doc recordDoc
		err := dec.Decode(&doc)
		if stderrors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, errors.ParseFailed("record declarations", err)
		}

		if len(doc.Records) > 0 {
			for i := range doc.Records {
				rd, err := doc.Records[i].decl()
				if err != nil {
					return nil, err
				}
				out = append(out, rd)
			}
			continue
		}
		if doc.Name == "" && doc.Fields.Kind == 0 {
			continue
		}
		rd, err := doc.decl()
		if err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
}

func (d *recordDoc) decl() (RecordDecl, error) {
	rd := RecordDecl{Name: d.Name, Endianness: d.Endianness}
	switch d.Fields.Kind {
	case 0:
	case yaml.SequenceNode:
		if err := d.Fields.Decode(&rd.Fields); err != nil {
			return rd, errors.ParseFailed(fmt.Sprintf("fields of %s", d.Name), err)
		}
	case yaml.MappingNode:
		content := d.Fields.Content
		for i := 0; i+1 < len(content); i += 2 {
			rd.Fields = append(rd.Fields, FieldDecl{Name: content[i].Value, Type: content[i+1].Value})
		}
	default:
		return rd, errors.SchemaDefinition(d.Name, nil, "fields must be a list or a mapping")
	}
	return rd, nil
}

// Compile resolves the type expressions against r and compiles the record
// into r.
func (d RecordDecl) Compile(r *Registry) (*Schema, error) {
	e := endian.Unspecified
	if d.Endianness != "" {
		var err error
		if e, err = endian.Parse(d.Endianness); err != nil {
			return nil, errors.New(errors.PhaseParse, errors.KindSchemaDefinition).
				Schema(d.Name).
				Detail("invalid endianness %q", d.Endianness).
				Cause(err).
				Build()
		}
	}

	b := NewBuilder(d.Name).In(r).Endianness(e)
	for _, f := range d.Fields {
		b.Type(f.Name, f.Type)
	}
	return b.Build()
}
