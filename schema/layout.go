package schema

import (
	"github.com/wippyai/memlayout/endian"
)

// LeafKind classifies a field for layout introspection.
type LeafKind string

const (
	LeafPrimitive LeafKind = "primitive"
	LeafString    LeafKind = "string"
	LeafComposite LeafKind = "composite"
)

// Layout is a read-only description of a record layout, for tools that
// render or inspect schemas.
type Layout struct {
	Name       string            `json:"name" yaml:"name"`
	Endianness endian.Endianness `json:"endianness" yaml:"endianness"`
	ByteOrder  endian.Endianness `json:"byte_order" yaml:"byte_order"`
	Format     string            `json:"format" yaml:"format"`
	Fields     []FieldLayout     `json:"fields" yaml:"fields"`
	Width      int               `json:"width" yaml:"width"`
	Offset     int               `json:"offset" yaml:"offset"`
}

// FieldLayout describes one field. Offset is absolute: it includes the
// Offset of the enclosing Layout.
type FieldLayout struct {
	Nested   *Layout  `json:"nested,omitempty" yaml:"nested,omitempty"`
	Name     string   `json:"name" yaml:"name"`
	Format   string   `json:"format" yaml:"format"`
	TypeName string   `json:"type" yaml:"type"`
	Kind     LeafKind `json:"kind" yaml:"kind"`
	Dims     []int    `json:"dims,omitempty" yaml:"dims,omitempty"`
	Offset   int      `json:"offset" yaml:"offset"`
	Width    int      `json:"width" yaml:"width"`
	Items    int      `json:"items" yaml:"items"`
}

// Describe returns the layout of s at offset 0 with the schema's own byte
// order. When nested is set, composite fields carry the layout of their
// record type.
func Describe(s *Schema, nested bool) *Layout {
	return DescribeAt(s, 0, s.Endianness, nested)
}

// DescribeAt returns the layout of s placed at offset with byte order e.
// Nested layouts inherit e.
func DescribeAt(s *Schema, offset int, e endian.Endianness, nested bool) *Layout {
	e = endian.Resolve(e, s.Endianness, endian.Unspecified, endian.Native)
	l := &Layout{
		Name:       s.Name,
		Endianness: e,
		ByteOrder:  e.Concrete(),
		Format:     s.Format,
		Width:      s.Width,
		Offset:     offset,
		Fields:     make([]FieldLayout, 0, len(s.Fields)),
	}
	for i := range s.Fields {
		f := &s.Fields[i]
		fl := FieldLayout{
			Name:     f.Name,
			Offset:   offset + f.Offset,
			Width:    f.Width,
			Format:   f.Type.Format(),
			TypeName: f.Type.String(),
			Items:    1,
		}
		if a, ok := f.Type.(Array); ok {
			fl.Items = a.Items()
			fl.Dims = append([]int(nil), a.Dims...)
		}
		switch leaf := Leaf(f.Type).(type) {
		case Primitive:
			fl.Kind = LeafPrimitive
		case FixedString:
			fl.Kind = LeafString
		case Composite:
			fl.Kind = LeafComposite
			if nested {
				fl.Nested = DescribeAt(leaf.Schema, fl.Offset, e, true)
			}
		}
		l.Fields = append(l.Fields, fl)
	}
	return l
}
